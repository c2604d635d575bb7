package storage_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"franchise_dao/contract"
	"franchise_dao/sdk"
	"franchise_dao/storage"
)

const custody sdk.Address = "contract:dao"

func balance(t *testing.T, l *storage.Ledger, addr sdk.Address, asset sdk.Asset) string {
	t.Helper()
	b, err := l.Balance(addr, asset)
	require.NoError(t, err)
	return b.Dec()
}

// TestLedgerAttachCommit checks attached deposits only move on commit.
func TestLedgerAttachCommit(t *testing.T) {
	l := storage.NewLedger(openStore(t, storage.KindMemory, 0), custody)
	require.NoError(t, l.Mint("hive:someone", sdk.AssetHive, uint256.NewInt(10)))

	require.NoError(t, l.Attach("hive:someone", sdk.Payment{Asset: sdk.AssetHive, Amount: uint256.NewInt(6)}))
	err := l.Attach("hive:someone", sdk.Payment{Asset: sdk.AssetHive, Amount: uint256.NewInt(5)})
	assert.True(t, errors.Is(err, storage.ErrInsufficientBalance), "pending attachments count against the balance")
	assert.Equal(t, "10", balance(t, l, "hive:someone", sdk.AssetHive))

	l.Begin()
	require.NoError(t, l.Commit())
	assert.Equal(t, "4", balance(t, l, "hive:someone", sdk.AssetHive))
	assert.Equal(t, "6", balance(t, l, custody, sdk.AssetHive))

	require.NoError(t, l.Attach("hive:someone", sdk.Payment{Asset: sdk.AssetHive, Amount: uint256.NewInt(4)}))
	l.Begin()
	l.Rollback()
	l.Begin()
	require.NoError(t, l.Commit())
	assert.Equal(t, "4", balance(t, l, "hive:someone", sdk.AssetHive), "rollback drops attachments")
}

// TestLedgerPayouts checks custody can never pay out more than it holds.
func TestLedgerPayouts(t *testing.T) {
	l := storage.NewLedger(openStore(t, storage.KindMemory, 0), custody)
	require.NoError(t, l.Mint(custody, sdk.AssetHbd, uint256.NewInt(5)))
	ctx := context.Background()

	l.Begin()
	require.NoError(t, l.TransferTo(ctx, "hive:a", sdk.AssetHbd, uint256.NewInt(3)))
	err := l.TransferTo(ctx, "hive:b", sdk.AssetHbd, uint256.NewInt(3))
	assert.True(t, errors.Is(err, storage.ErrInsufficientBalance))
	assert.Equal(t, "0", balance(t, l, "hive:a", sdk.AssetHbd), "staged until commit")
	require.NoError(t, l.Commit())
	assert.Equal(t, "3", balance(t, l, "hive:a", sdk.AssetHbd))
	assert.Equal(t, "2", balance(t, l, custody, sdk.AssetHbd))

	// outside a transaction transfers apply directly
	require.NoError(t, l.TransferMultiTo(ctx, "hive:b", []sdk.Payment{{Asset: sdk.AssetHbd, Amount: uint256.NewInt(2)}}))
	assert.Equal(t, "2", balance(t, l, "hive:b", sdk.AssetHbd))
	assert.Error(t, l.TransferTo(ctx, "hive:b", sdk.AssetHbd, new(uint256.Int)))
}

// TestOutboxRecordsCalls checks calls and their payments land together on commit.
func TestOutboxRecordsCalls(t *testing.T) {
	store := openStore(t, storage.KindBolt, 0)
	l := storage.NewLedger(store, custody)
	o := storage.NewOutbox(store, l)
	require.NoError(t, l.Mint(custody, sdk.AssetHive, uint256.NewInt(9)))
	ctx := context.Background()

	call := sdk.Call{
		Target:   "contract:treasury",
		Endpoint: "payout",
		Args:     [][]byte{{0xde, 0xad}},
		GasLimit: 100,
		Payment:  &sdk.Payment{Asset: sdk.AssetHive, Amount: uint256.NewInt(4)},
	}
	l.Begin()
	o.Begin()
	require.NoError(t, o.Call(ctx, call))
	o.Rollback()
	l.Rollback()
	entries, err := o.Entries()
	require.NoError(t, err)
	assert.Empty(t, entries)

	l.Begin()
	o.Begin()
	require.NoError(t, o.Call(ctx, call))
	require.NoError(t, o.Call(ctx, sdk.Call{Target: "contract:registry", Endpoint: "touch"}))
	require.NoError(t, l.Commit())
	require.NoError(t, o.Commit())

	entries, err = o.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, uint64(1), entries[0].Seq)
	assert.Equal(t, "0xdead", entries[0].Args[0].String())
	assert.Equal(t, "4", entries[0].PaymentAmount)
	assert.Equal(t, "touch", entries[1].Endpoint)
	assert.Equal(t, "4", balance(t, l, "contract:treasury", sdk.AssetHive))

	assert.Error(t, o.Call(ctx, sdk.Call{Target: "nowhere", Endpoint: "x"}))
}

// TestDAOOnLedger runs a full vote and execution against the ledger bank and
// the outbox dispatcher over leveldb.
func TestDAOOnLedger(t *testing.T) {
	store := openStore(t, storage.KindLevelDB, 32)
	ledger := storage.NewLedger(store, custody)
	outbox := storage.NewOutbox(store, ledger)
	host := sdk.NewMockHost()
	dao, err := contract.New(sdk.Host{State: store, Env: host, Bank: ledger, Dispatcher: outbox})
	require.NoError(t, err)
	ctx := context.Background()

	const owner, voter sdk.Address = "hive:owner", "hive:voter"
	require.NoError(t, ledger.Mint(voter, sdk.AssetHive, uint256.NewInt(1000)))
	require.NoError(t, ledger.Mint(custody, sdk.AssetHbd, uint256.NewInt(50)))

	host.As(owner)
	require.NoError(t, dao.Init(ctx, contract.InitArgs{
		GovernanceToken:   sdk.AssetHive,
		BoardMembers:      []sdk.Address{owner},
		BoardQuorum:       1,
		Quorum:            uint256.NewInt(5),
		VotingPeriod:      10,
		MinProposalAmount: uint256.NewInt(100),
		VotingMode:        contract.VotingQuadratic,
	}))
	require.NoError(t, dao.SetStateActive(ctx))

	// a rejected deposit must not leave custody
	host.As(voter)
	low := sdk.Payment{Asset: sdk.AssetHive, Amount: uint256.NewInt(50)}
	require.NoError(t, ledger.Attach(voter, low))
	_, err = dao.ProposeTokenVote(ctx, contract.ProposeArgs{Title: "x"}, &low)
	require.Error(t, err)
	assert.Equal(t, "1000", balance(t, ledger, voter, sdk.AssetHive))

	dep := sdk.Payment{Asset: sdk.AssetHive, Amount: uint256.NewInt(400)}
	require.NoError(t, ledger.Attach(voter, dep))
	id, err := dao.ProposeTokenVote(ctx, contract.ProposeArgs{
		Title: "grant",
		Actions: []contract.Action{{
			Target:        "contract:grantee",
			Endpoint:      "receive",
			PaymentAsset:  sdk.AssetHbd,
			PaymentAmount: uint256.NewInt(20),
		}},
	}, &dep)
	require.NoError(t, err)
	assert.Equal(t, "600", balance(t, ledger, voter, sdk.AssetHive))
	assert.Equal(t, "400", balance(t, ledger, custody, sdk.AssetHive))

	host.At(10)
	require.NoError(t, dao.Execute(ctx, id))
	entries, err := outbox.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "20", balance(t, ledger, "contract:grantee", sdk.AssetHbd))

	require.NoError(t, dao.Redeem(ctx, id))
	assert.Equal(t, "1000", balance(t, ledger, voter, sdk.AssetHive))
	assert.Equal(t, "0", balance(t, ledger, custody, sdk.AssetHive))
}

// batchRecorder records every batch reaching the store and can fail them.
type batchRecorder struct {
	storage.Store
	batches [][]string
	fail    error
}

func (b *batchRecorder) ApplyBatch(sets map[string]string, deletes []string) error {
	if b.fail != nil {
		return b.fail
	}
	keys := make([]string, 0, len(sets))
	for k := range sets {
		keys = append(keys, k)
	}
	b.batches = append(b.batches, keys)
	return b.Store.ApplyBatch(sets, deletes)
}

func ledgerDAO(t *testing.T) (*contract.DAO, *storage.Ledger, *batchRecorder, *sdk.MockHost) {
	t.Helper()
	rec := &batchRecorder{Store: openStore(t, storage.KindMemory, 0)}
	ledger := storage.NewLedger(rec, custody)
	outbox := storage.NewOutbox(rec, ledger)
	host := sdk.NewMockHost().As("hive:owner")
	dao, err := contract.New(sdk.Host{State: rec, Env: host, Bank: ledger, Dispatcher: outbox})
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, dao.Init(ctx, contract.InitArgs{
		GovernanceToken:   sdk.AssetHive,
		BoardMembers:      []sdk.Address{"hive:owner"},
		BoardQuorum:       1,
		Quorum:            uint256.NewInt(5),
		VotingPeriod:      10,
		MinProposalAmount: uint256.NewInt(100),
		VotingMode:        contract.VotingQuadratic,
	}))
	require.NoError(t, dao.SetStateActive(ctx))
	require.NoError(t, ledger.Mint("hive:voter", sdk.AssetHive, uint256.NewInt(1000)))
	return dao, ledger, rec, host
}

// TestDAOLedgerSingleBatch checks escrow moves and contract writes land in
// one batch, so a failing batch leaves neither behind.
func TestDAOLedgerSingleBatch(t *testing.T) {
	dao, ledger, rec, host := ledgerDAO(t)
	ctx := context.Background()
	host.As("hive:voter")
	dep := sdk.Payment{Asset: sdk.AssetHive, Amount: uint256.NewInt(400)}

	require.NoError(t, ledger.Attach("hive:voter", dep))
	rec.fail = errors.New("disk full")
	_, err := dao.ProposeTokenVote(ctx, contract.ProposeArgs{Title: "grant"}, &dep)
	require.Error(t, err)
	rec.fail = nil

	assert.Equal(t, "1000", balance(t, ledger, "hive:voter", sdk.AssetHive))
	assert.Equal(t, "0", balance(t, ledger, custody, sdk.AssetHive))
	_, err = dao.Proposal(ctx, 0)
	assert.True(t, errors.Is(err, contract.ErrNotFound))

	rec.batches = nil
	require.NoError(t, ledger.Attach("hive:voter", dep))
	id, err := dao.ProposeTokenVote(ctx, contract.ProposeArgs{Title: "grant"}, &dep)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), id)
	assert.Equal(t, "600", balance(t, ledger, "hive:voter", sdk.AssetHive), "the failed deposit was dropped")
	assert.Equal(t, "400", balance(t, ledger, custody, sdk.AssetHive))

	require.Len(t, rec.batches, 1)
	var ledgerKeys, contractKeys int
	for _, k := range rec.batches[0] {
		if strings.HasPrefix(k, "ledger:") {
			ledgerKeys++
		} else {
			contractKeys++
		}
	}
	assert.Equal(t, 2, ledgerKeys)
	assert.NotZero(t, contractKeys)
}

// TestDAOCancelledDropsAttached checks a deposit attached to a call that never
// ran does not move with the next operation.
func TestDAOCancelledDropsAttached(t *testing.T) {
	dao, ledger, _, host := ledgerDAO(t)
	dep := sdk.Payment{Asset: sdk.AssetHive, Amount: uint256.NewInt(400)}

	host.As("hive:voter")
	require.NoError(t, ledger.Attach("hive:voter", dep))
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := dao.ProposeTokenVote(cancelled, contract.ProposeArgs{Title: "grant"}, &dep)
	require.True(t, errors.Is(err, context.Canceled))

	host.As("hive:owner")
	require.NoError(t, dao.SetQuorum(context.Background(), uint256.NewInt(7)))
	assert.Equal(t, "1000", balance(t, ledger, "hive:voter", sdk.AssetHive))
	assert.Equal(t, "0", balance(t, ledger, custody, sdk.AssetHive))
}

// TestLedgerStage checks staged moves are handed out once and not reapplied.
func TestLedgerStage(t *testing.T) {
	store := openStore(t, storage.KindMemory, 0)
	l := storage.NewLedger(store, custody)
	require.NoError(t, l.Mint("hive:a", sdk.AssetHbd, uint256.NewInt(5)))

	l.Begin()
	require.NoError(t, l.Attach("hive:a", sdk.Payment{Asset: sdk.AssetHbd, Amount: uint256.NewInt(2)}))
	sets, err := l.Stage()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"ledger:hive:a|hbd":       "3",
		"ledger:contract:dao|hbd": "2",
	}, sets)
	require.NoError(t, l.Commit())
	assert.Equal(t, "5", balance(t, l, "hive:a", sdk.AssetHbd), "the caller persists staged writes")
}
