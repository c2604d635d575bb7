package contract_test

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

const (
	ownerAddress sdk.Address = "hive:tibfox"
	memberA      sdk.Address = "hive:alice"
	memberB      sdk.Address = "hive:bob"
	memberC      sdk.Address = "hive:carol"
	someone      sdk.Address = "hive:someone"
	someoneElse  sdk.Address = "hive:someoneelse"

	govToken sdk.Asset = sdk.AssetHive
	hbd      sdk.Asset = sdk.AssetHbd
)

// testDAO bundles a DAO with the mock host and the in-memory state behind it.
type testDAO struct {
	*contract.DAO
	host  *sdk.MockHost
	state *storage.Memory
	ctx   context.Context
}

// defaultInitArgs is a quadratic, deposit gated DAO with a three member board.
func defaultInitArgs() contract.InitArgs {
	return contract.InitArgs{
		GovernanceToken:   govToken,
		BoardMembers:      []sdk.Address{memberA, memberB, memberC},
		BoardQuorum:       2,
		Quorum:            uint256.NewInt(2),
		VotingPeriod:      100,
		MinProposalAmount: uint256.NewInt(1),
		TaxAmount:         uint256.NewInt(1),
		VotingTokens:      []contract.VotingToken{{Asset: govToken, Weight: contract.ONE}},
		VotingMode:        contract.VotingQuadratic,
		ProposalGate:      contract.GateDeposit,
	}
}

// setupDAO initializes and activates a DAO as the owner at height 0.
// mutate, when set, adjusts the init arguments first.
func setupDAO(t *testing.T, mutate func(*contract.InitArgs)) *testDAO {
	t.Helper()
	state, err := storage.NewMemory("")
	require.NoError(t, err)
	host := sdk.NewMockHost()
	dao, err := contract.New(sdk.Host{
		State:      state,
		Env:        host,
		Bank:       host,
		Dispatcher: host,
		Events:     host,
	})
	require.NoError(t, err)

	td := &testDAO{DAO: dao, host: host, state: state, ctx: context.Background()}
	args := defaultInitArgs()
	if mutate != nil {
		mutate(&args)
	}
	host.As(ownerAddress).At(0)
	require.NoError(t, dao.Init(td.ctx, args))
	require.NoError(t, dao.SetStateActive(td.ctx))
	return td
}

// as switches the caller and returns the DAO for chaining.
func (td *testDAO) as(addr sdk.Address) *testDAO {
	td.host.As(addr)
	return td
}

func (td *testDAO) at(height uint64) *testDAO {
	td.host.At(height)
	return td
}

func amount(n uint64) *uint256.Int { return uint256.NewInt(n) }

func pay(n uint64) sdk.Payment { return sdk.Payment{Asset: govToken, Amount: amount(n)} }

func payIn(asset sdk.Asset, n uint64) sdk.Payment {
	return sdk.Payment{Asset: asset, Amount: amount(n)}
}

// propose creates a proposal as caller with the given deposit and asserts success.
func (td *testDAO) propose(t *testing.T, caller sdk.Address, deposit uint64, actions ...contract.Action) uint64 {
	t.Helper()
	var p *sdk.Payment
	if deposit > 0 {
		dp := pay(deposit)
		p = &dp
	}
	id, err := td.as(caller).ProposeTokenVote(td.ctx, contract.ProposeArgs{
		Title:       "upgrade node infra",
		Description: "upgrade description",
		Actions:     actions,
	}, p)
	require.NoError(t, err)
	return id
}

func (td *testDAO) status(t *testing.T, id uint64) contract.ProposalStatus {
	t.Helper()
	s, err := td.ProposalStatus(td.ctx, id)
	require.NoError(t, err)
	return s
}

func (td *testDAO) config(t *testing.T) contract.Config {
	t.Helper()
	cfg, err := td.Config(td.ctx)
	require.NoError(t, err)
	return cfg
}

func (td *testDAO) validSigners(t *testing.T, id uint64) uint64 {
	t.Helper()
	n, err := td.ValidSignerCount(td.ctx, id)
	require.NoError(t, err)
	return n
}

// countEvents counts committed event lines starting with prefix.
func (td *testDAO) countEvents(prefix string) int {
	n := 0
	for _, ev := range td.host.Events() {
		if strings.HasPrefix(ev, prefix) {
			n++
		}
	}
	return n
}

// assertRejected checks err unwraps to want and carries the operation name.
func assertRejected(t *testing.T, err error, want error, op string) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errors.Is(err, want), "expected %v, got %v", want, err)
	var ce *contract.Error
	if assert.True(t, errors.As(err, &ce), "expected *contract.Error, got %T", err) && op != "" {
		assert.Equal(t, op, ce.Op)
	}
}

func sampleCall(endpoint string) contract.Action {
	return contract.Action{
		GasLimit: 50_000,
		Target:   "contract:treasury",
		Endpoint: endpoint,
		Args:     [][]byte{[]byte("a"), {0x01, 0x02}},
	}
}
