package storage

import (
	"context"
	"sync"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"franchise_dao/sdk"
)

const ledgerPrefix = "ledger:"

// ErrInsufficientBalance is returned when a move would overdraw an account.
var ErrInsufficientBalance = errors.New("insufficient balance")

// Ledger is the asset ledger of the command line host. Holders fund their
// accounts with Mint, Attach moves a payment into contract custody as part
// of the next operation, and the contract pays out through TransferTo.
// Moves are staged between Begin and Commit.
type Ledger struct {
	mu      sync.Mutex
	store   Store
	custody sdk.Address

	staging  bool
	prepared bool
	attached []move
	staged   []move
}

type move struct {
	from, to sdk.Address
	asset    sdk.Asset
	amount   *uint256.Int
}

// NewLedger keeps balances in store; custody is the contract's own account.
func NewLedger(store Store, custody sdk.Address) *Ledger {
	return &Ledger{store: store, custody: custody}
}

func balanceKey(addr sdk.Address, asset sdk.Asset) string {
	return ledgerPrefix + addr.String() + "|" + asset.String()
}

// Custody returns the account holding escrowed deposits.
func (l *Ledger) Custody() sdk.Address { return l.custody }

// Balance returns the committed balance of addr in asset.
func (l *Ledger) Balance(addr sdk.Address, asset sdk.Asset) (*uint256.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stored(addr, asset)
}

// Mint credits addr out of thin air. It only exists to fund local runs.
func (l *Ledger) Mint(addr sdk.Address, asset sdk.Asset, amount *uint256.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	bal, err := l.stored(addr, asset)
	if err != nil {
		return err
	}
	sum, overflow := new(uint256.Int).AddOverflow(bal, amount)
	if overflow {
		return errors.New("balance overflow")
	}
	return l.store.Set(balanceKey(addr, asset), sum.Dec())
}

// Attach queues a deposit from holder into custody. It is applied by the
// next Commit and dropped by Rollback.
func (l *Ledger) Attach(from sdk.Address, p sdk.Payment) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	m := move{from: from, to: l.custody, asset: p.Asset, amount: p.Amount}
	if err := l.check(m); err != nil {
		return err
	}
	l.attached = append(l.attached, m)
	return nil
}

func (l *Ledger) TransferTo(ctx context.Context, to sdk.Address, asset sdk.Asset, amount *uint256.Int) error {
	return l.TransferMultiTo(ctx, to, []sdk.Payment{{Asset: asset, Amount: amount}})
}

func (l *Ledger) TransferMultiTo(_ context.Context, to sdk.Address, payments []sdk.Payment) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, p := range payments {
		m := move{from: l.custody, to: to, asset: p.Asset, amount: p.Amount}
		if err := l.check(m); err != nil {
			return err
		}
		if l.staging {
			l.staged = append(l.staged, m)
			continue
		}
		if err := l.apply([]move{m}); err != nil {
			return err
		}
	}
	return nil
}

func (l *Ledger) Begin() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.staging, l.prepared = true, false
	l.staged = nil
}

// Stage returns the balance writes of the pending moves. The caller persists
// them; the following Commit only forgets the moves.
func (l *Ledger) Stage() (map[string]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	sets, err := l.writes(l.pending())
	if err != nil {
		return nil, err
	}
	l.prepared = true
	return sets, nil
}

func (l *Ledger) Commit() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	moves, prepared := l.pending(), l.prepared
	l.reset()
	if prepared {
		return nil
	}
	return l.apply(moves)
}

func (l *Ledger) Rollback() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reset()
}

func (l *Ledger) pending() []move {
	return append(append([]move(nil), l.attached...), l.staged...)
}

func (l *Ledger) reset() {
	l.staging, l.prepared = false, false
	l.staged, l.attached = nil, nil
}

func (l *Ledger) stored(addr sdk.Address, asset sdk.Asset) (*uint256.Int, error) {
	v, err := l.store.Get(balanceKey(addr, asset))
	if err != nil || v == nil {
		return new(uint256.Int), err
	}
	bal, err := uint256.FromDecimal(*v)
	if err != nil {
		return nil, errors.Wrapf(err, "balance %s/%s", addr, asset)
	}
	return bal, nil
}

// projected is the balance after every pending move.
func (l *Ledger) projected(addr sdk.Address, asset sdk.Asset) (*uint256.Int, error) {
	bal, err := l.stored(addr, asset)
	if err != nil {
		return nil, err
	}
	for _, m := range l.pending() {
		if m.asset != asset {
			continue
		}
		if m.to == addr {
			bal = new(uint256.Int).Add(bal, m.amount)
		}
		if m.from == addr {
			bal = new(uint256.Int).Sub(bal, m.amount)
		}
	}
	return bal, nil
}

func (l *Ledger) check(m move) error {
	if m.amount == nil || m.amount.IsZero() {
		return errors.New("zero amount")
	}
	bal, err := l.projected(m.from, m.asset)
	if err != nil {
		return err
	}
	if bal.Lt(m.amount) {
		return errors.Wrapf(ErrInsufficientBalance, "%s has %s %s, needs %s", m.from, bal.Dec(), m.asset, m.amount.Dec())
	}
	return nil
}

// apply writes the net effect of moves in one batch.
func (l *Ledger) apply(moves []move) error {
	sets, err := l.writes(moves)
	if err != nil || len(sets) == 0 {
		return err
	}
	return l.store.ApplyBatch(sets, nil)
}

// writes computes the resulting balances of moves without persisting them.
func (l *Ledger) writes(moves []move) (map[string]string, error) {
	if len(moves) == 0 {
		return nil, nil
	}
	balances := map[string]*uint256.Int{}
	load := func(addr sdk.Address, asset sdk.Asset) (*uint256.Int, error) {
		k := balanceKey(addr, asset)
		if b, ok := balances[k]; ok {
			return b, nil
		}
		b, err := l.stored(addr, asset)
		if err != nil {
			return nil, err
		}
		balances[k] = b
		return b, nil
	}
	for _, m := range moves {
		from, err := load(m.from, m.asset)
		if err != nil {
			return nil, err
		}
		if from.Lt(m.amount) {
			return nil, errors.Wrapf(ErrInsufficientBalance, "%s %s", m.from, m.asset)
		}
		from.Sub(from, m.amount)
		to, err := load(m.to, m.asset)
		if err != nil {
			return nil, err
		}
		to.Add(to, m.amount)
	}
	sets := make(map[string]string, len(balances))
	for k, b := range balances {
		sets[k] = b.Dec()
	}
	return sets, nil
}
