package sdk

import (
	"context"
	"fmt"
	"sync"

	"github.com/holiman/uint256"
)

// MockHost is an in-process stand-in for the chain: it serves the env,
// records payouts and outbound calls, and collects events. Payouts and
// calls are staged between Begin and Commit like a real host would.
type MockHost struct {
	mu sync.Mutex

	Sender Address
	Height uint64
	Time   int64

	// FailCall, when set, decides whether a dispatched call fails.
	FailCall func(Call) error

	txSeq  uint64
	paid   map[Address]map[Asset]*uint256.Int
	calls  []Call
	events []string

	staging     bool
	stagedPaid  []transferRecord
	stagedCalls []Call
}

type transferRecord struct {
	to      Address
	payment Payment
}

// NewMockHost returns a host positioned at height 0 with no caller set.
func NewMockHost() *MockHost {
	return &MockHost{paid: map[Address]map[Asset]*uint256.Int{}}
}

// As switches the caller for the following operations and returns the host for chaining.
func (m *MockHost) As(sender Address) *MockHost {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sender = sender
	return m
}

// At moves the block height used as the contract clock.
func (m *MockHost) At(height uint64) *MockHost {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Height = height
	return m
}

func (m *MockHost) Env() (Env, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.txSeq++
	return Env{
		Sender:      m.Sender,
		TxId:        fmt.Sprintf("mock-tx-%d", m.txSeq),
		BlockHeight: m.Height,
		Timestamp:   m.Time,
	}, nil
}

func (m *MockHost) TransferTo(ctx context.Context, to Address, asset Asset, amount *uint256.Int) error {
	return m.TransferMultiTo(ctx, to, []Payment{{Asset: asset, Amount: amount}})
}

func (m *MockHost) TransferMultiTo(_ context.Context, to Address, payments []Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range payments {
		rec := transferRecord{to: to, payment: Payment{Asset: p.Asset, Amount: new(uint256.Int).Set(p.Amount)}}
		if m.staging {
			m.stagedPaid = append(m.stagedPaid, rec)
			continue
		}
		m.credit(rec)
	}
	return nil
}

func (m *MockHost) Call(_ context.Context, call Call) error {
	if m.FailCall != nil {
		if err := m.FailCall(call); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.staging {
		m.stagedCalls = append(m.stagedCalls, call)
		return nil
	}
	m.calls = append(m.calls, call)
	return nil
}

func (m *MockHost) Log(event string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

func (m *MockHost) Begin() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.staging = true
	m.stagedPaid = nil
	m.stagedCalls = nil
}

func (m *MockHost) Commit() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rec := range m.stagedPaid {
		m.credit(rec)
	}
	m.calls = append(m.calls, m.stagedCalls...)
	m.staging = false
	m.stagedPaid = nil
	m.stagedCalls = nil
	return nil
}

func (m *MockHost) Rollback() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.staging = false
	m.stagedPaid = nil
	m.stagedCalls = nil
}

// Paid returns how much of asset was paid out to addr so far.
func (m *MockHost) Paid(addr Address, asset Asset) *uint256.Int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if bal, ok := m.paid[addr][asset]; ok {
		return new(uint256.Int).Set(bal)
	}
	return new(uint256.Int)
}

// Calls returns a copy of the committed outbound calls.
func (m *MockHost) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}

// Events returns a copy of the committed event lines.
func (m *MockHost) Events() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.events...)
}

func (m *MockHost) credit(rec transferRecord) {
	byAsset, ok := m.paid[rec.to]
	if !ok {
		byAsset = map[Asset]*uint256.Int{}
		m.paid[rec.to] = byAsset
	}
	bal, ok := byAsset[rec.payment.Asset]
	if !ok {
		bal = new(uint256.Int)
		byAsset[rec.payment.Asset] = bal
	}
	bal.Add(bal, rec.payment.Amount)
}
