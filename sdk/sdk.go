package sdk

import (
	"context"

	"github.com/holiman/uint256"
)

// Env is the per-transaction snapshot the host hands to every operation.
type Env struct {
	Sender      Address
	TxId        string
	BlockHeight uint64
	Timestamp   int64
}

// EnvProvider resolves the environment of the transaction being executed.
// An error aborts the operation before it touches state.
type EnvProvider interface {
	Env() (Env, error)
}

// State is the key/value store backing the contract. Get returns nil when
// the key does not exist.
type State interface {
	Get(key string) (*string, error)
	Set(key, value string) error
	Delete(key string) error
}

// Batcher is implemented by stores that can apply a set of writes atomically.
type Batcher interface {
	ApplyBatch(sets map[string]string, deletes []string) error
}

// Bank moves assets out of the contract's custody.
type Bank interface {
	TransferTo(ctx context.Context, to Address, asset Asset, amount *uint256.Int) error
	TransferMultiTo(ctx context.Context, to Address, payments []Payment) error
}

// Call is one outbound invocation of another contract.
type Call struct {
	Target   Address
	Payment  *Payment
	Endpoint string
	Args     [][]byte
	GasLimit uint64
}

// Dispatcher performs outbound calls synchronously. A returned error aborts
// the operation that issued the call.
type Dispatcher interface {
	Call(ctx context.Context, call Call) error
}

// EventLog receives the terse event lines emitted by committed operations.
type EventLog interface {
	Log(event string)
}

// Transactional is implemented by side-effecting collaborators (bank,
// dispatcher) that can stage their effects until the operation commits.
type Transactional interface {
	Begin()
	Commit() error
	Rollback()
}

// Stager is a Transactional whose pending effects are plain writes to the
// host State. Stage hands them over so they land in the same batch as the
// contract's own writes; a Commit after Stage only clears the pending set.
type Stager interface {
	Transactional
	Stage() (map[string]string, error)
}

// Host bundles the collaborators a contract instance runs against.
type Host struct {
	State      State
	Env        EnvProvider
	Bank       Bank
	Dispatcher Dispatcher
	Events     EventLog
}
