package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"

	"franchise_dao/sdk"
)

const (
	outboxPrefix   = "outbox:"
	outboxCountKey = "outbox:count"
)

// OutboxEntry is one dispatched call as recorded by the command line host.
type OutboxEntry struct {
	Seq           uint64          `json:"seq"`
	Target        sdk.Address     `json:"target"`
	Endpoint      string          `json:"endpoint"`
	Args          []hexutil.Bytes `json:"args"`
	GasLimit      uint64          `json:"gas_limit"`
	PaymentAsset  sdk.Asset       `json:"payment_asset,omitempty"`
	PaymentAmount string          `json:"payment_amount,omitempty"`
}

// Outbox is the dispatcher of the command line host: there is no chain to
// call into, so calls are appended to a persistent outbox instead. Attached
// payments move out of custody through the ledger.
type Outbox struct {
	mu     sync.Mutex
	store  Store
	ledger *Ledger

	staging  bool
	prepared bool
	staged   []sdk.Call
}

func NewOutbox(store Store, ledger *Ledger) *Outbox {
	return &Outbox{store: store, ledger: ledger}
}

func (o *Outbox) Call(ctx context.Context, call sdk.Call) error {
	if !call.Target.IsValid() {
		return errors.Errorf("invalid call target %q", call.Target)
	}
	if call.Payment != nil && !call.Payment.IsZero() {
		if o.ledger == nil {
			return errors.New("outbox has no ledger for call payments")
		}
		if err := o.ledger.TransferTo(ctx, call.Target, call.Payment.Asset, call.Payment.Amount); err != nil {
			return errors.Wrap(err, "call payment")
		}
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.staging {
		o.staged = append(o.staged, call)
		return nil
	}
	return o.append([]sdk.Call{call})
}

func (o *Outbox) Begin() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.staging, o.prepared = true, false
	o.staged = nil
}

// Stage returns the entry writes of the staged calls for the caller to persist.
func (o *Outbox) Stage() (map[string]string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	sets, err := o.entries(o.staged)
	if err != nil {
		return nil, err
	}
	o.prepared = true
	return sets, nil
}

func (o *Outbox) Commit() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	calls, prepared := o.staged, o.prepared
	o.staging, o.prepared, o.staged = false, false, nil
	if prepared {
		return nil
	}
	return o.append(calls)
}

func (o *Outbox) Rollback() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.staging, o.prepared, o.staged = false, false, nil
}

// Entries returns every recorded call in dispatch order.
func (o *Outbox) Entries() ([]OutboxEntry, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	n, err := o.count()
	if err != nil {
		return nil, err
	}
	out := make([]OutboxEntry, 0, n)
	for seq := uint64(1); seq <= n; seq++ {
		v, err := o.store.Get(outboxKey(seq))
		if err != nil {
			return nil, err
		}
		if v == nil {
			continue
		}
		var e OutboxEntry
		if err := json.Unmarshal([]byte(*v), &e); err != nil {
			return nil, errors.Wrapf(err, "outbox entry %d", seq)
		}
		out = append(out, e)
	}
	return out, nil
}

func (o *Outbox) append(calls []sdk.Call) error {
	sets, err := o.entries(calls)
	if err != nil || len(sets) == 0 {
		return err
	}
	return o.store.ApplyBatch(sets, nil)
}

// entries encodes calls as the next outbox records plus the new count.
func (o *Outbox) entries(calls []sdk.Call) (map[string]string, error) {
	if len(calls) == 0 {
		return nil, nil
	}
	n, err := o.count()
	if err != nil {
		return nil, err
	}
	sets := map[string]string{}
	for _, c := range calls {
		n++
		e := OutboxEntry{
			Seq:      n,
			Target:   c.Target,
			Endpoint: c.Endpoint,
			GasLimit: c.GasLimit,
		}
		for _, a := range c.Args {
			e.Args = append(e.Args, hexutil.Bytes(a))
		}
		if c.Payment != nil && !c.Payment.IsZero() {
			e.PaymentAsset = c.Payment.Asset
			e.PaymentAmount = c.Payment.Amount.Dec()
		}
		raw, err := json.Marshal(e)
		if err != nil {
			return nil, errors.Wrap(err, "encode outbox entry")
		}
		sets[outboxKey(n)] = string(raw)
	}
	sets[outboxCountKey] = strconv.FormatUint(n, 10)
	return sets, nil
}

func (o *Outbox) count() (uint64, error) {
	v, err := o.store.Get(outboxCountKey)
	if err != nil || v == nil {
		return 0, err
	}
	return strconv.ParseUint(*v, 10, 64)
}

func outboxKey(seq uint64) string {
	return fmt.Sprintf("%s%020d", outboxPrefix, seq)
}
