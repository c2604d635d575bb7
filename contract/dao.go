package contract

import (
	"context"
	"errors"
	"sync"

	"franchise_dao/sdk"
)

// DAO is one governance core instance bound to a host. All operations are
// serialized; each one either commits all of its writes, payouts, calls and
// events, or none of them.
type DAO struct {
	mu   sync.Mutex
	host sdk.Host
}

// New validates the host bindings and returns a DAO. State and Env are
// required; Bank and Dispatcher are only needed by redeem and execute.
func New(host sdk.Host) (*DAO, error) {
	if host.State == nil {
		return nil, errors.New("contract: host state is required")
	}
	if host.Env == nil {
		return nil, errors.New("contract: host env is required")
	}
	return &DAO{host: host}, nil
}

// opCtx carries everything an operation needs while it runs.
type opCtx struct {
	ctx    context.Context
	env    sdk.Env
	st     *stagedState
	host   sdk.Host
	events []string
}

func (c *opCtx) caller() sdk.Address { return c.env.Sender }

func (c *opCtx) now() uint64 { return c.env.BlockHeight }

// activeConfig loads the config and rejects when governance is switched off.
func (c *opCtx) activeConfig() (*Config, error) {
	cfg, err := c.st.loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.State != StateActive {
		return nil, reject(ErrNotActive, "")
	}
	return cfg, nil
}

func (c *opCtx) requireBoardMember() error {
	ok, err := c.st.isBoardMember(c.caller())
	if err != nil {
		return err
	}
	if !ok {
		return reject(ErrUnauthorized, "only board members")
	}
	return nil
}

func (c *opCtx) requireOwner(cfg *Config) error {
	if cfg.Owner != c.caller() {
		return reject(ErrUnauthorized, "only owner")
	}
	return nil
}

func (d *DAO) newOp(ctx context.Context) (*opCtx, error) {
	env, err := d.host.Env.Env()
	if err != nil {
		return nil, err
	}
	env.Sender = env.Sender.Canonical()
	return &opCtx{ctx: ctx, env: env, st: newStagedState(d.host.State), host: d.host}, nil
}

// transactionals lists the distinct side-effecting collaborators that can stage.
func (d *DAO) transactionals() []sdk.Transactional {
	var out []sdk.Transactional
	for _, c := range []any{d.host.Bank, d.host.Dispatcher} {
		t, ok := c.(sdk.Transactional)
		if !ok || t == nil {
			continue
		}
		dup := false
		for _, seen := range out {
			if seen == t {
				dup = true
			}
		}
		if !dup {
			out = append(out, t)
		}
	}
	return out
}

// run executes a mutating operation as one atomic unit.
func (d *DAO) run(ctx context.Context, op string, fn func(c *opCtx) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	txs := d.transactionals()
	rollback := func() {
		for _, t := range txs {
			t.Rollback()
		}
	}
	// payments attached ahead of a rejected call must not carry over
	if err := ctx.Err(); err != nil {
		rollback()
		return asOpError(op, err)
	}
	c, err := d.newOp(ctx)
	if err != nil {
		rollback()
		return asOpError(op, err)
	}

	for _, t := range txs {
		t.Begin()
	}
	if err := fn(c); err != nil {
		rollback()
		return asOpError(op, err)
	}
	for _, t := range txs {
		s, ok := t.(sdk.Stager)
		if !ok {
			continue
		}
		sets, err := s.Stage()
		if err != nil {
			rollback()
			return asOpError(op, err)
		}
		for k, v := range sets {
			c.st.set(k, v)
		}
	}
	if err := c.st.commit(); err != nil {
		rollback()
		return asOpError(op, err)
	}
	for _, t := range txs {
		if err := t.Commit(); err != nil {
			return asOpError(op, err)
		}
	}
	if d.host.Events != nil {
		for _, ev := range c.events {
			d.host.Events.Log(ev)
		}
	}
	return nil
}

// view runs a read-only operation; staged writes are never committed.
func (d *DAO) view(ctx context.Context, op string, fn func(c *opCtx) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	c, err := d.newOp(ctx)
	if err != nil {
		return asOpError(op, err)
	}
	if err := fn(c); err != nil {
		return asOpError(op, err)
	}
	return nil
}
