package contract

import (
	"context"

	"github.com/pkg/errors"
)

// Execute dispatches the payload of a succeeded proposal and marks it
// executed. Any failing call aborts the whole execution.
func (d *DAO) Execute(ctx context.Context, id uint64) error {
	return d.run(ctx, "execute", func(c *opCtx) error {
		cfg, err := c.activeConfig()
		if err != nil {
			return err
		}
		p, err := c.st.loadProposal(id)
		if err != nil {
			return err
		}
		if st := Status(p, c.now(), cfg.VotingPeriod, cfg.Quorum); st != StatusSucceeded {
			return reject(ErrProposalNotSucceeded, "proposal %d is %s", id, st)
		}
		dispatcher := &payloadDispatcher{c: c}
		if err := p.Payload.acceptPayload(dispatcher); err != nil {
			return err
		}
		p.WasExecuted = true
		c.st.saveProposal(p)
		c.emitProposalExecuted(id, dispatcher.sent)
		return nil
	})
}

// payloadDispatcher sends each call of a payload in order.
type payloadDispatcher struct {
	c    *opCtx
	sent int
}

func (d *payloadDispatcher) visitNoActions() error { return nil }

func (d *payloadDispatcher) visitCalls(calls []Action) error {
	if d.c.host.Dispatcher == nil {
		return reject(ErrInvalidArgument, "host has no dispatcher")
	}
	for i, a := range calls {
		if err := d.c.host.Dispatcher.Call(d.c.ctx, a.call()); err != nil {
			return errors.Wrapf(err, "action %d (%s.%s)", i, a.Target, a.Endpoint)
		}
		d.sent++
	}
	return nil
}
