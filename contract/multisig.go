package contract

import (
	"context"

	"github.com/holiman/uint256"
	"github.com/samber/lo"

	"franchise_dao/sdk"
)

// ProposeAction opens a board action and signs it as the proposer. Action
// ids start at 1 and are never reused.
func (d *DAO) ProposeAction(ctx context.Context, action BoardAction) (uint64, error) {
	var id uint64
	err := d.run(ctx, "propose_action", func(c *opCtx) error {
		if action == nil {
			return reject(ErrInvalidArgument, "empty board action")
		}
		if err := c.requireBoardMember(); err != nil {
			return err
		}
		action = canonicalAction(action)
		if err := action.accept(&actionValidator{st: c.st}); err != nil {
			return err
		}
		last, err := c.st.getCount(ActionsCount)
		if err != nil {
			return err
		}
		id = last + 1
		c.st.setCount(ActionsCount, id)
		c.st.saveBoardAction(id, action)
		c.st.saveActionSigners(id, []sdk.Address{c.caller()})
		c.emitActionProposed(id, action)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (d *DAO) ProposeAddBoardMember(ctx context.Context, member sdk.Address) (uint64, error) {
	return d.ProposeAction(ctx, AddBoardMember{Member: member})
}

func (d *DAO) ProposeRemoveBoardMember(ctx context.Context, member sdk.Address) (uint64, error) {
	return d.ProposeAction(ctx, RemoveBoardMember{Member: member})
}

func (d *DAO) ProposeChangeBoardQuorum(ctx context.Context, quorum uint64) (uint64, error) {
	return d.ProposeAction(ctx, ChangeBoardQuorum{Quorum: quorum})
}

func (d *DAO) ProposeChangeQuorum(ctx context.Context, quorum *uint256.Int) (uint64, error) {
	return d.ProposeAction(ctx, ChangeQuorum{Quorum: quorum})
}

func (d *DAO) ProposeChangeVotingPeriod(ctx context.Context, period uint64) (uint64, error) {
	return d.ProposeAction(ctx, ChangeVotingPeriod{Period: period})
}

func (d *DAO) ProposeAddVotingToken(ctx context.Context, token sdk.Asset, weight *uint256.Int) (uint64, error) {
	return d.ProposeAction(ctx, AddVotingToken{Token: token, Weight: weight})
}

func (d *DAO) ProposeRemoveVotingToken(ctx context.Context, token sdk.Asset) (uint64, error) {
	return d.ProposeAction(ctx, RemoveVotingToken{Token: token})
}

func (d *DAO) ProposeChangeTaxAmount(ctx context.Context, amount *uint256.Int) (uint64, error) {
	return d.ProposeAction(ctx, ChangeTaxAmount{Amount: amount})
}

// Sign adds the caller to the signers of action id. Signing twice is a no-op.
func (d *DAO) Sign(ctx context.Context, id uint64) error {
	return d.updateSigners(ctx, "sign", id, true)
}

// Unsign removes the caller from the signers. Unsigning a non-signer is a no-op.
func (d *DAO) Unsign(ctx context.Context, id uint64) error {
	return d.updateSigners(ctx, "unsign", id, false)
}

func (d *DAO) updateSigners(ctx context.Context, op string, id uint64, add bool) error {
	return d.run(ctx, op, func(c *opCtx) error {
		if err := c.requireBoardMember(); err != nil {
			return err
		}
		if _, err := c.st.loadBoardAction(id); err != nil {
			return err
		}
		signers, err := c.st.actionSigners(id)
		if err != nil {
			return err
		}
		has := lo.Contains(signers, c.caller())
		switch {
		case add && !has:
			signers = append(signers, c.caller())
		case !add && has:
			signers = lo.Without(signers, c.caller())
		default:
			return nil
		}
		c.st.saveActionSigners(id, signers)
		c.emitActionSigned(id, add)
		return nil
	})
}

// DiscardAction clears an action nobody on the current board supports.
func (d *DAO) DiscardAction(ctx context.Context, id uint64) error {
	return d.run(ctx, "discard_action", func(c *opCtx) error {
		if err := c.requireBoardMember(); err != nil {
			return err
		}
		action, err := c.st.loadBoardAction(id)
		if err != nil {
			return err
		}
		valid, err := c.st.validSignerCount(id)
		if err != nil {
			return err
		}
		if valid > 0 {
			return reject(ErrInvalidArgument, "board action %d still has %d valid signers", id, valid)
		}
		c.closeAction(id, action, OutcomeDiscarded)
		return nil
	})
}

// PerformAction applies an action once its valid signers reach the board
// quorum. The slot is cleared before the change is applied.
func (d *DAO) PerformAction(ctx context.Context, id uint64) error {
	return d.run(ctx, "perform_action", func(c *opCtx) error {
		if err := c.requireBoardMember(); err != nil {
			return err
		}
		action, err := c.st.loadBoardAction(id)
		if err != nil {
			return err
		}
		cfg, err := c.st.loadConfig()
		if err != nil {
			return err
		}
		valid, err := c.st.validSignerCount(id)
		if err != nil {
			return err
		}
		if valid < cfg.BoardQuorum {
			return reject(ErrQuorumNotReached, "%d of %d signers", valid, cfg.BoardQuorum)
		}
		c.closeAction(id, action, OutcomeExecuted)
		if err := action.accept(&actionApplier{c: c, cfg: cfg}); err != nil {
			return err
		}
		c.st.saveConfig(cfg)
		return nil
	})
}

func (c *opCtx) closeAction(id uint64, action BoardAction, outcome ActionOutcomeKind) {
	c.st.clearAction(id)
	o := &ActionOutcome{
		ID:       id,
		Kind:     action.Kind(),
		Outcome:  outcome,
		ClosedBy: c.caller(),
		Height:   c.now(),
	}
	c.st.saveOutcome(o)
	c.emitActionClosed(o)
}

// canonicalAction normalizes member addresses carried by an action.
func canonicalAction(a BoardAction) BoardAction {
	switch v := a.(type) {
	case AddBoardMember:
		return AddBoardMember{Member: v.Member.Canonical()}
	case RemoveBoardMember:
		return RemoveBoardMember{Member: v.Member.Canonical()}
	}
	return a
}
