package contract

import (
	"context"

	"github.com/holiman/uint256"
	"github.com/samber/lo"

	"franchise_dao/sdk"
)

// Upvote deposits payment in favour of proposal id.
func (d *DAO) Upvote(ctx context.Context, id uint64, payment sdk.Payment) error {
	return d.castVote(ctx, "upvote", id, VoteUp, payment)
}

// Downvote deposits payment against proposal id.
func (d *DAO) Downvote(ctx context.Context, id uint64, payment sdk.Payment) error {
	return d.castVote(ctx, "downvote", id, VoteDown, payment)
}

func (d *DAO) castVote(ctx context.Context, op string, id uint64, dir VoteDirection, payment sdk.Payment) error {
	return d.run(ctx, op, func(c *opCtx) error {
		cfg, err := c.activeConfig()
		if err != nil {
			return err
		}
		p, err := c.st.loadProposal(id)
		if err != nil {
			return err
		}
		if st := Status(p, c.now(), cfg.VotingPeriod, cfg.Quorum); st != StatusActive {
			return reject(ErrNotInVotingWindow, "proposal %d is %s", id, st)
		}
		if err := c.recordVote(cfg, p, dir, payment); err != nil {
			return err
		}
		c.st.saveProposal(p)
		return nil
	})
}

// acceptedWeight resolves the weight of a deposited asset under the current
// voting mode, or nil when the asset cannot vote.
func (c *opCtx) acceptedWeight(cfg *Config, asset sdk.Asset) (*uint256.Int, error) {
	if cfg.VotingMode == VotingLinear {
		if asset != cfg.GovernanceToken {
			return nil, nil
		}
		return ONE, nil
	}
	// only listed tokens vote, the governance token included
	return c.st.tokenWeight(asset)
}

// recordVote applies a deposit to the tally, the voter indices and the
// escrow. It does not check the voting window; callers do.
func (c *opCtx) recordVote(cfg *Config, p *Proposal, dir VoteDirection, payment sdk.Payment) error {
	if payment.IsZero() {
		return reject(ErrInvalidPayment, "zero amount")
	}
	weight, err := c.acceptedWeight(cfg, payment.Asset)
	if err != nil {
		return err
	}
	if weight == nil {
		return reject(ErrInvalidPayment, "%q is not a voting token", payment.Asset)
	}
	inc, ok := voteIncrement(cfg.VotingMode, payment.Amount, weight)
	if !ok {
		return reject(ErrInvalidPayment, "vote weight overflow")
	}

	tally := &p.Upvotes
	if dir == VoteDown {
		tally = &p.Downvotes
	}
	sum, overflow := new(uint256.Int).AddOverflow(orZero(*tally), inc)
	if overflow {
		return reject(ErrInvalidPayment, "tally overflow")
	}
	*tally = sum

	voter := c.caller()
	if err := c.st.indexVote(p.ID, voter); err != nil {
		return err
	}
	lines, err := c.st.loadEscrow(p.ID, voter)
	if err != nil {
		return err
	}
	lines, ok = mergeEscrow(lines, payment)
	if !ok {
		return reject(ErrInvalidPayment, "escrow overflow")
	}
	c.st.saveEscrow(p.ID, voter, lines)
	c.emitVoteCast(p.ID, dir, payment, inc)
	return nil
}

// mergeEscrow adds payment into the line of the same asset, appending a new
// line when the asset is not escrowed yet.
func mergeEscrow(lines []sdk.Payment, payment sdk.Payment) ([]sdk.Payment, bool) {
	_, idx, found := lo.FindIndexOf(lines, func(l sdk.Payment) bool { return l.Asset == payment.Asset })
	if !found {
		return append(lines, sdk.Payment{Asset: payment.Asset, Amount: clone(payment.Amount)}), true
	}
	sum, overflow := new(uint256.Int).AddOverflow(lines[idx].Amount, payment.Amount)
	if overflow {
		return lines, false
	}
	lines[idx].Amount = sum
	return lines, true
}

// Redeem returns every escrowed deposit of the caller once voting on the
// proposal has concluded. A second call fails with ErrNothingToRedeem.
func (d *DAO) Redeem(ctx context.Context, id uint64) error {
	return d.run(ctx, "redeem", func(c *opCtx) error {
		cfg, err := c.st.loadConfig()
		if err != nil {
			return err
		}
		p, err := c.st.loadProposal(id)
		if err != nil {
			return err
		}
		if st := Status(p, c.now(), cfg.VotingPeriod, cfg.Quorum); !st.votingConcluded() {
			return reject(ErrVotingNotConcluded, "proposal %d is %s", id, st)
		}
		voter := c.caller()
		lines, err := c.st.loadEscrow(id, voter)
		if err != nil {
			return err
		}
		lines = lo.Filter(lines, func(l sdk.Payment, _ int) bool { return !l.IsZero() })
		if len(lines) == 0 {
			return reject(ErrNothingToRedeem, "")
		}
		if c.host.Bank == nil {
			return reject(ErrInvalidArgument, "host has no bank")
		}

		c.st.saveEscrow(id, voter, nil)
		if err := c.st.unindexVote(id, voter); err != nil {
			return err
		}
		if err := c.host.Bank.TransferMultiTo(c.ctx, voter, lines); err != nil {
			return err
		}
		c.emitRedeemed(id, len(lines))
		return nil
	})
}
