package contract

import (
	"context"

	"github.com/holiman/uint256"

	"franchise_dao/sdk"
)

// Every read of a proposal refreshes its status against the current height.

func (d *DAO) Config(ctx context.Context) (Config, error) {
	var cfg Config
	err := d.view(ctx, "config", func(c *opCtx) error {
		loaded, err := c.st.loadConfig()
		if err != nil {
			return err
		}
		cfg = *loaded
		return nil
	})
	return cfg, err
}

func (d *DAO) Proposal(ctx context.Context, id uint64) (Proposal, error) {
	var out Proposal
	err := d.view(ctx, "proposal", func(c *opCtx) error {
		cfg, err := c.st.loadConfig()
		if err != nil {
			return err
		}
		p, err := c.st.loadProposal(id)
		if err != nil {
			return err
		}
		p.Status = Status(p, c.now(), cfg.VotingPeriod, cfg.Quorum)
		out = *p
		return nil
	})
	return out, err
}

func (d *DAO) ProposalStatus(ctx context.Context, id uint64) (ProposalStatus, error) {
	p, err := d.Proposal(ctx, id)
	if err != nil {
		return StatusPending, err
	}
	return p.Status, nil
}

// ProposalsCount counts proposals, optionally only those in status filter.
func (d *DAO) ProposalsCount(ctx context.Context, filter *ProposalStatus) (uint64, error) {
	var n uint64
	err := d.view(ctx, "proposals_count", func(c *opCtx) error {
		return c.eachProposal(filter, func(*Proposal) bool {
			n++
			return true
		})
	})
	return n, err
}

// Proposals pages through the proposals matching filter. from and to are
// inclusive positions among the matches, not proposal ids.
func (d *DAO) Proposals(ctx context.Context, from, to uint64, filter *ProposalStatus) ([]Proposal, error) {
	var out []Proposal
	err := d.view(ctx, "proposals", func(c *opCtx) error {
		var pos uint64
		return c.eachProposal(filter, func(p *Proposal) bool {
			if pos >= from && pos <= to {
				out = append(out, *p)
			}
			pos++
			return pos <= to
		})
	})
	return out, err
}

func (c *opCtx) eachProposal(filter *ProposalStatus, fn func(p *Proposal) bool) error {
	cfg, err := c.st.loadConfig()
	if err != nil {
		return err
	}
	count, err := c.st.getCount(ProposalsCount)
	if err != nil {
		return err
	}
	for id := uint64(0); id < count; id++ {
		p, err := c.st.loadProposal(id)
		if err != nil {
			return err
		}
		p.Status = Status(p, c.now(), cfg.VotingPeriod, cfg.Quorum)
		if filter != nil && p.Status != *filter {
			continue
		}
		if !fn(p) {
			return nil
		}
	}
	return nil
}

// Escrow returns what voter still has escrowed on proposal id.
func (d *DAO) Escrow(ctx context.Context, voter sdk.Address, id uint64) ([]sdk.Payment, error) {
	var out []sdk.Payment
	err := d.view(ctx, "escrow", func(c *opCtx) error {
		var err error
		out, err = c.st.loadEscrow(id, voter.Canonical())
		return err
	})
	return out, err
}

func (d *DAO) ProposalVoters(ctx context.Context, id uint64) ([]sdk.Address, error) {
	var out []sdk.Address
	err := d.view(ctx, "proposal_voters", func(c *opCtx) error {
		var err error
		out, err = c.st.proposalVoters(id)
		return err
	})
	return out, err
}

func (d *DAO) VoterProposals(ctx context.Context, voter sdk.Address) ([]uint64, error) {
	var out []uint64
	err := d.view(ctx, "voter_proposals", func(c *opCtx) error {
		var err error
		out, err = c.st.voterProposals(voter.Canonical())
		return err
	})
	return out, err
}

func (d *DAO) BoardMembers(ctx context.Context) ([]sdk.Address, error) {
	var out []sdk.Address
	err := d.view(ctx, "board_members", func(c *opCtx) error {
		var err error
		out, err = c.st.boardMembers()
		return err
	})
	return out, err
}

func (d *DAO) IsBoardMember(ctx context.Context, a sdk.Address) (bool, error) {
	var ok bool
	err := d.view(ctx, "is_board_member", func(c *opCtx) error {
		var err error
		ok, err = c.st.isBoardMember(a)
		return err
	})
	return ok, err
}

func (d *DAO) BoardQuorum(ctx context.Context) (uint64, error) {
	cfg, err := d.Config(ctx)
	return cfg.BoardQuorum, err
}

func (d *DAO) VotingTokens(ctx context.Context) ([]VotingToken, error) {
	var out []VotingToken
	err := d.view(ctx, "voting_tokens", func(c *opCtx) error {
		var err error
		out, err = c.st.votingTokens()
		return err
	})
	return out, err
}

// Action returns an open board action with its raw signers.
func (d *DAO) Action(ctx context.Context, id uint64) (BoardActionRecord, error) {
	var out BoardActionRecord
	err := d.view(ctx, "action", func(c *opCtx) error {
		a, err := c.st.loadBoardAction(id)
		if err != nil {
			return err
		}
		signers, err := c.st.actionSigners(id)
		if err != nil {
			return err
		}
		out = BoardActionRecord{ID: id, Action: a, Signers: signers}
		return nil
	})
	return out, err
}

// OpenActions lists every board action whose slot is still occupied.
func (d *DAO) OpenActions(ctx context.Context) ([]BoardActionRecord, error) {
	var out []BoardActionRecord
	err := d.view(ctx, "open_actions", func(c *opCtx) error {
		last, err := c.st.getCount(ActionsCount)
		if err != nil {
			return err
		}
		for id := uint64(1); id <= last; id++ {
			ptr, err := c.st.get(boardActionKey(id))
			if err != nil {
				return err
			}
			if ptr == nil {
				continue
			}
			a, err := c.st.loadBoardAction(id)
			if err != nil {
				return err
			}
			signers, err := c.st.actionSigners(id)
			if err != nil {
				return err
			}
			out = append(out, BoardActionRecord{ID: id, Action: a, Signers: signers})
		}
		return nil
	})
	return out, err
}

func (d *DAO) ActionSigners(ctx context.Context, id uint64) ([]sdk.Address, error) {
	rec, err := d.Action(ctx, id)
	return rec.Signers, err
}

func (d *DAO) Signed(ctx context.Context, a sdk.Address, id uint64) (bool, error) {
	rec, err := d.Action(ctx, id)
	if err != nil {
		return false, err
	}
	for _, s := range rec.Signers {
		if s == a.Canonical() {
			return true, nil
		}
	}
	return false, nil
}

// ValidSignerCount counts signers of id that still sit on the board.
func (d *DAO) ValidSignerCount(ctx context.Context, id uint64) (uint64, error) {
	var n uint64
	err := d.view(ctx, "valid_signer_count", func(c *opCtx) error {
		if _, err := c.st.loadBoardAction(id); err != nil {
			return err
		}
		var err error
		n, err = c.st.validSignerCount(id)
		return err
	})
	return n, err
}

func (d *DAO) QuorumReached(ctx context.Context, id uint64) (bool, error) {
	var ok bool
	err := d.view(ctx, "quorum_reached", func(c *opCtx) error {
		if _, err := c.st.loadBoardAction(id); err != nil {
			return err
		}
		cfg, err := c.st.loadConfig()
		if err != nil {
			return err
		}
		n, err := c.st.validSignerCount(id)
		ok = n >= cfg.BoardQuorum
		return err
	})
	return ok, err
}

// ActionOutcome reports how a closed board action ended.
func (d *DAO) ActionOutcome(ctx context.Context, id uint64) (ActionOutcome, error) {
	var out ActionOutcome
	err := d.view(ctx, "action_outcome", func(c *opCtx) error {
		o, err := c.st.loadOutcome(id)
		if err != nil {
			return err
		}
		out = *o
		return nil
	})
	return out, err
}

// VoteWeight previews the tally increment a deposit would add right now.
func (d *DAO) VoteWeight(ctx context.Context, payment sdk.Payment) (*uint256.Int, error) {
	var out *uint256.Int
	err := d.view(ctx, "vote_weight", func(c *opCtx) error {
		cfg, err := c.st.loadConfig()
		if err != nil {
			return err
		}
		w, err := c.acceptedWeight(cfg, payment.Asset)
		if err != nil {
			return err
		}
		if w == nil {
			return reject(ErrInvalidPayment, "%q is not a voting token", payment.Asset)
		}
		inc, ok := voteIncrement(cfg.VotingMode, orZero(payment.Amount), w)
		if !ok {
			return reject(ErrInvalidPayment, "vote weight overflow")
		}
		out = inc
		return nil
	})
	return out, err
}
