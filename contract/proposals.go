package contract

import (
	"context"

	"github.com/holiman/uint256"

	"franchise_dao/sdk"
)

// ProposeTokenVote opens a token-voted proposal and returns its id.
// Under deposit gating the payment must be at least MinProposalAmount of the
// governance token; under board gating the caller must sit on the board.
// Any payment is escrowed and counted as the proposer's first upvote.
func (d *DAO) ProposeTokenVote(ctx context.Context, args ProposeArgs, payment *sdk.Payment) (uint64, error) {
	var id uint64
	err := d.run(ctx, "propose", func(c *opCtx) error {
		cfg, err := c.activeConfig()
		if err != nil {
			return err
		}
		hasPayment := payment != nil && !payment.IsZero()
		switch cfg.ProposalGate {
		case GateBoard:
			if err := c.requireBoardMember(); err != nil {
				return err
			}
		default:
			if !hasPayment {
				return reject(ErrInvalidPayment, "proposal deposit required")
			}
			if payment.Asset != cfg.GovernanceToken {
				return reject(ErrInvalidPayment, "wrong payment token %q", payment.Asset)
			}
			if payment.Amount.Lt(orZero(cfg.MinProposalAmount)) {
				return reject(ErrNotEnoughFunds, "deposit %s below minimum %s", payment.Amount.Dec(), orZero(cfg.MinProposalAmount).Dec())
			}
		}
		if err := validateActions(args.Actions); err != nil {
			return err
		}

		id, err = c.st.getCount(ProposalsCount)
		if err != nil {
			return err
		}
		p := &Proposal{
			ID:            id,
			Proposer:      c.caller(),
			CreationBlock: c.now(),
			Title:         args.Title,
			Description:   args.Description,
			Payload:       payloadFromActions(cloneActions(args.Actions)),
			Upvotes:       new(uint256.Int),
			Downvotes:     new(uint256.Int),
		}
		c.st.setCount(ProposalsCount, id+1)
		c.emitProposalCreated(id)

		if hasPayment {
			if err := c.recordVote(cfg, p, VoteUp, *payment); err != nil {
				return err
			}
		}
		c.st.saveProposal(p)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func validateActions(actions []Action) error {
	for i, a := range actions {
		if !a.Target.IsValid() {
			return reject(ErrInvalidArgument, "action %d: invalid target %q", i, a.Target)
		}
		if a.Endpoint == "" {
			return reject(ErrInvalidArgument, "action %d: empty endpoint", i)
		}
		if a.PaymentAmount != nil && !a.PaymentAmount.IsZero() && !a.PaymentAsset.IsValid() {
			return reject(ErrInvalidArgument, "action %d: payment without asset", i)
		}
	}
	return nil
}

func cloneActions(actions []Action) []Action {
	out := make([]Action, len(actions))
	for i, a := range actions {
		out[i] = a
		out[i].Target = a.Target.Canonical()
		if a.PaymentAmount != nil {
			out[i].PaymentAmount = clone(a.PaymentAmount)
		}
		out[i].Args = make([][]byte, len(a.Args))
		for j, arg := range a.Args {
			out[i].Args[j] = append([]byte(nil), arg...)
		}
	}
	return out
}
