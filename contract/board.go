package contract

import (
	"strconv"

	"github.com/samber/lo"
)

// actionValidator rejects board actions that could never apply cleanly
// against the current state.
type actionValidator struct {
	st *stagedState
}

func (v *actionValidator) visitNothing(Nothing) error { return nil }

func (v *actionValidator) visitAddBoardMember(a AddBoardMember) error {
	if !a.Member.IsValid() {
		return reject(ErrInvalidArgument, "invalid address %q", a.Member)
	}
	ok, err := v.st.isBoardMember(a.Member)
	if err != nil {
		return err
	}
	if ok {
		return reject(ErrInvalidArgument, "%s is already a board member", a.Member)
	}
	return nil
}

func (v *actionValidator) visitRemoveBoardMember(a RemoveBoardMember) error {
	ok, err := v.st.isBoardMember(a.Member)
	if err != nil {
		return err
	}
	if !ok {
		return reject(ErrInvalidArgument, "%s is not a board member", a.Member)
	}
	return nil
}

func (v *actionValidator) visitChangeBoardQuorum(a ChangeBoardQuorum) error {
	if a.Quorum == 0 {
		return reject(ErrInvalidArgument, "board quorum cannot be zero")
	}
	return nil
}

func (v *actionValidator) visitChangeQuorum(a ChangeQuorum) error {
	if orZero(a.Quorum).IsZero() {
		return reject(ErrInvalidArgument, "quorum cannot be zero")
	}
	return nil
}

func (v *actionValidator) visitChangeVotingPeriod(a ChangeVotingPeriod) error {
	if a.Period == 0 {
		return reject(ErrInvalidArgument, "voting period cannot be zero")
	}
	return nil
}

func (v *actionValidator) visitAddVotingToken(a AddVotingToken) error {
	if !a.Token.IsValid() {
		return reject(ErrInvalidArgument, "invalid token %q", a.Token)
	}
	if orZero(a.Weight).IsZero() {
		return reject(ErrInvalidArgument, "weight cannot be zero")
	}
	w, err := v.st.tokenWeight(a.Token)
	if err != nil {
		return err
	}
	if w != nil {
		return reject(ErrInvalidArgument, "token %q already exists", a.Token)
	}
	return nil
}

func (v *actionValidator) visitRemoveVotingToken(a RemoveVotingToken) error {
	w, err := v.st.tokenWeight(a.Token)
	if err != nil {
		return err
	}
	if w == nil {
		return reject(ErrInvalidArgument, "token %q not found", a.Token)
	}
	return nil
}

func (v *actionValidator) visitChangeTaxAmount(a ChangeTaxAmount) error {
	if orZero(a.Amount).IsZero() {
		return reject(ErrInvalidArgument, "tax amount cannot be zero")
	}
	return nil
}

// actionApplier performs the effect of a board action on the staged state.
// Membership and ledger changes use set semantics so a stale action applies
// as a no-op instead of failing.
type actionApplier struct {
	c   *opCtx
	cfg *Config
}

func (ap *actionApplier) visitNothing(Nothing) error { return nil }

func (ap *actionApplier) visitAddBoardMember(a AddBoardMember) error {
	members, err := ap.c.st.boardMembers()
	if err != nil {
		return err
	}
	if !lo.Contains(members, a.Member) {
		ap.c.st.saveBoardMembers(append(members, a.Member))
	}
	return nil
}

func (ap *actionApplier) visitRemoveBoardMember(a RemoveBoardMember) error {
	members, err := ap.c.st.boardMembers()
	if err != nil {
		return err
	}
	ap.c.st.saveBoardMembers(lo.Without(members, a.Member))
	return nil
}

func (ap *actionApplier) visitChangeBoardQuorum(a ChangeBoardQuorum) error {
	ap.c.emitConfigUpdated("board_quorum", strconv.FormatUint(ap.cfg.BoardQuorum, 10), strconv.FormatUint(a.Quorum, 10))
	ap.cfg.BoardQuorum = a.Quorum
	return nil
}

func (ap *actionApplier) visitChangeQuorum(a ChangeQuorum) error {
	ap.c.emitConfigUpdated("quorum", orZero(ap.cfg.Quorum).Dec(), orZero(a.Quorum).Dec())
	ap.cfg.Quorum = clone(a.Quorum)
	return nil
}

func (ap *actionApplier) visitChangeVotingPeriod(a ChangeVotingPeriod) error {
	ap.c.emitConfigUpdated("voting_period", strconv.FormatUint(ap.cfg.VotingPeriod, 10), strconv.FormatUint(a.Period, 10))
	ap.cfg.VotingPeriod = a.Period
	return nil
}

func (ap *actionApplier) visitAddVotingToken(a AddVotingToken) error {
	tokens, err := ap.c.st.votingTokens()
	if err != nil {
		return err
	}
	tokens = lo.Reject(tokens, func(t VotingToken, _ int) bool { return t.Asset == a.Token })
	ap.c.st.saveVotingTokens(append(tokens, VotingToken{Asset: a.Token, Weight: clone(a.Weight)}))
	return nil
}

// visitRemoveVotingToken forces the contract inactive once no voting token is left.
func (ap *actionApplier) visitRemoveVotingToken(a RemoveVotingToken) error {
	tokens, err := ap.c.st.votingTokens()
	if err != nil {
		return err
	}
	tokens = lo.Reject(tokens, func(t VotingToken, _ int) bool { return t.Asset == a.Token })
	ap.c.st.saveVotingTokens(tokens)
	if len(tokens) == 0 && ap.cfg.State != StateInactive {
		ap.cfg.State = StateInactive
		ap.c.emitStateChanged(StateInactive)
	}
	return nil
}

func (ap *actionApplier) visitChangeTaxAmount(a ChangeTaxAmount) error {
	ap.c.emitConfigUpdated("tax_amount", orZero(ap.cfg.TaxAmount).Dec(), orZero(a.Amount).Dec())
	ap.cfg.TaxAmount = clone(a.Amount)
	return nil
}

var (
	_ boardActionVisitor = (*actionValidator)(nil)
	_ boardActionVisitor = (*actionApplier)(nil)
	_ boardActionVisitor = boardActionEncoder{}
	_ ProposalPayload    = NoActions{}
	_ ProposalPayload    = Calls(nil)
)
