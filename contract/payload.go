package contract

import (
	"github.com/holiman/uint256"

	"franchise_dao/sdk"
)

// -----------------------------------------------------------------------------
// Proposal payloads
// -----------------------------------------------------------------------------

// ProposalPayload is either NoActions or Calls. The set is closed: new
// variants must be added to proposalPayloadVisitor.
type ProposalPayload interface {
	acceptPayload(v proposalPayloadVisitor) error
}

type proposalPayloadVisitor interface {
	visitNoActions() error
	visitCalls(calls []Action) error
}

// NoActions executes as a no-op that still marks the proposal executed.
type NoActions struct{}

// Calls is a sequence of outbound calls dispatched in order.
type Calls []Action

func (NoActions) acceptPayload(v proposalPayloadVisitor) error { return v.visitNoActions() }
func (c Calls) acceptPayload(v proposalPayloadVisitor) error   { return v.visitCalls(c) }

// payloadFromActions maps an empty action list onto NoActions.
func payloadFromActions(actions []Action) ProposalPayload {
	if len(actions) == 0 {
		return NoActions{}
	}
	return Calls(actions)
}

// ActionsOf flattens a payload back into its call list.
func ActionsOf(p ProposalPayload) []Action {
	if c, ok := p.(Calls); ok {
		return c
	}
	return nil
}

// -----------------------------------------------------------------------------
// Board actions
// -----------------------------------------------------------------------------

// BoardAction is a multisig-gated configuration change. The set of variants
// is closed; each one must be handled by every boardActionVisitor.
type BoardAction interface {
	Kind() string
	accept(v boardActionVisitor) error
}

type boardActionVisitor interface {
	visitNothing(a Nothing) error
	visitAddBoardMember(a AddBoardMember) error
	visitRemoveBoardMember(a RemoveBoardMember) error
	visitChangeBoardQuorum(a ChangeBoardQuorum) error
	visitChangeQuorum(a ChangeQuorum) error
	visitChangeVotingPeriod(a ChangeVotingPeriod) error
	visitAddVotingToken(a AddVotingToken) error
	visitRemoveVotingToken(a RemoveVotingToken) error
	visitChangeTaxAmount(a ChangeTaxAmount) error
}

type Nothing struct{}

type AddBoardMember struct{ Member sdk.Address }

type RemoveBoardMember struct{ Member sdk.Address }

type ChangeBoardQuorum struct{ Quorum uint64 }

type ChangeQuorum struct{ Quorum *uint256.Int }

type ChangeVotingPeriod struct{ Period uint64 }

type AddVotingToken struct {
	Token  sdk.Asset
	Weight *uint256.Int
}

type RemoveVotingToken struct{ Token sdk.Asset }

type ChangeTaxAmount struct{ Amount *uint256.Int }

func (Nothing) Kind() string            { return "nothing" }
func (AddBoardMember) Kind() string     { return "add_board_member" }
func (RemoveBoardMember) Kind() string  { return "remove_board_member" }
func (ChangeBoardQuorum) Kind() string  { return "change_board_quorum" }
func (ChangeQuorum) Kind() string       { return "change_quorum" }
func (ChangeVotingPeriod) Kind() string { return "change_voting_period" }
func (AddVotingToken) Kind() string     { return "add_voting_token" }
func (RemoveVotingToken) Kind() string  { return "remove_voting_token" }
func (ChangeTaxAmount) Kind() string    { return "change_tax_amount" }

func (a Nothing) accept(v boardActionVisitor) error            { return v.visitNothing(a) }
func (a AddBoardMember) accept(v boardActionVisitor) error     { return v.visitAddBoardMember(a) }
func (a RemoveBoardMember) accept(v boardActionVisitor) error  { return v.visitRemoveBoardMember(a) }
func (a ChangeBoardQuorum) accept(v boardActionVisitor) error  { return v.visitChangeBoardQuorum(a) }
func (a ChangeQuorum) accept(v boardActionVisitor) error       { return v.visitChangeQuorum(a) }
func (a ChangeVotingPeriod) accept(v boardActionVisitor) error { return v.visitChangeVotingPeriod(a) }
func (a AddVotingToken) accept(v boardActionVisitor) error     { return v.visitAddVotingToken(a) }
func (a RemoveVotingToken) accept(v boardActionVisitor) error  { return v.visitRemoveVotingToken(a) }
func (a ChangeTaxAmount) accept(v boardActionVisitor) error    { return v.visitChangeTaxAmount(a) }
