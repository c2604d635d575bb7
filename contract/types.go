package contract

import (
	"github.com/holiman/uint256"

	"franchise_dao/sdk"
)

// Config is the single configuration record of the governance core. It is
// mutated only by the owner setters and by performed board actions.
type Config struct {
	State             State
	Owner             sdk.Address
	GovernanceToken   sdk.Asset
	Quorum            *uint256.Int
	VotingPeriod      uint64
	MinProposalAmount *uint256.Int
	TaxAmount         *uint256.Int
	BoardQuorum       uint64
	VotingMode        VotingMode
	ProposalGate      ProposalGate
}

// VotingToken is one entry of the voting token ledger.
type VotingToken struct {
	Asset  sdk.Asset
	Weight *uint256.Int
}

// Action is one outbound call a succeeded proposal dispatches.
type Action struct {
	GasLimit      uint64
	Target        sdk.Address
	PaymentAsset  sdk.Asset
	PaymentAmount *uint256.Int
	Endpoint      string
	Args          [][]byte
}

func (a Action) call() sdk.Call {
	c := sdk.Call{
		Target:   a.Target,
		Endpoint: a.Endpoint,
		Args:     a.Args,
		GasLimit: a.GasLimit,
	}
	if a.PaymentAsset != "" && a.PaymentAmount != nil && !a.PaymentAmount.IsZero() {
		c.Payment = &sdk.Payment{Asset: a.PaymentAsset, Amount: a.PaymentAmount}
	}
	return c
}

// Proposal is a token-voted proposal. Status is refreshed on every read and
// never relied upon from storage.
type Proposal struct {
	ID            uint64
	Proposer      sdk.Address
	CreationBlock uint64
	Title         string
	Description   string
	Payload       ProposalPayload
	Upvotes       *uint256.Int
	Downvotes     *uint256.Int
	WasExecuted   bool
	Status        ProposalStatus
}

// ProposeArgs is the caller supplied part of a new proposal.
type ProposeArgs struct {
	Title       string
	Description string
	Actions     []Action
}

// InitArgs seeds the configuration, the board and the voting token ledger.
type InitArgs struct {
	GovernanceToken   sdk.Asset
	BoardMembers      []sdk.Address
	BoardQuorum       uint64
	Quorum            *uint256.Int
	VotingPeriod      uint64
	MinProposalAmount *uint256.Int
	TaxAmount         *uint256.Int
	VotingTokens      []VotingToken
	VotingMode        VotingMode
	ProposalGate      ProposalGate
}

// BoardActionRecord is an open board action with its raw signer set.
type BoardActionRecord struct {
	ID      uint64
	Action  BoardAction
	Signers []sdk.Address
}

// ActionOutcome is the terminal record kept once an action slot is cleared.
type ActionOutcome struct {
	ID       uint64
	Kind     string
	Outcome  ActionOutcomeKind
	ClosedBy sdk.Address
	Height   uint64
}
