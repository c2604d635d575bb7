package contract

import "github.com/holiman/uint256"

// ONE is one whole token in base units. Voting weights are fixed-point over it.
var ONE = uint256.MustFromDecimal("1000000000000000000")

// -----------------------------------------------------------------------------
// Enums
// -----------------------------------------------------------------------------

// State is the global on/off switch of the governance core.
type State uint8

const (
	StateInactive State = 0
	StateActive   State = 1
)

func (s State) String() string {
	if s == StateActive {
		return "active"
	}
	return "inactive"
}

// VotingMode picks how deposits turn into tally weight.
type VotingMode uint8

const (
	// VotingLinear accepts the governance token only and counts the raw amount.
	VotingLinear VotingMode = 0
	// VotingQuadratic accepts every listed voting token and counts isqrt(amount*weight/ONE).
	VotingQuadratic VotingMode = 1
)

func (m VotingMode) String() string {
	if m == VotingQuadratic {
		return "quadratic"
	}
	return "linear"
}

// ParseVotingMode maps config strings onto VotingMode.
func ParseVotingMode(s string) (VotingMode, bool) {
	switch s {
	case "", "linear":
		return VotingLinear, true
	case "quadratic":
		return VotingQuadratic, true
	}
	return VotingLinear, false
}

// ProposalGate decides who may open a token-voted proposal.
type ProposalGate uint8

const (
	// GateDeposit requires a governance token deposit of at least MinProposalAmount.
	GateDeposit ProposalGate = 0
	// GateBoard restricts proposing to board members.
	GateBoard ProposalGate = 1
)

func (g ProposalGate) String() string {
	if g == GateBoard {
		return "board"
	}
	return "deposit"
}

// ParseProposalGate maps config strings onto ProposalGate.
func ParseProposalGate(s string) (ProposalGate, bool) {
	switch s {
	case "", "deposit":
		return GateDeposit, true
	case "board":
		return GateBoard, true
	}
	return GateDeposit, false
}

// ProposalStatus is derived on every read, never trusted from storage.
type ProposalStatus uint8

const (
	StatusPending   ProposalStatus = 0
	StatusActive    ProposalStatus = 1
	StatusDefeated  ProposalStatus = 2
	StatusSucceeded ProposalStatus = 3
	StatusExecuted  ProposalStatus = 4
)

func (s ProposalStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusActive:
		return "active"
	case StatusDefeated:
		return "defeated"
	case StatusSucceeded:
		return "succeeded"
	case StatusExecuted:
		return "executed"
	default:
		return "unknown"
	}
}

// ParseProposalStatus is the inverse of ProposalStatus.String.
func ParseProposalStatus(s string) (ProposalStatus, bool) {
	for st := StatusPending; st <= StatusExecuted; st++ {
		if st.String() == s {
			return st, true
		}
	}
	return StatusPending, false
}

// votingConcluded is true once deposits may be redeemed.
func (s ProposalStatus) votingConcluded() bool {
	return s == StatusSucceeded || s == StatusDefeated || s == StatusExecuted
}

// VoteDirection selects the tally a deposit feeds.
type VoteDirection uint8

const (
	VoteUp   VoteDirection = 0
	VoteDown VoteDirection = 1
)

func (d VoteDirection) String() string {
	if d == VoteDown {
		return "down"
	}
	return "up"
}

// ActionOutcomeKind records why a board action slot was cleared.
type ActionOutcomeKind uint8

const (
	OutcomeExecuted  ActionOutcomeKind = 1
	OutcomeDiscarded ActionOutcomeKind = 2
)

func (k ActionOutcomeKind) String() string {
	if k == OutcomeDiscarded {
		return "discarded"
	}
	return "executed"
}

// -----------------------------------------------------------------------------
// Counter Keys
// -----------------------------------------------------------------------------

const (
	// ProposalsCount holds the next proposal id (proposal ids start at 0).
	ProposalsCount = "count:props"
	// ActionsCount holds the last board action id (action ids start at 1).
	ActionsCount = "count:acts"
)
