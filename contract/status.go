package contract

import (
	"github.com/holiman/uint256"
)

// Status derives the live status of a proposal. It is a pure function of the
// stored facts and now; callers must never trust a stored status instead.
func Status(p *Proposal, now, votingPeriod uint64, quorum *uint256.Int) ProposalStatus {
	if p.WasExecuted {
		return StatusExecuted
	}
	if now < p.CreationBlock {
		return StatusPending
	}
	if now-p.CreationBlock < votingPeriod {
		return StatusActive
	}
	up, down := orZero(p.Upvotes), orZero(p.Downvotes)
	if !up.Gt(down) {
		return StatusDefeated
	}
	margin := new(uint256.Int).Sub(up, down)
	if margin.Lt(orZero(quorum)) {
		return StatusDefeated
	}
	return StatusSucceeded
}

// voteIncrement turns a deposit into tally weight. Linear mode counts the raw
// amount; quadratic mode counts isqrt(floor(amount*weight/ONE)).
func voteIncrement(mode VotingMode, amount, weight *uint256.Int) (*uint256.Int, bool) {
	if mode == VotingLinear {
		return new(uint256.Int).Set(amount), true
	}
	scaled, overflow := new(uint256.Int).MulDivOverflow(amount, weight, ONE)
	if overflow {
		return nil, false
	}
	return scaled.Sqrt(scaled), true
}

func orZero(v *uint256.Int) *uint256.Int {
	if v == nil {
		return new(uint256.Int)
	}
	return v
}
