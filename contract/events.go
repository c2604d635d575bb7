package contract

import (
	"fmt"

	"github.com/holiman/uint256"

	"franchise_dao/sdk"
)

// emit queues an event line; it reaches the host log only if the operation commits.
func (c *opCtx) emit(format string, args ...any) {
	c.events = append(c.events, fmt.Sprintf(format, args...))
}

// emitStateChanged flags the global on/off switch flipping.
func (c *opCtx) emitStateChanged(s State) {
	c.emit("st|s:%s|by:%s", s, c.caller())
}

// emitConfigUpdated spells out field diffs so auditors can track sensitive flips.
func (c *opCtx) emitConfigUpdated(field, old, new string) {
	c.emit("cu|f:%s|old:%s|new:%s|by:%s", field, old, new, c.caller())
}

// emitProposalCreated keeps observers updated with a short pc line for every new idea.
func (c *opCtx) emitProposalCreated(id uint64) {
	c.emit("pc|id:%d|by:%s", id, c.caller())
}

// emitVoteCast includes deposit and weight so tallies can be replayed from logs only.
func (c *opCtx) emitVoteCast(id uint64, dir VoteDirection, p sdk.Payment, weight *uint256.Int) {
	c.emit("v|id:%d|by:%s|d:%s|as:%s|am:%s|w:%s", id, c.caller(), dir, p.Asset, p.Amount.Dec(), weight.Dec())
}

func (c *opCtx) emitRedeemed(id uint64, lines int) {
	c.emit("rd|id:%d|by:%s|n:%d", id, c.caller(), lines)
}

func (c *opCtx) emitProposalExecuted(id uint64, calls int) {
	c.emit("px|id:%d|by:%s|n:%d", id, c.caller(), calls)
}

func (c *opCtx) emitActionProposed(id uint64, a BoardAction) {
	c.emit("ba|id:%d|by:%s|k:%s", id, c.caller(), a.Kind())
}

func (c *opCtx) emitActionSigned(id uint64, signed bool) {
	if signed {
		c.emit("bs|id:%d|by:%s", id, c.caller())
		return
	}
	c.emit("bu|id:%d|by:%s", id, c.caller())
}

// emitActionClosed covers both terminal states of a board action.
func (c *opCtx) emitActionClosed(o *ActionOutcome) {
	c.emit("bc|id:%d|by:%s|k:%s|o:%s", o.ID, o.ClosedBy, o.Kind, o.Outcome)
}
