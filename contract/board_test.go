package contract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"franchise_dao/contract"
	"franchise_dao/sdk"
)

// =============================================================================
// Board Action Tests
// =============================================================================

// TestBoardRemoveMember checks the propose, sign and perform flow so we dont break it again.
func TestBoardRemoveMember(t *testing.T) {
	td := setupDAO(t, nil)

	id, err := td.as(memberA).ProposeRemoveBoardMember(td.ctx, memberC)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), id, "action ids start at 1")
	assert.Equal(t, uint64(1), td.validSigners(t, id), "proposer signs automatically")

	assertRejected(t, td.PerformAction(td.ctx, id), contract.ErrQuorumNotReached, "perform_action")

	require.NoError(t, td.as(memberB).Sign(td.ctx, id))
	assert.Equal(t, uint64(2), td.validSigners(t, id))
	reached, err := td.QuorumReached(td.ctx, id)
	require.NoError(t, err)
	assert.True(t, reached)

	require.NoError(t, td.as(memberA).PerformAction(td.ctx, id))
	members, err := td.BoardMembers(td.ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []sdk.Address{memberA, memberB}, members)

	_, err = td.Action(td.ctx, id)
	assertRejected(t, err, contract.ErrNotFound, "action")
	assertRejected(t, td.PerformAction(td.ctx, id), contract.ErrNotFound, "perform_action")

	outcome, err := td.ActionOutcome(td.ctx, id)
	require.NoError(t, err)
	assert.Equal(t, contract.OutcomeExecuted, outcome.Outcome)
	assert.Equal(t, "remove_board_member", outcome.Kind)
	assert.Equal(t, memberA, outcome.ClosedBy)

	// the removed member lost every board right
	_, err = td.as(memberC).ProposeChangeVotingPeriod(td.ctx, 10)
	assertRejected(t, err, contract.ErrUnauthorized, "propose_action")
}

// TestBoardDiscard checks discard only works once no board member still signs.
func TestBoardDiscard(t *testing.T) {
	td := setupDAO(t, nil)
	id, err := td.as(memberA).ProposeAddBoardMember(td.ctx, someone)
	require.NoError(t, err)

	assertRejected(t, td.as(memberB).DiscardAction(td.ctx, id), contract.ErrInvalidArgument, "discard_action")

	require.NoError(t, td.as(memberA).Unsign(td.ctx, id))
	assert.Zero(t, td.validSigners(t, id))
	require.NoError(t, td.as(memberB).DiscardAction(td.ctx, id))

	_, err = td.Action(td.ctx, id)
	assertRejected(t, err, contract.ErrNotFound, "action")
	ok, err := td.IsBoardMember(td.ctx, someone)
	require.NoError(t, err)
	assert.False(t, ok, "discarded actions have no effect")

	outcome, err := td.ActionOutcome(td.ctx, id)
	require.NoError(t, err)
	assert.Equal(t, contract.OutcomeDiscarded, outcome.Outcome)

	// ids are never reused
	next, err := td.as(memberA).ProposeAddBoardMember(td.ctx, someone)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), next)
}

// TestBoardSignIdempotent checks signing and unsigning twice are no-ops.
func TestBoardSignIdempotent(t *testing.T) {
	td := setupDAO(t, nil)
	id, err := td.as(memberA).ProposeChangeTaxAmount(td.ctx, amount(5))
	require.NoError(t, err)

	require.NoError(t, td.Sign(td.ctx, id))
	assert.Equal(t, uint64(1), td.validSigners(t, id))
	signed, err := td.Signed(td.ctx, memberA, id)
	require.NoError(t, err)
	assert.True(t, signed)

	require.NoError(t, td.as(memberB).Unsign(td.ctx, id))
	assert.Equal(t, uint64(1), td.validSigners(t, id))

	require.NoError(t, td.as(memberC).Sign(td.ctx, id))
	require.NoError(t, td.Sign(td.ctx, id))
	assert.Equal(t, uint64(2), td.validSigners(t, id))

	assertRejected(t, td.as(someone).Sign(td.ctx, id), contract.ErrUnauthorized, "sign")
	assertRejected(t, td.as(memberB).Sign(td.ctx, 42), contract.ErrNotFound, "sign")
	assert.Equal(t, 1, td.countEvents("bs|"), "repeat signatures emit nothing")
	assert.Zero(t, td.countEvents("bu|"))
}

// TestValidSignersFollowBoard checks stale signatures of removed members stop counting.
func TestValidSignersFollowBoard(t *testing.T) {
	td := setupDAO(t, nil)

	pending, err := td.as(memberC).ProposeChangeVotingPeriod(td.ctx, 20)
	require.NoError(t, err)
	require.NoError(t, td.as(memberB).Sign(td.ctx, pending))
	require.NoError(t, td.as(memberA).Sign(td.ctx, pending))
	assert.Equal(t, uint64(3), td.validSigners(t, pending))

	removeC, err := td.as(memberA).ProposeRemoveBoardMember(td.ctx, memberC)
	require.NoError(t, err)
	require.NoError(t, td.as(memberB).Sign(td.ctx, removeC))
	require.NoError(t, td.PerformAction(td.ctx, removeC))

	members, err := td.BoardMembers(td.ctx)
	require.NoError(t, err)
	n := td.validSigners(t, pending)
	assert.Equal(t, uint64(2), n)
	assert.LessOrEqual(t, n, uint64(len(members)))

	signers, err := td.ActionSigners(td.ctx, pending)
	require.NoError(t, err)
	assert.Contains(t, signers, memberC, "raw signer set is kept")

	// a removed member's lone signature no longer blocks discard
	require.NoError(t, td.as(memberA).Unsign(td.ctx, pending))
	require.NoError(t, td.as(memberB).Unsign(td.ctx, pending))
	assert.Zero(t, td.validSigners(t, pending))
	require.NoError(t, td.DiscardAction(td.ctx, pending))
}

// TestBoardConfigActions checks every configuration change applies on perform.
func TestBoardConfigActions(t *testing.T) {
	td := setupDAO(t, nil)

	perform := func(propose func() (uint64, error)) {
		t.Helper()
		id, err := propose()
		require.NoError(t, err)
		require.NoError(t, td.as(memberB).Sign(td.ctx, id))
		require.NoError(t, td.as(memberA).PerformAction(td.ctx, id))
	}
	td.as(memberA)
	perform(func() (uint64, error) { return td.ProposeChangeQuorum(td.ctx, amount(50)) })
	perform(func() (uint64, error) { return td.ProposeChangeVotingPeriod(td.ctx, 7) })
	perform(func() (uint64, error) { return td.ProposeChangeTaxAmount(td.ctx, amount(3)) })
	perform(func() (uint64, error) { return td.ProposeAddVotingToken(td.ctx, hbd, contract.ONE) })
	perform(func() (uint64, error) { return td.ProposeChangeBoardQuorum(td.ctx, 3) })

	cfg := td.config(t)
	assert.Equal(t, "50", cfg.Quorum.Dec())
	assert.Equal(t, uint64(7), cfg.VotingPeriod)
	assert.Equal(t, "3", cfg.TaxAmount.Dec())
	assert.Equal(t, uint64(3), cfg.BoardQuorum)
	assert.Equal(t, contract.StateActive, cfg.State)

	tokens, err := td.VotingTokens(td.ctx)
	require.NoError(t, err)
	assert.Len(t, tokens, 2)

	// a nothing action and two signatures are no longer enough
	id, err := td.as(memberA).ProposeAction(td.ctx, contract.Nothing{})
	require.NoError(t, err)
	require.NoError(t, td.as(memberB).Sign(td.ctx, id))
	assertRejected(t, td.PerformAction(td.ctx, id), contract.ErrQuorumNotReached, "perform_action")
	require.NoError(t, td.as(memberC).Sign(td.ctx, id))
	require.NoError(t, td.PerformAction(td.ctx, id))

	assert.Equal(t, 4, td.countEvents("cu|"))
}

// TestBoardActionValidation checks actions that could never apply are refused up front.
func TestBoardActionValidation(t *testing.T) {
	td := setupDAO(t, nil)
	td.as(memberA)

	cases := []struct {
		name   string
		action contract.BoardAction
	}{
		{"existing member", contract.AddBoardMember{Member: memberB}},
		{"invalid member", contract.AddBoardMember{Member: "bogus"}},
		{"unknown member", contract.RemoveBoardMember{Member: someone}},
		{"zero board quorum", contract.ChangeBoardQuorum{Quorum: 0}},
		{"zero quorum", contract.ChangeQuorum{Quorum: amount(0)}},
		{"zero period", contract.ChangeVotingPeriod{Period: 0}},
		{"zero weight", contract.AddVotingToken{Token: hbd, Weight: amount(0)}},
		{"existing token", contract.AddVotingToken{Token: govToken, Weight: contract.ONE}},
		{"unknown token", contract.RemoveVotingToken{Token: hbd}},
		{"zero tax", contract.ChangeTaxAmount{Amount: amount(0)}},
		{"nil action", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := td.ProposeAction(td.ctx, tc.action)
			assertRejected(t, err, contract.ErrInvalidArgument, "propose_action")
		})
	}

	open, err := td.OpenActions(td.ctx)
	require.NoError(t, err)
	assert.Empty(t, open)
}

// TestRemoveLastVotingToken checks dropping the last token switches governance off
// and that reactivation needs a token again.
func TestRemoveLastVotingToken(t *testing.T) {
	td := setupDAO(t, nil)
	id := td.propose(t, someone, 4)

	drop, err := td.as(memberA).ProposeRemoveVotingToken(td.ctx, govToken)
	require.NoError(t, err)
	require.NoError(t, td.as(memberB).Sign(td.ctx, drop))
	require.NoError(t, td.PerformAction(td.ctx, drop))

	assert.Equal(t, contract.StateInactive, td.config(t).State)
	assertRejected(t, td.as(someoneElse).Upvote(td.ctx, id, pay(1)), contract.ErrNotActive, "upvote")
	assertRejected(t, td.as(ownerAddress).SetStateActive(td.ctx), contract.ErrInvalidArgument, "set_state_active")

	add, err := td.as(memberA).ProposeAddVotingToken(td.ctx, govToken, contract.ONE)
	require.NoError(t, err)
	require.NoError(t, td.as(memberC).Sign(td.ctx, add))
	require.NoError(t, td.PerformAction(td.ctx, add))
	assert.Equal(t, contract.StateInactive, td.config(t).State, "adding a token does not reactivate")

	require.NoError(t, td.as(ownerAddress).SetStateActive(td.ctx))
	require.NoError(t, td.as(someoneElse).Upvote(td.ctx, id, pay(1)))
}

// TestRemovedGovernanceTokenStopsVoting checks a delisted governance token
// loses its weight while other tokens keep the DAO active.
func TestRemovedGovernanceTokenStopsVoting(t *testing.T) {
	td := setupDAO(t, func(a *contract.InitArgs) {
		a.VotingTokens = append(a.VotingTokens, contract.VotingToken{Asset: hbd, Weight: contract.ONE})
	})
	id := td.propose(t, someone, 4)

	drop, err := td.as(memberA).ProposeRemoveVotingToken(td.ctx, govToken)
	require.NoError(t, err)
	require.NoError(t, td.as(memberB).Sign(td.ctx, drop))
	require.NoError(t, td.PerformAction(td.ctx, drop))
	assert.Equal(t, contract.StateActive, td.config(t).State)

	before, err := td.Proposal(td.ctx, id)
	require.NoError(t, err)
	assertRejected(t, td.as(someoneElse).Upvote(td.ctx, id, pay(100)), contract.ErrInvalidPayment, "upvote")
	_, err = td.VoteWeight(td.ctx, pay(100))
	assertRejected(t, err, contract.ErrInvalidPayment, "vote_weight")

	after, err := td.Proposal(td.ctx, id)
	require.NoError(t, err)
	assert.Equal(t, before.Upvotes.Dec(), after.Upvotes.Dec())

	require.NoError(t, td.as(someoneElse).Upvote(td.ctx, id, payIn(hbd, 100)))
}

// TestOpenActions checks the listing skips closed slots.
func TestOpenActions(t *testing.T) {
	td := setupDAO(t, nil)
	td.as(memberA)
	first, err := td.ProposeChangeVotingPeriod(td.ctx, 10)
	require.NoError(t, err)
	second, err := td.ProposeChangeVotingPeriod(td.ctx, 20)
	require.NoError(t, err)
	require.NoError(t, td.Unsign(td.ctx, first))
	require.NoError(t, td.DiscardAction(td.ctx, first))

	open, err := td.OpenActions(td.ctx)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, second, open[0].ID)
	assert.Equal(t, contract.ChangeVotingPeriod{Period: 20}, open[0].Action)
	assert.Equal(t, []sdk.Address{memberA}, open[0].Signers)
}
