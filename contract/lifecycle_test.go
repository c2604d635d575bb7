package contract_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"franchise_dao/contract"
	"franchise_dao/sdk"
	"franchise_dao/storage"
)

// TestInitSeedsConfig checks init stores the board, the tokens and starts inactive.
func TestInitSeedsConfig(t *testing.T) {
	state, err := storage.NewMemory("")
	require.NoError(t, err)
	host := sdk.NewMockHost().As(ownerAddress)
	dao, err := contract.New(sdk.Host{State: state, Env: host, Events: host})
	require.NoError(t, err)
	ctx := context.Background()

	_, err = dao.Config(ctx)
	assertRejected(t, err, contract.ErrNotInitialized, "config")

	args := defaultInitArgs()
	args.VotingTokens = nil
	args.BoardMembers = append(args.BoardMembers, memberA)
	require.NoError(t, dao.Init(ctx, args))

	cfg, err := dao.Config(ctx)
	require.NoError(t, err)
	assert.Equal(t, contract.StateInactive, cfg.State)
	assert.Equal(t, ownerAddress, cfg.Owner)
	assert.Equal(t, contract.GateDeposit, cfg.ProposalGate)

	members, err := dao.BoardMembers(ctx)
	require.NoError(t, err)
	assert.Len(t, members, 3, "duplicate members collapse")

	tokens, err := dao.VotingTokens(ctx)
	require.NoError(t, err)
	require.Len(t, tokens, 1, "governance token is seeded when no tokens are given")
	assert.Equal(t, govToken, tokens[0].Asset)
	assert.Equal(t, contract.ONE, tokens[0].Weight)

	assertRejected(t, dao.Init(ctx, args), contract.ErrAlreadyInitialized, "init")
	assert.Equal(t, []string{"st|s:inactive|by:hive:tibfox"}, host.Events())
}

// TestInitRejectsBadArgs checks invalid init arguments leave the store empty.
func TestInitRejectsBadArgs(t *testing.T) {
	cases := map[string]func(a *contract.InitArgs){
		"zero board quorum": func(a *contract.InitArgs) { a.BoardQuorum = 0 },
		"bad token":         func(a *contract.InitArgs) { a.GovernanceToken = "has space" },
		"bad member":        func(a *contract.InitArgs) { a.BoardMembers = []sdk.Address{"alice"} },
		"zero weight": func(a *contract.InitArgs) {
			a.VotingTokens = []contract.VotingToken{{Asset: hbd, Weight: amount(0)}}
		},
		"duplicate token": func(a *contract.InitArgs) {
			a.VotingTokens = append(a.VotingTokens, contract.VotingToken{Asset: govToken, Weight: contract.ONE})
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			state, err := storage.NewMemory("")
			require.NoError(t, err)
			host := sdk.NewMockHost().As(ownerAddress)
			dao, err := contract.New(sdk.Host{State: state, Env: host})
			require.NoError(t, err)

			args := defaultInitArgs()
			mutate(&args)
			assertRejected(t, dao.Init(context.Background(), args), contract.ErrInvalidArgument, "init")
			assert.Zero(t, state.Len())
		})
	}
}

// TestNewRequiresStateAndEnv checks host bindings are validated.
func TestNewRequiresStateAndEnv(t *testing.T) {
	_, err := contract.New(sdk.Host{Env: sdk.NewMockHost()})
	assert.Error(t, err)
	state, err := storage.NewMemory("")
	require.NoError(t, err)
	_, err = contract.New(sdk.Host{State: state})
	assert.Error(t, err)
}

// TestActivationPreconditions checks activation needs quorum, period and a deposit minimum.
func TestActivationPreconditions(t *testing.T) {
	state, err := storage.NewMemory("")
	require.NoError(t, err)
	host := sdk.NewMockHost().As(ownerAddress)
	dao, err := contract.New(sdk.Host{State: state, Env: host})
	require.NoError(t, err)
	ctx := context.Background()

	args := defaultInitArgs()
	args.Quorum = nil
	args.VotingPeriod = 0
	args.MinProposalAmount = nil
	require.NoError(t, dao.Init(ctx, args))

	assertRejected(t, dao.SetStateActive(ctx), contract.ErrInvalidArgument, "set_state_active")
	require.NoError(t, dao.SetQuorum(ctx, amount(2)))
	assertRejected(t, dao.SetStateActive(ctx), contract.ErrInvalidArgument, "set_state_active")
	require.NoError(t, dao.SetVotingPeriod(ctx, 100))
	assertRejected(t, dao.SetStateActive(ctx), contract.ErrInvalidArgument, "set_state_active")
	require.NoError(t, dao.SetMinProposalAmount(ctx, amount(1)))

	host.As(someone)
	assertRejected(t, dao.SetStateActive(ctx), contract.ErrUnauthorized, "set_state_active")
	host.As(ownerAddress)
	require.NoError(t, dao.SetStateActive(ctx))

	cfg, err := dao.Config(ctx)
	require.NoError(t, err)
	assert.Equal(t, contract.StateActive, cfg.State)
}

// TestOwnerSetters checks the owner only setters and their events.
func TestOwnerSetters(t *testing.T) {
	td := setupDAO(t, nil)

	assertRejected(t, td.as(memberA).SetQuorum(td.ctx, amount(5)), contract.ErrUnauthorized, "set_quorum")
	assertRejected(t, td.SetStateInactive(td.ctx), contract.ErrUnauthorized, "set_state_inactive")

	td.as(ownerAddress)
	assertRejected(t, td.SetQuorum(td.ctx, amount(0)), contract.ErrInvalidArgument, "set_quorum")
	assertRejected(t, td.SetVotingPeriod(td.ctx, 0), contract.ErrInvalidArgument, "set_voting_period")
	assertRejected(t, td.SetTaxAmount(td.ctx, nil), contract.ErrInvalidArgument, "set_tax_amount")

	require.NoError(t, td.SetQuorum(td.ctx, amount(5)))
	require.NoError(t, td.SetTaxAmount(td.ctx, amount(2)))
	cfg := td.config(t)
	assert.Equal(t, "5", cfg.Quorum.Dec())
	assert.Equal(t, "2", cfg.TaxAmount.Dec())
	assert.Contains(t, td.host.Events(), "cu|f:quorum|old:2|new:5|by:hive:tibfox")
}

// TestCancelledContext checks a cancelled context rejects before touching state.
func TestCancelledContext(t *testing.T) {
	td := setupDAO(t, nil)
	before := td.state.Len()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	dep := pay(4)
	_, err := td.as(someone).ProposeTokenVote(ctx, contract.ProposeArgs{}, &dep)
	assertRejected(t, err, context.Canceled, "propose")
	assert.Equal(t, before, td.state.Len())
}

// TestEvmAddressesCanonical checks mixed case evm addresses land on one board seat.
func TestEvmAddressesCanonical(t *testing.T) {
	lower := sdk.Address("did:pkh:eip155:1:0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")
	upper := sdk.Address("did:pkh:eip155:1:0x5AAEB6053F3E94C9B9A09F33669435E7EF1BEAED")
	td := setupDAO(t, func(a *contract.InitArgs) {
		a.BoardMembers = []sdk.Address{memberA, lower}
	})
	ok, err := td.IsBoardMember(td.ctx, upper)
	require.NoError(t, err)
	assert.True(t, ok)

	id, err := td.as(upper).ProposeChangeVotingPeriod(td.ctx, 12)
	require.NoError(t, err)
	signed, err := td.Signed(td.ctx, lower, id)
	require.NoError(t, err)
	assert.True(t, signed)
}
