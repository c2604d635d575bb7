package contract

import (
	"context"
	"strconv"

	"github.com/holiman/uint256"
	"github.com/samber/lo"

	"franchise_dao/sdk"
)

// Init seeds the configuration, board and voting token ledger. The caller
// becomes the owner and the contract starts Inactive.
func (d *DAO) Init(ctx context.Context, args InitArgs) error {
	return d.run(ctx, "init", func(c *opCtx) error {
		done, err := c.st.initialized()
		if err != nil {
			return err
		}
		if done {
			return reject(ErrAlreadyInitialized, "")
		}
		if !args.GovernanceToken.IsValid() {
			return reject(ErrInvalidArgument, "invalid governance token %q", args.GovernanceToken)
		}
		if args.BoardQuorum == 0 {
			return reject(ErrInvalidArgument, "board quorum cannot be zero")
		}
		if args.VotingMode > VotingQuadratic || args.ProposalGate > GateBoard {
			return reject(ErrInvalidArgument, "unknown voting mode or proposal gate")
		}

		members := make([]sdk.Address, 0, len(args.BoardMembers))
		for _, m := range args.BoardMembers {
			if !m.IsValid() {
				return reject(ErrInvalidArgument, "invalid board member %q", m)
			}
			members = append(members, m.Canonical())
		}
		members = lo.Uniq(members)

		tokens := make([]VotingToken, 0, len(args.VotingTokens)+1)
		for _, t := range args.VotingTokens {
			if !t.Asset.IsValid() || t.Weight == nil || t.Weight.IsZero() {
				return reject(ErrInvalidArgument, "invalid voting token %q", t.Asset)
			}
			if lo.ContainsBy(tokens, func(x VotingToken) bool { return x.Asset == t.Asset }) {
				return reject(ErrInvalidArgument, "duplicate voting token %q", t.Asset)
			}
			tokens = append(tokens, VotingToken{Asset: t.Asset, Weight: new(uint256.Int).Set(t.Weight)})
		}
		if len(tokens) == 0 {
			tokens = append(tokens, VotingToken{Asset: args.GovernanceToken, Weight: new(uint256.Int).Set(ONE)})
		}

		cfg := &Config{
			State:             StateInactive,
			Owner:             c.caller(),
			GovernanceToken:   args.GovernanceToken,
			Quorum:            clone(args.Quorum),
			VotingPeriod:      args.VotingPeriod,
			MinProposalAmount: clone(args.MinProposalAmount),
			TaxAmount:         clone(args.TaxAmount),
			BoardQuorum:       args.BoardQuorum,
			VotingMode:        args.VotingMode,
			ProposalGate:      args.ProposalGate,
		}
		c.st.saveConfig(cfg)
		c.st.saveBoardMembers(members)
		c.st.saveVotingTokens(tokens)
		c.emitStateChanged(StateInactive)
		return nil
	})
}

// SetStateActive switches governance on once quorum, voting period, the
// voting token ledger and, for deposit gating, the minimum deposit are set.
func (d *DAO) SetStateActive(ctx context.Context) error {
	return d.run(ctx, "set_state_active", func(c *opCtx) error {
		cfg, err := c.st.loadConfig()
		if err != nil {
			return err
		}
		if err := c.requireOwner(cfg); err != nil {
			return err
		}
		if orZero(cfg.Quorum).IsZero() {
			return reject(ErrInvalidArgument, "quorum cannot be zero")
		}
		if cfg.VotingPeriod == 0 {
			return reject(ErrInvalidArgument, "voting period cannot be zero")
		}
		if cfg.ProposalGate == GateDeposit && orZero(cfg.MinProposalAmount).IsZero() {
			return reject(ErrInvalidArgument, "min proposal amount cannot be zero")
		}
		tokens, err := c.st.votingTokens()
		if err != nil {
			return err
		}
		if len(tokens) == 0 {
			return reject(ErrInvalidArgument, "no voting tokens")
		}
		cfg.State = StateActive
		c.st.saveConfig(cfg)
		c.emitStateChanged(StateActive)
		return nil
	})
}

// SetStateInactive switches governance off. Redeem keeps working.
func (d *DAO) SetStateInactive(ctx context.Context) error {
	return d.run(ctx, "set_state_inactive", func(c *opCtx) error {
		cfg, err := c.st.loadConfig()
		if err != nil {
			return err
		}
		if err := c.requireOwner(cfg); err != nil {
			return err
		}
		cfg.State = StateInactive
		c.st.saveConfig(cfg)
		c.emitStateChanged(StateInactive)
		return nil
	})
}

// SetQuorum lets the owner change the net upvote margin needed to succeed.
func (d *DAO) SetQuorum(ctx context.Context, quorum *uint256.Int) error {
	return d.ownerUpdate(ctx, "set_quorum", func(c *opCtx, cfg *Config) error {
		if orZero(quorum).IsZero() {
			return reject(ErrInvalidArgument, "quorum cannot be zero")
		}
		c.emitConfigUpdated("quorum", orZero(cfg.Quorum).Dec(), quorum.Dec())
		cfg.Quorum = clone(quorum)
		return nil
	})
}

func (d *DAO) SetVotingPeriod(ctx context.Context, period uint64) error {
	return d.ownerUpdate(ctx, "set_voting_period", func(c *opCtx, cfg *Config) error {
		if period == 0 {
			return reject(ErrInvalidArgument, "voting period cannot be zero")
		}
		c.emitConfigUpdated("voting_period", strconv.FormatUint(cfg.VotingPeriod, 10), strconv.FormatUint(period, 10))
		cfg.VotingPeriod = period
		return nil
	})
}

func (d *DAO) SetMinProposalAmount(ctx context.Context, amount *uint256.Int) error {
	return d.ownerUpdate(ctx, "set_min_proposal_amount", func(c *opCtx, cfg *Config) error {
		if orZero(amount).IsZero() {
			return reject(ErrInvalidArgument, "min proposal amount cannot be zero")
		}
		c.emitConfigUpdated("min_proposal_amount", orZero(cfg.MinProposalAmount).Dec(), amount.Dec())
		cfg.MinProposalAmount = clone(amount)
		return nil
	})
}

func (d *DAO) SetTaxAmount(ctx context.Context, amount *uint256.Int) error {
	return d.ownerUpdate(ctx, "set_tax_amount", func(c *opCtx, cfg *Config) error {
		if orZero(amount).IsZero() {
			return reject(ErrInvalidArgument, "tax amount cannot be zero")
		}
		c.emitConfigUpdated("tax_amount", orZero(cfg.TaxAmount).Dec(), amount.Dec())
		cfg.TaxAmount = clone(amount)
		return nil
	})
}

func (d *DAO) ownerUpdate(ctx context.Context, op string, fn func(c *opCtx, cfg *Config) error) error {
	return d.run(ctx, op, func(c *opCtx) error {
		cfg, err := c.st.loadConfig()
		if err != nil {
			return err
		}
		if err := c.requireOwner(cfg); err != nil {
			return err
		}
		if err := fn(c, cfg); err != nil {
			return err
		}
		c.st.saveConfig(cfg)
		return nil
	})
}

func clone(v *uint256.Int) *uint256.Int {
	if v == nil {
		return new(uint256.Int)
	}
	return new(uint256.Int).Set(v)
}
