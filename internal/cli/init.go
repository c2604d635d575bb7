package cli

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"franchise_dao/internal/app"
	"franchise_dao/internal/cli/render"
	"franchise_dao/internal/config"
	"franchise_dao/sdk"
)

// NewInitCmd creates the init command
func NewInitCmd() *cobra.Command {
	var genesisPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the DAO from a genesis file",
		Long: `Reads a genesis YAML file, initializes the configuration, the board and
the voting token ledger with the caller as owner, funds the listed ledger
accounts and optionally activates the DAO.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp(cmd)
			if err != nil {
				return err
			}
			if err := requireCaller(a); err != nil {
				return err
			}
			g, err := config.LoadGenesis(genesisPath)
			if err != nil {
				return err
			}
			initArgs, err := g.InitArgs()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := a.DAO.Init(ctx, initArgs); err != nil {
				return err
			}

			holders := make([]string, 0, len(g.Balances))
			for h := range g.Balances {
				holders = append(holders, h)
			}
			sort.Strings(holders)
			for _, h := range holders {
				for asset, amount := range g.Balances[h] {
					v, err := parseAmount(amount)
					if err != nil {
						return errors.Wrapf(err, "balance of %s", h)
					}
					if err := a.Ledger.Mint(sdk.Address(h).Canonical(), sdk.Asset(asset), v); err != nil {
						return err
					}
				}
			}

			if g.Activate {
				if err := a.DAO.SetStateActive(ctx); err != nil {
					return err
				}
			}
			return done(cmd, a, "DAO initialized by %s (%d board members, %d accounts funded)",
				a.Config.Caller, len(initArgs.BoardMembers), len(holders))
		},
	}

	cmd.Flags().StringVarP(&genesisPath, "genesis", "g", "genesis.yaml", "Genesis file")
	return cmd
}

// NewStateCmd creates the state command group
func NewStateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Show or switch the DAO state",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp(cmd)
			if err != nil {
				return err
			}
			return showConfig(cmd, a)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "activate",
		Short: "Activate the DAO (owner only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp(cmd)
			if err != nil {
				return err
			}
			if err := a.DAO.SetStateActive(cmd.Context()); err != nil {
				return err
			}
			return done(cmd, a, "DAO is active")
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "deactivate",
		Short: "Deactivate the DAO (owner only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp(cmd)
			if err != nil {
				return err
			}
			if err := a.DAO.SetStateInactive(cmd.Context()); err != nil {
				return err
			}
			return done(cmd, a, "DAO is inactive")
		},
	})
	cmd.AddCommand(newOwnerSetCmd())
	return cmd
}

// newOwnerSetCmd exposes the owner-only direct setters.
func newOwnerSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <quorum|voting-period|min-proposal-amount|tax> <value>",
		Short: "Change a setting directly (owner only)",
		Args:  cobra.ExactArgs(2),
		ValidArgs: []string{
			"quorum", "voting-period", "min-proposal-amount", "tax",
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			switch args[0] {
			case "voting-period":
				period, err := parseID(args[1])
				if err != nil {
					return err
				}
				err = a.DAO.SetVotingPeriod(ctx, period)
				if err != nil {
					return err
				}
			case "quorum", "min-proposal-amount", "tax":
				v, err := parseAmount(args[1])
				if err != nil {
					return err
				}
				switch args[0] {
				case "quorum":
					err = a.DAO.SetQuorum(ctx, v)
				case "min-proposal-amount":
					err = a.DAO.SetMinProposalAmount(ctx, v)
				default:
					err = a.DAO.SetTaxAmount(ctx, v)
				}
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown setting %q", args[0])
			}
			return done(cmd, a, "%s set to %s", args[0], args[1])
		},
	}
	return cmd
}

func showConfig(cmd *cobra.Command, a *app.App) error {
	ctx := cmd.Context()
	cfg, err := a.DAO.Config(ctx)
	if err != nil {
		return err
	}
	members, err := a.DAO.BoardMembers(ctx)
	if err != nil {
		return err
	}
	tokens, err := a.DAO.VotingTokens(ctx)
	if err != nil {
		return err
	}
	return render.NewConfigRenderer(cmd.OutOrStdout(), a.Config.JSON).Render(cfg, members, tokens)
}
