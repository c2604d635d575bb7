package cli

import (
	"github.com/spf13/cobra"

	"franchise_dao/contract"
	"franchise_dao/internal/cli/render"
	"franchise_dao/sdk"
)

// NewBankCmd creates the bank command group for the local ledger
func NewBankCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bank",
		Short: "Fund and inspect accounts of the local ledger",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "deposit <address> <asset> <amount>",
		Short: "Credit an account (local runs only)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp(cmd)
			if err != nil {
				return err
			}
			v, err := parseAmount(args[2])
			if err != nil {
				return err
			}
			addr := sdk.Address(args[0]).Canonical()
			if err := a.Ledger.Mint(addr, sdk.Asset(args[1]), v); err != nil {
				return err
			}
			return done(cmd, a, "credited %s %s to %s", v.Dec(), args[1], addr)
		},
	})

	var custody bool
	balance := &cobra.Command{
		Use:   "balance [address]",
		Short: "Show balances in every voting token",
		Long: `Shows the balance of an address (the caller by default, or the contract
custody account with --custody) in the governance token and every voting token.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp(cmd)
			if err != nil {
				return err
			}
			addr := a.Config.Caller
			switch {
			case custody:
				addr = a.Ledger.Custody()
			case len(args) == 1:
				addr = sdk.Address(args[0]).Canonical()
			}
			assets, err := trackedAssets(cmd, a.DAO)
			if err != nil {
				return err
			}
			lines := make([]sdk.Payment, 0, len(assets))
			for _, asset := range assets {
				bal, err := a.Ledger.Balance(addr, asset)
				if err != nil {
					return err
				}
				lines = append(lines, sdk.Payment{Asset: asset, Amount: bal})
			}
			return render.NewBalancesRenderer(cmd.OutOrStdout(), a.Config.JSON).Render(addr, lines)
		},
	}
	balance.Flags().BoolVar(&custody, "custody", false, "Show the contract custody account")
	cmd.AddCommand(balance)
	return cmd
}

// trackedAssets lists the governance token followed by the other voting tokens.
func trackedAssets(cmd *cobra.Command, dao *contract.DAO) ([]sdk.Asset, error) {
	cfg, err := dao.Config(cmd.Context())
	if err != nil {
		return nil, err
	}
	tokens, err := dao.VotingTokens(cmd.Context())
	if err != nil {
		return nil, err
	}
	out := []sdk.Asset{cfg.GovernanceToken}
	for _, t := range tokens {
		if t.Asset != cfg.GovernanceToken {
			out = append(out, t.Asset)
		}
	}
	return out, nil
}
