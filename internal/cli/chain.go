package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"franchise_dao/internal/cli/render"
)

// NewChainCmd creates the chain command group for the local clock and outbox
func NewChainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chain",
		Short: "Local block height and dispatched calls",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "height",
		Short: "Print the current block height",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp(cmd)
			if err != nil {
				return err
			}
			h, err := a.Clock.Height()
			if err != nil {
				return err
			}
			if a.Config.JSON {
				return render.JSON(cmd.OutOrStdout(), map[string]uint64{"height": h})
			}
			fmt.Fprintln(cmd.OutOrStdout(), h)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "advance <blocks>",
		Short: "Move the block height forward",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp(cmd)
			if err != nil {
				return err
			}
			n, err := parseID(args[0])
			if err != nil {
				return err
			}
			h, err := a.Clock.Advance(n)
			if err != nil {
				return err
			}
			return done(cmd, a, "height is now %d", h)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "outbox",
		Short: "List the calls executed proposals dispatched",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp(cmd)
			if err != nil {
				return err
			}
			entries, err := a.Outbox.Entries()
			if err != nil {
				return err
			}
			return render.RenderOutbox(cmd.OutOrStdout(), entries, a.Config.JSON)
		},
	})
	return cmd
}
