package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"franchise_dao/internal/app"
	"franchise_dao/internal/config"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// Execute runs daoctl with args and releases the app afterwards, even when
// the command fails.
func Execute(ctx context.Context, args []string, out io.Writer) error {
	rootCmd, closeApp := NewRootCmd()
	defer closeApp()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(out)
	return rootCmd.ExecuteContext(ctx)
}

// NewRootCmd creates the root command of daoctl. The returned func closes
// whatever the command opened.
func NewRootCmd() (*cobra.Command, func()) {
	var cleanup func()

	rootCmd := &cobra.Command{
		Use:   "daoctl",
		Short: "Operate a board governed token-voting DAO",
		Long: `daoctl runs the DAO governance core against a local store: token-voted
proposals with escrowed deposits, and a multisig board that changes the
configuration through signed actions.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cleanup != nil {
				return nil
			}

			dataDir, _ := cmd.Flags().GetString("data-dir")
			v := config.SetupViper(dataDir)
			config.BindFlags(v, cmd.Flags())

			appInstance, done, err := app.InitApp(v)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}
			cleanup = done

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)
			if appInstance.Config.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
				prev := cleanup
				cleanup = func() {
					cancel()
					prev()
				}
			}
			cmd.SetContext(ctx)
			return nil
		},
	}

	rootCmd.PersistentFlags().String("data-dir", config.DefaultDataDir, "Directory holding state and config")
	rootCmd.PersistentFlags().String("store", "", "State backend: memory, leveldb or bolt")
	rootCmd.PersistentFlags().Int("cache-size", 0, "LRU read cache entries (0 keeps the configured value)")
	rootCmd.PersistentFlags().StringP("caller", "c", "", "Address the operation runs as")
	rootCmd.PersistentFlags().Uint64("height", 0, "Override the chain height for this invocation")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("json", false, "Print results as JSON")

	rootCmd.AddGroup(&cobra.Group{ID: "governance", Title: "Governance Commands"})
	rootCmd.AddGroup(&cobra.Group{ID: "host", Title: "Local Host Commands"})

	for _, c := range []*cobra.Command{NewInitCmd(), NewStateCmd(), NewProposalCmd(), NewBoardCmd()} {
		c.GroupID = "governance"
		rootCmd.AddCommand(c)
	}
	for _, c := range []*cobra.Command{NewBankCmd(), NewChainCmd()} {
		c.GroupID = "host"
		rootCmd.AddCommand(c)
	}
	return rootCmd, func() {
		if cleanup != nil {
			cleanup()
			cleanup = nil
		}
	}
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}
	a, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}
	return a, nil
}

// requireCaller fails early when an operation needs a caller and none is set.
func requireCaller(a *app.App) error {
	if a.Config.Caller == "" {
		return fmt.Errorf("no caller set: pass --caller or set DAO_CALLER")
	}
	return nil
}
