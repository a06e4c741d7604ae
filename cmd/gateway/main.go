package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/xn-coder/Project-Gateway/internal/app"
	"github.com/xn-coder/Project-Gateway/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "gateway: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gateway",
		Short: "Project Gateway operations CLI",
		Long: `gateway runs the intake server, prepares its database and bucket, and lets an operator
triage submissions from the terminal using the same workflow as the admin API.`,
		SilenceUsage: true,
	}
	cmd.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newHashPasswordCmd(),
		newSubmissionsCmd(),
	)
	return cmd
}

// withApp loads configuration, wires the application and runs fn with it.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	ctx := cmd.Context()
	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logFile, err := config.InitLogging(cfg.LogFile)
			if err != nil {
				return fmt.Errorf("init logging: %w", err)
			}
			defer logFile.Close()
			a, err := app.New(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.Server().Run(cmd.Context())
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the submissions schema and the attachment bucket if missing",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				fmt.Fprintf(cmd.OutOrStdout(), "%s store and %s file storage are ready\n", a.Config.StoreDriver, a.Service.Files().Name())
				return nil
			})
		},
	}
}
