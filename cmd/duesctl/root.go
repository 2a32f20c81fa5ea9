package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/fatflowers/duesledger/internal/app"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "duesctl",
	Short: "Operator CLI for the dues ledger",
	Long: `duesctl runs dues operations against the configured database without
starting the HTTP server: reconciliation passes, status lookups and
offline payment promises.

Configuration is read like the service reads it (config.yaml, APP_*
variables); a .env file in the working directory is loaded first.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if file, _ := cmd.Flags().GetString("config"); file != "" {
			if err := os.Setenv("APP_CONFIG_FILE", file); err != nil {
				return err
			}
		}
		if date, _ := cmd.Flags().GetString("test-date"); date != "" {
			return os.Setenv("APP_DUES_TEST_DATE", date)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to the config file (overrides APP_CONFIG_FILE)")
	rootCmd.PersistentFlags().String("test-date", "", "Evaluate as of this date (YYYY-MM-DD) instead of today")
}

// withApp starts the core services, populates targets and runs fn.
func withApp(ctx context.Context, fn func() error, targets ...any) (err error) {
	a := fx.New(
		app.CoreModule,
		fx.WithLogger(func(l *zap.SugaredLogger) fxevent.Logger {
			zl := &fxevent.ZapLogger{Logger: l.Desugar()}
			zl.UseLogLevel(zap.DebugLevel)
			return zl
		}),
		fx.Populate(targets...),
	)
	startCtx, cancel := context.WithTimeout(ctx, app.DefaultStartTimeout)
	defer cancel()
	if err := a.Start(startCtx); err != nil {
		return fmt.Errorf("failed to start: %w", err)
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), app.DefaultStopTimeout)
		defer cancel()
		if stopErr := a.Stop(stopCtx); stopErr != nil && err == nil {
			err = fmt.Errorf("failed to stop: %w", stopErr)
		}
	}()
	return fn()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
