package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"estudozen/internal/bootstrap"
	apperrors "estudozen/internal/platform/errors"
	"estudozen/internal/platform/config"
)

type rootOptions struct {
	dataDir  string
	logLevel string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, errorPrefix, err)
		if errors.Is(err, apperrors.ErrCapabilityDenied) {
			_, _ = fmt.Fprintln(os.Stderr, "hint: run `estudozen dnd permission` to allow alerts")
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "estudozen",
		Short:         "Study timer, session ledger and agenda reminders",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "data directory (default $ESTUDOZEN_DATA_DIR or ~/.estudozen)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: trace|debug|info|warn|error|off")

	root.AddCommand(newTimerCmd(opts))
	root.AddCommand(newStatsCmd(opts))
	root.AddCommand(newAgendaCmd(opts))
	root.AddCommand(newDNDCmd(opts))
	root.AddCommand(newRemindersCmd(opts))
	root.AddCommand(newRunCmd(opts))
	root.AddCommand(newTUICmd(opts))
	return root
}

func (o *rootOptions) config() (config.Config, error) {
	cfg, err := config.New(o.dataDir)
	if err != nil {
		return config.Config{}, err
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	return cfg, nil
}

// withApp runs fn against a freshly wired App and saves state afterwards.
func (o *rootOptions) withApp(fn func(ctx context.Context, app *bootstrap.App) error) error {
	cfg, err := o.config()
	if err != nil {
		return err
	}
	return runApp(cfg, fn)
}

func runApp(cfg config.Config, fn func(ctx context.Context, app *bootstrap.App) error) error {
	app, err := bootstrap.New(cfg)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	runErr := fn(ctx, app)
	return errors.Join(runErr, app.Close())
}

func newRunCmd(opts *rootOptions) *cobra.Command {
	var metricsAddr string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the reminder daemon in the foreground",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := opts.config()
			if err != nil {
				return err
			}
			if metricsAddr != "" {
				cfg.MetricsAddr = metricsAddr
			}
			return runApp(cfg, bootstrap.RunDaemon)
		},
	}
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9464")
	return cmd
}

func newTUICmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the focus view",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := opts.config()
			if err != nil {
				return err
			}
			if opts.logLevel == "" {
				cfg.LogLevel = "off"
			}
			return runApp(cfg, bootstrap.RunTUI)
		},
	}
}
