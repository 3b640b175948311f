package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/xelth-com/eckcheckin/internal/buildinfo"
	"github.com/xelth-com/eckcheckin/internal/config"
)

// app carries what every subcommand needs
type app struct {
	out     io.Writer
	verbose bool
	logger  *zap.Logger
	cfg     *config.Config
}

// Execute runs the CLI; cobra has already printed any returned error
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return newRootCmd(&app{out: os.Stdout}).ExecuteContext(ctx)
}

func newRootCmd(a *app) *cobra.Command {
	ownLogger := a.logger == nil

	cmd := &cobra.Command{
		Use:   "eckcheckin",
		Short: "Warehouse check-in QR codes and API gateway smoke checks",
		Long: `eckcheckin prepares the visitor check-in rollout:

  qr       generate printable QR codes for each warehouse security cabin
  gateway  verify the deployed API gateway forwards requests to the service`,
		Version:      buildinfo.String(),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if ownLogger {
				logger, err := newLogger(a.verbose)
				if err != nil {
					return fmt.Errorf("failed to initialize logger: %w", err)
				}
				a.logger = logger
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			a.cfg = cfg
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if ownLogger && a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	cmd.SetOut(a.out)
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging on stderr")

	cmd.AddCommand(newQRCmd(a), newGatewayCmd(a), newVersionCmd(a))
	return cmd
}

// newLogger writes JSON logs to stderr, keeping stdout for the report
func newLogger(verbose bool) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return zcfg.Build()
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			_, err := fmt.Fprintln(a.out, buildinfo.String())
			return err
		},
	}
}
