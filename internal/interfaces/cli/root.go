package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/riskibarqy/pickem-standings/internal/app"
	"github.com/riskibarqy/pickem-standings/internal/config"
	"github.com/riskibarqy/pickem-standings/internal/platform/logging"
)

// RootOptions holds the flags and hooks shared by every subcommand.
type RootOptions struct {
	Pretty bool

	loadConfig func() (config.Config, error)
	logOutput  io.Writer
}

func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{loadConfig: config.Load, logOutput: os.Stderr})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "scorer",
		Short:         "Weekly pick'em scoring and standings engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVar(&opts.Pretty, "pretty", false, "indent JSON output")

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newCalculateCommand(opts))
	cmd.AddCommand(newEnsureCommand(opts))
	cmd.AddCommand(newVerifyCommand(opts))
	cmd.AddCommand(newSweepCommand(opts))
	cmd.AddCommand(newHealthCommand(opts))
	cmd.AddCommand(newStandingsCommand(opts))
	cmd.AddCommand(newMigrateCommand(opts))

	return cmd
}

// loadRuntime loads configuration and builds the process logger. Logs go to
// stderr so command output on stdout stays machine readable.
func (o *RootOptions) loadRuntime() (config.Config, *logging.Logger, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("load config: %w", err)
	}
	logger := logging.New(logging.Options{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Output:  o.logOutput,
		Service: cfg.ServiceName,
		Version: cfg.ServiceVersion,
	})
	logging.SetDefault(logger)
	return cfg, logger, nil
}

// withApp builds the engine for a one-shot command and closes it afterwards.
func (o *RootOptions) withApp(ctx context.Context, fn func(context.Context, *app.App) error) error {
	cfg, logger, err := o.loadRuntime()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	a, err := app.Build(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("build app: %w", err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn("close app", "error", err)
		}
	}()

	return fn(ctx, a)
}

func (o *RootOptions) printJSON(cmd *cobra.Command, v any) error {
	var (
		raw []byte
		err error
	)
	if o.Pretty {
		raw, err = sonic.ConfigStd.MarshalIndent(v, "", "  ")
	} else {
		raw, err = sonic.ConfigStd.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	out := cmd.OutOrStdout()
	if _, err := out.Write(raw); err != nil {
		return err
	}
	_, err = io.WriteString(out, "\n")
	return err
}
