// Package cli implements the fluid command-line interface: cp, mv and rm
// over local paths and object-store URLs.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/gobeaver/fluidpath"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Options configures the root command.
type Options struct {
	// Config is loaded from the environment when nil.
	Config *fluidpath.Config

	// Stores are served in place of the registered store for their scheme.
	Stores []fluidpath.ObjectStore
}

// UsageError marks errors caused by how the command was invoked.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string {
	return e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

// ExitCode maps an error returned by Execute to a process exit status:
// 0 on success, 2 for usage errors, 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var usage *UsageError
	if errors.As(err, &usage) {
		return 2
	}
	return 1
}

// Execute runs the fluid command with the process arguments.
func Execute(ctx context.Context) error {
	return NewRootCmd(Options{}).ExecuteContext(ctx)
}

// NewRootCmd builds the fluid command tree.
func NewRootCmd(opts Options) *cobra.Command {
	a := &app{opts: opts}

	rootCmd := &cobra.Command{
		Use:   "fluid",
		Short: "Copy, move and remove files across local disks and object stores",
		Long: `fluid copies, moves and removes files and directory trees. Every
location is either a local path or an object-store URL:

  ./data, /tmp/out, file:///tmp/out   local filesystem
  gs://bucket/prefix                  Google Cloud Storage
  s3://bucket/prefix                  Amazon S3 and compatible stores
  az://container/prefix               Azure Blob Storage

Object stores have no real directories: a prefix is a directory while at
least one object lives under it.

Settings are read from BEAVER_FLUIDPATH_* environment variables.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return &UsageError{Err: fmt.Errorf("unknown command %q for %q", args[0], cmd.CommandPath())}
			}
			_ = cmd.Help()
			return &UsageError{Err: errors.New("missing command")}
		},
	}
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})

	rootCmd.AddCommand(newCpCmd(a))
	rootCmd.AddCommand(newMvCmd(a))
	rootCmd.AddCommand(newRmCmd(a))

	return rootCmd
}

// exactArgs is cobra.ExactArgs reporting a UsageError.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return &UsageError{Err: err}
		}
		return nil
	}
}

// app carries what one command invocation needs.
type app struct {
	opts Options
}

func (a *app) open(cmd *cobra.Command) (*fluidpath.Client, error) {
	cfg := a.opts.Config
	if cfg == nil {
		var err error
		if cfg, err = fluidpath.GetConfig(); err != nil {
			return nil, err
		}
	}

	logger, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	logger = logger.With().Str("command", cmd.Name()).Logger()

	client, err := fluidpath.New(cfg, fluidpath.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	for _, s := range a.opts.Stores {
		client.Use(s)
	}
	return client, nil
}

// newLogger builds the command logger from the logging settings of cfg.
func newLogger(cfg *fluidpath.Config, w io.Writer) (zerolog.Logger, error) {
	level := zerolog.WarnLevel
	if cfg.LogLevel != "" {
		var err error
		if level, err = zerolog.ParseLevel(cfg.LogLevel); err != nil {
			return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
		}
	}

	out := w
	if cfg.LogFormat != "json" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}
