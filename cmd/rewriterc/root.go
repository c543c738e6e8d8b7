package main

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/rewriterc/cmd/rewriterc/commands"
	"github.com/walteh/rewriterc/cmd/rewriterc/opts"
	"github.com/walteh/rewriterc/pkg/catalog"
	"github.com/walteh/rewriterc/pkg/log"
)

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	cmd.PersistentFlags().StringVarP(&o.ConfigFile, "config", "c", "", "rule file path (default .rewriterc.hcl)")
	cmd.PersistentFlags().BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging")
}

// setupLogging builds the zerolog logger for the run and attaches both loggers to the context
func setupLogging(cmd *cobra.Command, o *opts.RootOpts) {
	level := zerolog.InfoLevel
	if o.Debug {
		level = zerolog.DebugLevel
	}
	zlog := zerolog.New(zerolog.ConsoleWriter{Out: o.Stderr, NoColor: true}).Level(level).With().Timestamp().Logger()

	ctx := zlog.WithContext(cmd.Context())
	o.Logger = log.NewWithZerolog(o.Stdout, zlog)
	ctx = log.NewContext(ctx, o.Logger)
	o.UserLogger = log.NewUserLogger(ctx, o.Stdout)

	cmd.SetContext(ctx)
}

// newRootCmd creates the command tree writing to stdout and stderr
func newRootCmd(stdout, stderr io.Writer) (*cobra.Command, *opts.RootOpts) {
	o := &opts.RootOpts{
		Stdout:  stdout,
		Stderr:  stderr,
		Catalog: catalog.Default(),
	}

	cmd := &cobra.Command{
		Use:   "rewriterc",
		Short: "Apply ordered textual rewrite rules to files",
		Long: `rewriterc applies ordered batches of literal and pattern rewrite rules to files.
Rules come from builtin presets or a rule file; runs are idempotent and report
how many replacements every rule made.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(cmd, o)
		},
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	addRootFlags(cmd, o)

	cmd.AddCommand(
		commands.NewApplyCmd(o),
		commands.NewCheckCmd(o),
		commands.NewListCmd(o),
		newVersionCmd(),
	)

	return cmd, o
}
