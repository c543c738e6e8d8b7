package commands

import (
	"github.com/spf13/cobra"
	"github.com/walteh/rewriterc/cmd/rewriterc/opts"
	"github.com/walteh/rewriterc/pkg/resource"
)

func addRunFlags(cmd *cobra.Command, flags *runFlags) {
	cmd.Flags().StringArrayVarP(&flags.presets, "preset", "p", nil, "preset to apply (repeatable, applied in order)")
	cmd.Flags().StringVar(&flags.encoding, "encoding", resource.DefaultEncoding, "text encoding of the target files")
	cmd.Flags().BoolVar(&flags.verify, "verify", false, "fail when a second pass over the result would change it again")
}

// NewApplyCmd creates the apply command
func NewApplyCmd(o *opts.RootOpts) *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "apply [paths...]",
		Short: "Rewrite files with presets or the rule file",
		Long: `Apply rewrite batches to files.

With paths, the --preset batches run against exactly those files.
Without paths, targets come from the rule file (--config).
A run either rewrites every target it reads or reports why it could not.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			p, err := plan(ctx, o, flags, args, cmd.Flags().Changed("encoding"))
			if err != nil {
				return err
			}

			o.Logger.Header("applying rewrite batches")

			_, err = execute(ctx, o, p)
			return err
		},
	}

	addRunFlags(cmd, &flags)
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "report and diff the changes without writing")

	return cmd
}
