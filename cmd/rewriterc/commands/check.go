package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/walteh/rewriterc/cmd/rewriterc/opts"
	"gitlab.com/tozd/go/errors"
)

// ErrPendingChanges is returned by check when at least one target would change
var ErrPendingChanges = errors.Base("rewrites pending")

// NewCheckCmd creates the check command
func NewCheckCmd(o *opts.RootOpts) *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Report files that a rewrite would change",
		Long: `Check runs like apply in dry-run mode and fails when any target would change.
Nothing is written. Useful in CI to make sure a tree is already rewritten.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			flags.dryRun = true
			p, err := plan(ctx, o, flags, args, cmd.Flags().Changed("encoding"))
			if err != nil {
				return err
			}
			p.dryRun = true

			o.Logger.Header("checking rewrite batches")

			outcomes, err := execute(ctx, o, p)
			if err != nil {
				return err
			}

			if n := pending(outcomes); n > 0 {
				o.UserLogger.LogStateChange(fmt.Sprintf("%d of %d files need rewriting", n, len(outcomes)))
				return errors.WithDetails(ErrPendingChanges, "files", n)
			}

			o.UserLogger.LogValidation(true, "All targets are up to date", nil)
			return nil
		},
	}

	addRunFlags(cmd, &flags)

	return cmd
}
