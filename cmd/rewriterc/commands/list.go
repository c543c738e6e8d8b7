package commands

import (
	"github.com/spf13/cobra"
	"github.com/walteh/rewriterc/cmd/rewriterc/opts"
)

// NewListCmd creates the list command
func NewListCmd(o *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List builtin presets and their rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, e := range o.Catalog.List() {
				rules := make([]string, 0, len(e.Batch.Rules))
				for _, r := range e.Batch.Rules {
					rules = append(rules, r.String())
				}
				o.UserLogger.LogBatch(e.Name, e.Description, rules)
			}
			return nil
		},
	}
}
