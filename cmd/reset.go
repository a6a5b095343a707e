package cmd

import (
	"fmt"
	"strings"

	"github.com/compozy/bumpver/internal/orchestrator"
	"github.com/spf13/cobra"
)

// NewResetCmd creates the reset command
func NewResetCmd(o *orchestrator.TrackerOrchestrator) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "reset [branch...]",
		Short: "Allow branches to take a semantic bump again",
		Long: `Remove branches from the bump tracker.

Without arguments the current branch is reset. With --all the whole tracker is
cleared, which is what a release cycle boundary usually wants.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if all && len(args) > 0 {
				return fmt.Errorf("--all cannot be combined with branch arguments")
			}
			for _, b := range args {
				if err := orchestrator.ValidateBranchName(b); err != nil {
					return err
				}
			}
			reset, err := o.Reset(cmd.Context(), orchestrator.ResetRequest{Branches: args, All: all})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if all {
				fmt.Fprintln(out, "Reset all branches")
				return nil
			}
			fmt.Fprintf(out, "Reset: %s\n", strings.Join(reset, ", "))
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Reset every tracked branch")
	return cmd
}
