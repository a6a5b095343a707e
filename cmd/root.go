package cmd

import (
	"fmt"
	"io"

	"github.com/compozy/bumpver/internal/domain"
	"github.com/compozy/bumpver/internal/orchestrator"
	"github.com/compozy/bumpver/pkg/version"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var rootCmd *cobra.Command

// NewRootCmd builds the command tree. msgFs is where --file is read from.
func NewRootCmd(
	bump *orchestrator.BumpOrchestrator,
	tracker *orchestrator.TrackerOrchestrator,
	msgFs afero.Fs,
) *cobra.Command {
	var (
		messageFile string
		dryRun      bool
	)
	cmd := &cobra.Command{
		Use:   "bumpver [flags] [--] <commit-message>",
		Short: "Bump project versions from commit messages",
		Long: `bumpver classifies a commit message and bumps the project version.

  fix(<scope>): ...      patch bump
  feature(<scope>): ...  minor bump
  release(<scope>): ...  major bump

Each branch receives at most one semantic bump until it is reset with
"bumpver reset". Every configured manifest is rewritten together or not at all.

Use "--" before a message that could be mistaken for a subcommand or flag,
or pass the commit message file with --file from a commit-msg hook.`,
		Version:       version.Summary(),
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			message, err := readMessage(msgFs, messageFile, args)
			if err != nil {
				return err
			}
			result, err := bump.Execute(cmd.Context(), orchestrator.BumpRequest{Message: message, DryRun: dryRun})
			if err != nil {
				return err
			}
			printBumpResult(cmd.OutOrStdout(), result)
			return nil
		},
	}
	cmd.Flags().StringVarP(&messageFile, "file", "F", "", "Read the commit message from a file (commit-msg hook)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report the bump without writing anything")
	cmd.AddCommand(NewResetCmd(tracker))
	cmd.AddCommand(NewStatusCmd(tracker))
	cmd.AddCommand(newVersionCmd())
	return cmd
}

func Execute() error {
	return rootCmd.Execute()
}

func readMessage(fs afero.Fs, path string, args []string) (string, error) {
	if path == "" {
		if len(args) != 1 {
			return "", fmt.Errorf("expected exactly one commit message argument")
		}
		return args[0], nil
	}
	if len(args) > 0 {
		return "", fmt.Errorf("--file cannot be combined with a message argument")
	}
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return "", domain.NewIOError("read", path, err)
	}
	return domain.StripCommentLines(string(data)), nil
}

func printBumpResult(out io.Writer, r *orchestrator.BumpResult) {
	if !r.Changed() {
		switch {
		case r.AlreadyBumped:
			fmt.Fprintf(out, "No version bump: branch %s was already bumped (%s ignored)\n", r.Branch, r.Kind)
		case r.Detached:
			fmt.Fprintf(out, "No version bump: HEAD is detached (%s ignored)\n", r.Kind)
		default:
			fmt.Fprintln(out, "No version bump for this commit message")
		}
		return
	}
	verb, fileVerb := "Version bumped", "Updated"
	if r.DryRun {
		verb, fileVerb = "Would bump version", "Would update"
	}
	fmt.Fprintf(out, "%s: %s -> %s (%s)\n", verb, r.From, r.To, r.Applied)
	for _, f := range r.Files {
		fmt.Fprintf(out, "%s: %s\n", fileVerb, f)
	}
}
