package cmd

import (
	"fmt"
	"io"

	"github.com/compozy/bumpver/internal/orchestrator"
	"github.com/compozy/bumpver/internal/usecase"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

// NewStatusCmd creates the status command
func NewStatusCmd(o *orchestrator.TrackerOrchestrator) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show tracked branches and manifest versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := o.Status(cmd.Context())
			if err != nil {
				return err
			}
			renderStatus(cmd.OutOrStdout(), st)
			return nil
		},
	}
}

func renderStatus(out io.Writer, st *usecase.Status) {
	mt := table.NewWriter()
	mt.SetOutputMirror(out)
	mt.AppendHeader(table.Row{"Manifest", "Format", "Version"})
	for i, m := range st.Manifests {
		name := m.Manifest.Path
		if i == 0 {
			name += " (primary)"
		}
		version := m.Version
		if m.Err != nil {
			version = text.FgRed.Sprint(m.Err.Error())
		}
		mt.AppendRow(table.Row{name, string(m.Manifest.Format), version})
	}
	mt.SetStyle(table.StyleRounded)
	mt.Render()
	if !st.Consistent {
		fmt.Fprintln(out, text.FgRed.Sprint("Manifests disagree; the next bump will fail until they match"))
	}

	fmt.Fprintln(out)
	if len(st.Branches) == 0 {
		fmt.Fprintln(out, "No branches bumped")
		return
	}
	bt := table.NewWriter()
	bt.SetOutputMirror(out)
	bt.AppendHeader(table.Row{"Bumped branch"})
	for _, b := range st.Branches {
		bt.AppendRow(table.Row{b})
	}
	bt.SetStyle(table.StyleRounded)
	bt.Render()
}
