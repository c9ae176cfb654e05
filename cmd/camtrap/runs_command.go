package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"camtrap/internal/runlog"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Show recent pipeline runs from the ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, closeEnv, err := ctx.pipelineEnv()
			if err != nil {
				return err
			}
			defer closeEnv()

			runs, err := env.Runs.List(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded yet")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					run.StartedAt.Local().Format("2006-01-02 15:04:05"),
					run.Command,
					string(run.Status),
					mode(run),
					run.Detail,
					run.OutputPath,
				})
			}
			fmt.Fprintln(out, renderTable(out,
				[]string{"Started", "Stage", "Status", "Mode", "Detail", "Output"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft}))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to show")
	return cmd
}

func mode(run runlog.Run) string {
	if run.Command != "merge" {
		return ""
	}
	if run.InPlace {
		return "in-place"
	}
	return "preview"
}
