package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"camtrap/internal/pipeline"
	"camtrap/internal/reconcile"
)

func newMergeCommand(ctx *commandContext) *cobra.Command {
	var inPlace bool
	var useDetections bool
	var labeledBy string

	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Reconcile edited labels into the observation table",
		Long: `Reconcile the hand-edited label table into the observation table.

By default the result is written to a separate reviewable artifact. Once a
non-destructive merge has succeeded, --inplace overwrites the observation
table itself after taking a timestamped backup.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			stage := &pipeline.Merge{
				InPlace:       inPlace,
				UseDetections: useDetections,
				EditedBy:      labeledBy,
			}
			if err := ctx.runStages(cmd.Context(), stage); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printMergeReport(out, stage.Report)
			if stage.Machine != nil {
				printMachineReport(out, stage.Machine)
			}
			if stage.BackupPath != "" {
				fmt.Fprintf(out, "Backup: %s\n", stage.BackupPath)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&inPlace, "inplace", false, "Overwrite the observation table (requires a prior non-destructive merge)")
	cmd.Flags().BoolVar(&useDetections, "detections", false, "Also fill unclassified rows from the machine-detections table")
	cmd.Flags().StringVar(&labeledBy, "labeled-by", "", "Name recorded in classifiedBy for applied edits")
	return cmd
}

func printMergeReport(out io.Writer, report *reconcile.Report) {
	if report == nil {
		return
	}
	if report.Clean() && len(report.Applied) == 0 {
		fmt.Fprintln(out, "No changes: edited labels match the observation table")
		return
	}

	fmt.Fprintf(out, "%d rows changed (%d field updates)\n", report.RowsChanged, len(report.Applied))

	if len(report.Conflicts) > 0 {
		fmt.Fprintf(out, "Skipped %d conflicting rows:\n", len(report.Conflicts))
		rows := make([][]string, 0, len(report.Conflicts))
		for _, conflict := range report.Conflicts {
			rows = append(rows, []string{
				strconv.Itoa(conflict.Line), conflict.Field, conflict.Expected, conflict.Actual,
			})
		}
		fmt.Fprintln(out, renderTable(out,
			[]string{"Line", "Field", "Stored", "Edited"},
			rows,
			[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft}))
	}

	if len(report.FieldErrors) > 0 {
		fmt.Fprintf(out, "Rejected %d fields:\n", len(report.FieldErrors))
		rows := make([][]string, 0, len(report.FieldErrors))
		for _, fieldErr := range report.FieldErrors {
			rows = append(rows, []string{
				strconv.Itoa(fieldErr.Line), fieldErr.Field, fieldErr.Value, fieldErr.Message,
			})
		}
		fmt.Fprintln(out, renderTable(out,
			[]string{"Line", "Field", "Value", "Problem"},
			rows,
			[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft}))
	}

	if len(report.Orphans) > 0 {
		fmt.Fprintf(out, "%d edit rows matched no observation:\n", len(report.Orphans))
		rows := make([][]string, 0, len(report.Orphans))
		for _, orphan := range report.Orphans {
			rows = append(rows, []string{strconv.Itoa(orphan.Line), orphan.Key})
		}
		fmt.Fprintln(out, renderTable(out,
			[]string{"Line", "Key"},
			rows,
			[]columnAlignment{alignRight, alignLeft}))
	}
}

func printMachineReport(out io.Writer, report *reconcile.MachineReport) {
	fmt.Fprintf(out, "Detections: %d applied, %d below threshold, %d human rows kept, %d without detections\n",
		len(report.Applied), report.SkippedLowConfidence, report.SkippedHuman, report.NoDetection)
}
