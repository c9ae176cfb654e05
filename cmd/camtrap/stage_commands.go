package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"camtrap/internal/pipeline"
	"camtrap/internal/tabular"
)

func newDeploymentsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deployments",
		Short: "Build the deployment registry from the field sheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			stage := &pipeline.Deployments{}
			if err := ctx.runStages(cmd.Context(), stage); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Registered %d deployments\n", stage.Count)
			printRowErrors(out, stage.RowErrors)
			return nil
		},
	}
}

func newLinkCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "link",
		Short: "Link media to deployments by camera serial and capture time",
		RunE: func(cmd *cobra.Command, args []string) error {
			stage := &pipeline.Link{}
			if err := ctx.runStages(cmd.Context(), stage); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			summary := stage.Summary
			fmt.Fprintln(out, renderTable(out,
				[]string{"Total", "Linked", "Unmatched", "Ambiguous"},
				[][]string{{
					strconv.Itoa(summary.Total),
					strconv.Itoa(summary.Linked),
					strconv.Itoa(summary.Unmatched),
					strconv.Itoa(summary.Ambiguous),
				}},
				[]columnAlignment{alignRight, alignRight, alignRight, alignRight}))
			printRowErrors(out, stage.RowErrors)
			return nil
		},
	}
}

func newObservationsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "observations",
		Short: "Derive the baseline observation table from linked media",
		RunE: func(cmd *cobra.Command, args []string) error {
			stage := &pipeline.Observations{}
			if err := ctx.runStages(cmd.Context(), stage); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote %d observations\n", stage.Count)
			if stage.TemplatePath != "" {
				fmt.Fprintf(out, "Label template: %s\n", stage.TemplatePath)
			}
			return nil
		},
	}
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the deployments, link, and observations stages in order",
		RunE: func(cmd *cobra.Command, args []string) error {
			deployments := &pipeline.Deployments{}
			link := &pipeline.Link{}
			observations := &pipeline.Observations{}
			if err := ctx.runStages(cmd.Context(), deployments, link, observations); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Registered %d deployments\n", deployments.Count)
			summary := link.Summary
			fmt.Fprintf(out, "Linked %d/%d media (%d unmatched, %d ambiguous)\n",
				summary.Linked, summary.Total, summary.Unmatched, summary.Ambiguous)
			fmt.Fprintf(out, "Wrote %d observations\n", observations.Count)
			printRowErrors(out, deployments.RowErrors)
			printRowErrors(out, link.RowErrors)
			return nil
		},
	}
}

func printRowErrors(out io.Writer, rowErrors []tabular.RowError) {
	if len(rowErrors) == 0 {
		return
	}
	fmt.Fprintf(out, "Rejected %d rows:\n", len(rowErrors))
	rows := make([][]string, 0, len(rowErrors))
	for _, rowErr := range rowErrors {
		rows = append(rows, []string{strconv.Itoa(rowErr.Line), rowErr.Field, rowErr.Message})
	}
	fmt.Fprintln(out, renderTable(out,
		[]string{"Line", "Field", "Problem"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft}))
}
