package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/AlexZinkM/disperse/disperse"
	"github.com/AlexZinkM/disperse/internal/model"
)

// parse [file]: dry run, print the plan and rejected lines.
func parseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse recipients and print the batch plan without sending",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			parser := newParser()
			result := parser.Parse(text)
			printParseErrors(cmd.ErrOrStderr(), result.Errors)

			plan, err := disperse.Aggregate(result.Entries)
			if err != nil {
				return err
			}
			printPlan(cmd.OutOrStdout(), parser, plan)

			if len(result.Errors) > 0 {
				return fmt.Errorf("%d line(s) rejected", len(result.Errors))
			}
			return nil
		},
	}
}

func printParseErrors(w io.Writer, errs []model.ParseError) {
	for _, pe := range errs {
		fmt.Fprintf(w, "line %d: %s: %q\n", pe.LineNumber, pe.Reason, pe.RawLine)
	}
}

func printPlan(w io.Writer, parser *disperse.Parser, plan *model.BatchPlan) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, addr := range plan.Addresses {
		fmt.Fprintf(tw, "%s\t%s\n", addr, parser.FormatAmount(plan.Amounts[i]))
	}
	fmt.Fprintf(tw, "total (%d recipients)\t%s\n", plan.Len(), parser.FormatAmount(plan.Total))
	tw.Flush()
}
