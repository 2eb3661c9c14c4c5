package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gamut/internal/cal"
)

func newCalCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "cal <file.cal> [more.cal ...]",
		Short:       "Estimate driver tuning parameters from calibration curves",
		Long:        "Analyzes device calibration (.cal) files and prints suggested Gutenprint parameters. Pass the files from successive runs in order to refine the estimate cumulatively.",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		Args:        cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := cal.EstimateFiles(args)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, 16)
			for _, entry := range params.Entries() {
				rows = append(rows, []string{
					entry.Name,
					fmt.Sprintf("%.4f", entry.Value),
					entry.Note,
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Parameters after %d run(s):\n", len(args))
			fmt.Fprintln(out, renderTable(
				[]column{{title: "Parameter"}, {title: "Value", right: true}, {title: "Note"}},
				rows,
			))
			fmt.Fprintln(out, "Copy these values into the printer's driver definition.")
			return nil
		},
	}
}
