package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/five82/arbor/internal/app"
)

// NewCheckCmd creates the check command.
func NewCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Load the remote configuration and try every stage image",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := app.Check(cmd.Context(), optionsFrom(cmd))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			snap := report.Snapshot
			fmt.Fprintf(out, "stages: %v\n", snap.Stages)
			if err := snap.Validate(); err != nil {
				fmt.Fprintf(out, "warning: %v\n", err)
			}
			fmt.Fprintf(out, "poll interval: %v\n\n", snap.Interval())

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "STAGE\tKIND\tSIZE\tRESULT")
			for _, img := range report.Images {
				size, result := "-", "ok"
				if img.Err != nil {
					result = img.Err.Error()
				} else {
					size = fmt.Sprintf("%dx%d", img.Width, img.Height)
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", img.Stage, img.Kind, size, result)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			if n := report.Failed(); n > 0 {
				return fmt.Errorf("%d of %d images failed", n, len(report.Images))
			}
			return nil
		},
	}
}
