package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/arbor/internal/app"
	"github.com/five82/arbor/internal/milestone"
)

// NewViewCmd creates the view command.
func NewViewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Start the terminal viewer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runView(cmd)
		},
	}
}

// NewWatchCmd creates the watch command.
func NewWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Follow the tree without a UI",
		Long: `Follow the backend like the viewer does, logging stage changes to stderr
and printing reached milestones to stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd)
		},
	}
}

func runView(cmd *cobra.Command) error {
	return app.Run(cmd.Context(), optionsFrom(cmd))
}

func runWatch(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	return app.Watch(cmd.Context(), optionsFrom(cmd), func(ev milestone.Event) {
		fmt.Fprintf(out, "stage %d: %s\n", ev.Stage, ev.Title)
		if ev.Message != "" {
			fmt.Fprintf(out, "  %s\n", ev.Message)
		}
	})
}
