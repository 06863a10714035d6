package cmd

import (
	"github.com/killallgit/scrollback/pkg/headless"
	"github.com/spf13/cobra"
)

var replayCmd = &cobra.Command{
	Use:   "replay FILE",
	Short: "Replay a scroll scenario and print the transcript",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return headless.RunScenario(cmd.Context(), args[0], cmd.OutOrStdout())
	},
}
