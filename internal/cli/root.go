package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRootCommand creates the mediaflow command tree
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mediaflow",
		Short: "Sort photos and videos, clean out short clips",
		Long: `mediaflow sorts a folder of photos and videos into portrait/landscape
or Images/Videos folders using a plan-then-execute workflow, and finds
videos shorter than a threshold so they can be trashed or deleted.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add global flags
	AddGlobalFlags(rootCmd)

	// Add commands
	rootCmd.AddCommand(NewSortCommand())
	rootCmd.AddCommand(NewPlanCommand())
	rootCmd.AddCommand(NewCleanCommand())
	rootCmd.AddCommand(NewWatchCommand())
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}
