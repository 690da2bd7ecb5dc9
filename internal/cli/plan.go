package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// NewPlanCommand creates the plan command
func NewPlanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan [source]",
		Short: "Show where files would go without moving them",
		Long: `Analyze a folder and report the destination and status of every file
without performing any move. This is equivalent to sort --plan-only.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runPlan,
	}

	addSortFlags(cmd)

	return cmd
}

func runPlan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	session, err := newSortSession(cmd, args)
	if err != nil {
		return err
	}
	defer session.Close()

	_, report, err := session.analyze(ctx)
	if werr := session.writeReport(report); werr != nil && err == nil {
		err = werr
	}
	if err != nil {
		return err
	}
	return statusError(report)
}
