package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/storebroker-io/storebroker/pkg/store"
)

// NewRolloutCommand creates the rollout command group.
func NewRolloutCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rollout",
		Short: "Manage gradual package rollout",
		Long:  "Inspect and control the gradual rollout of a published submission's packages",
	}

	cmd.AddCommand(newRolloutGetCommand())
	cmd.AddCommand(newRolloutSetCommand())
	cmd.AddCommand(newRolloutHaltCommand())
	cmd.AddCommand(newRolloutFinalizeCommand())

	return cmd
}

func newRolloutGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get PRODUCT_ID SUBMISSION_ID",
		Short: "Show rollout status",
		Long:  "Display the rollout policy of a submission",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			client, err := CreateClient(ctx)
			if err != nil {
				return err
			}

			rollout, err := client.Rollout().Get(ctx, args[0], args[1])
			if err != nil {
				return fmt.Errorf("failed to get rollout: %w", err)
			}

			return outputRollout(rollout)
		},
	}
}

func newRolloutSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set PRODUCT_ID SUBMISSION_ID PERCENTAGE",
		Short: "Set rollout percentage",
		Long:  "Move the rollout to the given percentage of users",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			percentage, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("invalid percentage %q: %w", args[2], err)
			}

			if percentage < 0 || percentage > 100 {
				return ErrPercentageOutOfRange
			}

			ctx := context.Background()

			client, err := CreateClient(ctx)
			if err != nil {
				return err
			}

			rollout, err := client.Rollout().SetPercentage(ctx, args[0], args[1], percentage)
			if err != nil {
				return fmt.Errorf("failed to set rollout percentage: %w", err)
			}

			return outputRollout(rollout)
		},
	}
}

func newRolloutHaltCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "halt PRODUCT_ID SUBMISSION_ID",
		Short: "Halt the rollout",
		Long:  "Stop the rollout; affected users fall back to the fallback submission's packages",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			client, err := CreateClient(ctx)
			if err != nil {
				return err
			}

			rollout, err := client.Rollout().Halt(ctx, args[0], args[1])
			if err != nil {
				return fmt.Errorf("failed to halt rollout: %w", err)
			}

			return outputRollout(rollout)
		},
	}
}

func newRolloutFinalizeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "finalize PRODUCT_ID SUBMISSION_ID",
		Short: "Finalize the rollout",
		Long:  "Complete the rollout and ship the packages to all users",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			client, err := CreateClient(ctx)
			if err != nil {
				return err
			}

			rollout, err := client.Rollout().Finalize(ctx, args[0], args[1])
			if err != nil {
				return fmt.Errorf("failed to finalize rollout: %w", err)
			}

			return outputRollout(rollout)
		},
	}
}

func outputRollout(rollout *store.PackageRollout) error {
	if handled, err := renderStructured(rollout); handled {
		return err
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")
	_ = table.Append("Enabled", strconv.FormatBool(rollout.IsPackageRollout))
	_ = table.Append("Percentage", strconv.FormatFloat(rollout.PackageRolloutPercentage, 'f', -1, 64))
	_ = table.Append("Status", orNotAvailable(rollout.PackageRolloutStatus))
	_ = table.Append("Fallback Submission", orNotAvailable(rollout.FallbackSubmissionID))

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}
