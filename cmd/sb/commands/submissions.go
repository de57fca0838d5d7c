package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/storebroker-io/storebroker/pkg/store"
)

// NewSubmissionsCommand creates the submissions command group.
func NewSubmissionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "submissions",
		Aliases: []string{"sub"},
		Short:   "Manage submissions",
		Long:    "Create, update, commit, and monitor application submissions",
	}

	cmd.AddCommand(newSubmissionsCreateCommand())
	cmd.AddCommand(newSubmissionsGetCommand())
	cmd.AddCommand(newSubmissionsUpdateCommand())
	cmd.AddCommand(newSubmissionsCommitCommand())
	cmd.AddCommand(newSubmissionsDeleteCommand())
	cmd.AddCommand(newSubmissionsStatusCommand())
	cmd.AddCommand(newSubmissionsMonitorCommand())

	return cmd
}

func newSubmissionsCreateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "create PRODUCT_ID",
		Short: "Create a submission",
		Long:  "Create a new submission cloned from the product's last published submission",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			client, err := CreateClient(ctx)
			if err != nil {
				return err
			}

			submission, err := client.Submissions().Create(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to create submission: %w", err)
			}

			if handled, err := renderStructured(submission); handled {
				return err
			}

			fmt.Fprintf(os.Stdout, "Created submission %s (status: %s)\n", submission.ID, submission.Status)

			return nil
		},
	}
}

func newSubmissionsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get PRODUCT_ID SUBMISSION_ID",
		Short: "Show a submission",
		Long:  "Display the full submission document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			client, err := CreateClient(ctx)
			if err != nil {
				return err
			}

			submission, err := client.Submissions().Get(ctx, args[0], args[1])
			if err != nil {
				return fmt.Errorf("failed to get submission: %w", err)
			}

			if handled, err := renderStructured(submission); handled {
				return err
			}

			return displaySubmissionTable(submission)
		},
	}
}

func newSubmissionsUpdateCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "update PRODUCT_ID",
		Short: "Update a submission",
		Long: `Replace the pending submission's content with the document in --file.

The service does not support partial updates; fetch the submission with
'sb submissions get', edit the JSON, and pass it back here.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return ErrFileRequired
			}

			var submission store.Submission
			if err := loadJSONFile(file, &submission); err != nil {
				return err
			}

			ctx := context.Background()

			client, err := CreateClient(ctx)
			if err != nil {
				return err
			}

			updated, err := client.Submissions().Update(ctx, args[0], &submission)
			if err != nil {
				return fmt.Errorf("failed to update submission: %w", err)
			}

			if handled, err := renderStructured(updated); handled {
				return err
			}

			fmt.Fprintf(os.Stdout, "Updated submission %s\n", updated.ID)

			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "submission document (JSON)")

	return cmd
}

func newSubmissionsCommitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "commit PRODUCT_ID SUBMISSION_ID",
		Short: "Commit a submission",
		Long:  "Finalize the submission and send it into certification",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			client, err := CreateClient(ctx)
			if err != nil {
				return err
			}

			status, err := client.Submissions().Commit(ctx, args[0], args[1])
			if err != nil {
				return fmt.Errorf("failed to commit submission: %w", err)
			}

			if handled, err := renderStructured(status); handled {
				return err
			}

			fmt.Fprintf(os.Stdout, "Committed submission %s (status: %s)\n", args[1], status.Status)
			fmt.Fprintf(os.Stdout, "Monitor with: sb submissions monitor %s %s\n", args[0], args[1])

			return nil
		},
	}
}

func newSubmissionsDeleteCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete PRODUCT_ID SUBMISSION_ID",
		Short: "Delete a submission",
		Long:  "Delete a pending submission",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				fmt.Fprintf(os.Stdout, "Really delete submission '%s'? (y/N): ", args[1])

				var response string

				_, _ = fmt.Scanln(&response)
				if response != "y" && response != "Y" {
					fmt.Fprintln(os.Stdout, "Cancelled")

					return nil
				}
			}

			ctx := context.Background()

			client, err := CreateClient(ctx)
			if err != nil {
				return err
			}

			if err := client.Submissions().Delete(ctx, args[0], args[1]); err != nil {
				return fmt.Errorf("failed to delete submission: %w", err)
			}

			fmt.Fprintf(os.Stdout, "Successfully deleted submission %s\n", args[1])

			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation prompt")

	return cmd
}

func newSubmissionsStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status PRODUCT_ID SUBMISSION_ID",
		Short: "Show submission status",
		Long:  "Display the certification status of a submission",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			client, err := CreateClient(ctx)
			if err != nil {
				return err
			}

			status, err := client.Submissions().Status(ctx, args[0], args[1])
			if err != nil {
				return fmt.Errorf("failed to get submission status: %w", err)
			}

			if handled, err := renderStructured(status); handled {
				return err
			}

			return displayStatusTable(status)
		},
	}
}

func newSubmissionsMonitorCommand() *cobra.Command {
	var (
		interval time.Duration
		flightID string
	)

	cmd := &cobra.Command{
		Use:     "monitor PRODUCT_ID SUBMISSION_ID",
		Aliases: []string{"poll"},
		Short:   "Monitor a submission",
		Long:    "Poll the submission until it reaches a terminal state, reporting each transition",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			client, err := CreateClient(ctx)
			if err != nil {
				return err
			}

			snapshot, err := client.Submissions().Monitor(ctx, args[0], args[1], &store.MonitorOptions{
				Interval: interval,
				FlightID: flightID,
				Notifier: &consoleNotifier{},
			})
			if err != nil {
				return fmt.Errorf("monitoring failed: %w", err)
			}

			if handled, err := renderStructured(snapshot); handled {
				return err
			}

			fmt.Fprintf(os.Stdout, "Submission %s finished in state %s\n", snapshot.SubmissionID, snapshot.State)

			if snapshot.State.Failed() {
				for _, detail := range snapshot.Errors {
					fmt.Fprintf(os.Stdout, "  error %s: %s\n", detail.Code, detail.Details)
				}

				os.Exit(1)
			}

			return nil
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 0, "polling interval (default 1m)")
	cmd.Flags().StringVar(&flightID, "flight", "", "monitor the submission of this flight")

	return cmd
}

// consoleNotifier prints status transitions as they happen.
type consoleNotifier struct{}

func (consoleNotifier) Notify(ctx context.Context, change *store.StatusChange) error {
	fmt.Fprintln(os.Stdout, change.Subject())

	return nil
}

func displaySubmissionTable(submission *store.Submission) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")
	_ = table.Append("ID", submission.ID)
	_ = table.Append("Status", string(submission.Status))
	_ = table.Append("Substatus", orNotAvailable(string(submission.Substatus)))
	_ = table.Append("Publish Mode", string(submission.TargetPublishMode))
	_ = table.Append("Packages", fmt.Sprintf("%d", len(submission.ApplicationPackages)))
	_ = table.Append("Listings", fmt.Sprintf("%d", len(submission.Listings)))

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func displayStatusTable(status *store.SubmissionStatus) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Property", "Value")
	_ = table.Append("Status", string(status.Status))
	_ = table.Append("Substatus", orNotAvailable(string(status.Substatus)))
	_ = table.Append("Errors", fmt.Sprintf("%d", len(status.StatusDetails.Errors)))
	_ = table.Append("Warnings", fmt.Sprintf("%d", len(status.StatusDetails.Warnings)))

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	for _, detail := range status.StatusDetails.Errors {
		fmt.Fprintf(os.Stdout, "error %s: %s\n", detail.Code, detail.Details)
	}

	for _, report := range status.StatusDetails.CertificationReports {
		fmt.Fprintf(os.Stdout, "report %s: %s\n", report.Date, report.ReportURL)
	}

	return nil
}
