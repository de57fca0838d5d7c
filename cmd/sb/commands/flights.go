package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/storebroker-io/storebroker/pkg/store"
)

// NewFlightsCommand creates the flights command group.
func NewFlightsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flights",
		Short: "Manage package flights",
		Long:  "Create, list, and delete package flights (pre-release distribution rings)",
	}

	cmd.AddCommand(newFlightsCreateCommand())
	cmd.AddCommand(newFlightsListCommand())
	cmd.AddCommand(newFlightsGetCommand())
	cmd.AddCommand(newFlightsDeleteCommand())

	return cmd
}

func newFlightsCreateCommand() *cobra.Command {
	var (
		name           string
		groupIDs       []string
		rankHigherThan string
	)

	cmd := &cobra.Command{
		Use:   "create PRODUCT_ID",
		Short: "Create a flight",
		Long:  "Create a new package flight targeting the given flight groups",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			client, err := CreateClient(ctx)
			if err != nil {
				return err
			}

			flight, err := client.Flights().Create(ctx, args[0], &store.FlightCreateRequest{
				FriendlyName:   name,
				GroupIDs:       groupIDs,
				RankHigherThan: rankHigherThan,
			})
			if err != nil {
				return fmt.Errorf("failed to create flight: %w", err)
			}

			if handled, err := renderStructured(flight); handled {
				return err
			}

			fmt.Fprintf(os.Stdout, "Created flight '%s' (%s)\n", flight.FriendlyName, flight.FlightID)

			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "flight name (required)")
	cmd.Flags().StringSliceVar(&groupIDs, "group", nil, "flight group id (repeatable)")
	cmd.Flags().StringVar(&rankHigherThan, "rank-higher-than", "", "flight to rank above")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newFlightsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list PRODUCT_ID",
		Short: "List flights",
		Long:  "List all package flights of a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			client, err := CreateClient(ctx)
			if err != nil {
				return err
			}

			flights, err := client.Flights().ListAll(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to list flights: %w", err)
			}

			if handled, err := renderStructured(flights); handled {
				return err
			}

			if len(flights) == 0 {
				fmt.Fprintln(os.Stdout, "No flights found")

				return nil
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("ID", "Name", "Groups", "Pending Submission")

			for _, flight := range flights {
				pending := ""
				if flight.PendingFlightSubmission != nil {
					pending = flight.PendingFlightSubmission.ID
				}

				_ = table.Append(flight.FlightID, flight.FriendlyName, strings.Join(flight.GroupIDs, ","), orNotAvailable(pending))
			}

			if err := table.Render(); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	}
}

func newFlightsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get PRODUCT_ID FLIGHT_ID",
		Short: "Show a flight",
		Long:  "Display details of a single package flight",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			client, err := CreateClient(ctx)
			if err != nil {
				return err
			}

			flight, err := client.Flights().Get(ctx, args[0], args[1])
			if err != nil {
				return fmt.Errorf("failed to get flight: %w", err)
			}

			if handled, err := renderStructured(flight); handled {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Property", "Value")
			_ = table.Append("ID", flight.FlightID)
			_ = table.Append("Name", flight.FriendlyName)
			_ = table.Append("Groups", strings.Join(flight.GroupIDs, ","))
			_ = table.Append("Rank Higher Than", orNotAvailable(flight.RankHigherThan))

			if flight.LastPublishedFlightSubmission != nil {
				_ = table.Append("Last Published Submission", flight.LastPublishedFlightSubmission.ID)
			}

			if flight.PendingFlightSubmission != nil {
				_ = table.Append("Pending Submission", flight.PendingFlightSubmission.ID)
			}

			if err := table.Render(); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	}
}

func newFlightsDeleteCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete PRODUCT_ID FLIGHT_ID",
		Short: "Delete a flight",
		Long:  "Delete a package flight and any submissions pending against it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				fmt.Fprintf(os.Stdout, "Really delete flight '%s'? (y/N): ", args[1])

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

			if err := client.Flights().Delete(ctx, args[0], args[1]); err != nil {
				return fmt.Errorf("failed to delete flight: %w", err)
			}

			fmt.Fprintf(os.Stdout, "Successfully deleted flight %s\n", args[1])

			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation prompt")

	return cmd
}
