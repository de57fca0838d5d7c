package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/storebroker-io/storebroker/pkg/store"
)

// NewListingsCommand creates the listings command group.
func NewListingsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listings",
		Short: "Manage submission listings",
		Long:  "Inspect and update the per-market listing metadata of a pending submission",
	}

	cmd.AddCommand(newListingsGetCommand())
	cmd.AddCommand(newListingsUpdateCommand())

	return cmd
}

func newListingsGetCommand() *cobra.Command {
	var market string

	cmd := &cobra.Command{
		Use:   "get PRODUCT_ID SUBMISSION_ID",
		Short: "Show a market listing",
		Long:  "Display the listing metadata for one market",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			client, err := CreateClient(ctx)
			if err != nil {
				return err
			}

			listing, err := client.Listings().Get(ctx, args[0], args[1], market)
			if err != nil {
				return fmt.Errorf("failed to get listing: %w", err)
			}

			if handled, err := renderStructured(listing); handled {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Property", "Value")
			_ = table.Append("Market", market)
			_ = table.Append("Title", listing.BaseListing.Title)
			_ = table.Append("Description", orNotAvailable(listing.BaseListing.Description))
			_ = table.Append("Release Notes", orNotAvailable(listing.BaseListing.ReleaseNotes))
			_ = table.Append("Features", fmt.Sprintf("%d", len(listing.BaseListing.Features)))
			_ = table.Append("Images", fmt.Sprintf("%d", len(listing.BaseListing.Images)))

			if err := table.Render(); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&market, "market", "m", "en-us", "market language tag")

	return cmd
}

func newListingsUpdateCommand() *cobra.Command {
	var (
		market string
		file   string
	)

	cmd := &cobra.Command{
		Use:   "update PRODUCT_ID SUBMISSION_ID",
		Short: "Update a market listing",
		Long:  "Replace the listing metadata for one market with the document in --file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return ErrFileRequired
			}

			var listing store.Listing
			if err := loadJSONFile(file, &listing); err != nil {
				return err
			}

			ctx := context.Background()

			client, err := CreateClient(ctx)
			if err != nil {
				return err
			}

			updated, err := client.Listings().Update(ctx, args[0], args[1], market, &listing)
			if err != nil {
				return fmt.Errorf("failed to update listing: %w", err)
			}

			if handled, err := renderStructured(updated); handled {
				return err
			}

			fmt.Fprintf(os.Stdout, "Updated %s listing on submission %s\n", market, updated.ID)

			return nil
		},
	}

	cmd.Flags().StringVarP(&market, "market", "m", "en-us", "market language tag")
	cmd.Flags().StringVarP(&file, "file", "f", "", "listing document (JSON)")

	return cmd
}
