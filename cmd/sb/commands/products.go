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

// NewProductsCommand creates the products command group.
func NewProductsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "products",
		Aliases: []string{"apps"},
		Short:   "Manage products",
		Long:    "List and inspect the products (applications) in the developer account",
	}

	cmd.AddCommand(newProductsListCommand())
	cmd.AddCommand(newProductsGetCommand())

	return cmd
}

func newProductsListCommand() *cobra.Command {
	var (
		allPages bool
		top      int
		skip     int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products",
		Long:  "List the products in the developer account",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			client, err := CreateClient(ctx)
			if err != nil {
				return err
			}

			var apps []store.Application

			if allPages {
				apps, err = client.Products().ListAll(ctx)
				if err != nil {
					return fmt.Errorf("failed to list products: %w", err)
				}
			} else {
				params := store.NewQueryParams().WithTop(top).WithSkip(skip)

				page, err := client.Products().List(ctx, params)
				if err != nil {
					return fmt.Errorf("failed to list products: %w", err)
				}

				apps = page.Value
			}

			if handled, err := renderStructured(apps); handled {
				return err
			}

			if len(apps) == 0 {
				fmt.Fprintln(os.Stdout, "No products found")

				return nil
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("ID", "Name", "Package Family", "Pending Submission")

			for _, app := range apps {
				pending := ""
				if app.PendingApplicationSubmission != nil {
					pending = app.PendingApplicationSubmission.ID
				}

				_ = table.Append(app.ID, app.PrimaryName, orNotAvailable(app.PackageFamilyName), orNotAvailable(pending))
			}

			if err := table.Render(); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&allPages, "all", false, "fetch all pages")
	cmd.Flags().IntVar(&top, "top", 0, "maximum results per page")
	cmd.Flags().IntVar(&skip, "skip", 0, "number of results to skip")

	return cmd
}

func newProductsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get PRODUCT_ID",
		Short: "Show a product",
		Long:  "Display details of a single product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			client, err := CreateClient(ctx)
			if err != nil {
				return err
			}

			app, err := client.Products().Get(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to get product: %w", err)
			}

			if handled, err := renderStructured(app); handled {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Property", "Value")
			_ = table.Append("ID", app.ID)
			_ = table.Append("Name", app.PrimaryName)
			_ = table.Append("Package Family", orNotAvailable(app.PackageFamilyName))
			_ = table.Append("Package Identity", orNotAvailable(app.PackageIdentityName))
			_ = table.Append("Publisher", orNotAvailable(app.PublisherName))
			_ = table.Append("First Published", orNotAvailable(app.FirstPublishedDate))
			_ = table.Append("Advanced Listings", strconv.FormatBool(app.HasAdvancedListingPermission))

			if app.LastPublishedApplicationSubmission != nil {
				_ = table.Append("Last Published Submission", app.LastPublishedApplicationSubmission.ID)
			}

			if app.PendingApplicationSubmission != nil {
				_ = table.Append("Pending Submission", app.PendingApplicationSubmission.ID)
			}

			if err := table.Render(); err != nil {
				return fmt.Errorf("failed to render table: %w", err)
			}

			return nil
		},
	}
}
