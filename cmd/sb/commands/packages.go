package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/storebroker-io/storebroker/pkg/store"
)

// NewPackagesCommand creates the packages command group.
func NewPackagesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "packages",
		Short: "Manage submission packages",
		Long:  "Update the package set of a pending submission and upload package content",
	}

	cmd.AddCommand(newPackagesUpdateCommand())
	cmd.AddCommand(newPackagesUploadCommand())

	return cmd
}

func newPackagesUpdateCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "update PRODUCT_ID SUBMISSION_ID",
		Short: "Replace the package set",
		Long: `Replace the submission's package list with the documents in --file.

Existing packages to keep must be carried over in the list; ones marked
PendingDelete are removed when the submission is committed.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return ErrFileRequired
			}

			var packages []store.ApplicationPackage
			if err := loadJSONFile(file, &packages); err != nil {
				return err
			}

			ctx := context.Background()

			client, err := CreateClient(ctx)
			if err != nil {
				return err
			}

			updated, err := client.Packages().Update(ctx, args[0], args[1], packages)
			if err != nil {
				return fmt.Errorf("failed to update packages: %w", err)
			}

			if handled, err := renderStructured(updated); handled {
				return err
			}

			fmt.Fprintf(os.Stdout, "Updated packages on submission %s (%d entries)\n", updated.ID, len(updated.ApplicationPackages))

			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "package list (JSON array)")

	return cmd
}

func newPackagesUploadCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "upload PRODUCT_ID SUBMISSION_ID ZIP_PATH",
		Short: "Upload package content",
		Long:  "Upload a package zip to the submission's pre-signed storage URL",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			client, err := CreateClient(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintf(os.Stdout, "Uploading %s...\n", args[2])

			if err := client.Packages().Upload(ctx, args[0], args[1], args[2]); err != nil {
				return fmt.Errorf("failed to upload package: %w", err)
			}

			fmt.Fprintln(os.Stdout, "Upload complete")

			return nil
		},
	}
}
