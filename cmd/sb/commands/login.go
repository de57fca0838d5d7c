package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

// NewLoginCommand creates the login command.
func NewLoginCommand() *cobra.Command {
	var (
		tenantID     string
		clientID     string
		clientSecret string
		environment  string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with the submission API",
		Long: `Verify client credentials against the submission API and persist the
tenant identity for future invocations.

The client secret is never written to disk. Subsequent commands read it
from the SB_CLIENT_SECRET environment variable or the --client-secret
flag.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if tenantID == "" {
				tenantID = viper.GetString("tenant_id")
			}

			if tenantID == "" {
				return ErrTenantIDRequired
			}

			if clientID == "" {
				clientID = viper.GetString("client_id")
			}

			if clientID == "" {
				reader := bufio.NewReader(os.Stdin)
				fmt.Print("Client ID: ")
				clientID, _ = reader.ReadString('\n')
				clientID = strings.TrimSpace(clientID)
			}

			if clientID == "" {
				return ErrClientIDRequired
			}

			if clientSecret == "" {
				clientSecret = viper.GetString("client_secret")
			}

			if clientSecret == "" {
				fmt.Print("Client secret: ")

				byteSecret, err := term.ReadPassword(int(syscall.Stdin))
				if err != nil {
					return fmt.Errorf("failed to read client secret: %w", err)
				}

				clientSecret = string(byteSecret)

				fmt.Println()
			}

			// Make the credentials visible to CreateClient for this run.
			viper.Set("tenant_id", tenantID)
			viper.Set("client_id", clientID)
			viper.Set("client_secret", clientSecret)

			if environment != "" {
				viper.Set("env", environment)
			}

			ctx := context.Background()

			client, err := CreateClient(ctx)
			if err != nil {
				return err
			}

			// Exchanging the credentials for a token proves them out.
			if _, err := client.GetToken(ctx); err != nil {
				return fmt.Errorf("authentication failed: %w", err)
			}

			config := loadConfig()
			config.TenantID = tenantID
			config.ClientID = clientID

			if environment != "" {
				config.Environment = environment
			}

			if err := saveConfigStruct(config); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			fmt.Fprintf(os.Stdout, "Successfully authenticated tenant %s\n", tenantID)
			fmt.Fprintln(os.Stdout, "Set SB_CLIENT_SECRET in your environment for future commands")

			return nil
		},
	}

	cmd.Flags().StringVar(&tenantID, "tenant-id", "", "directory tenant id")
	cmd.Flags().StringVar(&clientID, "client-id", "", "OAuth2 client id")
	cmd.Flags().StringVar(&clientSecret, "client-secret", "", "OAuth2 client secret")
	cmd.Flags().StringVar(&environment, "env", "", "service environment (prod, int)")

	return cmd
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the persisted identity",
		Long:  "Remove the persisted tenant identity from the configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()
			config.TenantID = ""
			config.TenantName = ""
			config.ClientID = ""

			if err := saveConfigStruct(config); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			fmt.Fprintln(os.Stdout, "Successfully logged out")

			return nil
		},
	}
}
