package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/storebroker-io/storebroker/internal/constants"
)

// Config is the persisted CLI configuration. Secrets and tokens are
// deliberately absent: they come from flags or SB_* environment variables
// on every invocation and are never written to disk.
type Config struct {
	Environment string `json:"environment,omitempty" yaml:"environment,omitempty"`
	TenantID    string `json:"tenant_id,omitempty"   yaml:"tenant_id,omitempty"`
	TenantName  string `json:"tenant_name,omitempty" yaml:"tenant_name,omitempty"`
	ClientID    string `json:"client_id,omitempty"   yaml:"client_id,omitempty"`
	ProxyURL    string `json:"proxy,omitempty"       yaml:"proxy,omitempty"`
	Output      string `json:"output,omitempty"      yaml:"output,omitempty"`
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Manage sb CLI configuration including tenant identity and defaults",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the current CLI configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			if handled, err := renderStructured(config); handled {
				return err
			}

			return displayConfigTable(config)
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Set a specific configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			value := args[1]

			config := loadConfig()

			if err := setConfigValue(config, key, value); err != nil {
				return err
			}

			if err := saveConfigStruct(config); err != nil {
				return err
			}

			fmt.Fprintf(os.Stdout, "Set %s\n", key)

			return nil
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Unset a configuration value",
		Long:  "Remove a specific configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			config := loadConfig()

			if err := setConfigValue(config, key, ""); err != nil {
				return err
			}

			if err := saveConfigStruct(config); err != nil {
				return err
			}

			fmt.Fprintf(os.Stdout, "Unset %s\n", key)

			return nil
		},
	}
}

func setConfigValue(config *Config, key, value string) error {
	switch key {
	case "environment", "env":
		config.Environment = value
	case "tenant_id", "tenant-id":
		config.TenantID = value
	case "tenant_name", "tenant-name":
		config.TenantName = value
	case "client_id", "client-id":
		config.ClientID = value
	case "proxy":
		config.ProxyURL = value
	case "output":
		config.Output = value
	default:
		return fmt.Errorf("unknown configuration key: %q", key)
	}

	return nil
}

func displayConfigTable(config *Config) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Setting", "Value")
	_ = table.Append("Environment", orNotAvailable(config.Environment))
	_ = table.Append("Tenant ID", orNotAvailable(config.TenantID))
	_ = table.Append("Tenant Name", orNotAvailable(config.TenantName))
	_ = table.Append("Client ID", orNotAvailable(config.ClientID))
	_ = table.Append("Proxy", orNotAvailable(config.ProxyURL))
	_ = table.Append("Output", orNotAvailable(config.Output))

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

// configFilePath returns the effective config file location.
func configFilePath() (string, error) {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		return cfgFile, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}

	return filepath.Join(home, ".sb", "config.yml"), nil
}

// loadConfig reads the persisted configuration, returning an empty config
// when none exists yet.
func loadConfig() *Config {
	config := &Config{}

	path, err := configFilePath()
	if err != nil {
		return config
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return config
	}

	_ = yaml.Unmarshal(data, config)

	return config
}

// saveConfigStruct writes the configuration back to disk with restrictive
// permissions.
func saveConfigStruct(config *Config) error {
	path, err := configFilePath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), constants.ConfigDirPerm); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("encoding configuration: %w", err)
	}

	if err := os.WriteFile(path, data, constants.ConfigFilePerm); err != nil {
		return fmt.Errorf("writing configuration: %w", err)
	}

	return nil
}
