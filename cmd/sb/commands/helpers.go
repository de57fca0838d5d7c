package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/storebroker-io/storebroker/internal/client"
	"github.com/storebroker-io/storebroker/internal/constants"
	"github.com/storebroker-io/storebroker/pkg/store"
)

// Common static errors used throughout the commands package.
var (
	ErrTenantIDRequired     = errors.New("tenant id is required (use --tenant-id or set SB_TENANT_ID)")
	ErrClientIDRequired     = errors.New("client id is required (use --client-id or set SB_CLIENT_ID)")
	ErrPercentageOutOfRange = errors.New("percentage must be between 0 and 100")
	ErrFileRequired         = errors.New("an input file is required (use --file)")
)

// CreateClient builds a store client from the effective configuration:
// flags, environment variables, and the persisted config file, in that
// precedence.
func CreateClient(ctx context.Context) (store.Client, error) {
	config := &store.Config{
		Environment:  store.Environment(viper.GetString("env")),
		ProxyURL:     viper.GetString("proxy"),
		TenantID:     viper.GetString("tenant_id"),
		TenantName:   viper.GetString("tenant_name"),
		ClientID:     viper.GetString("client_id"),
		ClientSecret: viper.GetString("client_secret"),
		AccessToken:  viper.GetString("access_token"),
		Debug:        viper.GetBool("verbose"),
	}

	storeClient, err := client.New(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return storeClient, nil
}

// renderStructured writes v as JSON or YAML per the output format and
// reports whether it handled the output. Table rendering stays with the
// caller.
func renderStructured(v interface{}) (bool, error) {
	switch viper.GetString("output") {
	case constants.FormatJSON:
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")

		if err := encoder.Encode(v); err != nil {
			return true, fmt.Errorf("encoding JSON: %w", err)
		}

		return true, nil
	case constants.FormatYAML:
		encoder := yaml.NewEncoder(os.Stdout)

		if err := encoder.Encode(v); err != nil {
			return true, fmt.Errorf("encoding YAML: %w", err)
		}

		return true, nil
	}

	return false, nil
}

// loadJSONFile decodes a JSON document from path into v.
func loadJSONFile(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	return nil
}

// orNotAvailable substitutes the N/A marker for empty display values.
func orNotAvailable(value string) string {
	if value == "" {
		return constants.NotAvailable
	}

	return value
}
