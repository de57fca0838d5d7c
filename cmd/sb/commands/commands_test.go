package commands

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func subcommandNames(cmd *cobra.Command) []string {
	var names []string
	for _, subcmd := range cmd.Commands() {
		names = append(names, subcmd.Name())
	}

	return names
}

func TestNewProductsCommand(t *testing.T) {
	cmd := NewProductsCommand()
	assert.Equal(t, "products", cmd.Use)
	assert.Equal(t, []string{"apps"}, cmd.Aliases)

	names := subcommandNames(cmd)
	assert.Contains(t, names, "list")
	assert.Contains(t, names, "get")
}

func TestProductsListCommand(t *testing.T) {
	cmd := newProductsListCommand()
	assert.Equal(t, "list", cmd.Use)
	assert.NotNil(t, cmd.RunE)

	assert.NotNil(t, cmd.Flags().Lookup("all"))
	assert.NotNil(t, cmd.Flags().Lookup("top"))
	assert.NotNil(t, cmd.Flags().Lookup("skip"))
}

func TestNewSubmissionsCommand(t *testing.T) {
	cmd := NewSubmissionsCommand()
	assert.Equal(t, "submissions", cmd.Use)
	assert.Equal(t, []string{"sub"}, cmd.Aliases)

	names := subcommandNames(cmd)
	assert.Contains(t, names, "create")
	assert.Contains(t, names, "get")
	assert.Contains(t, names, "update")
	assert.Contains(t, names, "commit")
	assert.Contains(t, names, "delete")
	assert.Contains(t, names, "status")
	assert.Contains(t, names, "monitor")
}

func TestSubmissionsMonitorCommand(t *testing.T) {
	cmd := newSubmissionsMonitorCommand()
	assert.Equal(t, "monitor PRODUCT_ID SUBMISSION_ID", cmd.Use)
	assert.Equal(t, []string{"poll"}, cmd.Aliases)
	assert.NotNil(t, cmd.RunE)
	assert.NotNil(t, cmd.Args)

	assert.NotNil(t, cmd.Flags().Lookup("interval"))
	assert.NotNil(t, cmd.Flags().Lookup("flight"))
}

func TestSubmissionsDeleteCommand(t *testing.T) {
	cmd := newSubmissionsDeleteCommand()
	assert.Equal(t, "delete PRODUCT_ID SUBMISSION_ID", cmd.Use)
	assert.NotNil(t, cmd.Flags().Lookup("force"))
}

func TestNewFlightsCommand(t *testing.T) {
	cmd := NewFlightsCommand()
	assert.Equal(t, "flights", cmd.Use)

	names := subcommandNames(cmd)
	assert.Contains(t, names, "create")
	assert.Contains(t, names, "list")
	assert.Contains(t, names, "get")
	assert.Contains(t, names, "delete")
}

func TestFlightsCreateCommand(t *testing.T) {
	cmd := newFlightsCreateCommand()
	assert.Equal(t, "create PRODUCT_ID", cmd.Use)

	assert.NotNil(t, cmd.Flags().Lookup("name"))
	assert.NotNil(t, cmd.Flags().Lookup("group"))
	assert.NotNil(t, cmd.Flags().Lookup("rank-higher-than"))
}

func TestNewListingsCommand(t *testing.T) {
	cmd := NewListingsCommand()
	assert.Equal(t, "listings", cmd.Use)

	names := subcommandNames(cmd)
	assert.Contains(t, names, "get")
	assert.Contains(t, names, "update")

	getCmd := newListingsGetCommand()
	marketFlag := getCmd.Flags().Lookup("market")
	assert.NotNil(t, marketFlag)
	assert.Equal(t, "en-us", marketFlag.DefValue)
}

func TestNewPackagesCommand(t *testing.T) {
	cmd := NewPackagesCommand()
	assert.Equal(t, "packages", cmd.Use)

	names := subcommandNames(cmd)
	assert.Contains(t, names, "update")
	assert.Contains(t, names, "upload")
}

func TestNewRolloutCommand(t *testing.T) {
	cmd := NewRolloutCommand()
	assert.Equal(t, "rollout", cmd.Use)

	names := subcommandNames(cmd)
	assert.Contains(t, names, "get")
	assert.Contains(t, names, "set")
	assert.Contains(t, names, "halt")
	assert.Contains(t, names, "finalize")
}

func TestNewVersionCommand(t *testing.T) {
	cmd := NewVersionCommand("1.2.3", "abc123", "2026-09-01")
	assert.Equal(t, "version", cmd.Use)
	assert.NotNil(t, cmd.RunE)
}

func TestNewLoginCommand(t *testing.T) {
	cmd := NewLoginCommand()
	assert.Equal(t, "login", cmd.Use)

	assert.NotNil(t, cmd.Flags().Lookup("tenant-id"))
	assert.NotNil(t, cmd.Flags().Lookup("client-id"))
	assert.NotNil(t, cmd.Flags().Lookup("client-secret"))
}
