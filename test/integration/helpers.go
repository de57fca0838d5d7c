//go:build integration
// +build integration

package integration

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"
)

// TestConfig holds configuration for integration tests
type TestConfig struct {
	TenantID     string
	ClientID     string
	ClientSecret string
	ProductID    string
	SbPath       string
	Verbose      bool
}

// LoadTestConfig loads configuration from environment variables
func LoadTestConfig() *TestConfig {
	return &TestConfig{
		TenantID:     os.Getenv("SB_TENANT_ID"),
		ClientID:     os.Getenv("SB_CLIENT_ID"),
		ClientSecret: os.Getenv("SB_CLIENT_SECRET"),
		ProductID:    os.Getenv("SB_TEST_PRODUCT_ID"),
		SbPath:       getSbPath(),
		Verbose:      os.Getenv("SB_VERBOSE") == "true",
	}
}

// getSbPath determines the path to the sb binary
func getSbPath() string {
	if path := os.Getenv("SB_BINARY_PATH"); path != "" {
		return path
	}

	candidates := []string{
		"../../sb",
		"./sb",
		"../sb",
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return "sb" // Fallback to PATH
}

// RequireCredentials skips the test when no tenant is configured
func (c *TestConfig) RequireCredentials(t *testing.T) {
	t.Helper()

	if c.TenantID == "" || c.ClientID == "" || c.ClientSecret == "" {
		t.Skip("SB_TENANT_ID, SB_CLIENT_ID and SB_CLIENT_SECRET must be set for integration tests")
	}
}

// RunSb executes the sb binary with the given arguments and returns its
// combined output
func (c *TestConfig) RunSb(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := exec.Command(c.SbPath, args...)
	cmd.Env = os.Environ()

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	start := time.Now()
	err := cmd.Run()

	if c.Verbose {
		fmt.Printf("$ %s %s (%s)\n%s\n", c.SbPath, strings.Join(args, " "), time.Since(start), output.String())
	}

	return output.String(), err
}
