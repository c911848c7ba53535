package commands

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunMigrations_InvalidConnectionString(t *testing.T) {
	err := RunMigrations(testLogger(), "postgres", "not-a-connection-string")
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to create migrate instance")
}
