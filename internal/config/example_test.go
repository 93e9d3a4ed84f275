package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExampleConfigLoads(t *testing.T) {
	c, err := Load("../../configs/lobby.example.yaml")
	require.NoError(t, err)
	require.Equal(t, "sqlite", c.Storage.Driver)
	require.True(t, c.Flags.Migrate)
}
