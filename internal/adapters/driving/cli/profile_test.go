package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileCmd_Use(t *testing.T) {
	assert.Equal(t, "profile", profileCmd.Use)
}

func TestProfileCmd_Short(t *testing.T) {
	assert.Equal(t, "Precompute folder centroids and coherence", profileCmd.Short)
}

func TestProfileCmd_HasInvalidateFlag(t *testing.T) {
	flag := profileCmd.Flags().Lookup("invalidate")
	require.NotNil(t, flag, "invalidate flag should exist")
	assert.Equal(t, "false", flag.DefValue)
}

func TestProfileCmd_Executes(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"profile"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Profiled 1 of 1 folders")
}

func TestProfileCmd_RejectsArgs(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"profile", "extra"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}
