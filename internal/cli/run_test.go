package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelora-dev/kelora/internal/config"
)

func TestApplyCLIOverridesSetValues(t *testing.T) {
	var cfgFile, logLevel string
	cmd := NewRunCmd(&cfgFile, &logLevel)
	require.NoError(t, cmd.Flags().Set("input-format", "jsonl"))
	require.NoError(t, cmd.Flags().Set("levels", "warn,error"))
	require.NoError(t, cmd.Flags().Set("stats", "true"))

	cfg := &config.Config{}
	applyCLIOverrides(cmd, cfg)

	assert.Equal(t, "jsonl", cfg.Input.Format)
	assert.Equal(t, []string{"warn", "error"}, cfg.Filter.Levels)
	assert.True(t, cfg.Stats.Enabled)
}

func TestApplyCLIOverridesExplicitFalseWins(t *testing.T) {
	var cfgFile, logLevel string
	cmd := NewRunCmd(&cfgFile, &logLevel)
	require.NoError(t, cmd.Flags().Set("follow", "false"))
	require.NoError(t, cmd.Flags().Set("stats", "false"))

	cfg := &config.Config{}
	cfg.Input.Follow = true
	cfg.Stats.Enabled = true

	applyCLIOverrides(cmd, cfg)

	assert.False(t, cfg.Input.Follow)
	assert.False(t, cfg.Stats.Enabled)
}

func TestApplyCLIOverridesLeavesUnsetFlagsAlone(t *testing.T) {
	var cfgFile, logLevel string
	cmd := NewRunCmd(&cfgFile, &logLevel)

	cfg := &config.Config{}
	cfg.Input.Follow = true
	cfg.Input.Format = "syslog"
	cfg.Filter.Levels = []string{"error"}

	applyCLIOverrides(cmd, cfg)

	assert.True(t, cfg.Input.Follow)
	assert.Equal(t, "syslog", cfg.Input.Format)
	assert.Equal(t, []string{"error"}, cfg.Filter.Levels)
}

func TestApplyCLIOverridesOutputFile(t *testing.T) {
	var cfgFile, logLevel string
	cmd := NewRunCmd(&cfgFile, &logLevel)
	require.NoError(t, cmd.Flags().Set("output", "/tmp/out.log"))

	cfg := &config.Config{}
	applyCLIOverrides(cmd, cfg)

	assert.True(t, cfg.Output.File.Enabled)
	assert.Equal(t, "/tmp/out.log", cfg.Output.File.Path)
}
