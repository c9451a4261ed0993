package main

import (
	"path/filepath"
	"testing"

	"github.com/san-kum/leptosim/internal/config"
	"github.com/san-kum/leptosim/internal/dynamo"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newModelCmd(t *testing.T) *cobra.Command {
	t.Helper()
	preset, configFile = "", ""
	t.Cleanup(func() { preset, configFile = "", "" })
	cmd := &cobra.Command{Use: "test"}
	addModelFlags(cmd)
	return cmd
}

func TestResolveConfigDefaults(t *testing.T) {
	cmd := newModelCmd(t)
	cfg, err := resolveConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)
}

func TestResolveConfigChangedFlagsWin(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "c.yaml")
	base := config.DefaultConfig()
	base.K = 7
	base.Z.Max = 5
	require.NoError(t, config.Save(path, base))

	cmd := newModelCmd(t)
	require.NoError(t, cmd.Flags().Set("config", path))
	require.NoError(t, cmd.Flags().Set("K", "3"))
	require.NoError(t, cmd.Flags().Set("method", "RK23"))

	cfg, err := resolveConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, 3.0, cfg.K)
	assert.Equal(t, 5.0, cfg.Z.Max, "unchanged flags keep file values")
	assert.Equal(t, "RK23", cfg.Distribution.Method)
	assert.Equal(t, "RK23", cfg.Asymmetry.Method)
}

func TestResolveConfigRejects(t *testing.T) {
	cmd := newModelCmd(t)
	require.NoError(t, cmd.Flags().Set("preset", "nope"))
	_, err := resolveConfig(cmd)
	assert.Error(t, err)

	cmd = newModelCmd(t)
	require.NoError(t, cmd.Flags().Set("K", "-1"))
	_, err = resolveConfig(cmd)
	assert.ErrorIs(t, err, dynamo.ErrParameterBounds)
}
