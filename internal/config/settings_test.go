package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Init(""))
	s, err := Current()
	require.NoError(t, err)

	assert.Equal(t, ".rocketsim", s.DataDir)
	assert.Equal(t, "info", s.LogLevel)
	assert.Equal(t, 0.005, s.Dt)
	assert.Equal(t, 600.0, s.MaxTime)
	assert.Equal(t, "tvc", s.Controller)
	assert.Equal(t, "pathfinder", s.Preset)
	assert.Equal(t, DefaultTheme, s.Theme)
}

func TestInit_ConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), "rocketsim.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: debug\ndt: 0.002\npreset: heavy\n"), 0644))

	require.NoError(t, Init(path))
	s, err := Current()
	require.NoError(t, err)

	assert.Equal(t, "debug", s.LogLevel)
	assert.Equal(t, 0.002, s.Dt)
	assert.Equal(t, "heavy", s.Preset)
	assert.Equal(t, "tvc", s.Controller)
}

func TestInit_EnvOverridesFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), "rocketsim.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: debug\ncontroller: zero\n"), 0644))
	t.Setenv("ROCKETSIM_LOG_LEVEL", "warn")
	t.Setenv("ROCKETSIM_MAX_TIME", "42")
	t.Setenv("ROCKETSIM_THEME", "retro")

	require.NoError(t, Init(path))
	s, err := Current()
	require.NoError(t, err)

	assert.Equal(t, "warn", s.LogLevel)
	assert.Equal(t, 42.0, s.MaxTime)
	assert.Equal(t, "zero", s.Controller)
	assert.Equal(t, "retro", s.Theme)
}

func TestInit_MissingExplicitFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	err := Init("/nonexistent/rocketsim.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestSettingsRunFile(t *testing.T) {
	s := Settings{Dt: 0.01, MaxTime: 30, Controller: "zero", Preset: "sounding"}
	f := s.RunFile()

	assert.Equal(t, 0.01, f.Sim.Dt)
	assert.Equal(t, 30.0, f.Sim.MaxTime)
	assert.Equal(t, "zero", f.Controller)
	assert.Equal(t, "sounding", f.Preset)

	f = Settings{}.RunFile()
	assert.Equal(t, DefaultConfig(), f)
}
