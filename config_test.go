package vkframe

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 2, cfg.MaxFramesInFlight)
	assert.False(t, cfg.EnableValidation)
}

func TestParseConfigOverridesDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
max_frames_in_flight = 3
enable_validation = true
clear_color = [0.2, 0.2, 0.2, 1.0]
log_level = "debug"
`))
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.MaxFramesInFlight)
	assert.True(t, cfg.EnableValidation)
	assert.Equal(t, [4]float32{0.2, 0.2, 0.2, 1}, cfg.ClearColor)
	assert.Equal(t, 800, cfg.Width)
	assert.Equal(t, "res/shaders/vs.spv", cfg.VertexShader)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestParseConfigRejects(t *testing.T) {
	cases := map[string]string{
		"zero frames":   "max_frames_in_flight = 0",
		"too many":      "max_frames_in_flight = 17",
		"unknown key":   "frames = 2",
		"bad level":     `log_level = "loud"`,
		"no shader":     `vertex_shader = ""`,
		"negative size": "width = -1",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseConfig([]byte(data))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vkframe.toml")
	require.NoError(t, os.WriteFile(path, []byte("app_name = \"demo\"\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "demo", cfg.AppName)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
