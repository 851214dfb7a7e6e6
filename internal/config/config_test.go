package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    *Config
		wantErr bool
	}{
		{"empty", "", Default(), false},
		{"override", "log_level: debug\nmax_depth: 50\nmax_steps: 1000\ncolor: never\nfs_root: /tmp",
			&Config{LogLevel: "debug", MaxDepth: 50, MaxSteps: 1000, Color: ColorNever, FSRoot: "/tmp"}, false},
		{"partial", "color: always", &Config{LogLevel: "info", MaxDepth: DefaultMaxDepth, Color: ColorAlways}, false},
		{"bad_depth", "max_depth: 0", nil, true},
		{"bad_steps", "max_steps: -1", nil, true},
		{"bad_color", "color: sometimes", nil, true},
		{"bad_yaml", "max_depth: [", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "main.petty")

	t.Setenv(ConfigEnvVar, "")
	cfg, path, err := Load(script)
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, Default(), cfg)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("max_depth: 7"), 0o644))
	cfg, path, err = Load(script)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ConfigFileName), path)
	assert.Equal(t, 7, cfg.MaxDepth)

	other := filepath.Join(dir, "other.yaml")
	require.NoError(t, os.WriteFile(other, []byte("log_level: warn"), 0o644))
	t.Setenv(ConfigEnvVar, other)
	cfg, path, err = Load(script)
	require.NoError(t, err)
	assert.Equal(t, other, path)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, DefaultMaxDepth, cfg.MaxDepth)
}
