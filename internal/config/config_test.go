package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestDefault_LeavesBackendToPreference(t *testing.T) {
	cfg := Default()
	assert.Empty(t, cfg.Storage.Backend)
	assert.Equal(t, "tasks", cfg.Storage.Key)
	assert.Equal(t, "light", cfg.UI.ColorScheme)
}

func TestSave_WritesDefaultPath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := Default()
	cfg.UI.ColorScheme = "dark"
	require.NoError(t, cfg.Save())

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadFrom_TOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[storage]
backend = "file"
dir = "~/tasks"

[ui]
color_scheme = "dark"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	homeDir, _ := os.UserHomeDir()
	assert.Equal(t, "file", cfg.Storage.Backend)
	assert.Equal(t, filepath.Join(homeDir, "tasks"), cfg.Storage.Dir)
	assert.Equal(t, "tasks", cfg.Storage.Key, "unset keys keep their default")
	assert.Equal(t, "dark", cfg.UI.ColorScheme)
}

func TestLoadFrom_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
storage:
  backend: memory
  key: work
ui:
  color_scheme: light
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.Equal(t, "work", cfg.Storage.Key)
	assert.Equal(t, "light", cfg.UI.ColorScheme)
}

func TestLoadFrom_Invalid(t *testing.T) {
	dir := t.TempDir()

	broken := filepath.Join(dir, "broken.toml")
	require.NoError(t, os.WriteFile(broken, []byte("[storage\nbackend ="), 0o644))
	_, err := LoadFrom(broken)
	assert.Error(t, err)

	badScheme := filepath.Join(dir, "scheme.toml")
	require.NoError(t, os.WriteFile(badScheme, []byte("[ui]\ncolor_scheme = \"purple\"\n"), 0o644))
	_, err = LoadFrom(badScheme)
	assert.ErrorContains(t, err, "color_scheme")
}

func TestSaveTo_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	want := &Config{
		Storage: StorageConfig{Backend: "file", Dir: "/var/lib/tasklist", Key: "tasks"},
		UI:      UIConfig{ColorScheme: "dark"},
	}

	for _, name := range []string{"config.toml", "config.yml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, "out", name)
			require.NoError(t, want.SaveTo(path))

			got, err := LoadFrom(path)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}
