package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Name        string   `json:"name"`
	Concurrency int      `json:"concurrency"`
	Archetypes  []int64  `json:"archetypes"`
	Tags        []string `json:"tags"`
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(contents), 0600))
}

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json5")

	_, err := ReadConfig[testConfig](path)
	require.ErrorIs(t, err, os.ErrNotExist)

	writeFile(t, path, `{
		// comments and trailing commas are allowed
		name: "base",
		concurrency: 2,
		archetypes: [985, 918,],
	}`)
	cfg, err := ReadConfig[testConfig](path)
	require.NoError(t, err)
	require.Equal(t, "base", cfg.Name)
	require.Equal(t, []int64{985, 918}, cfg.Archetypes)

	writeFile(t, filepath.Join(dir, "config.local.json5"), `{name: "local"}`)
	cfg, err = ReadConfig[testConfig](path)
	require.NoError(t, err)
	require.Equal(t, "local", cfg.Name)
	require.Equal(t, 2, cfg.Concurrency)
}

func TestReadConfigWithDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json5")
	writeFile(t, path, `{name: "only-name"}`)

	cfg, err := ReadConfigWithDefaults(path, testConfig{Concurrency: 4, Tags: []string{"x"}})
	require.NoError(t, err)
	require.Equal(t, "only-name", cfg.Name)
	require.Equal(t, 4, cfg.Concurrency)
	require.Equal(t, []string{"x"}, cfg.Tags)
}

func TestLocalPath(t *testing.T) {
	require.Equal(t, "a/config.local.json5", localPath("a/config.json5"))
	require.Equal(t, "telemetry.local.json5", localPath("telemetry.json5"))
}
