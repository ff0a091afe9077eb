package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	BaseUrl     string  `json:"base_url"`
	Concurrency int     `json:"concurrency"`
	Rate        float64 `json:"requests_per_second"`
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
}

func TestLocalName(t *testing.T) {
	require.Equal(t, "catalogscrape.local.json5", LocalName("catalogscrape.json5"))
	require.Equal(t, filepath.Join("a", "b.local.json5"), LocalName(filepath.Join("a", "b.json5")))
}

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "catalogscrape.json5")

	_, err := ReadConfig[testConfig](name)
	require.ErrorIs(t, err, os.ErrNotExist)

	writeFile(t, name, `{
		// comments and trailing commas are fine
		base_url: "https://example.com",
		concurrency: 4,
	}`)
	cfg, err := ReadConfig[testConfig](name)
	require.NoError(t, err)
	require.Equal(t, testConfig{BaseUrl: "https://example.com", Concurrency: 4}, cfg)

	writeFile(t, LocalName(name), `{ concurrency: 8, requests_per_second: 2.5 }`)
	cfg, err = ReadConfig[testConfig](name)
	require.NoError(t, err)
	require.Equal(t, testConfig{BaseUrl: "https://example.com", Concurrency: 8, Rate: 2.5}, cfg)

	writeFile(t, name, `{ concurrency: `)
	_, err = ReadConfig[testConfig](name)
	require.Error(t, err)
	require.NotErrorIs(t, err, os.ErrNotExist)
}

func TestReadWithDefaults(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "catalogscrape.json5")
	defaults := testConfig{BaseUrl: "https://default.com", Concurrency: 4}

	cfg, err := ReadWithDefaults(name, defaults)
	require.NoError(t, err)
	require.Equal(t, defaults, cfg)

	writeFile(t, name, `{ concurrency: 1 }`)
	cfg, err = ReadWithDefaults(name, defaults)
	require.NoError(t, err)
	require.Equal(t, testConfig{BaseUrl: "https://default.com", Concurrency: 1}, cfg)
}

func TestReadRecursively(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "telemetry.json5"), `{ base_url: "found" }`)
	nested := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0755))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(nested))
	t.Cleanup(func() { os.Chdir(wd) })

	cfg, err := ReadRecursively[testConfig]("telemetry.json5")
	require.NoError(t, err)
	require.Equal(t, "found", cfg.BaseUrl)

	_, err = ReadRecursively[testConfig]("does-not-exist-anywhere.json5")
	require.ErrorIs(t, err, os.ErrNotExist)
}
