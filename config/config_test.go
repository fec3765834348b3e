package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remap/config"
	"remap/options"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "remap.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	return path
}

func TestLoad(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, `
strict = true
skip_missing = false
categories = ["text_number", "datetime"]
profiles = ["profiles/orders.yaml"]

[logging]
level = "debug"

[metrics]
enabled = true

[csv]
empty_as_missing = true
`))
	require.NoError(t, err)

	assert.True(t, cfg.Strict)
	assert.Equal(t, []string{"profiles/orders.yaml"}, cfg.Profiles)
	assert.True(t, cfg.Metrics.Enabled)
	assert.True(t, cfg.CSV.EmptyAsMissing)
	assert.Equal(t, options.CategoryTextNumber|options.CategoryDatetime, cfg.CategoryMask())
}

func TestLoadRejectsUnknownNames(t *testing.T) {
	_, err := config.Load(writeConfig(t, "categories = [\"telepathy\"]\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown coercion category")

	_, err = config.Load(writeConfig(t, "[logging]\nlevel = \"loud\"\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown log level")
}

func TestDefaultsPermitEverything(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, options.CategoryAll, cfg.CategoryMask())
}
