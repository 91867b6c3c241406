package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "site.hcl")
	content := `
root    = "site"
records = "records.json"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "site", cfg.Root)
	assert.Equal(t, "records.json", cfg.Records)
	// Unset values keep their defaults.
	assert.Equal(t, "**/*.js", cfg.Pattern)
	assert.Empty(t, cfg.PagesDB)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.hcl"))
	assert.Error(t, err)
}
