package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewViper_ReadsConfiguredFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("logger:\n  level: debug\n"), 0o600))
	t.Setenv("CONFIG_PATH", path)

	v, err := NewViper()

	require.NoError(t, err)
	assert.Equal(t, "debug", v.GetString("logger.level"))
}

func TestNewViper_MissingFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "absent.yml"))

	_, err := NewViper()

	assert.Error(t, err)
}
