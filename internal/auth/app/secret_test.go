package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadOrCreateSecret(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jwt-secret")

	first, err := LoadOrCreateSecret(path)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// Restarting the process reuses the same secret; outstanding
	// tokens stay valid.
	second, err := LoadOrCreateSecret(path)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestLoadOrCreateSecretRejectsEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jwt-secret")
	require.NoError(t, os.WriteFile(path, []byte("\n"), 0o600))

	_, err := LoadOrCreateSecret(path)
	require.Error(t, err)
}
