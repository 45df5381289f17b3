package sources_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cmdsources "github.com/jonesrussell/formharvest/cmd/sources"
	"github.com/jonesrussell/formharvest/internal/source"
)

// The init command stores its output flag in a package variable, so these
// tests run sequentially.

func runInitCommand(t *testing.T, output string) error {
	t.Helper()

	cmd := cmdsources.NewInitCommand()
	cmd.SetArgs([]string{"-o", output})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return cmd.Execute()
}

func TestInit_RoundTripsToBuiltInSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.yml")

	require.NoError(t, runInitCommand(t, path))

	loader, err := source.NewLoader(path)
	require.NoError(t, err)

	sources, err := loader.LoadSources()
	require.NoError(t, err)
	require.Len(t, sources, 1)

	// The starter entry plus loader defaults reproduces the built-in source.
	assert.Equal(t, source.Default(), sources[0])
}

func TestInit_RefusesToOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.yml")
	require.NoError(t, os.WriteFile(path, []byte("keep me\n"), 0o644))

	err := runInitCommand(t, path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refusing to overwrite")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "keep me\n", string(content))
}

func TestInit_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config", "sources.yml")

	require.NoError(t, runInitCommand(t, path))

	_, err := os.Stat(path)
	require.NoError(t, err)
}
