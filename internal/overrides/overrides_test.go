package overrides

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devscan/devscan/internal/practice"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_MissingFileMeansEverythingEnabled(t *testing.T) {
	dir := t.TempDir()
	store, err := Load(filepath.Join(dir, ConfigFileName), dir)
	require.NoError(t, err)

	o := store.Get("anything", filepath.Join(dir, "svc"))
	assert.True(t, o.Enabled)
	assert.Nil(t, o.Impact)
}

func TestLoad_MalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "practices: [not a map")

	_, err := Load(path, dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ConfigFileName)
}

func TestGet_GlobalToggleAndImpact(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
practices:
  lockfile-present:
    enabled: false
  gitignore-patterns:
    impact: high
`)

	store, err := Load(path, dir)
	require.NoError(t, err)

	comp := filepath.Join(dir, "svc")

	off := store.Get("lockfile-present", comp)
	assert.False(t, off.Enabled)

	raised := store.Get("gitignore-patterns", comp)
	assert.True(t, raised.Enabled)
	require.NotNil(t, raised.Impact)
	assert.Equal(t, practice.ImpactHigh, *raised.Impact)

	untouched := store.Get("readme-present", comp)
	assert.True(t, untouched.Enabled)
	assert.Nil(t, untouched.Impact)
}

func TestGet_ComponentScopeWinsOverGlobal(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
practices:
  readme-present:
    enabled: false
components:
  ./frontend:
    practices:
      readme-present:
        enabled: true
        impact: low
`)

	store, err := Load(path, dir)
	require.NoError(t, err)

	frontend := filepath.Join(dir, "frontend")
	backend := filepath.Join(dir, "backend")

	assert.True(t, store.Get("readme-present", frontend).Enabled)
	assert.False(t, store.Get("readme-present", backend).Enabled)
}

func TestGet_RootComponentKey(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
components:
  .:
    practices:
      editorconfig-present:
        enabled: false
`)

	store, err := Load(path, dir)
	require.NoError(t, err)

	assert.False(t, store.Get("editorconfig-present", dir).Enabled)
	assert.True(t, store.Get("editorconfig-present", filepath.Join(dir, "sub")).Enabled)
}

func TestGet_UnknownImpactStringIsIgnored(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
practices:
  readme-present:
    impact: catastrophic
`)

	store, err := Load(path, dir)
	require.NoError(t, err)

	o := store.Get("readme-present", dir)
	assert.True(t, o.Enabled)
	assert.Nil(t, o.Impact)
}

func TestSaveDefaultConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)

	require.NoError(t, SaveDefaultConfig(path))

	// Refuses to clobber.
	assert.Error(t, SaveDefaultConfig(path))

	// The written file loads cleanly.
	store, err := Load(path, dir)
	require.NoError(t, err)
	assert.True(t, store.Get("anything", dir).Enabled)
}
