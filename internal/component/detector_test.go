package component

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0644))
}

func TestNewDetector_Validation(t *testing.T) {
	_, err := NewDetector(filepath.Join(t.TempDir(), "missing"), nil)
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "afile")
	require.NoError(t, os.WriteFile(file, nil, 0644))
	_, err = NewDetector(file, nil)
	assert.Error(t, err)

	d, err := NewDetector(t.TempDir(), nil)
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(d.Root))
}

func TestDetect_Monorepo(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "backend", "go.mod"))
	touch(t, filepath.Join(root, "backend", "main.go"))
	touch(t, filepath.Join(root, "frontend", "package.json"))
	touch(t, filepath.Join(root, "frontend", "tsconfig.json"))
	touch(t, filepath.Join(root, "tools", "scripts", "requirements.txt"))

	d, err := NewDetector(root, nil)
	require.NoError(t, err)

	components, err := d.Detect(context.Background())
	require.NoError(t, err)
	require.Len(t, components, 3)

	// Sorted by path for deterministic runs.
	assert.Equal(t, filepath.Join(root, "backend"), components[0].Path)
	assert.Equal(t, LanguageGo, components[0].Language)
	assert.Equal(t, KindApplication, components[0].Kind)

	assert.Equal(t, filepath.Join(root, "frontend"), components[1].Path)
	assert.Equal(t, LanguageTypeScript, components[1].Language, "tsconfig refines JS to TS")
	assert.Equal(t, "nodejs", components[1].Platform)

	assert.Equal(t, LanguagePython, components[2].Language)
}

func TestDetect_SkipsDependencyDirs(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "package.json"))
	touch(t, filepath.Join(root, "node_modules", "leftpad", "package.json"))
	touch(t, filepath.Join(root, "vendor", "dep", "go.mod"))

	d, err := NewDetector(root, nil)
	require.NoError(t, err)

	components, err := d.Detect(context.Background())
	require.NoError(t, err)
	require.Len(t, components, 1)
	assert.Equal(t, root, components[0].Path)
}

func TestDetect_CustomExcludes(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "app", "go.mod"))
	touch(t, filepath.Join(root, "legacy", "go.mod"))

	d, err := NewDetector(root, []string{"legacy/**"})
	require.NoError(t, err)

	components, err := d.Detect(context.Background())
	require.NoError(t, err)
	require.Len(t, components, 1)
	assert.Equal(t, filepath.Join(root, "app"), components[0].Path)
}

func TestDetect_FrameworkMarkers(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "package.json"))
	touch(t, filepath.Join(root, "next.config.js"))

	d, err := NewDetector(root, nil)
	require.NoError(t, err)

	components, err := d.Detect(context.Background())
	require.NoError(t, err)
	require.Len(t, components, 1)
	assert.Equal(t, "nextjs", components[0].Framework)
	assert.Equal(t, KindApplication, components[0].Kind)
}

func TestDetect_EmptyTree(t *testing.T) {
	d, err := NewDetector(t.TempDir(), nil)
	require.NoError(t, err)

	components, err := d.Detect(context.Background())
	require.NoError(t, err)
	assert.Empty(t, components)
}

func TestDetect_GoLibraryKind(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "go.mod"))
	touch(t, filepath.Join(root, "lib.go"))

	d, err := NewDetector(root, nil)
	require.NoError(t, err)

	components, err := d.Detect(context.Background())
	require.NoError(t, err)
	require.Len(t, components, 1)
	assert.Equal(t, KindLibrary, components[0].Kind)
}
