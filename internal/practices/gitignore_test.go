package practices

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devscan/devscan/internal/component"
	"github.com/devscan/devscan/internal/practice"
)

func goComponent(t *testing.T) *practice.Context {
	t.Helper()
	return &practice.Context{Component: &component.Component{
		Language: component.LanguageGo,
		Path:     t.TempDir(),
	}}
}

func TestGitignorePresent_Metadata(t *testing.T) {
	p := &GitignorePresent{}
	meta := p.Metadata()

	assert.Equal(t, "gitignore-present", meta.ID)
	assert.Equal(t, practice.ImpactHigh, meta.Impact)
	assert.Empty(t, meta.Requires.All())
	assert.True(t, practice.CanFix(p))
}

func TestGitignorePresent_Evaluate(t *testing.T) {
	p := &GitignorePresent{}
	ectx := goComponent(t)

	result, err := p.Evaluate(context.Background(), ectx)
	require.NoError(t, err)
	assert.Equal(t, practice.ResultNotPracticing, result)

	require.NoError(t, os.WriteFile(filepath.Join(ectx.Component.Path, ".gitignore"), []byte("*.out\n"), 0644))

	result, err = p.Evaluate(context.Background(), ectx)
	require.NoError(t, err)
	assert.Equal(t, practice.ResultPracticing, result)
}

func TestGitignorePresent_FixIsIdempotent(t *testing.T) {
	p := &GitignorePresent{}
	ectx := goComponent(t)

	require.NoError(t, p.Fix(context.Background(), ectx))

	path := filepath.Join(ectx.Component.Path, ".gitignore")
	first, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(first), ".env")
	assert.Contains(t, string(first), "*.out")

	// Second fix changes nothing.
	require.NoError(t, p.Fix(context.Background(), ectx))
	second, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// And the component now practices.
	result, err := p.Evaluate(context.Background(), ectx)
	require.NoError(t, err)
	assert.Equal(t, practice.ResultPracticing, result)
}

func TestGitignorePatterns_DependsOnPresent(t *testing.T) {
	meta := (&GitignorePatterns{}).Metadata()
	assert.Equal(t, []string{"gitignore-present"}, meta.Requires.Practicing)
}

func TestGitignorePatterns_Evaluate(t *testing.T) {
	p := &GitignorePatterns{}
	ectx := goComponent(t)
	path := filepath.Join(ectx.Component.Path, ".gitignore")

	// Partial coverage is a violation.
	require.NoError(t, os.WriteFile(path, []byte(".env\n# comment\n\n"), 0644))
	result, err := p.Evaluate(context.Background(), ectx)
	require.NoError(t, err)
	assert.Equal(t, practice.ResultNotPracticing, result)

	// Full coverage practices.
	full := ""
	for _, pattern := range requiredPatterns(ectx.Component) {
		full += pattern + "\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(full), 0644))
	result, err = p.Evaluate(context.Background(), ectx)
	require.NoError(t, err)
	assert.Equal(t, practice.ResultPracticing, result)
}

func TestGitignorePatterns_FixAppendsOnlyMissing(t *testing.T) {
	p := &GitignorePatterns{}
	ectx := goComponent(t)
	path := filepath.Join(ectx.Component.Path, ".gitignore")

	require.NoError(t, os.WriteFile(path, []byte(".env\nmy-custom-entry\n"), 0644))
	require.NoError(t, p.Fix(context.Background(), ectx))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "my-custom-entry", "existing entries survive")
	assert.Contains(t, string(content), ".DS_Store")

	result, err := p.Evaluate(context.Background(), ectx)
	require.NoError(t, err)
	assert.Equal(t, practice.ResultPracticing, result)

	// Idempotent: a second fix leaves the file alone.
	before, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, p.Fix(context.Background(), ectx))
	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestGitignorePatterns_MissingFileIsUnknown(t *testing.T) {
	// The engine's dependency gating normally prevents this; if it does
	// happen, the practice reports unknown rather than guessing.
	p := &GitignorePatterns{}
	ectx := goComponent(t)

	result, err := p.Evaluate(context.Background(), ectx)
	assert.Error(t, err)
	assert.Equal(t, practice.ResultUnknown, result)
}
