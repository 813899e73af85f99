package practices

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/devscan/devscan/internal/component"
	"github.com/devscan/devscan/internal/practice"
)

// readmeNames are the filenames accepted as a project README.
var readmeNames = []string{"README.md", "README", "README.rst", "readme.md"}

// ReadmePresent checks that a component documents itself with a README.
type ReadmePresent struct{}

func (p *ReadmePresent) Metadata() practice.Metadata {
	return practice.Metadata{
		ID:         "readme-present",
		Name:       "Create a Readme",
		Impact:     practice.ImpactMedium,
		Suggestion: "Add a README.md describing what the component does and how to build it.",
		DocsURL:    "https://www.makeareadme.com",
	}
}

func (p *ReadmePresent) IsApplicable(c *component.Component) bool {
	return true
}

func (p *ReadmePresent) Evaluate(ctx context.Context, ectx *practice.Context) (practice.Result, error) {
	for _, name := range readmeNames {
		info, err := os.Stat(filepath.Join(ectx.Component.Path, name))
		if err == nil && !info.IsDir() {
			return practice.ResultPracticing, nil
		}
	}
	return practice.ResultNotPracticing, nil
}

// Fix writes a stub README.md. An existing README is left untouched.
func (p *ReadmePresent) Fix(ctx context.Context, ectx *practice.Context) error {
	for _, name := range readmeNames {
		if info, err := os.Stat(filepath.Join(ectx.Component.Path, name)); err == nil && !info.IsDir() {
			return nil
		}
	}

	content := fmt.Sprintf("# %s\n\nTODO: describe this component.\n", ectx.Component.Name())
	path := filepath.Join(ectx.Component.Path, "README.md")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("writing README.md: %w", err)
	}
	return nil
}

// EditorconfigPresent checks for an .editorconfig. The file usually
// lives once at the repository root, so the finding is reported only
// once per run even when several components miss it.
type EditorconfigPresent struct{}

func (p *EditorconfigPresent) Metadata() practice.Metadata {
	return practice.Metadata{
		ID:             "editorconfig-present",
		Name:           "Use .editorconfig",
		Impact:         practice.ImpactLow,
		Suggestion:     "Add an .editorconfig so editors agree on indentation and line endings.",
		DocsURL:        "https://editorconfig.org",
		ReportOnlyOnce: true,
	}
}

func (p *EditorconfigPresent) IsApplicable(c *component.Component) bool {
	return true
}

func (p *EditorconfigPresent) Evaluate(ctx context.Context, ectx *practice.Context) (practice.Result, error) {
	// Look upward as well: a root-level .editorconfig covers nested
	// components.
	dir := ectx.Component.Path
	for {
		info, err := os.Stat(filepath.Join(dir, ".editorconfig"))
		if err == nil && !info.IsDir() {
			return practice.ResultPracticing, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return practice.ResultNotPracticing, nil
		}
		dir = parent
	}
}
