// Package practices contains the built-in practice implementations
// registered into the catalog at startup. Each practice is a
// self-contained check; inter-practice dependencies are declared in
// metadata and enforced by the engine, never checked here.
package practices

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/devscan/devscan/internal/component"
	"github.com/devscan/devscan/internal/practice"
)

// ignorePatterns are patterns that commonly should be ignored,
// grouped by category. Language-independent categories apply to every
// component; language keys add ecosystem-specific entries.
var ignorePatterns = map[string][]string{
	"secrets": {
		".env",
		"*.pem",
		"*.key",
		"credentials.json",
	},
	"os_files": {
		".DS_Store",
		"Thumbs.db",
	},
	"editor_files": {
		".idea/",
		".vscode/",
		"*.swp",
	},
	string(component.LanguageGo): {
		"*.exe",
		"*.out",
	},
	string(component.LanguageJavaScript): {
		"node_modules/",
		"dist/",
	},
	string(component.LanguageTypeScript): {
		"node_modules/",
		"dist/",
	},
	string(component.LanguagePython): {
		"__pycache__/",
		"*.pyc",
	},
	string(component.LanguageRust): {
		"target/",
	},
	string(component.LanguageJava): {
		"*.class",
		"target/",
	},
	string(component.LanguageRuby): {
		".bundle/",
	},
}

// GitignorePresent checks that a component has a .gitignore file.
type GitignorePresent struct{}

func (p *GitignorePresent) Metadata() practice.Metadata {
	return practice.Metadata{
		ID:         "gitignore-present",
		Name:       "Create a .gitignore",
		Impact:     practice.ImpactHigh,
		Suggestion: "Add a .gitignore so build artifacts and secrets stay out of source control.",
		DocsURL:    "https://git-scm.com/docs/gitignore",
	}
}

func (p *GitignorePresent) IsApplicable(c *component.Component) bool {
	return true
}

func (p *GitignorePresent) Evaluate(ctx context.Context, ectx *practice.Context) (practice.Result, error) {
	path := filepath.Join(ectx.Component.Path, ".gitignore")
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return practice.ResultNotPracticing, nil
		}
		return practice.ResultUnknown, fmt.Errorf("stat .gitignore: %w", err)
	}
	if info.IsDir() {
		return practice.ResultNotPracticing, nil
	}
	return practice.ResultPracticing, nil
}

// Fix creates a .gitignore seeded with patterns for the component's
// language. Creating is idempotent: an existing file is left alone.
func (p *GitignorePresent) Fix(ctx context.Context, ectx *practice.Context) error {
	path := filepath.Join(ectx.Component.Path, ".gitignore")
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	content := strings.Join(requiredPatterns(ectx.Component), "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}
	return nil
}

// GitignorePatterns checks that an existing .gitignore covers the
// patterns a component of this language should ignore. It only makes
// sense once a .gitignore exists, so it requires gitignore-present to
// have evaluated to practicing.
type GitignorePatterns struct{}

func (p *GitignorePatterns) Metadata() practice.Metadata {
	return practice.Metadata{
		ID:         "gitignore-patterns",
		Name:       "Set .gitignore Correctly",
		Impact:     practice.ImpactMedium,
		Suggestion: "Extend the .gitignore to cover secrets, OS files, and build artifacts for your ecosystem.",
		DocsURL:    "https://git-scm.com/docs/gitignore",
		Requires: practice.Requires{
			Practicing: []string{"gitignore-present"},
		},
	}
}

func (p *GitignorePatterns) IsApplicable(c *component.Component) bool {
	return true
}

func (p *GitignorePatterns) Evaluate(ctx context.Context, ectx *practice.Context) (practice.Result, error) {
	covered, err := readIgnoreEntries(ectx.Component)
	if err != nil {
		return practice.ResultUnknown, err
	}

	missing := missingPatterns(ectx.Component, covered)
	if len(missing) > 0 {
		return practice.ResultNotPracticing, nil
	}
	return practice.ResultPracticing, nil
}

// Fix appends the missing patterns to the .gitignore. Appending only
// what is missing keeps the fix idempotent.
func (p *GitignorePatterns) Fix(ctx context.Context, ectx *practice.Context) error {
	covered, err := readIgnoreEntries(ectx.Component)
	if err != nil {
		return err
	}

	missing := missingPatterns(ectx.Component, covered)
	if len(missing) == 0 {
		return nil
	}

	path := filepath.Join(ectx.Component.Path, ".gitignore")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening .gitignore: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString("\n" + strings.Join(missing, "\n") + "\n"); err != nil {
		return fmt.Errorf("appending to .gitignore: %w", err)
	}
	return nil
}

// requiredPatterns returns the patterns a component of this language
// should ignore, in stable category order.
func requiredPatterns(c *component.Component) []string {
	var out []string
	for _, category := range []string{"secrets", "os_files", "editor_files", string(c.Language)} {
		out = append(out, ignorePatterns[category]...)
	}
	return out
}

// missingPatterns returns required patterns absent from the covered set.
func missingPatterns(c *component.Component, covered map[string]bool) []string {
	var missing []string
	for _, pattern := range requiredPatterns(c) {
		if !covered[pattern] {
			missing = append(missing, pattern)
		}
	}
	return missing
}

// readIgnoreEntries parses the component's .gitignore into a set of
// non-comment entries.
func readIgnoreEntries(c *component.Component) (map[string]bool, error) {
	path := filepath.Join(c.Path, ".gitignore")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening .gitignore: %w", err)
	}
	defer f.Close()

	entries := make(map[string]bool)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entries[line] = true
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading .gitignore: %w", err)
	}
	return entries, nil
}
