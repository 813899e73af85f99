package practices

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/devscan/devscan/internal/component"
	"github.com/devscan/devscan/internal/practice"
)

// lockfileNames maps each language to the lockfiles its ecosystems use.
var lockfileNames = map[component.Language][]string{
	component.LanguageJavaScript: {"package-lock.json", "yarn.lock", "pnpm-lock.yaml"},
	component.LanguageTypeScript: {"package-lock.json", "yarn.lock", "pnpm-lock.yaml"},
	component.LanguageGo:         {"go.sum"},
	component.LanguageRust:       {"Cargo.lock"},
	component.LanguageRuby:       {"Gemfile.lock"},
	component.LanguagePython:     {"poetry.lock", "Pipfile.lock", "uv.lock"},
}

// LockfilePresent checks that a component pins its dependency versions
// with a lockfile.
type LockfilePresent struct{}

func (p *LockfilePresent) Metadata() practice.Metadata {
	return practice.Metadata{
		ID:         "lockfile-present",
		Name:       "Use a Lockfile",
		Impact:     practice.ImpactHigh,
		Suggestion: "Commit a dependency lockfile so builds are reproducible.",
		DocsURL:    "https://docs.npmjs.com/cli/configuring-npm/package-lock-json",
	}
}

func (p *LockfilePresent) IsApplicable(c *component.Component) bool {
	_, ok := lockfileNames[c.Language]
	return ok
}

func (p *LockfilePresent) Evaluate(ctx context.Context, ectx *practice.Context) (practice.Result, error) {
	found, err := findLockfiles(ectx.Component)
	if err != nil {
		return practice.ResultUnknown, err
	}
	if len(found) == 0 {
		return practice.ResultNotPracticing, nil
	}
	return practice.ResultPracticing, nil
}

// ExactlyOneLockfile checks that a component does not mix package
// managers. It only means anything once a lockfile exists, so it
// requires lockfile-present to have evaluated to practicing.
type ExactlyOneLockfile struct{}

func (p *ExactlyOneLockfile) Metadata() practice.Metadata {
	return practice.Metadata{
		ID:         "exactly-one-lockfile",
		Name:       "Use Exactly One Lockfile",
		Impact:     practice.ImpactMedium,
		Suggestion: "Remove extra lockfiles and standardize on one package manager.",
		DocsURL:    "https://docs.npmjs.com/cli/configuring-npm/package-lock-json",
		Requires: practice.Requires{
			Practicing: []string{"lockfile-present"},
		},
	}
}

func (p *ExactlyOneLockfile) IsApplicable(c *component.Component) bool {
	// Only ecosystems with several competing package managers.
	return c.Language == component.LanguageJavaScript || c.Language == component.LanguageTypeScript
}

func (p *ExactlyOneLockfile) Evaluate(ctx context.Context, ectx *practice.Context) (practice.Result, error) {
	found, err := findLockfiles(ectx.Component)
	if err != nil {
		return practice.ResultUnknown, err
	}
	if len(found) == 1 {
		return practice.ResultPracticing, nil
	}
	return practice.ResultNotPracticing, nil
}

// findLockfiles returns the known lockfiles present in the component root.
func findLockfiles(c *component.Component) ([]string, error) {
	var found []string
	for _, name := range lockfileNames[c.Language] {
		path := filepath.Join(c.Path, name)
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("stat %s: %w", name, err)
		}
		if !info.IsDir() {
			found = append(found, name)
		}
	}
	return found, nil
}
