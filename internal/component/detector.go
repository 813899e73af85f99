package component

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Detector discovers project components under a root directory by
// looking for ecosystem marker files (go.mod, package.json, ...).
// Each directory containing a marker becomes one component; nested
// markers produce nested components, which are evaluated independently.
type Detector struct {
	// Root is the directory to scan.
	Root string

	// ExcludePaths are glob patterns (doublestar syntax, relative to
	// Root) whose matches are not descended into.
	ExcludePaths []string
}

// Default directories that are never part of a project's own code.
var defaultExcludes = []string{
	"**/node_modules/**",
	"**/vendor/**",
	"**/.git/**",
	"**/dist/**",
	"**/build/**",
	"**/target/**",
	"**/__pycache__/**",
}

// markers maps an ecosystem marker file to the language it indicates.
var markers = map[string]Language{
	"go.mod":           LanguageGo,
	"package.json":     LanguageJavaScript,
	"requirements.txt": LanguagePython,
	"pyproject.toml":   LanguagePython,
	"Cargo.toml":       LanguageRust,
	"pom.xml":          LanguageJava,
	"build.gradle":     LanguageJava,
	"Gemfile":          LanguageRuby,
}

// frameworkMarkers maps a file whose presence in a component root
// identifies a framework.
var frameworkMarkers = map[string]string{
	"angular.json":     "angular",
	"next.config.js":   "nextjs",
	"next.config.mjs":  "nextjs",
	"nuxt.config.js":   "nuxt",
	"gatsby-config.js": "gatsby",
	"manage.py":        "django",
	"config/routes.rb": "rails",
}

// NewDetector creates a detector rooted at the given path.
func NewDetector(root string, excludePaths []string) (*Detector, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("invalid root path %q: %w", root, err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("stat root path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root path is not a directory: %s", absRoot)
	}

	return &Detector{
		Root:         absRoot,
		ExcludePaths: append(excludePaths, defaultExcludes...),
	}, nil
}

// Detect walks the root and returns the detected components, ordered
// by path so runs are deterministic.
func (d *Detector) Detect(ctx context.Context) ([]*Component, error) {
	found := make(map[string]*Component) // dir -> component

	err := filepath.WalkDir(d.Root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped, not fatal
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		rel, relErr := filepath.Rel(d.Root, path)
		if relErr != nil {
			return nil
		}

		if entry.IsDir() {
			if d.excluded(rel + "/") {
				return fs.SkipDir
			}
			return nil
		}
		if d.excluded(rel) {
			return nil
		}

		lang, ok := markers[entry.Name()]
		if !ok {
			return nil
		}

		dir := filepath.Dir(path)
		if _, ok := found[dir]; ok {
			// First marker wins for a directory with several.
			return nil
		}

		comp := &Component{
			Language: lang,
			Kind:     KindUnknown,
			Path:     dir,
		}
		d.refine(comp)
		found[dir] = comp
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", d.Root, err)
	}

	components := make([]*Component, 0, len(found))
	for _, c := range found {
		components = append(components, c)
	}
	sort.Slice(components, func(i, j int) bool {
		return components[i].Path < components[j].Path
	})

	return components, nil
}

// refine fills in language refinements, framework, platform, and kind
// from files inside the component root.
func (d *Detector) refine(c *Component) {
	switch c.Language {
	case LanguageJavaScript:
		c.Platform = "nodejs"
		if fileExists(filepath.Join(c.Path, "tsconfig.json")) {
			c.Language = LanguageTypeScript
		}
	case LanguageGo:
		if dirExists(filepath.Join(c.Path, "cmd")) || fileExists(filepath.Join(c.Path, "main.go")) {
			c.Kind = KindApplication
		} else {
			c.Kind = KindLibrary
		}
	case LanguageJava:
		c.Platform = "jvm"
	}

	for marker, framework := range frameworkMarkers {
		if fileExists(filepath.Join(c.Path, filepath.FromSlash(marker))) {
			c.Framework = framework
			c.Kind = KindApplication
			break
		}
	}
}

// excluded reports whether a root-relative path matches any exclude pattern.
func (d *Detector) excluded(rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, pattern := range d.ExcludePaths {
		// Patterns target path segments anywhere under the root, so a
		// trailing-slash directory probe also matches "**/x/**".
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(strings.TrimSuffix(pattern, "/**"), strings.TrimSuffix(rel, "/")); ok {
			return true
		}
	}
	return false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
