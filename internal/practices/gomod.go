package practices

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"

	"github.com/devscan/devscan/internal/component"
	"github.com/devscan/devscan/internal/practice"
)

// GoModNoLocalReplace checks that a Go component's go.mod carries no
// filesystem replace directives, which break the build for everyone
// but the author.
type GoModNoLocalReplace struct{}

func (p *GoModNoLocalReplace) Metadata() practice.Metadata {
	return practice.Metadata{
		ID:         "gomod-no-local-replace",
		Name:       "No Local Replace Directives",
		Impact:     practice.ImpactHigh,
		Suggestion: "Remove filesystem replace directives from go.mod before publishing.",
		DocsURL:    "https://go.dev/ref/mod#go-mod-file-replace",
	}
}

func (p *GoModNoLocalReplace) IsApplicable(c *component.Component) bool {
	return c.Language == component.LanguageGo
}

func (p *GoModNoLocalReplace) Evaluate(ctx context.Context, ectx *practice.Context) (practice.Result, error) {
	path := filepath.Join(ectx.Component.Path, "go.mod")
	data, err := os.ReadFile(path)
	if err != nil {
		return practice.ResultUnknown, fmt.Errorf("reading go.mod: %w", err)
	}

	f, err := modfile.Parse(path, data, nil)
	if err != nil {
		return practice.ResultUnknown, fmt.Errorf("parsing go.mod: %w", err)
	}

	for _, r := range f.Replace {
		if isLocalPath(r.New.Path) {
			return practice.ResultNotPracticing, nil
		}
	}
	return practice.ResultPracticing, nil
}

// isLocalPath reports whether a replace target is a filesystem path
// rather than a module path. Module replace targets carry a version;
// filesystem targets are absolute or start with ./ or ../.
func isLocalPath(path string) bool {
	return filepath.IsAbs(path) ||
		strings.HasPrefix(path, "./") ||
		strings.HasPrefix(path, "../")
}
