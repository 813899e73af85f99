package component

import "path/filepath"

// Language identifies the primary programming language of a component.
type Language string

const (
	LanguageGo         Language = "go"
	LanguageJavaScript Language = "javascript"
	LanguageTypeScript Language = "typescript"
	LanguagePython     Language = "python"
	LanguageRust       Language = "rust"
	LanguageJava       Language = "java"
	LanguageRuby       Language = "ruby"
	LanguageUnknown    Language = "unknown"
)

// Kind classifies what sort of unit a component is.
type Kind string

const (
	KindApplication Kind = "application"
	KindLibrary     Kind = "library"
	KindUnknown     Kind = "unknown"
)

// Component is a detected unit of code that practices are evaluated
// against. It is produced once by detection per run and is read-only
// to the evaluation engine.
type Component struct {
	// Language is the primary language of the component.
	Language Language

	// Framework is the detected framework, if any (e.g., "react", "django").
	Framework string

	// Platform is the runtime platform (e.g., "nodejs", "jvm").
	Platform string

	// Kind classifies the component (application, library).
	Kind Kind

	// Path is the absolute filesystem location of the component root.
	Path string

	// Repo is the originating repository reference, if known.
	Repo string
}

// ID returns a stable identifier for the component within a run.
// Components are keyed by their filesystem location.
func (c *Component) ID() string {
	return c.Path
}

// Name returns a short human-readable name for the component.
func (c *Component) Name() string {
	return filepath.Base(c.Path)
}
