// Package overrides implements the per-component practice override
// store: externally configured enable/disable toggles and severity
// substitutions, loaded from a .devscan.yml file.
package overrides

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/devscan/devscan/internal/practice"
)

// Override is the answer to an override query for one practice on one
// component.
type Override struct {
	// Enabled is false when the practice is explicitly toggled off.
	Enabled bool

	// Impact substitutes the practice's declared severity when non-nil.
	Impact *practice.Impact
}

// Store answers override queries. Implementations are treated as
// immutable snapshots for the duration of a run.
type Store interface {
	// Get returns the effective override for a practice on a component.
	// Absent configuration yields the zero override: enabled, declared
	// impact.
	Get(practiceID, componentID string) Override
}

// ConfigFileName is the override file looked up in the scan root.
const ConfigFileName = ".devscan.yml"

// practiceConfig is one practice's entry in the YAML file.
type practiceConfig struct {
	// Enabled defaults to true when omitted.
	Enabled *bool `yaml:"enabled,omitempty"`

	// Impact is "low", "medium" or "high"; empty keeps the declared one.
	Impact string `yaml:"impact,omitempty"`
}

// componentConfig scopes practice overrides to one component.
type componentConfig struct {
	Practices map[string]practiceConfig `yaml:"practices"`
}

// Config is the on-disk override file layout.
type Config struct {
	// Practices applies to every component.
	Practices map[string]practiceConfig `yaml:"practices,omitempty"`

	// Components keys are component paths relative to the scan root;
	// their entries take precedence over the global section.
	Components map[string]componentConfig `yaml:"components,omitempty"`
}

// FileStore is a Store backed by a parsed Config.
type FileStore struct {
	config Config
	root   string // scan root, for resolving component keys
}

// Load reads an override file. A missing file is not an error: it
// yields an empty store where everything is enabled.
func Load(path, root string) (*FileStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &FileStore{root: root}, nil
		}
		return nil, fmt.Errorf("reading override file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}

	return &FileStore{config: config, root: root}, nil
}

// Get implements Store. Component-scoped entries win over global ones.
func (s *FileStore) Get(practiceID, componentID string) Override {
	out := Override{Enabled: true}

	if pc, ok := s.config.Practices[practiceID]; ok {
		apply(&out, pc)
	}

	for key, cc := range s.config.Components {
		if !s.matchesComponent(key, componentID) {
			continue
		}
		if pc, ok := cc.Practices[practiceID]; ok {
			apply(&out, pc)
		}
	}

	return out
}

// matchesComponent reports whether a config key names the component.
// Keys are paths relative to the scan root; "." names the root itself.
func (s *FileStore) matchesComponent(key, componentID string) bool {
	resolved := filepath.Clean(filepath.Join(s.root, filepath.FromSlash(key)))
	return resolved == filepath.Clean(componentID)
}

func apply(out *Override, pc practiceConfig) {
	if pc.Enabled != nil {
		out.Enabled = *pc.Enabled
	}
	if pc.Impact != "" {
		if impact, err := practice.ParseImpact(strings.ToLower(pc.Impact)); err == nil {
			out.Impact = &impact
		}
	}
}

// DefaultConfig returns a commented starting configuration.
func DefaultConfig() *Config {
	return &Config{
		Practices:  map[string]practiceConfig{},
		Components: map[string]componentConfig{},
	}
}

// SaveDefaultConfig writes a starter override file. It refuses to
// clobber an existing one.
func SaveDefaultConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}

	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	header := "" +
		"# devscan override configuration.\n" +
		"#\n" +
		"# practices:\n" +
		"#   lockfile-present:\n" +
		"#     enabled: false\n" +
		"#   gitignore-patterns:\n" +
		"#     impact: high\n" +
		"# components:\n" +
		"#   ./frontend:\n" +
		"#     practices:\n" +
		"#       readme-present:\n" +
		"#         enabled: false\n"

	if err := os.WriteFile(path, append([]byte(header), data...), 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
