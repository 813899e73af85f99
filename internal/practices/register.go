package practices

import (
	"fmt"

	"github.com/devscan/devscan/internal/practice"
)

// All returns the built-in practices in their canonical registration
// order. The order matters: the engine breaks scheduling ties by
// registration position, so keeping this list stable keeps report
// output stable across runs.
func All() []practice.Practice {
	return []practice.Practice{
		&GitignorePresent{},
		&GitignorePatterns{},
		&LockfilePresent{},
		&ExactlyOneLockfile{},
		&ReadmePresent{},
		&EditorconfigPresent{},
		&GoModNoLocalReplace{},
	}
}

// RegisterAll populates a catalog with every built-in practice.
func RegisterAll(catalog *practice.Catalog) error {
	for _, p := range All() {
		if err := catalog.Register(p); err != nil {
			return fmt.Errorf("registering built-in practices: %w", err)
		}
	}
	return nil
}
