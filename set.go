package shift

import (
	"fmt"
	"sort"
)

// Set is the fixed collection of migrations known to an Instance, keyed by
// derived version. A Set is immutable once built and may be shared freely
// across goroutines without locking.
type Set struct {
	migrations map[string]Migration
}

// NewSet takes the materialized migration list and validates it, deriving
// every version up front. NewSet returns an *ErrInvalidName if any name
// lacks a version segment, and an ordinary error if a migration contains no
// upward SQL or if two migrations derive the same version.
func NewSet(migrations []Migration) (*Set, error) {
	set := &Set{migrations: make(map[string]Migration, len(migrations))}

	for _, migration := range migrations {
		version, err := migration.Version()
		if err != nil {
			return nil, err
		}

		if migration.Up == "" {
			return nil, fmt.Errorf("NewSet: migration '%s' contains no upward migration data",
				migration.Name)
		}

		if existing, ok := set.migrations[version]; ok {
			return nil, fmt.Errorf("NewSet: migrations '%s' and '%s' share version '%s'",
				existing.Name, migration.Name, version)
		}

		set.migrations[version] = migration
	}

	return set, nil
}

// Len returns the number of migrations within the set.
func (set *Set) Len() int {
	return len(set.migrations)
}

// Get looks up a migration by its derived version.
func (set *Set) Get(version string) (Migration, bool) {
	migration, ok := set.migrations[version]
	return migration, ok
}

// Pending diffs the set against a list of already-applied versions,
// returning the migrations that remain sorted ascending by version string.
// The sort is lexicographic, not numeric, matching the zero-padded prefix
// convention migration names are expected to follow. Pending is a pure
// function of its inputs: identical inputs always yield the same migrations
// in the same order.
func (set *Set) Pending(applied []string) []Migration {
	pending := make(map[string]Migration, len(set.migrations))
	for version, migration := range set.migrations {
		pending[version] = migration
	}

	for _, version := range applied {
		delete(pending, version)
	}

	versions := make([]string, 0, len(pending))
	for version := range pending {
		versions = append(versions, version)
	}
	sort.Strings(versions)

	migrations := make([]Migration, 0, len(versions))
	for _, version := range versions {
		migrations = append(migrations, pending[version])
	}

	return migrations
}
