package shift

import "strings"

// Migration represents a single schema migration as materialized by a
// build-time or startup-time collaborator: a display name beginning with a
// version segment, the upward SQL batch, and an optional downward batch. A
// Migration with no Down SQL is irreversible.
type Migration struct {
	Name string
	Up   string
	Down string
}

// Version derives the canonical version identifier from the migration's
// name: the prefix before the first '_', with every '-' character removed.
// Version returns an *ErrInvalidName if the name contains no '_' separator.
func (m Migration) Version() (string, error) {
	prefix, _, found := strings.Cut(m.Name, "_")
	if !found {
		return "", &ErrInvalidName{Name: m.Name}
	}

	return strings.ReplaceAll(prefix, "-", ""), nil
}

// Reversible reports whether the migration carries downward migration data.
func (m Migration) Reversible() bool {
	return m.Down != ""
}
