package shift

import "fmt"

// ErrInvalidName is returned when a migration's version cannot be derived
// because its name carries no '_' separator.
type ErrInvalidName struct {
	Name string
}

// Error implements the error interface for ErrInvalidName.
func (err *ErrInvalidName) Error() string {
	return fmt.Sprintf("shift: expected migration name '%s' to begin with a version segment "+
		"followed by '_'", err.Name)
}

// ErrNoReverse is returned by RevertLast when the migration to be reverted
// carries no downward migration data.
type ErrNoReverse struct {
	Name string
}

// Error implements the error interface for ErrNoReverse.
func (err *ErrNoReverse) Error() string {
	return fmt.Sprintf("shift: migration '%s' contains no downward migration data and cannot "+
		"be reverted", err.Name)
}

// ErrNotFound is returned by RevertLast when no migration has ever been
// applied, or when the most recently applied version no longer exists within
// the migration set. Version is empty in the former case.
type ErrNotFound struct {
	Version string
}

// Error implements the error interface for ErrNotFound.
func (err *ErrNotFound) Error() string {
	if err.Version == "" {
		return "shift: no migrations have been applied, nothing to revert"
	}

	return fmt.Sprintf("shift: last applied version '%s' does not exist within the migration set",
		err.Version)
}

// ErrConflict is returned when recording a migration violates the uniqueness
// of the bookkeeping table's version column, meaning a concurrent caller
// applied the same migration first.
type ErrConflict struct {
	Version string
	Err     error
}

// Error implements the error interface for ErrConflict.
func (err *ErrConflict) Error() string {
	return fmt.Sprintf("shift: version '%s' was already recorded by another caller: %s",
		err.Version, err.Err)
}

// Unwrap returns the underlying database error.
func (err *ErrConflict) Unwrap() error {
	return err.Err
}

// ErrExecution wraps any database error raised while executing migration
// scripts, mutating the bookkeeping table, or creating it. Name and Version
// identify the failing migration when one is involved.
type ErrExecution struct {
	Name      string
	Version   string
	Operation string
	Err       error
}

// Error implements the error interface for ErrExecution.
func (err *ErrExecution) Error() string {
	if err.Name != "" {
		return fmt.Sprintf("shift: got error while trying to %s for migration '%s':\n%s",
			err.Operation, err.Name, err.Err)
	}

	return fmt.Sprintf("shift: got error while trying to %s:\n%s", err.Operation, err.Err)
}

// Unwrap returns the underlying database error.
func (err *ErrExecution) Unwrap() error {
	return err.Err
}
