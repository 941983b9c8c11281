package shift

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync/atomic"
)

// Instance owns a migration Set and coordinates applying it against a
// database. With the exception of the Output field, Instance is not intended
// to be directly created and manipulated, but rather managed by NewInstance
// and a variety of methods. A single long-lived Instance may be shared
// across goroutines: the set is read-only and the one-time setup guard is
// updated atomically.
type Instance struct {
	set   *Set
	setup uint32

	// Output controls the destination for messages emitted by the Instance.
	Output io.Writer
}

// NewInstance takes a migration Set and returns an Instance managing it.
// The database handle is supplied per call rather than held by the
// Instance, leaving cancellation and timeouts entirely to the caller's
// context and connection settings.
func NewInstance(set *Set) *Instance {
	return &Instance{set: set, Output: os.Stdout}
}

// ensureTable creates the bookkeeping table the first time any entry point
// is invoked on this Instance. The guard flips exactly once per Instance
// whether or not the statement succeeds; the statement itself uses CREATE
// TABLE IF NOT EXISTS, so other processes racing against the same database
// are harmless.
func (instance *Instance) ensureTable(ctx context.Context, db *sql.DB) error {
	if !atomic.CompareAndSwapUint32(&instance.setup, 0, 1) {
		return nil
	}

	if _, err := db.ExecContext(ctx, createTableSQL); err != nil {
		return &ErrExecution{Operation: "create the " + TableName + " table", Err: err}
	}

	return nil
}

// RunPending applies every migration within the set that has no bookkeeping
// row yet, strictly in ascending version order, each inside its own
// transaction. RunPending stops at the first failure, leaving the
// bookkeeping table consistent with exactly the migrations that committed;
// a later call resumes from that point since pending state is re-derived
// from the table, never from in-memory progress. RunPending is a no-op when
// nothing is pending.
func (instance *Instance) RunPending(ctx context.Context, db *sql.DB) error {
	if err := instance.ensureTable(ctx, db); err != nil {
		return err
	}

	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return err
	}

	pending := instance.set.Pending(applied)
	if len(pending) == 0 {
		fmt.Fprint(instance.Output, "shift: no pending migrations\n")
		return nil
	}

	fmt.Fprintf(instance.Output, "\033[1mshift: Applying %d pending migration(s)...\033[0m\n", len(pending))

	for _, migration := range pending {
		version, err := migration.Version()
		if err != nil {
			return err
		}

		fmt.Fprintf(instance.Output, "- Applying '%s'\n", migration.Name)

		if err := apply(ctx, db, migration, version); err != nil {
			fmt.Fprintf(instance.Output, "\033[31;1m- Failed to apply '%s'\033[0m\n", migration.Name)
			return err
		}
	}

	return nil
}

// Pending returns the migrations within the set that have not been applied,
// sorted ascending by version, without applying anything. Pending is
// read-only aside from the possible one-time creation of the bookkeeping
// table.
func (instance *Instance) Pending(ctx context.Context, db *sql.DB) ([]Migration, error) {
	if err := instance.ensureTable(ctx, db); err != nil {
		return nil, err
	}

	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return nil, err
	}

	return instance.set.Pending(applied), nil
}

// RevertLast reverses the most recently applied migration, removing its
// bookkeeping row in the same transaction. RevertLast returns an
// *ErrNotFound if no migration has ever been applied or if the most
// recently applied version no longer exists within the set, since guessing
// which migration to revert would be unsafe. RevertLast returns an
// *ErrNoReverse if the migration carries no downward SQL.
func (instance *Instance) RevertLast(ctx context.Context, db *sql.DB) error {
	if err := instance.ensureTable(ctx, db); err != nil {
		return err
	}

	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return err
	}

	if len(applied) == 0 {
		return &ErrNotFound{}
	}

	// appliedVersions orders most recent first
	last := applied[0]
	migration, ok := instance.set.Get(last)
	if !ok {
		return &ErrNotFound{Version: last}
	}

	fmt.Fprintf(instance.Output, "\033[1mshift: Reverting migration '%s'...\033[0m\n", migration.Name)

	if err := revert(ctx, db, migration, last); err != nil {
		fmt.Fprintf(instance.Output, "\033[31;1m- Failed to revert '%s'\033[0m\n", migration.Name)
		return err
	}

	return nil
}
