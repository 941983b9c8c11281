/*
Package shift applies an ordered set of schema migrations against a
relational database, recording which migrations have already run in a
bookkeeping table it owns.

Migration Sets

shift has three key concepts: migrations, sets, and instances. A Migration
is a single schema change carrying upward SQL and, optionally, downward SQL
to reverse it. A Set is the fixed collection of migrations known to the
program, materialized once by whatever mechanism is available: a compiled-in
slice, an embedded filesystem via SetFromFS, or a directory read at startup.
An Instance owns a Set and applies it against databases handed to it per
call.

Migration names follow a static convention, `<version>_<name>`, where
`<version>` is a monotonic prefix such as `20240102030405` or `0001`.
Versions are derived by taking the segment before the first underscore and
stripping any '-' characters, so date-formatted prefixes like `2024-01-02`
collapse to `20240102`. Ordering is lexicographic on the derived version
string, which is why numeric prefixes must be zero-padded.

The Bookkeeping Table

Applied versions live in the `schema_migrations` table, one row per
migration, created on demand with idempotent DDL. The presence of a row is
the sole source of truth for "this migration has been applied", and the
PRIMARY KEY on its version column is load-bearing: concurrent callers
racing to apply the same migration rely on it to fail the loser with an
ErrConflict rather than applying twice.

Basics

To get started with shift, build a Set and create an Instance for it:

	//go:embed migrations
	var migrationFS embed.FS

	set, err := shift.SetFromFS(migrationFS, "migrations")
	if err != nil {
		panic(err)
	}

	instance := shift.NewInstance(set)

With an instance created, shift can now manage the database schema:

	database, _ := sql.Open(...) // Open a database connection
	defer database.Close()

	// Apply every migration not yet recorded, oldest first
	if err := instance.RunPending(ctx, database); err != nil {
		panic(err)
	}

	// Inspect what would run without applying anything
	pending, err := instance.Pending(ctx, database)

Each migration is applied inside its own transaction together with its
bookkeeping row, so a failure part-way through a batch leaves neither the
schema change nor the record behind. RunPending halts at the first failing
migration; calling it again after the offending SQL is fixed resumes from
exactly the right point, since pending state is always re-derived from the
bookkeeping table.

Reverting

RevertLast walks back the single most recently applied migration:

	if err := instance.RevertLast(ctx, database); err != nil {
		panic(err)
	}

A migration without downward SQL is irreversible and RevertLast fails on it
with an ErrNoReverse. If nothing has been applied, or the last applied
version is missing from the current Set (for example, the migration list
changed between deploys), RevertLast fails with an ErrNotFound rather than
guessing which migration to revert.
*/
package shift
