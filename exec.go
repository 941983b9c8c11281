package shift

import (
	"context"
	"database/sql"
	_ "embed"
	"strings"
)

// TableName is the bookkeeping table owned by shift. Its PRIMARY KEY on the
// version column is a required invariant of the schema, not merely engine
// behavior: concurrent callers racing to apply the same migration rely on it
// to fail the loser with an *ErrConflict rather than applying twice.
const TableName = "schema_migrations"

//go:embed setup_migrations_table.sql
var createTableSQL string

const (
	insertVersionSQL  = `INSERT INTO schema_migrations (version) VALUES (?)`
	deleteVersionSQL  = `DELETE FROM schema_migrations WHERE version = ?`
	selectVersionsSQL = `SELECT version FROM schema_migrations ORDER BY version DESC`
)

// apply executes a migration's upward SQL batch and records its version in
// the bookkeeping table, both within a single transaction. On any failure
// the transaction is rolled back in full: either the schema change and the
// bookkeeping row both exist afterward, or neither does.
func apply(ctx context.Context, db *sql.DB, migration Migration, version string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return &ErrExecution{Name: migration.Name, Version: version,
			Operation: "begin a transaction", Err: err}
	}

	if _, err := tx.ExecContext(ctx, migration.Up); err != nil {
		_ = tx.Rollback()
		return &ErrExecution{Name: migration.Name, Version: version,
			Operation: "apply the upward migration", Err: err}
	}

	if _, err := tx.ExecContext(ctx, insertVersionSQL, version); err != nil {
		_ = tx.Rollback()

		if isUniqueViolation(err) {
			return &ErrConflict{Version: version, Err: err}
		}

		return &ErrExecution{Name: migration.Name, Version: version,
			Operation: "record the migration", Err: err}
	}

	if err := tx.Commit(); err != nil {
		return &ErrExecution{Name: migration.Name, Version: version,
			Operation: "commit the transaction", Err: err}
	}

	return nil
}

// revert executes a migration's downward SQL batch and deletes its
// bookkeeping row within a single transaction, with the same all-or-nothing
// guarantee as apply. revert returns an *ErrNoReverse if the migration
// carries no downward SQL.
func revert(ctx context.Context, db *sql.DB, migration Migration, version string) error {
	if !migration.Reversible() {
		return &ErrNoReverse{Name: migration.Name}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return &ErrExecution{Name: migration.Name, Version: version,
			Operation: "begin a transaction", Err: err}
	}

	if _, err := tx.ExecContext(ctx, migration.Down); err != nil {
		_ = tx.Rollback()
		return &ErrExecution{Name: migration.Name, Version: version,
			Operation: "apply the downward migration", Err: err}
	}

	if _, err := tx.ExecContext(ctx, deleteVersionSQL, version); err != nil {
		_ = tx.Rollback()
		return &ErrExecution{Name: migration.Name, Version: version,
			Operation: "unrecord the migration", Err: err}
	}

	if err := tx.Commit(); err != nil {
		return &ErrExecution{Name: migration.Name, Version: version,
			Operation: "commit the transaction", Err: err}
	}

	return nil
}

// appliedVersions lists every version recorded in the bookkeeping table,
// most recently ordered first.
func appliedVersions(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx, selectVersionsSQL)
	if err != nil {
		return nil, &ErrExecution{Operation: "list applied versions", Err: err}
	}
	defer rows.Close()

	var versions []string
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, &ErrExecution{Operation: "scan an applied version", Err: err}
		}

		versions = append(versions, version)
	}

	if err := rows.Err(); err != nil {
		return nil, &ErrExecution{Operation: "list applied versions", Err: err}
	}

	return versions, nil
}

// isUniqueViolation reports whether err is the backing store rejecting a
// duplicate row on a uniqueness constraint.
func isUniqueViolation(err error) bool {
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "unique constraint") ||
		strings.Contains(message, "duplicate key") ||
		strings.Contains(message, "duplicate entry")
}
