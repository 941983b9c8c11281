package shift

import (
	"database/sql"
	"os"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

const TestDBPath = "./test.sqlite"

// RunWithDB runs a closure passing it a prepared database handle and
// disposing of it afterward.
func RunWithDB(fn func(*sql.DB)) {
	db, err := sql.Open("sqlite3", TestDBPath)
	if err != nil {
		panic(err)
	}

	fn(db)

	if err := db.Close(); err != nil {
		panic(err)
	}

	if err := os.Remove(TestDBPath); err != nil {
		panic(err)
	}
}

// quietInstance returns an Instance for the provided migrations whose
// output is captured in the returned builder rather than written to stdout.
func quietInstance(t *testing.T, migrations []Migration) (*Instance, *strings.Builder) {
	t.Helper()

	set, err := NewSet(migrations)
	if err != nil {
		t.Fatal("NewSet: got error:\n", err)
	}

	instance := NewInstance(set)
	output := &strings.Builder{}
	instance.Output = output

	return instance, output
}

func expectError(t *testing.T, name string, msg string, fn func() error, substr ...string) {
	if err := fn(); err == nil {
		t.Errorf("%s: expected error with %s", name, msg)
	} else {
		for _, str := range substr {
			if !strings.Contains(err.Error(), str) {
				t.Errorf("%s: expected substring '%s' in error with %s, got:\n%s",
					name, str, msg, err.Error())
			}
		}
	}
}

// recordedVersions lists the contents of the bookkeeping table directly,
// most recent first.
func recordedVersions(t *testing.T, db *sql.DB) []string {
	t.Helper()

	rows, err := db.Query("SELECT version FROM schema_migrations ORDER BY version DESC")
	if err != nil {
		t.Fatal("recordedVersions: got error:\n", err)
	}
	defer rows.Close()

	var versions []string
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			t.Fatal("recordedVersions: got error:\n", err)
		}
		versions = append(versions, version)
	}

	if err := rows.Err(); err != nil {
		t.Fatal("recordedVersions: got error:\n", err)
	}

	return versions
}

var testMigrations = []Migration{
	{
		Name: "0001_create_pages",
		Up:   "CREATE TABLE pages (ID INTEGER PRIMARY KEY, title VARCHAR(255));",
		Down: "DROP TABLE pages;",
	},
	{
		Name: "0002_add_slug",
		Up:   "ALTER TABLE pages ADD slug VARCHAR(255);",
		Down: "ALTER TABLE pages DROP COLUMN slug;",
	},
}
