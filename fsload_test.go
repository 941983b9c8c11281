package shift

import (
	"context"
	"database/sql"
	"embed"
	"io"
	"os"
	"testing"
)

//go:embed testdata/working
var workingFS embed.FS

// TestSetFromFS ensures that both migration layouts load from a directory
// tree: directory migrations pick up their up.sql and optional down.sql,
// marker files are split into upward and downward SQL, and dotfiles and
// non-SQL files are skipped.
func TestSetFromFS(t *testing.T) {
	set, err := SetFromFS(os.DirFS("testdata"), "working")
	if err != nil {
		t.Fatal("SetFromFS: got error:\n", err)
	}

	if set.Len() != 3 {
		t.Fatalf("SetFromFS: got length of %d expected 3", set.Len())
	}

	if migration, ok := set.Get("0001"); !ok {
		t.Error("SetFromFS: expected migration for version '0001'")
	} else {
		if migration.Name != "0001_create_pages" {
			t.Errorf("SetFromFS: got name '%s' expected '0001_create_pages'", migration.Name)
		}
		if migration.Up != "CREATE TABLE pages (ID INTEGER PRIMARY KEY, title VARCHAR(255));\n" {
			t.Errorf("SetFromFS: got unexpected upward SQL:\n%s", migration.Up)
		}
		if !migration.Reversible() {
			t.Error("SetFromFS: expected '0001_create_pages' to be reversible")
		}
	}

	if migration, ok := set.Get("0002"); !ok {
		t.Error("SetFromFS: expected migration for version '0002'")
	} else {
		if migration.Name != "0002_add_slug" {
			t.Errorf("SetFromFS: got name '%s' expected '0002_add_slug'", migration.Name)
		}
		if migration.Up != "ALTER TABLE pages ADD slug VARCHAR(255);" {
			t.Errorf("SetFromFS: got unexpected upward SQL:\n%s", migration.Up)
		}
		if migration.Down != "ALTER TABLE pages DROP COLUMN slug;" {
			t.Errorf("SetFromFS: got unexpected downward SQL:\n%s", migration.Down)
		}
	}

	if migration, ok := set.Get("0003"); !ok {
		t.Error("SetFromFS: expected migration for version '0003'")
	} else if migration.Reversible() {
		t.Error("SetFromFS: expected '0003_seed_pages' to be irreversible")
	}
}

// TestSetFromEmbedFS ensures that a compiled-in embed.FS loads identically
// to a directory read at startup.
func TestSetFromEmbedFS(t *testing.T) {
	set, err := SetFromFS(workingFS, "testdata/working")
	if err != nil {
		t.Fatal("SetFromFS: got error:\n", err)
	}

	if set.Len() != 3 {
		t.Errorf("SetFromFS: got length of %d expected 3", set.Len())
	}
}

// TestSetFromFSErrors ensures that an appropriate error is returned with a
// non-existent directory, a marker file without direction markers, a
// directory migration without an up.sql, and a directory containing no
// migrations at all.
func TestSetFromFSErrors(t *testing.T) {
	if _, err := SetFromFS(os.DirFS("testdata"), "nothing"); err == nil {
		t.Error("SetFromFS: expected error with non-existent directory")
	}

	expectError(t, "SetFromFS", "missing direction markers",
		func() error { _, err := SetFromFS(os.DirFS("testdata"), "no_markers"); return err },
		"to begin with a comment denoting")

	expectError(t, "SetFromFS", "missing up.sql",
		func() error { _, err := SetFromFS(os.DirFS("testdata"), "no_up"); return err },
		"no upward migration data")

	expectError(t, "SetFromFS", "no migrations",
		func() error { _, err := SetFromFS(os.DirFS("testdata"), "empty"); return err },
		"no migrations found")
}

// TestSetFromFSEndToEnd loads the working fixture set and runs it against a
// real database.
func TestSetFromFSEndToEnd(t *testing.T) {
	set, err := SetFromFS(os.DirFS("testdata"), "working")
	if err != nil {
		t.Fatal("SetFromFS: got error:\n", err)
	}

	RunWithDB(func(db *sql.DB) {
		ctx := context.Background()
		instance := NewInstance(set)
		instance.Output = io.Discard

		if err := instance.RunPending(ctx, db); err != nil {
			t.Fatal("Instance.RunPending: got error:\n", err)
		}

		var title string
		if err := db.QueryRow("SELECT title FROM pages").Scan(&title); err != nil {
			t.Error("TestSetFromFSEndToEnd: got error while reading seeded row:\n", err)
		} else if title != "home" {
			t.Errorf("TestSetFromFSEndToEnd: got title '%s' expected 'home'", title)
		}

		if versions := recordedVersions(t, db); len(versions) != 3 {
			t.Errorf("TestSetFromFSEndToEnd: got recorded versions '%#v' expected all three", versions)
		}
	})
}
