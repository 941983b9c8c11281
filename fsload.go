package shift

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"strings"
)

var regexMigrateDir = regexp.MustCompile(`^--\s?@migrate/(up|down)$`)

// SetFromFS materializes a Set from a filesystem, typically an embed.FS
// compiled into the program or an os.DirFS opened at startup. Each entry of
// dir is interpreted as one migration, in either of two layouts:
//
// A directory named '<version>_<name>' containing an 'up.sql' file and,
// optionally, a 'down.sql' file:
//
//	migrations/
//	├── 0001_create_pages
//	│   ├── up.sql
//	│   └── down.sql
//	└── 0002_add_slug
//	    └── up.sql
//
// Or a single file named '<version>_<name>.sql' with its upward and
// downward SQL separated by marker comments, the downward section being
// optional:
//
//	-- @migrate/up
//	CREATE TABLE pages(ID INT AUTO_INCREMENT PRIMARY KEY);
//
//	-- @migrate/down
//	DROP TABLE pages;
//
// Entries beginning with '.' and files without the `.sql` extension are
// skipped. SetFromFS returns an error if dir contains no migrations at all.
func SetFromFS(fsys fs.FS, dir string) (*Set, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}

	migrations := make([]Migration, 0, len(entries))
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		var migration Migration
		switch {
		case entry.IsDir():
			migration, err = readMigrationDir(fsys, path.Join(dir, entry.Name()), entry.Name())
		case path.Ext(entry.Name()) == ".sql":
			migration, err = readMigrationFile(fsys, path.Join(dir, entry.Name()), entry.Name())
		default:
			continue
		}

		if err != nil {
			return nil, err
		}

		migrations = append(migrations, migration)
	}

	if len(migrations) == 0 {
		return nil, fmt.Errorf("SetFromFS: no migrations found in '%s'", dir)
	}

	return NewSet(migrations)
}

// readMigrationDir reads the directory layout: an up.sql file plus an
// optional down.sql file.
func readMigrationDir(fsys fs.FS, root, name string) (Migration, error) {
	up, err := fs.ReadFile(fsys, path.Join(root, "up.sql"))
	if err != nil {
		return Migration{}, fmt.Errorf("SetFromFS: migration '%s' contains no upward migration data: %w",
			name, err)
	}

	migration := Migration{Name: name, Up: string(up)}

	down, err := fs.ReadFile(fsys, path.Join(root, "down.sql"))
	if err == nil {
		migration.Down = string(down)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return Migration{}, err
	}

	return migration, nil
}

// readMigrationFile takes a single-file migration and parses its contents,
// separating migrate up and migrate down SQL on marker comments. The
// migration's name is the file name without its extension.
func readMigrationFile(fsys fs.FS, filePath, fileName string) (Migration, error) {
	file, err := fsys.Open(filePath)
	if err != nil {
		return Migration{}, err
	}
	defer file.Close()

	errNoMarker := fmt.Errorf("SetFromFS: expected migration file '%s' to begin with a comment "+
		"denoting whether the following SQL represents an upward or downward migration "+
		"(for example: '-- @migrate/up' or '-- @migrate/down')", filePath)

	var upSQL, downSQL []string
	which := -1
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		matches := regexMigrateDir.FindStringSubmatch(text)

		// if matches were found, check them
		if len(matches) > 1 {
			if matches[1] == "up" {
				which = 0
			} else if matches[1] == "down" {
				which = 1
			}

			continue
		}

		if text == "" {
			continue // Ignore blank strings
		}

		switch which {
		case 0: // if 0, append to upSQL
			upSQL = append(upSQL, text)
		case 1: // if 1, append to downSQL
			downSQL = append(downSQL, text)
		default: // otherwise, return error
			return Migration{}, errNoMarker
		}
	}

	if err := scanner.Err(); err != nil {
		return Migration{}, err
	}

	if which == -1 {
		return Migration{}, errNoMarker
	}

	if len(upSQL) == 0 {
		return Migration{}, fmt.Errorf("SetFromFS: file '%s' contains no upward migration data", filePath)
	}

	return Migration{
		Name: strings.TrimSuffix(fileName, ".sql"),
		Up:   strings.Join(upSQL, "\n"),
		Down: strings.Join(downSQL, "\n"),
	}, nil
}
