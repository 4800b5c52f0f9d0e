package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strings"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// MigrationFileContent returns the SQL of the migration whose file name
// contains name, for the given direction.
func MigrationFileContent(name string, direction Direction) ([]byte, error) {
	pattern, err := regexp.Compile(fmt.Sprintf(`^.*%s\.%s\.sql$`, regexp.QuoteMeta(name), direction))
	if err != nil {
		return nil, fmt.Errorf("invalid migration name: %w", err)
	}

	names, err := migrationNames(direction)
	if err != nil {
		return nil, err
	}
	for _, n := range names {
		if pattern.MatchString(n) {
			return migrationFiles.ReadFile("migrations/" + n)
		}
	}
	return nil, fmt.Errorf("migration file not found")
}

// ApplyMigrations runs every migration for the direction, in file order for
// up and reverse order for down.
func ApplyMigrations(ctx context.Context, db *sql.DB, direction Direction) error {
	names, err := migrationNames(direction)
	if err != nil {
		return err
	}
	if direction == Down {
		sort.Sort(sort.Reverse(sort.StringSlice(names)))
	}

	for _, n := range names {
		content, err := migrationFiles.ReadFile("migrations/" + n)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", n, err)
		}
		if _, err := db.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", n, err)
		}
	}
	return nil
}

func migrationNames(direction Direction) ([]string, error) {
	entries, err := fs.ReadDir(migrationFiles, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), "."+string(direction)+".sql") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}
