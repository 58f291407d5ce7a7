package blog

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"

	"github.com/goliatone/go-blog/internal/inflow"
	"github.com/goliatone/go-blog/internal/variants"
)

//go:embed data/sql/migrations
var migrationsFS embed.FS

// GetMigrationsFS returns the embedded migration files for this package.
// Files live under data/sql/migrations/{postgres,sqlite}.
func GetMigrationsFS() embed.FS {
	return migrationsFS
}

// MigrationFiles lists the up migrations for a dialect directory in apply order.
func MigrationFiles(dialectDir string) ([]string, error) {
	dir := path.Join("data/sql/migrations", dialectDir)
	entries, err := fs.ReadDir(migrationsFS, dir)
	if err != nil {
		return nil, fmt.Errorf("blog migrations: %w", err)
	}
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".up.sql") {
			continue
		}
		out = append(out, path.Join(dir, entry.Name()))
	}
	sort.Strings(out)
	return out, nil
}

// Migrate applies the embedded up migrations for the database dialect. Every
// statement is idempotent.
func Migrate(ctx context.Context, db *bun.DB) error {
	if db == nil {
		return errors.New("blog migrations: database not configured")
	}
	var dir string
	switch db.Dialect().Name() {
	case dialect.PG:
		dir = "postgres"
	case dialect.SQLite:
		dir = "sqlite"
	default:
		return fmt.Errorf("blog migrations: unsupported dialect %s", db.Dialect().Name())
	}
	files, err := MigrationFiles(dir)
	if err != nil {
		return err
	}
	for _, file := range files {
		body, err := fs.ReadFile(migrationsFS, file)
		if err != nil {
			return fmt.Errorf("blog migrations: read %s: %w", file, err)
		}
		for _, stmt := range strings.Split(string(body), ";") {
			if strings.TrimSpace(stmt) == "" {
				continue
			}
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("blog migrations: %s: %w", path.Base(file), err)
			}
		}
	}
	return nil
}

// EnsureSchema creates the tables from the bun models. Hosts that manage
// schema themselves should prefer Migrate or GetMigrationsFS.
func EnsureSchema(ctx context.Context, db *bun.DB) error {
	if err := variants.EnsureSchema(ctx, db); err != nil {
		return err
	}
	return inflow.EnsureSchema(ctx, db)
}
