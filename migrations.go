package l10nfallback

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/uptrace/bun"
)

//go:embed data/sql/migrations/*.sql
var migrationsFS embed.FS

// GetMigrationsFS returns the embedded migration files for this package.
func GetMigrationsFS() embed.FS {
	return migrationsFS
}

// ApplyMigrations runs every embedded "*.up.sql" file against db in name
// order. Statements use IF NOT EXISTS and can be re-applied.
func ApplyMigrations(ctx context.Context, db bun.IDB) error {
	names, err := fs.Glob(migrationsFS, "data/sql/migrations/*.up.sql")
	if err != nil {
		return err
	}
	sort.Strings(names)
	for _, name := range names {
		body, err := migrationsFS.ReadFile(name)
		if err != nil {
			return err
		}
		if strings.TrimSpace(string(body)) == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, string(body)); err != nil {
			return fmt.Errorf("l10nfallback: apply %s: %w", name, err)
		}
	}
	return nil
}
