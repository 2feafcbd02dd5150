package testsupport

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// NewSQLiteMemoryDB opens a shared in-memory sqlite database.
func NewSQLiteMemoryDB() (*sql.DB, error) {
	return sql.Open("sqlite3", "file::memory:?cache=shared")
}

// NewBunSQLiteDB opens a named in-memory sqlite database wrapped in bun.
// Distinct names give isolated databases within one test binary.
func NewBunSQLiteDB(name string) (*bun.DB, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "l10n"
	}
	sqldb, err := sql.Open("sqlite3", "file:"+name+"?mode=memory&cache=shared")
	if err != nil {
		return nil, err
	}
	db := bun.NewDB(sqldb, sqlitedialect.New())
	db.SetMaxOpenConns(1)
	return db, nil
}

// LocalizedRow is one record of a localizable fixture table.
type LocalizedRow struct {
	UID      int
	Language int
	Parent   int
	Title    string
}

// CreateLocalizedTable creates table with uid, sys_language_uid, l10n_parent
// and title columns and inserts rows.
func CreateLocalizedTable(ctx context.Context, db bun.IDB, table string, rows ...LocalizedRow) error {
	create := `CREATE TABLE IF NOT EXISTS ? (
		uid INTEGER PRIMARY KEY,
		sys_language_uid INTEGER NOT NULL DEFAULT 0,
		l10n_parent INTEGER NOT NULL DEFAULT 0,
		title TEXT NOT NULL DEFAULT ''
	)`
	if _, err := db.ExecContext(ctx, create, bun.Ident(table)); err != nil {
		return fmt.Errorf("create %s: %w", table, err)
	}

	for _, row := range rows {
		if _, err := db.ExecContext(ctx,
			"INSERT INTO ? (uid, sys_language_uid, l10n_parent, title) VALUES (?, ?, ?, ?)",
			bun.Ident(table), row.UID, row.Language, row.Parent, row.Title,
		); err != nil {
			return fmt.Errorf("insert %s uid %d: %w", table, row.UID, err)
		}
	}
	return nil
}

// NewsFixture is a small tx_news data set covering every overlay case for
// language 5:
//
//	1 default, translated by 3
//	2 default, untranslated
//	3 translation of 1
//	4 orphan translation (no parent)
//	5 all-languages record
//	6 translation of 1 into language 7
//	7 translation whose parent does not exist
func NewsFixture() []LocalizedRow {
	return []LocalizedRow{
		{UID: 1, Language: 0, Parent: 0, Title: "default translated"},
		{UID: 2, Language: 0, Parent: 0, Title: "default untranslated"},
		{UID: 3, Language: 5, Parent: 1, Title: "translation"},
		{UID: 4, Language: 5, Parent: 0, Title: "orphan"},
		{UID: 5, Language: -1, Parent: 0, Title: "all languages"},
		{UID: 6, Language: 7, Parent: 1, Title: "other language"},
		{UID: 7, Language: 5, Parent: 99, Title: "dangling parent"},
	}
}
