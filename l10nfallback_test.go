package l10nfallback_test

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/goliatone/go-l10nfallback"
	"github.com/goliatone/go-l10nfallback/pkg/testsupport"
)

func newsConfig() l10nfallback.Config {
	cfg := l10nfallback.DefaultConfig()
	cfg.Schemas = []l10nfallback.TableSchemaConfig{{
		Table:                  "tx_news",
		LanguageField:          "sys_language_uid",
		TranslationParentField: "l10n_parent",
	}}
	return cfg
}

func TestModuleConfigureAndClearTables(t *testing.T) {
	module, err := l10nfallback.New(newsConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx := context.Background()

	if _, err := module.AllowList(ctx); !errors.Is(err, l10nfallback.ErrExtensionNotConfigured) {
		t.Fatalf("expected ErrExtensionNotConfigured, got %v", err)
	}
	if err := module.ConfigureTables(ctx, "tx_news", "tt_content"); err != nil {
		t.Fatalf("ConfigureTables() error = %v", err)
	}
	list, err := module.AllowList(ctx)
	if err != nil || list.String() != "tx_news,tt_content" {
		t.Fatalf("unexpected allow list %q, %v", list.String(), err)
	}
	if !module.IsTableEligible(ctx, "tt_content") {
		t.Fatal("expected tt_content to be eligible")
	}

	if err := module.ConfigureTables(ctx); err == nil {
		t.Fatal("expected validation error for empty table list")
	}

	if err := module.ClearTables(ctx); err != nil {
		t.Fatalf("ClearTables() error = %v", err)
	}
	if module.IsTableEligible(ctx, "tx_news") {
		t.Fatal("expected tables to be disabled after clear")
	}
}

func TestModulePredicates(t *testing.T) {
	cfg := newsConfig()
	cfg.Tables = []string{"*"}
	module, err := l10nfallback.New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx := context.Background()

	sel, err := l10nfallback.NewLanguageSelection(5, l10nfallback.OverlayOn)
	if err != nil {
		t.Fatalf("NewLanguageSelection() error = %v", err)
	}
	registered := module.BuildForTable(ctx, "tx_news", "n", sel)
	direct := module.BuildPredicate(ctx, l10nfallback.TableLanguageSchema{
		Table:                  "tx_news",
		LanguageField:          "sys_language_uid",
		TranslationParentField: "l10n_parent",
	}, "n", sel)
	if l10nfallback.FormatPredicate(registered) != l10nfallback.FormatPredicate(direct) {
		t.Fatalf("expected registry and direct schemas to agree:\n%s\n%s", registered, direct)
	}

	if err := module.RegisterSchema(l10nfallback.TableLanguageSchema{Table: "pages", LanguageField: "sys_language_uid"}); err != nil {
		t.Fatalf("RegisterSchema() error = %v", err)
	}
	if got := l10nfallback.FormatPredicate(module.BuildForTable(ctx, "pages", "p", sel)); got != `"p"."sys_language_uid" IN (5, -1)` {
		t.Fatalf("expected baseline for table without parent field, got %s", got)
	}
	if got := l10nfallback.FormatPredicate(module.BuildForTable(ctx, "be_users", "u", sel)); got != "1 = 1" {
		t.Fatalf("expected always-true for unregistered table, got %s", got)
	}
}

func TestModuleWithBunStorageRunsQueries(t *testing.T) {
	db, err := testsupport.NewBunSQLiteDB("facade_bun")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := l10nfallback.ApplyMigrations(ctx, db); err != nil {
		t.Fatalf("ApplyMigrations() error = %v", err)
	}
	if err := l10nfallback.ApplyMigrations(ctx, db); err != nil {
		t.Fatalf("re-applying migrations should succeed, got %v", err)
	}
	if err := testsupport.CreateLocalizedTable(ctx, db, "tx_news", testsupport.NewsFixture()...); err != nil {
		t.Fatalf("seed: %v", err)
	}

	cfg := newsConfig()
	cfg.Storage.Provider = "bun"
	cfg.Tables = []string{"tx_news"}
	module, err := l10nfallback.New(cfg, l10nfallback.WithBunDB(db))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	policy, err := l10nfallback.ParseOverlayPolicy("mixed")
	if err != nil {
		t.Fatalf("ParseOverlayPolicy() error = %v", err)
	}
	q, err := module.NewSelect(ctx, db, "tx_news", "n", l10nfallback.LanguageSelection{LanguageID: 5, Policy: policy})
	if err != nil {
		t.Fatalf("NewSelect() error = %v", err)
	}
	var rows []struct {
		UID      int    `bun:"uid"`
		Language int    `bun:"sys_language_uid"`
		Parent   int    `bun:"l10n_parent"`
		Title    string `bun:"title"`
	}
	if err := q.OrderExpr("n.uid ASC").Scan(ctx, &rows); err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	uids := make([]int, 0, len(rows))
	for _, row := range rows {
		uids = append(uids, row.UID)
	}
	if !slices.Equal(uids, []int{2, 3, 4, 5}) {
		t.Fatalf("expected uids [2 3 4 5], got %v", uids)
	}
}

func TestMigrationsAreEmbedded(t *testing.T) {
	entries, err := l10nfallback.GetMigrationsFS().ReadDir("data/sql/migrations")
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected up and down migrations, got %d entries", len(entries))
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := newsConfig()
	cfg.Cache.Enabled = true
	if _, err := l10nfallback.New(cfg); !errors.Is(err, l10nfallback.ErrCacheRequiresBunStorage) {
		t.Fatalf("expected ErrCacheRequiresBunStorage, got %v", err)
	}
}
