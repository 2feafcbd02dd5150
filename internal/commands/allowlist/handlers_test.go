package allowlistcmd

import (
	"context"
	"errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-l10nfallback/internal/allowlist"
	"github.com/goliatone/go-l10nfallback/internal/extconfig"
)

func TestConfigureTablesHandlerEnablesTables(t *testing.T) {
	ctx := context.Background()
	repo := extconfig.NewMemoryRepository()
	resolver := allowlist.NewResolver(repo)
	handler := NewConfigureTablesHandler(repo, "", nil)

	if resolver.Eligible(ctx, "tx_news") {
		t.Fatal("expected tx_news to start ineligible")
	}
	if err := handler.Execute(ctx, ConfigureTablesCommand{Tables: []string{"tx_news", "tx_events"}}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !resolver.Eligible(ctx, "tx_news") || resolver.Eligible(ctx, "pages") {
		t.Fatal("expected only configured tables to be eligible")
	}

	if err := handler.Execute(ctx, ConfigureTablesCommand{Tables: []string{"*"}}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !resolver.Eligible(ctx, "pages") {
		t.Fatal("expected wildcard to enable pages")
	}
}

func TestConfigureTablesHandlerPreservesOtherSettings(t *testing.T) {
	ctx := context.Background()
	repo := extconfig.NewMemoryRepository()
	if _, err := repo.Upsert(ctx, "site", extconfig.Settings{"debug": true}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	handler := NewConfigureTablesHandler(repo, "fallback/tables", nil)
	if err := handler.Execute(ctx, ConfigureTablesCommand{Extension: "site", Tables: []string{"tx_news"}}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	value, err := extconfig.LookupString(ctx, repo, "site", "fallback/tables")
	if err != nil || value != "tx_news" {
		t.Fatalf("expected nested list, got %q, %v", value, err)
	}
	if debug, err := extconfig.Lookup(ctx, repo, "site", "debug"); err != nil || debug != true {
		t.Fatalf("expected unrelated settings to survive, got %v, %v", debug, err)
	}
}

func TestConfigureTablesHandlerValidation(t *testing.T) {
	repo := extconfig.NewMemoryRepository()
	handler := NewConfigureTablesHandler(repo, "", nil)

	err := handler.Execute(context.Background(), ConfigureTablesCommand{})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if _, err := repo.Get(context.Background(), allowlist.DefaultExtension); !errors.Is(err, extconfig.ErrExtensionNotConfigured) {
		t.Fatalf("expected nothing stored, got %v", err)
	}
}

func TestHandlersRequireRepository(t *testing.T) {
	err := NewConfigureTablesHandler(nil, "", nil).Execute(context.Background(), ConfigureTablesCommand{Tables: []string{"*"}})
	if !errors.Is(err, ErrRepositoryRequired) || !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected categorised ErrRepositoryRequired, got %v", err)
	}
	err = NewClearTablesHandler(nil, "", nil).Execute(context.Background(), ClearTablesCommand{})
	if !errors.Is(err, ErrRepositoryRequired) {
		t.Fatalf("expected ErrRepositoryRequired, got %v", err)
	}
}

func TestClearTablesHandler(t *testing.T) {
	ctx := context.Background()
	repo := extconfig.NewMemoryRepository()
	resolver := allowlist.NewResolver(repo)
	configure := NewConfigureTablesHandler(repo, "", nil)
	clearer := NewClearTablesHandler(repo, "", nil)

	if err := clearer.Execute(ctx, ClearTablesCommand{}); err != nil {
		t.Fatalf("clearing an unconfigured section should be a no-op, got %v", err)
	}

	if err := configure.Execute(ctx, ConfigureTablesCommand{Tables: []string{"*"}}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if err := clearer.Execute(ctx, ClearTablesCommand{}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if resolver.Eligible(ctx, "tx_news") {
		t.Fatal("expected tables to be disabled after clear")
	}
	if _, err := repo.Get(ctx, allowlist.DefaultExtension); !errors.Is(err, extconfig.ErrExtensionNotConfigured) {
		t.Fatalf("expected empty section to be deleted, got %v", err)
	}
}

func TestClearTablesHandlerKeepsRemainingSettings(t *testing.T) {
	ctx := context.Background()
	repo := extconfig.NewMemoryRepository()
	if _, err := repo.Upsert(ctx, allowlist.DefaultExtension, extconfig.Settings{"tables": "tx_news", "note": "keep"}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	if err := NewClearTablesHandler(repo, "", nil).Execute(ctx, ClearTablesCommand{}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	settings, err := repo.Get(ctx, allowlist.DefaultExtension)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if _, ok := settings["tables"]; ok || settings["note"] != "keep" {
		t.Fatalf("unexpected settings %v", settings)
	}
}
