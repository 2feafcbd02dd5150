package extconfig

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryRepository_CRUDEvents(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	if _, err := repo.Get(ctx, "news"); !errors.Is(err, ErrExtensionNotConfigured) {
		t.Fatalf("expected ErrExtensionNotConfigured, got %v", err)
	}

	events, err := repo.Subscribe(ctx)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	if _, err := repo.Upsert(ctx, "news", Settings{"tables": "tx_news"}); err != nil {
		t.Fatalf("Upsert() create error = %v", err)
	}
	assertEvent(t, events, ChangeCreated, "news")

	if _, err := repo.Upsert(ctx, "news", Settings{"tables": "tx_news"}); err != nil {
		t.Fatalf("Upsert() unchanged error = %v", err)
	}
	assertNoEvent(t, events)

	if _, err := repo.Upsert(ctx, "news", Settings{"tables": "*"}); err != nil {
		t.Fatalf("Upsert() update error = %v", err)
	}
	assertEvent(t, events, ChangeUpdated, "news")

	fetched, err := repo.Get(ctx, " news ")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if fetched["tables"] != "*" {
		t.Fatalf("Get() returned %+v", fetched)
	}

	if err := repo.Delete(ctx, "news"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	assertEvent(t, events, ChangeDeleted, "news")
}

func TestMemoryRepository_IsolatesStoredState(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	input := Settings{"section": map[string]any{"tables": "a"}}
	if _, err := repo.Upsert(ctx, "ext", input); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	input["section"].(map[string]any)["tables"] = "mutated"

	fetched, _ := repo.Get(ctx, "ext")
	fetched["section"].(map[string]any)["tables"] = "mutated again"

	again, _ := repo.Get(ctx, "ext")
	if got := again["section"].(map[string]any)["tables"]; got != "a" {
		t.Fatalf("stored settings were mutated: %v", got)
	}
}

func TestMemoryRepository_Errors(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	if err := repo.Delete(ctx, "missing"); !errors.Is(err, ErrExtensionNotConfigured) {
		t.Fatalf("expected ErrExtensionNotConfigured, got %v", err)
	}
	if _, err := repo.Get(ctx, "  "); !errors.Is(err, ErrExtensionKeyRequired) {
		t.Fatalf("expected ErrExtensionKeyRequired, got %v", err)
	}
}

func TestSubscribeCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	events, err := NewMemoryRepository().Subscribe(ctx)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	if _, ok := <-events; ok {
		t.Fatal("expected closed channel for cancelled context")
	}
}

func assertEvent(t *testing.T, events <-chan ChangeEvent, want ChangeType, extension string) {
	t.Helper()
	select {
	case evt := <-events:
		if evt.Type != want {
			t.Fatalf("expected event %s, got %s", want, evt.Type)
		}
		if evt.Extension != extension {
			t.Fatalf("expected extension %q, got %q", extension, evt.Extension)
		}
	default:
		t.Fatalf("expected event %s, got none", want)
	}
}

func assertNoEvent(t *testing.T, events <-chan ChangeEvent) {
	t.Helper()
	select {
	case evt := <-events:
		t.Fatalf("expected no event, got %s", evt.Type)
	default:
	}
}
