//go:build !nosqlite

package storage

import (
	"context"
	"path/filepath"
	"testing"
)

func TestSQLiteStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "paretoseg.db")

	store := NewSQLiteStore(dbPath)
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	exerciseStore(t, store)
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "paretoseg.db")

	first := NewSQLiteStore(dbPath)
	if err := first.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	run := sampleRun("persisted")
	if err := first.SaveRun(ctx, run); err != nil {
		t.Fatalf("save run: %v", err)
	}
	run.SkylineSize = 9
	if err := first.SaveRun(ctx, run); err != nil {
		t.Fatalf("upsert run: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second := NewSQLiteStore(dbPath)
	if err := second.Init(ctx); err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() {
		_ = second.Close()
	})
	loaded, ok, err := second.GetRun(ctx, run.ID)
	if err != nil || !ok {
		t.Fatalf("get run: ok=%t err=%v", ok, err)
	}
	if loaded.SkylineSize != 9 {
		t.Fatalf("expected upserted skyline size 9, got %d", loaded.SkylineSize)
	}
}

func TestSQLiteStoreRequiresInit(t *testing.T) {
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "x.db"))
	if _, _, err := store.GetRun(context.Background(), "r"); err == nil {
		t.Fatal("expected not-initialized error")
	}
	if err := NewSQLiteStore("").Init(context.Background()); err == nil {
		t.Fatal("expected missing path error")
	}
}

func TestOpenSQLite(t *testing.T) {
	store, err := Open(context.Background(), "sqlite", filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() {
		_ = CloseIfSupported(store)
	})
	if _, ok, err := store.GetRun(context.Background(), "missing"); err != nil || ok {
		t.Fatalf("expected missing run, ok=%t err=%v", ok, err)
	}
}

func TestDefaultStoreKindIsSQLite(t *testing.T) {
	if got := DefaultStoreKind(); got != "sqlite" {
		t.Fatalf("expected sqlite default, got %q", got)
	}
}
