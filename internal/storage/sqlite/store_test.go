package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/dailies/internal/storage"
	"github.com/julianstephens/dailies/internal/storage/storagetest"
)

var _ storage.Provider = (*Store)(nil)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestProvider(t *testing.T) {
	storagetest.RunProviderTests(t, func(t *testing.T) storage.Provider {
		return newTestStore(t)
	})
}

func TestLoadUninitialized(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	if err := s.Load(context.Background()); err == nil {
		t.Error("Load() succeeded on a missing database")
	}
}

func TestReopenKeepsDocuments(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")

	s := NewStore(path)
	if err := s.Init(ctx); err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	doc := storage.Doc("users", "u1", "dailyChecks", "2024-03-05", "objectives", "read")
	if err := s.Set(ctx, doc, map[string]any{"checked": true}); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	s.Close()

	reopened := NewStore(path)
	if err := reopened.Load(ctx); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Get(ctx, doc)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.Fields["checked"] != true {
		t.Errorf("checked = %v, want true", got.Fields["checked"])
	}
}

func TestTimestamps(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	first := time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC)
	s.SetClock(func() time.Time { return first })
	path := storage.Doc("users", "u1")
	if err := s.Set(ctx, path, map[string]any{"displayName": "Ada"}); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	second := first.Add(time.Hour)
	s.SetClock(func() time.Time { return second })
	if err := s.Set(ctx, path, map[string]any{"displayName": "Ada L."}, storage.Merge()); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	doc, err := s.Get(ctx, path)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if !doc.CreatedAt.Equal(first) {
		t.Errorf("CreatedAt = %v, want %v", doc.CreatedAt, first)
	}
	if !doc.UpdatedAt.Equal(second) {
		t.Errorf("UpdatedAt = %v, want %v", doc.UpdatedAt, second)
	}
}

func TestUseAfterClose(t *testing.T) {
	s := newTestStore(t)
	s.Close()
	_, err := s.Get(context.Background(), storage.Doc("users", "u1"))
	if err == nil || storage.IsNotFound(err) {
		t.Errorf("Get() after Close error = %v, want a read failure", err)
	}
	if !storage.IsRead(err) {
		t.Errorf("IsRead(%v) = false", err)
	}
}

func TestSchemaVersion(t *testing.T) {
	s := newTestStore(t)
	current, latest, err := s.SchemaVersion(context.Background())
	if err != nil {
		t.Fatalf("SchemaVersion() error: %v", err)
	}
	if latest == 0 || current != latest {
		t.Errorf("SchemaVersion() = %d, %d; want an initialized store at the latest version", current, latest)
	}

	closed := NewStore(filepath.Join(t.TempDir(), "closed.db"))
	if _, _, err := closed.SchemaVersion(context.Background()); err == nil {
		t.Error("SchemaVersion() succeeded before Load")
	}
}
