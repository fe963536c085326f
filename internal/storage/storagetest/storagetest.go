// Package storagetest holds behavior checks shared by every storage.Provider
// implementation.
package storagetest

import (
	"context"
	"testing"

	"github.com/julianstephens/dailies/internal/storage"
)

// RunProviderTests exercises the document semantics every backend must honor.
// newStore must return an initialized, empty store.
func RunProviderTests(t *testing.T, newStore func(t *testing.T) storage.Provider) {
	ctx := context.Background()

	t.Run("get missing document", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Get(ctx, storage.Doc("users", "u1"))
		if !storage.IsNotFound(err) {
			t.Fatalf("Get() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("set overwrites without merge", func(t *testing.T) {
		s := newStore(t)
		path := storage.Doc("users", "u1", "dailyList", "read")
		mustSet(t, s, path, map[string]any{"enabled": true, "order": 1, "title": "Read"})
		mustSet(t, s, path, map[string]any{"enabled": false})

		doc, err := s.Get(ctx, path)
		if err != nil {
			t.Fatalf("Get() error: %v", err)
		}
		if doc.Has("title") || doc.Has("order") {
			t.Errorf("plain Set kept old fields: %v", doc.Fields)
		}
		if doc.Fields["enabled"] != false {
			t.Errorf("enabled = %v, want false", doc.Fields["enabled"])
		}
	})

	t.Run("merge keeps other fields", func(t *testing.T) {
		s := newStore(t)
		path := storage.Doc("users", "u1", "dailyList", "read")
		mustSet(t, s, path, map[string]any{"enabled": true, "order": 3, "title": "Read"})
		mustSet(t, s, path, map[string]any{"enabled": false}, storage.Merge())

		var got struct {
			Enabled bool   `json:"enabled"`
			Order   int    `json:"order"`
			Title   string `json:"title"`
		}
		doc, err := s.Get(ctx, path)
		if err != nil {
			t.Fatalf("Get() error: %v", err)
		}
		if err := doc.DataTo(&got); err != nil {
			t.Fatalf("DataTo() error: %v", err)
		}
		if got.Enabled || got.Order != 3 || got.Title != "Read" {
			t.Errorf("merged document = %+v, want {false 3 Read}", got)
		}
	})

	t.Run("merge recurses into maps", func(t *testing.T) {
		s := newStore(t)
		path := storage.Doc("users", "u1")
		mustSet(t, s, path, map[string]any{"profile": map[string]any{"name": "Ada", "tz": "UTC"}})
		mustSet(t, s, path, map[string]any{"profile": map[string]any{"tz": "Local"}}, storage.Merge())

		doc, err := s.Get(ctx, path)
		if err != nil {
			t.Fatalf("Get() error: %v", err)
		}
		profile, _ := doc.Fields["profile"].(map[string]any)
		if profile["name"] != "Ada" || profile["tz"] != "Local" {
			t.Errorf("profile = %v, want name kept and tz replaced", profile)
		}
	})

	t.Run("create only is idempotent", func(t *testing.T) {
		s := newStore(t)
		path := storage.Doc("users", "u1", "dailyChecks", "2024-01-01")
		mustSet(t, s, path, map[string]any{"marker": "first"}, storage.CreateOnly())
		mustSet(t, s, path, map[string]any{"marker": "second"}, storage.CreateOnly())

		doc, err := s.Get(ctx, path)
		if err != nil {
			t.Fatalf("Get() error: %v", err)
		}
		if doc.Fields["marker"] != "first" {
			t.Errorf("CreateOnly overwrote an existing document: %v", doc.Fields)
		}
	})

	t.Run("collection lists direct children only", func(t *testing.T) {
		s := newStore(t)
		mustSet(t, s, storage.Doc("users", "u1", "dailyList", "b"), map[string]any{"order": 2})
		mustSet(t, s, storage.Doc("users", "u1", "dailyList", "a"), map[string]any{"order": 1})
		mustSet(t, s, storage.Doc("users", "u1", "dailyChecks", "2024-01-01", "objectives", "a"), map[string]any{"checked": true})
		mustSet(t, s, storage.Doc("users", "u2", "dailyList", "c"), map[string]any{"order": 1})

		docs, err := s.GetCollection(ctx, storage.Collection("users", "u1", "dailyList"))
		if err != nil {
			t.Fatalf("GetCollection() error: %v", err)
		}
		if len(docs) != 2 || docs[0].ID() != "a" || docs[1].ID() != "b" {
			ids := make([]string, len(docs))
			for i, d := range docs {
				ids[i] = d.ID()
			}
			t.Errorf("GetCollection() ids = %v, want [a b]", ids)
		}
	})

	t.Run("batch commits every write", func(t *testing.T) {
		s := newStore(t)
		batch := storage.NewBatch().
			Set(storage.Doc("users", "u1", "dailyList", "a"), map[string]any{"order": 0}, storage.Merge()).
			Set(storage.Doc("users", "u1", "dailyList", "b"), map[string]any{"order": 1}, storage.Merge()).
			Set(storage.Doc("users", "u1", "dailyList", "exercises"), map[string]any{"morning": []string{"squats"}}, storage.Merge())
		if err := s.Commit(ctx, batch); err != nil {
			t.Fatalf("Commit() error: %v", err)
		}

		docs, err := s.GetCollection(ctx, storage.Collection("users", "u1", "dailyList"))
		if err != nil {
			t.Fatalf("GetCollection() error: %v", err)
		}
		if len(docs) != 3 {
			t.Errorf("batch wrote %d documents, want 3", len(docs))
		}
	})

	t.Run("batch rejects invalid paths atomically", func(t *testing.T) {
		s := newStore(t)
		batch := storage.NewBatch().
			Set(storage.Doc("users", "u1"), map[string]any{"ok": true}).
			Set(storage.Collection("users"), map[string]any{"bad": true})
		if err := s.Commit(ctx, batch); err == nil {
			t.Fatal("Commit() accepted a collection path")
		}
		if _, err := s.Get(ctx, storage.Doc("users", "u1")); !storage.IsNotFound(err) {
			t.Errorf("partial batch was applied: %v", err)
		}
	})

	t.Run("delete and delete tree", func(t *testing.T) {
		s := newStore(t)
		mustSet(t, s, storage.Doc("users", "u1"), map[string]any{"a": 1})
		mustSet(t, s, storage.Doc("users", "u1", "dailyList", "x"), map[string]any{"a": 1})
		mustSet(t, s, storage.Doc("users", "u10"), map[string]any{"a": 1})
		mustSet(t, s, storage.Doc("users", "u2", "dailyList", "y"), map[string]any{"a": 1})

		if err := s.Delete(ctx, storage.Doc("users", "u2", "dailyList", "y")); err != nil {
			t.Fatalf("Delete() error: %v", err)
		}
		if _, err := s.Get(ctx, storage.Doc("users", "u2", "dailyList", "y")); !storage.IsNotFound(err) {
			t.Errorf("document still present after Delete: %v", err)
		}

		if err := s.DeleteTree(ctx, storage.Doc("users", "u1")); err != nil {
			t.Fatalf("DeleteTree() error: %v", err)
		}
		for _, p := range []storage.Path{storage.Doc("users", "u1"), storage.Doc("users", "u1", "dailyList", "x")} {
			if _, err := s.Get(ctx, p); !storage.IsNotFound(err) {
				t.Errorf("%s still present after DeleteTree: %v", p, err)
			}
		}
		if _, err := s.Get(ctx, storage.Doc("users", "u10")); err != nil {
			t.Errorf("DeleteTree removed a sibling with a shared prefix: %v", err)
		}
	})

	t.Run("settings round trip", func(t *testing.T) {
		s := newStore(t)
		if err := s.SaveSetting(ctx, "timezone", "UTC"); err != nil {
			t.Fatalf("SaveSetting() error: %v", err)
		}
		if err := s.SaveSetting(ctx, "timezone", "Europe/Paris"); err != nil {
			t.Fatalf("SaveSetting() error: %v", err)
		}
		got, err := s.GetSettings(ctx)
		if err != nil {
			t.Fatalf("GetSettings() error: %v", err)
		}
		if got["timezone"] != "Europe/Paris" {
			t.Errorf("timezone = %q, want Europe/Paris", got["timezone"])
		}

		if launched, err := storage.HasLaunched(ctx, s); err != nil || launched {
			t.Fatalf("HasLaunched() on a fresh store = %v, %v; want false", launched, err)
		}
		first, err := storage.IsFirstLaunch(ctx, s)
		if err != nil || !first {
			t.Fatalf("IsFirstLaunch() = %v, %v; want true", first, err)
		}
		again, err := storage.IsFirstLaunch(ctx, s)
		if err != nil || again {
			t.Errorf("second IsFirstLaunch() = %v, %v; want false", again, err)
		}
		if launched, err := storage.HasLaunched(ctx, s); err != nil || !launched {
			t.Errorf("HasLaunched() after first launch = %v, %v; want true", launched, err)
		}
	})
}

func mustSet(t *testing.T, s storage.Provider, path storage.Path, fields map[string]any, opts ...storage.SetOption) {
	t.Helper()
	if err := s.Set(context.Background(), path, fields, opts...); err != nil {
		t.Fatalf("Set(%s) error: %v", path, err)
	}
}
