package backups

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/julianstephens/dailies/internal/backup"
	"github.com/julianstephens/dailies/internal/cli"
	"github.com/julianstephens/dailies/internal/identity"
	"github.com/julianstephens/dailies/internal/storage"
	"github.com/julianstephens/dailies/internal/storage/memory"
	"github.com/julianstephens/dailies/internal/storage/sqlite"
)

func setupTestDB(t *testing.T) *cli.Context {
	t.Helper()
	ctx := context.Background()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "dailies.db"))
	if err := store.Init(ctx); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	id := identity.NewLocal(store, &identity.MemorySessionStore{}, nil)
	return cli.NewContext(ctx, store, id)
}

func TestBackupCreateAndRestore(t *testing.T) {
	ctx := setupTestDB(t)
	path := storage.Doc("users", "u1")
	if err := ctx.Store.Set(ctx.Ctx(), path, map[string]any{"displayName": "Ada"}); err != nil {
		t.Fatal(err)
	}

	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("backup create failed: %v", err)
	}
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.List()
	if err != nil || len(backups) != 1 {
		t.Fatalf("List() = %v, %v; want one backup", backups, err)
	}
	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Errorf("backup list failed: %v", err)
	}

	if err := ctx.Store.Set(ctx.Ctx(), path, map[string]any{"displayName": "Grace"}); err != nil {
		t.Fatal(err)
	}
	if err := (&BackupRestoreCmd{BackupFile: backups[0].Name, Yes: true}).Run(ctx); err != nil {
		t.Fatalf("backup restore failed: %v", err)
	}

	if err := ctx.Store.Load(ctx.Ctx()); err != nil {
		t.Fatalf("Load() after restore: %v", err)
	}
	doc, err := ctx.Store.Get(ctx.Ctx(), path)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Fields["displayName"] != "Ada" {
		t.Errorf("displayName after restore = %v, want Ada", doc.Fields["displayName"])
	}
}

func TestBackupRequiresSQLite(t *testing.T) {
	store := memory.New()
	ctx := cli.NewContext(context.Background(), store, identity.NewLocal(store, &identity.MemorySessionStore{}, nil))
	if err := (&BackupCreateCmd{}).Run(ctx); err == nil {
		t.Error("backup create succeeded on an in-memory store")
	}
}
