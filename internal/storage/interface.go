package storage

import "context"

// Provider is a hierarchical document store with per-field merge writes and
// atomic batches.
type Provider interface {
	// Lifecycle
	Init(ctx context.Context) error
	Load(ctx context.Context) error
	Close() error

	// Documents
	Get(ctx context.Context, path Path) (Document, error)
	GetCollection(ctx context.Context, path Path) ([]Document, error)
	Set(ctx context.Context, path Path, fields map[string]any, opts ...SetOption) error
	Delete(ctx context.Context, path Path) error
	// DeleteTree removes the document at path and every document nested under it.
	DeleteTree(ctx context.Context, path Path) error
	Commit(ctx context.Context, batch *Batch) error

	// Local settings (device-scoped, never synced)
	GetSettings(ctx context.Context) (map[string]string, error)
	SaveSetting(ctx context.Context, key, value string) error

	// Utils
	GetConfigPath() string
}
