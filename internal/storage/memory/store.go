package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/julianstephens/dailies/internal/storage"
)

type record struct {
	Fields    map[string]any `json:"fields"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type snapshot struct {
	Version   int               `json:"version"`
	Settings  map[string]string `json:"settings"`
	Documents map[string]record `json:"documents"`
}

// Store is an in-process document store. With a path it persists a JSON
// snapshot after every mutation.
type Store struct {
	mu       sync.RWMutex
	path     string
	docs     map[string]record
	settings map[string]string
	now      func() time.Time

	// Fault hooks let tests simulate a failing backend. A non-nil error
	// aborts the operation for that path.
	ReadFault  func(storage.Path) error
	WriteFault func(storage.Path) error
}

// New creates an empty, non-persistent store.
func New() *Store {
	return &Store{
		docs:     make(map[string]record),
		settings: make(map[string]string),
		now:      time.Now,
	}
}

// NewFileStore creates a store persisted as JSON at path.
func NewFileStore(path string) *Store {
	s := New()
	s.path = path
	return s
}

// SetClock replaces the clock used for document timestamps.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) Init(ctx context.Context) error {
	if s.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(s.path); err == nil {
		return s.Load(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

func (s *Store) Load(ctx context.Context) error {
	if s.path == "" {
		return nil
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'dailies init' first")
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = snap.Documents
	s.settings = snap.Settings
	if s.docs == nil {
		s.docs = make(map[string]record)
	}
	if s.settings == nil {
		s.settings = make(map[string]string)
	}
	return nil
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) saveLocked() error {
	if s.path == "" {
		return nil
	}
	data, err := json.MarshalIndent(snapshot{Version: 1, Settings: s.settings, Documents: s.docs}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	return nil
}

func (s *Store) readFault(path storage.Path) error {
	if s.ReadFault == nil {
		return nil
	}
	return s.ReadFault(path)
}

func (s *Store) writeFault(path storage.Path) error {
	if s.WriteFault == nil {
		return nil
	}
	return s.WriteFault(path)
}

func (s *Store) Get(ctx context.Context, path storage.Path) (storage.Document, error) {
	if err := path.Validate(true); err != nil {
		return storage.Document{}, storage.Wrap(storage.OpRead, path, err)
	}
	if err := ctx.Err(); err != nil {
		return storage.Document{}, storage.Wrap(storage.OpRead, path, err)
	}
	if err := s.readFault(path); err != nil {
		return storage.Document{}, storage.Wrap(storage.OpRead, path, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.docs[path.String()]
	if !ok {
		return storage.Document{}, storage.ErrNotFound
	}
	return toDocument(path, rec), nil
}

func (s *Store) GetCollection(ctx context.Context, path storage.Path) ([]storage.Document, error) {
	if err := path.Validate(false); err != nil {
		return nil, storage.Wrap(storage.OpRead, path, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, storage.Wrap(storage.OpRead, path, err)
	}
	if err := s.readFault(path); err != nil {
		return nil, storage.Wrap(storage.OpRead, path, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	prefix := path.Prefix()
	var docs []storage.Document
	for key, rec := range s.docs {
		if !strings.HasPrefix(key, prefix) || strings.Contains(key[len(prefix):], "/") {
			continue
		}
		docs = append(docs, toDocument(storage.ParsePath(key), rec))
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID() < docs[j].ID() })
	return docs, nil
}

func (s *Store) Set(ctx context.Context, path storage.Path, fields map[string]any, opts ...storage.SetOption) error {
	return s.Commit(ctx, storage.NewBatch().Set(path, fields, opts...))
}

func (s *Store) Delete(ctx context.Context, path storage.Path) error {
	return s.Commit(ctx, storage.NewBatch().Delete(path))
}

func (s *Store) DeleteTree(ctx context.Context, path storage.Path) error {
	if err := path.Validate(true); err != nil {
		return storage.Wrap(storage.OpDelete, path, err)
	}
	if err := s.writeFault(path); err != nil {
		return storage.Wrap(storage.OpDelete, path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	prefix := path.Prefix()
	for key := range s.docs {
		if key == path.String() || strings.HasPrefix(key, prefix) {
			delete(s.docs, key)
		}
	}
	return storage.Wrap(storage.OpDelete, path, s.saveLocked())
}

// Commit applies every write or none of them.
func (s *Store) Commit(ctx context.Context, batch *storage.Batch) error {
	if err := batch.Validate(); err != nil {
		return storage.Wrap(storage.OpWrite, nil, err)
	}
	if err := ctx.Err(); err != nil {
		return storage.Wrap(storage.OpWrite, nil, err)
	}
	for _, w := range batch.Writes() {
		if err := s.writeFault(w.Path); err != nil {
			return storage.Wrap(storage.OpWrite, w.Path, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Stage on a copy so a failing write leaves the store untouched.
	staged := make(map[string]record, len(s.docs))
	for k, v := range s.docs {
		staged[k] = v
	}

	now := s.now()
	for _, w := range batch.Writes() {
		key := w.Path.String()
		if w.Delete {
			delete(staged, key)
			continue
		}

		var current *storage.Document
		if rec, ok := staged[key]; ok {
			doc := toDocument(w.Path, rec)
			current = &doc
		}
		res, err := storage.Resolve(current, w, now)
		if err != nil {
			return storage.Wrap(storage.OpWrite, w.Path, err)
		}
		if res.Skip {
			continue
		}
		staged[key] = record{Fields: res.Fields, CreatedAt: res.CreatedAt, UpdatedAt: now}
	}

	previous := s.docs
	s.docs = staged
	if err := s.saveLocked(); err != nil {
		s.docs = previous
		return storage.Wrap(storage.OpWrite, nil, err)
	}
	return nil
}

func (s *Store) GetSettings(ctx context.Context) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.settings))
	for k, v := range s.settings {
		out[k] = v
	}
	return out, nil
}

func (s *Store) SaveSetting(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[key] = value
	return s.saveLocked()
}

func (s *Store) GetConfigPath() string {
	if s.path == "" {
		return "memory"
	}
	return s.path
}

func toDocument(path storage.Path, rec record) storage.Document {
	fields := make(map[string]any, len(rec.Fields))
	for k, v := range rec.Fields {
		fields[k] = v
	}
	return storage.Document{
		Path:      path,
		Fields:    fields,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}
