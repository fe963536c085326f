package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/dailies/internal/storage"
)

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) Get(ctx context.Context, path storage.Path) (storage.Document, error) {
	if err := path.Validate(true); err != nil {
		return storage.Document{}, storage.Wrap(storage.OpRead, path, err)
	}
	if s.db == nil {
		return storage.Document{}, storage.Wrap(storage.OpRead, path, storage.ErrNotLoaded)
	}

	doc, err := getDocument(ctx, s.db, path)
	return doc, storage.Wrap(storage.OpRead, path, err)
}

func getDocument(ctx context.Context, q querier, path storage.Path) (storage.Document, error) {
	var data, createdAt, updatedAt string
	err := q.QueryRowContext(ctx,
		"SELECT data, created_at, updated_at FROM documents WHERE path = ?",
		path.String(),
	).Scan(&data, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.Document{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.Document{}, err
	}
	return scanDocument(path, data, createdAt, updatedAt)
}

func scanDocument(path storage.Path, data, createdAt, updatedAt string) (storage.Document, error) {
	fields, err := storage.DecodeFields(data)
	if err != nil {
		return storage.Document{}, err
	}
	created, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return storage.Document{}, fmt.Errorf("parsing created_at: %w", err)
	}
	updated, err := time.Parse(timeLayout, updatedAt)
	if err != nil {
		return storage.Document{}, fmt.Errorf("parsing updated_at: %w", err)
	}
	return storage.Document{Path: path, Fields: fields, CreatedAt: created, UpdatedAt: updated}, nil
}

func (s *Store) GetCollection(ctx context.Context, path storage.Path) ([]storage.Document, error) {
	if err := path.Validate(false); err != nil {
		return nil, storage.Wrap(storage.OpRead, path, err)
	}
	if s.db == nil {
		return nil, storage.Wrap(storage.OpRead, path, storage.ErrNotLoaded)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT path, data, created_at, updated_at FROM documents WHERE parent = ? ORDER BY id",
		path.String(),
	)
	if err != nil {
		return nil, storage.Wrap(storage.OpRead, path, err)
	}
	defer rows.Close()

	var docs []storage.Document
	for rows.Next() {
		var p, data, createdAt, updatedAt string
		if err := rows.Scan(&p, &data, &createdAt, &updatedAt); err != nil {
			return nil, storage.Wrap(storage.OpRead, path, err)
		}
		doc, err := scanDocument(storage.ParsePath(p), data, createdAt, updatedAt)
		if err != nil {
			return nil, storage.Wrap(storage.OpRead, path, err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, storage.Wrap(storage.OpRead, path, fmt.Errorf("error iterating documents: %w", err))
	}
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
	if s.db == nil {
		return storage.Wrap(storage.OpDelete, path, storage.ErrNotLoaded)
	}

	_, err := s.db.ExecContext(ctx,
		"DELETE FROM documents WHERE path = ? OR substr(path, 1, length(?)) = ?",
		path.String(), path.Prefix(), path.Prefix(),
	)
	return storage.Wrap(storage.OpDelete, path, err)
}

// Commit applies every write in one transaction.
func (s *Store) Commit(ctx context.Context, batch *storage.Batch) error {
	if err := batch.Validate(); err != nil {
		return storage.Wrap(storage.OpWrite, nil, err)
	}
	if s.db == nil {
		return storage.Wrap(storage.OpWrite, nil, storage.ErrNotLoaded)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storage.Wrap(storage.OpWrite, nil, fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer tx.Rollback()

	now := s.now().UTC()
	for _, w := range batch.Writes() {
		if err := applyWrite(ctx, tx, w, now); err != nil {
			return storage.Wrap(storage.OpWrite, w.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return storage.Wrap(storage.OpWrite, nil, fmt.Errorf("failed to commit transaction: %w", err))
	}
	return nil
}

func applyWrite(ctx context.Context, tx *sql.Tx, w storage.Write, now time.Time) error {
	if w.Delete {
		_, err := tx.ExecContext(ctx, "DELETE FROM documents WHERE path = ?", w.Path.String())
		return err
	}

	var current *storage.Document
	doc, err := getDocument(ctx, tx, w.Path)
	switch {
	case err == nil:
		current = &doc
	case !errors.Is(err, storage.ErrNotFound):
		return err
	}

	res, err := storage.Resolve(current, w, now)
	if err != nil || res.Skip {
		return err
	}
	data, err := storage.EncodeFields(res.Fields)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO documents (path, parent, id, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			data = excluded.data,
			updated_at = excluded.updated_at`,
		w.Path.String(), w.Path.Parent().String(), w.Path.ID(), data,
		res.CreatedAt.UTC().Format(timeLayout), now.Format(timeLayout),
	)
	return err
}
