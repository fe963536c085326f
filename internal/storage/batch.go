package storage

import "time"

// SetOption tunes how Set writes a document
type SetOption func(*Write)

// Merge updates only the given fields and keeps the rest of the document.
// Nested maps are merged recursively.
func Merge() SetOption {
	return func(w *Write) { w.Merge = true }
}

// CreateOnly writes the document only if it does not exist yet. Writing an
// existing document is a no-op, not an error.
func CreateOnly() SetOption {
	return func(w *Write) { w.CreateOnly = true }
}

// Write is a single pending mutation
type Write struct {
	Path       Path
	Fields     map[string]any
	Merge      bool
	CreateOnly bool
	Delete     bool
}

// NewWrite builds a set mutation after applying opts
func NewWrite(path Path, fields map[string]any, opts ...SetOption) Write {
	w := Write{Path: path, Fields: fields}
	for _, opt := range opts {
		opt(&w)
	}
	return w
}

// Batch collects writes that are committed atomically
type Batch struct {
	writes []Write
}

// NewBatch creates an empty batch
func NewBatch() *Batch {
	return &Batch{}
}

// Set queues a set mutation
func (b *Batch) Set(path Path, fields map[string]any, opts ...SetOption) *Batch {
	b.writes = append(b.writes, NewWrite(path, fields, opts...))
	return b
}

// Delete queues a delete
func (b *Batch) Delete(path Path) *Batch {
	b.writes = append(b.writes, Write{Path: path, Delete: true})
	return b
}

// Len returns the number of queued writes
func (b *Batch) Len() int {
	return len(b.writes)
}

// Writes returns the queued writes in order
func (b *Batch) Writes() []Write {
	return b.writes
}

// Validate checks every queued path
func (b *Batch) Validate() error {
	for _, w := range b.writes {
		if err := w.Path.Validate(true); err != nil {
			return err
		}
	}
	return nil
}

// Resolved is the outcome of applying a Write to the current document
type Resolved struct {
	Fields    map[string]any
	CreatedAt time.Time
	// Skip is set when the write leaves the document unchanged
	Skip bool
}

// Resolve applies w on top of current (nil if the document does not exist)
// and returns the document body to persist.
func Resolve(current *Document, w Write, now time.Time) (Resolved, error) {
	if current != nil && w.CreateOnly {
		return Resolved{Skip: true}, nil
	}

	incoming, err := normalize(w.Fields)
	if err != nil {
		return Resolved{}, err
	}

	created := now
	fields := incoming
	if current != nil {
		created = current.CreatedAt
		if w.Merge {
			fields = MergeFields(current.Fields, incoming)
		}
	}
	return Resolved{Fields: fields, CreatedAt: created}, nil
}

// MergeFields returns dst with src merged in. Nested maps merge recursively;
// any other value in src replaces the one in dst. Neither input is modified.
func MergeFields(dst, src map[string]any) map[string]any {
	out := make(map[string]any, len(dst)+len(src))
	for k, v := range dst {
		out[k] = v
	}
	for k, v := range src {
		srcMap, srcIsMap := v.(map[string]any)
		dstMap, dstIsMap := out[k].(map[string]any)
		if srcIsMap && dstIsMap {
			out[k] = MergeFields(dstMap, srcMap)
			continue
		}
		out[k] = v
	}
	return out
}
