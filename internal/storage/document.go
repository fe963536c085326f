package storage

import (
	"encoding/json"
	"fmt"
	"time"
)

// Document is a stored record addressed by Path
type Document struct {
	Path      Path
	Fields    map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ID returns the document's id (last path segment)
func (d Document) ID() string {
	return d.Path.ID()
}

// Has reports whether the document carries the named top-level field
func (d Document) Has(field string) bool {
	_, ok := d.Fields[field]
	return ok
}

// DataTo decodes the document fields into v.
func (d Document) DataTo(v any) error {
	raw, err := json.Marshal(d.Fields)
	if err != nil {
		return fmt.Errorf("failed to encode fields of %s: %w", d.Path, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to decode fields of %s: %w", d.Path, err)
	}
	return nil
}

// Fields converts v into a field map suitable for Set. v must encode to a
// JSON object.
func Fields(v any) (map[string]any, error) {
	return normalize(v)
}

// EncodeFields serializes fields for persistence
func EncodeFields(fields map[string]any) (string, error) {
	if fields == nil {
		fields = map[string]any{}
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("failed to serialize fields: %w", err)
	}
	return string(raw), nil
}

// DecodeFields parses persisted fields
func DecodeFields(data string) (map[string]any, error) {
	fields := map[string]any{}
	if data == "" {
		return fields, nil
	}
	if err := json.Unmarshal([]byte(data), &fields); err != nil {
		return nil, fmt.Errorf("failed to parse fields: %w", err)
	}
	return fields, nil
}

// normalize round-trips v through JSON so stored values always have the same
// shape no matter which Go types the caller used.
func normalize(v any) (map[string]any, error) {
	if v == nil {
		return map[string]any{}, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize fields: %w", err)
	}
	out := map[string]any{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("fields must encode to an object: %w", err)
	}
	return out, nil
}
