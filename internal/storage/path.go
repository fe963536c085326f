package storage

import (
	"fmt"
	"strings"
)

// Path addresses a document or collection as alternating collection/document
// segments, e.g. users/{uid}/dailyList/{itemId}. An even number of segments
// names a document, an odd number a collection.
type Path []string

// Doc builds a document path from its segments.
func Doc(segments ...string) Path {
	return Path(segments)
}

// Collection builds a collection path from its segments.
func Collection(segments ...string) Path {
	return Path(segments)
}

// ParsePath splits a slash-separated path string.
func ParsePath(s string) Path {
	s = strings.Trim(s, "/")
	if s == "" {
		return nil
	}
	return Path(strings.Split(s, "/"))
}

// IsDocument reports whether p names a document.
func (p Path) IsDocument() bool {
	return len(p) > 0 && len(p)%2 == 0
}

// IsCollection reports whether p names a collection.
func (p Path) IsCollection() bool {
	return len(p)%2 == 1
}

// ID returns the last segment.
func (p Path) ID() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// Parent returns the enclosing collection of a document, or the enclosing
// document of a collection. The parent of a root collection is empty.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}
	return p[: len(p)-1 : len(p)-1]
}

// Child appends segments to a copy of p.
func (p Path) Child(segments ...string) Path {
	out := make(Path, 0, len(p)+len(segments))
	out = append(out, p...)
	return append(out, segments...)
}

// String joins the segments with "/".
func (p Path) String() string {
	return strings.Join(p, "/")
}

// Prefix returns the string every descendant path starts with.
func (p Path) Prefix() string {
	return p.String() + "/"
}

// Validate checks that every segment is usable and that p has the expected
// kind.
func (p Path) Validate(document bool) error {
	if len(p) == 0 {
		return fmt.Errorf("empty path")
	}
	for _, seg := range p {
		if seg == "" {
			return fmt.Errorf("path %q has an empty segment", p.String())
		}
		if strings.Contains(seg, "/") {
			return fmt.Errorf("path segment %q must not contain '/'", seg)
		}
	}
	if document && !p.IsDocument() {
		return fmt.Errorf("path %q does not name a document", p.String())
	}
	if !document && !p.IsCollection() {
		return fmt.Errorf("path %q does not name a collection", p.String())
	}
	return nil
}
