package object

import (
	"fmt"
	"strings"
)

// Kind identifies the kind of object in the backend store.
type Kind string

const (
	KindCommit Kind = "commit"
	KindTree   Kind = "tree"
	KindBlob   Kind = "blob"
)

// ID is a lowercase hex-encoded object identifier as printed by git:
// 40 characters for SHA-1 repositories, 64 for SHA-256 ones.
type ID string

// ParseID validates s as an object identifier.
func ParseID(s string) (ID, error) {
	if len(s) != 40 && len(s) != 64 {
		return "", fmt.Errorf("object id %q: invalid length %d", s, len(s))
	}
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return "", fmt.Errorf("object id %q: invalid character %q", s, c)
		}
	}
	return ID(s), nil
}

// Header returns the framing bytes ingested ahead of an object body:
// the kind name, a space, the decimal byte count, and a single NUL.
// Hashing this envelope before the raw content keeps object boundaries
// unambiguous in the accumulated stream.
func Header(kind Kind, n int64) []byte {
	return []byte(fmt.Sprintf("%s %d\x00", kind, n))
}

// TreeEntry is one direct child of a tree object, as listed by the
// backend. Entry order is owned by the backend and is significant.
type TreeEntry struct {
	Mode string
	Kind Kind
	ID   ID
	Name string
}

// ParseTreeEntry parses one backend listing line of the form
// "<mode> SP <kind> SP <id> TAB <name>". The name is everything after
// the first tab, so names containing spaces survive intact.
func ParseTreeEntry(line string) (TreeEntry, error) {
	head, name, ok := strings.Cut(line, "\t")
	if !ok {
		return TreeEntry{}, fmt.Errorf("tree entry %q: missing name separator", line)
	}
	fields := strings.Fields(head)
	if len(fields) != 3 {
		return TreeEntry{}, fmt.Errorf("tree entry %q: want 3 fields before name, got %d", line, len(fields))
	}
	id, err := ParseID(fields[2])
	if err != nil {
		return TreeEntry{}, fmt.Errorf("tree entry %q: %w", line, err)
	}
	return TreeEntry{
		Mode: fields[0],
		Kind: Kind(fields[1]),
		ID:   id,
		Name: name,
	}, nil
}
