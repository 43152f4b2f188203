// Package walk implements the deterministic pre-order traversal of the
// commit->tree->{blob,tree,commit} object graph, feeding every visited
// object into one shared checksum accumulator. Nested repositories are
// folded into the same running digest at their point of occurrence.
package walk

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/odvcencio/evtag/pkg/checksum"
	"github.com/odvcencio/evtag/pkg/object"
)

var (
	// ErrMalformedCommit reports a commit object whose content does not
	// begin with a "tree " line.
	ErrMalformedCommit = errors.New("malformed commit object")

	// ErrUnknownEntryKind reports a tree entry outside blob/tree/commit.
	ErrUnknownEntryKind = errors.New("unknown tree entry kind")
)

// Source fetches object bodies and tree listings for one repository
// root. Implementations are strictly serial: one fetch at a time,
// matching the batch channel underneath the real one.
type Source interface {
	Object(id object.ID) (object.Kind, []byte, error)
	Tree(id object.ID) ([]object.TreeEntry, error)
	Close() error
}

// Opener opens a Source for a repository root. The walker calls it once
// per root, including once per nested sub-repository.
type Opener func(root string) (Source, error)

// Walker traverses an object graph depth-first in pre-order. The
// accumulator is shared across every recursion level, including
// sub-repository descents; it is passed in explicitly so its ownership
// stays visible at the call site.
type Walker struct {
	acc  *checksum.Accumulator
	open Opener
}

// New returns a walker feeding acc through sources obtained from open.
func New(acc *checksum.Accumulator, open Opener) *Walker {
	return &Walker{acc: acc, open: open}
}

type frameKind int

const (
	frameRepo frameKind = iota
	frameTree
	frameObject
	frameClose
)

// frame is one pending unit of traversal work. The explicit stack makes
// the pre-order, one-request-in-flight discipline a property of the
// data structure rather than of call-stack shape, and it bounds stack
// growth for arbitrarily deep sub-repository chains.
type frame struct {
	kind frameKind
	root string // filesystem root of the owning repository
	rel  string // path relative to root, for locating sub-repositories
	id   object.ID
	src  Source
}

// Walk checksums the full graph reachable from commit in the repository
// at root. Any failure aborts immediately; a partial accumulator state
// carries no meaning. Every source opened along the way is released on
// every exit path, and a backend failure surfacing at close time is
// reported even when all reads succeeded.
func (w *Walker) Walk(root string, commit object.ID) (err error) {
	var open []Source
	defer func() {
		for i := len(open) - 1; i >= 0; i-- {
			if cerr := open[i].Close(); cerr != nil && err == nil {
				err = cerr
			}
		}
	}()

	stack := []frame{{kind: frameRepo, root: root, id: commit}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch f.kind {
		case frameRepo:
			src, err := w.open(f.root)
			if err != nil {
				return err
			}
			open = append(open, src)
			stack = append(stack, frame{kind: frameClose, src: src})
			treeID, err := w.ingest(src, f.id)
			if err != nil {
				return err
			}
			if treeID != "" {
				stack = append(stack, frame{kind: frameTree, root: f.root, id: treeID, src: src})
			}

		case frameTree:
			if _, err := w.ingest(f.src, f.id); err != nil {
				return err
			}
			entries, err := f.src.Tree(f.id)
			if err != nil {
				return err
			}
			// Push in reverse so entries pop in backend order.
			for i := len(entries) - 1; i >= 0; i-- {
				e := entries[i]
				switch e.Kind {
				case object.KindBlob:
					stack = append(stack, frame{kind: frameObject, id: e.ID, src: f.src})
				case object.KindTree:
					stack = append(stack, frame{
						kind: frameTree,
						root: f.root,
						rel:  filepath.Join(f.rel, e.Name),
						id:   e.ID,
						src:  f.src,
					})
				case object.KindCommit:
					stack = append(stack, frame{
						kind: frameRepo,
						root: filepath.Join(f.root, f.rel, e.Name),
						id:   e.ID,
					})
				default:
					return fmt.Errorf("%w: %q for entry %q in tree %s", ErrUnknownEntryKind, e.Kind, e.Name, f.id)
				}
			}

		case frameObject:
			if _, err := w.ingest(f.src, f.id); err != nil {
				return err
			}

		case frameClose:
			open = open[:len(open)-1]
			if err := f.src.Close(); err != nil {
				return err
			}
		}
	}
	return nil
}

// ingest fetches one object and feeds its framed occurrence into the
// accumulator. For commits it returns the tree the commit points at;
// every other kind yields no descendant.
func (w *Walker) ingest(src Source, id object.ID) (object.ID, error) {
	kind, content, err := src.Object(id)
	if err != nil {
		return "", err
	}

	var treeID object.ID
	if kind == object.KindCommit {
		line, _, _ := strings.Cut(string(content), "\n")
		rest, ok := strings.CutPrefix(line, "tree ")
		if !ok {
			return "", fmt.Errorf("%w: commit %s does not begin with a tree line", ErrMalformedCommit, id)
		}
		treeID, err = object.ParseID(strings.TrimSpace(rest))
		if err != nil {
			return "", fmt.Errorf("%w: commit %s: %v", ErrMalformedCommit, id, err)
		}
	}

	w.acc.IngestObject(kind, content)
	return treeID, nil
}
