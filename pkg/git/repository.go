// Package git drives the backing git binary: repository discovery,
// revision resolution, the cat-file batch channel, tree listings, and
// tag plumbing. Everything that actually understands repository
// internals is delegated to git itself.
package git

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/odvcencio/evtag/pkg/object"
)

// Repository is a handle on one repository root recognized by git.
type Repository struct {
	Root string
}

// Open resolves path and verifies that git recognizes it as a
// repository.
func Open(path string) (*Repository, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}
	r := &Repository{Root: abs}
	if _, err := r.run("rev-parse"); err != nil {
		return nil, fmt.Errorf("open repository: not a git repository: %s", abs)
	}
	return r, nil
}

// ResolveRev resolves a revision expression (branch, tag, sha, HEAD)
// to the commit it names, peeling tags.
func (r *Repository) ResolveRev(rev string) (object.ID, error) {
	out, err := r.run("rev-list", "-n", "1", rev)
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", rev, err)
	}
	id, err := object.ParseID(strings.TrimSpace(string(out)))
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", rev, err)
	}
	return id, nil
}

// InitSubmodules materializes nested repositories so a walk can open a
// channel inside each of them. Credential prompts are disabled; a
// missing credential should abort, not hang.
func (r *Repository) InitSubmodules() error {
	_, err := r.runAmbient(
		"-c", "credential.interactive=false",
		"submodule", "update", "--init", "--recursive", "--depth", "1",
	)
	if err != nil {
		return fmt.Errorf("init submodules: %w", err)
	}
	return nil
}

// ListTree returns the direct entries of a tree object in exactly the
// order git reports them. The -z listing keeps names byte-exact, so
// unusual filenames are never mangled by quoting.
func (r *Repository) ListTree(id object.ID) ([]object.TreeEntry, error) {
	out, err := r.run("ls-tree", "-z", string(id))
	if err != nil {
		return nil, fmt.Errorf("list tree %s: %w", id, err)
	}
	var entries []object.TreeEntry
	for _, record := range strings.Split(string(out), "\x00") {
		if record == "" {
			continue
		}
		entry, err := object.ParseTreeEntry(record)
		if err != nil {
			return nil, fmt.Errorf("list tree %s: %w: %v", id, ErrProtocol, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
