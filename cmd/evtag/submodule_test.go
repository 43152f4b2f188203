package main

import (
	"os"
	"path/filepath"
	"testing"
)

// TestComputeFoldsSubmoduleIntoDigest builds a repository with a nested
// submodule and checks that the nested history contributes to the
// parent digest.
func TestComputeFoldsSubmoduleIntoDigest(t *testing.T) {
	requireGit(t)

	sub := t.TempDir()
	gitIn(t, sub, "init", "-q")
	if err := os.WriteFile(filepath.Join(sub, "inner.txt"), []byte("nested\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	gitIn(t, sub, "add", "inner.txt")
	gitIn(t, sub, "commit", "-q", "-m", "inner")

	parent := initTestRepo(t)
	plain, err := runCmd(t, "compute", "--repo", parent, "--no-submodules")
	if err != nil {
		t.Fatalf("compute without submodule: %v", err)
	}

	// File-protocol clones are disabled by default in modern git; the
	// submodule materialization step needs them for this fixture.
	gitIn(t, parent, "config", "protocol.file.allow", "always")
	gitIn(t, parent, "-c", "protocol.file.allow=always", "submodule", "add", sub, "vendor")
	gitIn(t, parent, "commit", "-q", "-m", "add submodule")
	withSub, err := runCmd(t, "compute", "--repo", parent)
	if err != nil {
		t.Fatalf("compute with submodule: %v", err)
	}
	if withSub == plain {
		t.Fatal("submodule content must change the digest")
	}
	if !footerRe.MatchString(withSub) {
		t.Fatalf("output = %q", withSub)
	}

	again, err := runCmd(t, "compute", "--repo", parent)
	if err != nil {
		t.Fatalf("compute again: %v", err)
	}
	if withSub != again {
		t.Fatal("submodule digest must be deterministic")
	}
}
