package git

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/odvcencio/evtag/pkg/object"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
}

func gitIn(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_CONFIG_GLOBAL=/dev/null",
		"GIT_CONFIG_NOSYSTEM=1",
		"GIT_AUTHOR_NAME=test",
		"GIT_AUTHOR_EMAIL=test@example.com",
		"GIT_COMMITTER_NAME=test",
		"GIT_COMMITTER_EMAIL=test@example.com",
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return string(out)
}

// initTestRepo creates a repository with one committed file hello.txt.
func initTestRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	gitIn(t, dir, "init", "-q")
	if err := os.WriteFile(filepath.Join(dir, "hello.txt"), []byte("hello\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	gitIn(t, dir, "add", "hello.txt")
	gitIn(t, dir, "commit", "-q", "-m", "initial")
	return dir
}

func TestOpenRejectsNonRepository(t *testing.T) {
	requireGit(t)
	if _, err := Open(t.TempDir()); err == nil {
		t.Fatal("Open on a plain directory should fail")
	}
}

func TestResolveAndBatchRoundTrip(t *testing.T) {
	requireGit(t)
	dir := initTestRepo(t)
	r, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	commit, err := r.ResolveRev("HEAD")
	if err != nil {
		t.Fatalf("ResolveRev: %v", err)
	}

	b, err := r.StartBatch()
	if err != nil {
		t.Fatalf("StartBatch: %v", err)
	}
	defer func() {
		if err := b.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
	}()

	kind, content, err := b.Get(commit)
	if err != nil {
		t.Fatalf("Get commit: %v", err)
	}
	if kind != object.KindCommit {
		t.Fatalf("kind = %q, want commit", kind)
	}
	line, _, _ := strings.Cut(string(content), "\n")
	if !strings.HasPrefix(line, "tree ") {
		t.Fatalf("commit first line = %q", line)
	}
	treeID, err := object.ParseID(strings.TrimSpace(strings.TrimPrefix(line, "tree ")))
	if err != nil {
		t.Fatalf("tree id: %v", err)
	}

	entries, err := r.ListTree(treeID)
	if err != nil {
		t.Fatalf("ListTree: %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "hello.txt" || entries[0].Kind != object.KindBlob {
		t.Fatalf("entries = %+v", entries)
	}

	kind, content, err = b.Get(entries[0].ID)
	if err != nil {
		t.Fatalf("Get blob: %v", err)
	}
	if kind != object.KindBlob || string(content) != "hello\n" {
		t.Fatalf("blob = %q %q", kind, content)
	}
}

func TestBatchMissingObject(t *testing.T) {
	requireGit(t)
	dir := initTestRepo(t)
	r, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	b, err := r.StartBatch()
	if err != nil {
		t.Fatalf("StartBatch: %v", err)
	}
	defer b.Close()

	absent := object.ID(strings.Repeat("0", 39) + "1")
	if _, _, err := b.Get(absent); !errors.Is(err, ErrObjectNotFound) {
		t.Fatalf("err = %v, want ErrObjectNotFound", err)
	}
}

func TestBatchCloseSurfacesKilledBackend(t *testing.T) {
	requireGit(t)
	dir := initTestRepo(t)
	r, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	b, err := r.StartBatch()
	if err != nil {
		t.Fatalf("StartBatch: %v", err)
	}
	if err := b.cmd.Process.Kill(); err != nil {
		t.Fatalf("kill: %v", err)
	}
	if err := b.Close(); !errors.Is(err, ErrBackendProcess) {
		t.Fatalf("Close = %v, want ErrBackendProcess", err)
	}
}

func TestListTreeSpacedFilename(t *testing.T) {
	requireGit(t)
	dir := initTestRepo(t)
	if err := os.WriteFile(filepath.Join(dir, "a file.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	gitIn(t, dir, "add", "a file.txt")
	gitIn(t, dir, "commit", "-q", "-m", "spaced")

	r, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	commit, err := r.ResolveRev("HEAD")
	if err != nil {
		t.Fatalf("ResolveRev: %v", err)
	}
	treeID := object.ID(strings.TrimSpace(gitIn(t, dir, "rev-parse", string(commit)+"^{tree}")))
	entries, err := r.ListTree(treeID)
	if err != nil {
		t.Fatalf("ListTree: %v", err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name)
	}
	if len(names) != 2 || names[0] != "a file.txt" || names[1] != "hello.txt" {
		t.Fatalf("names = %v", names)
	}
}

func TestTagLifecycle(t *testing.T) {
	requireGit(t)
	// CreateTag runs with the ambient environment; give it an identity.
	t.Setenv("GIT_COMMITTER_NAME", "test")
	t.Setenv("GIT_COMMITTER_EMAIL", "test@example.com")
	dir := initTestRepo(t)
	r, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	commit, err := r.ResolveRev("HEAD")
	if err != nil {
		t.Fatalf("ResolveRev: %v", err)
	}

	if r.TagExists("v1") {
		t.Fatal("tag should not exist yet")
	}
	if err := r.CreateTag("v1", commit, "release one\n", false, false); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}
	if !r.TagExists("v1") {
		t.Fatal("tag should exist")
	}

	msg, err := r.TagMessage("v1")
	if err != nil {
		t.Fatalf("TagMessage: %v", err)
	}
	if !strings.Contains(msg, "release one") {
		t.Fatalf("message = %q", msg)
	}

	// A second unforced create must fail and leave the tag untouched.
	if err := r.CreateTag("v1", commit, "other\n", false, false); !errors.Is(err, ErrTagExists) {
		t.Fatalf("err = %v, want ErrTagExists", err)
	}
	msg, err = r.TagMessage("v1")
	if err != nil {
		t.Fatalf("TagMessage after collision: %v", err)
	}
	if !strings.Contains(msg, "release one") {
		t.Fatalf("message changed to %q", msg)
	}

	if err := r.CreateTag("v1", commit, "forced\n", false, true); err != nil {
		t.Fatalf("CreateTag force: %v", err)
	}
	if resolved, err := r.ResolveRev("v1"); err != nil || resolved != commit {
		t.Fatalf("ResolveRev tag = %q, %v", resolved, err)
	}
}

func TestTagMessageMissingTag(t *testing.T) {
	requireGit(t)
	dir := initTestRepo(t)
	r, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := r.TagMessage("nope"); err == nil {
		t.Fatal("TagMessage on a missing tag should fail")
	}
}
