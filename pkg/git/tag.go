package git

import (
	"errors"
	"fmt"
	"os"

	"github.com/odvcencio/evtag/pkg/object"
)

// ErrTagExists reports that tag creation would overwrite an existing
// tag ref.
var ErrTagExists = errors.New("tag already exists")

// TagExists reports whether refs/tags/<name> is bound.
func (r *Repository) TagExists(name string) bool {
	_, err := r.run("rev-parse", "--verify", "--quiet", "refs/tags/"+name)
	return err == nil
}

// TagMessage returns the message body of an annotated tag. A
// lightweight tag yields an empty message.
func (r *Repository) TagMessage(name string) (string, error) {
	if !r.TagExists(name) {
		return "", fmt.Errorf("tag message: tag %q not found", name)
	}
	out, err := r.run("for-each-ref", "refs/tags/"+name, "--format=%(contents)")
	if err != nil {
		return "", fmt.Errorf("tag message: %w", err)
	}
	return string(out), nil
}

// CreateTag creates an annotated tag pointing at commit, with the given
// message. When signed, the tag object is signed by git using the
// user's configured key; the cryptography lives entirely in the
// backend. Without force, an already-bound name fails with ErrTagExists
// and the existing tag is left untouched.
func (r *Repository) CreateTag(name string, commit object.ID, message string, signed, force bool) error {
	if !force && r.TagExists(name) {
		return fmt.Errorf("create tag %q: %w", name, ErrTagExists)
	}

	msgfile, err := os.CreateTemp("", "evtag-msg-*")
	if err != nil {
		return fmt.Errorf("create tag %q: %w", name, err)
	}
	defer os.Remove(msgfile.Name())
	if _, err := msgfile.WriteString(message); err != nil {
		msgfile.Close()
		return fmt.Errorf("create tag %q: %w", name, err)
	}
	if err := msgfile.Close(); err != nil {
		return fmt.Errorf("create tag %q: %w", name, err)
	}

	args := []string{"tag"}
	if signed {
		args = append(args, "-s")
	} else {
		args = append(args, "-a")
	}
	if force {
		args = append(args, "-f")
	}
	args = append(args, "-F", msgfile.Name(), name, string(commit))
	if _, err := r.runAmbient(args...); err != nil {
		return fmt.Errorf("create tag %q: %w", name, err)
	}
	return nil
}

// VerifyTagSignature reports whether git accepts the tag's signature.
// What counts as valid (GPG, SSH allowed signers, ...) is the backend's
// decision under the user's real configuration.
func (r *Repository) VerifyTagSignature(name string) bool {
	_, err := r.runAmbient("tag", "-v", name)
	return err == nil
}
