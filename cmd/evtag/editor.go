package main

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/term"
)

// editMessage opens the user's editor on a temp file seeded with base
// and returns the edited content. Without a terminal on stdin there is
// nobody to answer the editor, so the seed is returned unchanged.
func editMessage(editor, base string) (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return base, nil
	}

	f, err := os.CreateTemp("", "evtag-edit-*.txt")
	if err != nil {
		return "", fmt.Errorf("edit message: %w", err)
	}
	defer os.Remove(f.Name())
	if _, err := f.WriteString(base); err != nil {
		f.Close()
		return "", fmt.Errorf("edit message: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("edit message: %w", err)
	}

	// The configured editor may carry arguments ("code --wait").
	parts := append(strings.Fields(editor), f.Name())
	cmd := exec.Command(parts[0], parts[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("editor %s: %w", editor, err)
	}

	edited, err := os.ReadFile(f.Name())
	if err != nil {
		return "", fmt.Errorf("edit message: %w", err)
	}
	return string(edited), nil
}
