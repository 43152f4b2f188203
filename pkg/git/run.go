package git

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// deterministicEnv returns the process environment with overrides that
// make git ignore global and system configuration. Object-graph reads
// run under it so the resulting digest does not depend on whatever
// config the invoking user happens to carry.
func deterministicEnv() []string {
	return append(os.Environ(),
		"GIT_CONFIG_GLOBAL=/dev/null",
		"GIT_CONFIG_NOSYSTEM=1",
		"GIT_CONFIG=''",
	)
}

// run executes git in the repository root under the deterministic
// environment and captures stdout.
func (r *Repository) run(args ...string) ([]byte, error) {
	return runGit(r.Root, deterministicEnv(), args...)
}

// runAmbient executes git with the caller's environment intact. Tag
// creation, signature checks, and submodule init need the user's real
// config (signing keys, credential helpers).
func (r *Repository) runAmbient(args ...string) ([]byte, error) {
	return runGit(r.Root, nil, args...)
}

func runGit(dir string, env []string, args ...string) ([]byte, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = env
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return nil, fmt.Errorf("git %s: %s", strings.Join(args, " "), msg)
	}
	return stdout.Bytes(), nil
}
