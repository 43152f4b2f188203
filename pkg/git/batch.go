package git

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"github.com/odvcencio/evtag/pkg/object"
)

var (
	// ErrProtocol reports a malformed header or short read on the
	// batch channel.
	ErrProtocol = errors.New("object channel protocol error")

	// ErrObjectNotFound reports that the backend store has no object
	// with the requested id.
	ErrObjectNotFound = errors.New("object not found")

	// ErrBackendProcess reports that the backend process exited with a
	// non-zero status.
	ErrBackendProcess = errors.New("backend process failed")
)

// Batch is a long-lived channel to one `git cat-file --batch` process,
// scoped to a single repository root. Requests and responses strictly
// alternate; the channel is not safe for concurrent use and the walker
// depends on that serialization to keep responses framed correctly.
type Batch struct {
	cmd *exec.Cmd
	in  io.WriteCloser
	out *bufio.Reader
}

// StartBatch spawns the batch process bound to the repository root.
func (r *Repository) StartBatch() (*Batch, error) {
	cmd := exec.Command("git", "cat-file", "--batch")
	cmd.Dir = r.Root
	cmd.Env = deterministicEnv()
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("start batch: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("start batch: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start batch: %w", err)
	}
	return &Batch{cmd: cmd, in: stdin, out: bufio.NewReader(stdout)}, nil
}

// Get requests one object and reads its complete response. The header
// line is "<id> <kind> <length>\n", followed by exactly length content
// bytes and one separator byte.
func (b *Batch) Get(id object.ID) (object.Kind, []byte, error) {
	if _, err := io.WriteString(b.in, string(id)+"\n"); err != nil {
		return "", nil, fmt.Errorf("request %s: %w", id, err)
	}
	return readObject(b.out, id)
}

func readObject(br *bufio.Reader, id object.ID) (object.Kind, []byte, error) {
	line, err := br.ReadString('\n')
	if err != nil {
		return "", nil, fmt.Errorf("%w: reading header for %s: %v", ErrProtocol, id, err)
	}
	header := strings.TrimSuffix(line, "\n")
	if strings.Contains(header, " missing") {
		return "", nil, fmt.Errorf("%w: %s", ErrObjectNotFound, id)
	}
	fields := strings.Fields(header)
	if len(fields) != 3 {
		return "", nil, fmt.Errorf("%w: malformed header %q", ErrProtocol, header)
	}
	size, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil || size < 0 {
		return "", nil, fmt.Errorf("%w: bad length in header %q", ErrProtocol, header)
	}
	content := make([]byte, size)
	if _, err := io.ReadFull(br, content); err != nil {
		return "", nil, fmt.Errorf("%w: short read for %s: %v", ErrProtocol, id, err)
	}
	// One separator byte trails every response body.
	if _, err := br.Discard(1); err != nil {
		return "", nil, fmt.Errorf("%w: missing trailer for %s", ErrProtocol, id)
	}
	return object.Kind(fields[1]), content, nil
}

// Close shuts the request side down first, then waits for the process.
// A non-zero exit surfaces as ErrBackendProcess even when every prior
// read succeeded.
func (b *Batch) Close() error {
	cerr := b.in.Close()
	if err := b.cmd.Wait(); err != nil {
		return fmt.Errorf("%w: git cat-file --batch: %v", ErrBackendProcess, err)
	}
	if cerr != nil {
		return fmt.Errorf("close channel input: %w", cerr)
	}
	return nil
}
