package codechunk

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alnah/go-mdexport/internal/fileutil"
	"github.com/alnah/go-mdexport/internal/process"
)

// Sentinel errors reported in a chunk Result. None of them fail an export.
var (
	ErrProgramNotFound = errors.New("program not found")
	ErrTimeout         = errors.New("chunk timed out")
	ErrNonZeroExit     = errors.New("chunk exited with non-zero status")
)

// Default limits for ExecRunner.
const (
	DefaultTimeout   = 30 * time.Second
	DefaultMaxOutput = 1 << 20
	waitDelay        = 2 * time.Second
)

// Result is the outcome of running one chunk.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
	// Err is set when the chunk did not complete successfully.
	Err error
}

// Failed reports whether the chunk should render as an error.
func (r Result) Failed() bool { return r.Err != nil }

// Runner executes a chunk's code. A returned error aborts the export; chunk
// level failures are reported through Result.Err instead.
type Runner interface {
	Run(ctx context.Context, c *Chunk, code string) (Result, error)
}

// ExecRunner runs chunks as child processes.
type ExecRunner struct {
	// Dir is the working directory, normally the source document's directory.
	Dir string
	// ScratchDir holds the temporary script files; empty means os.TempDir.
	ScratchDir string
	Timeout    time.Duration
	// MaxOutput caps captured stdout and stderr, each.
	MaxOutput int
	// Env is appended to the inherited environment.
	Env []string
}

var _ Runner = (*ExecRunner)(nil)

// Run writes code to a scratch file (or stdin when the chunk asks for it)
// and runs the chunk's program in its own process group. The group is
// killed on timeout or cancellation.
func (r *ExecRunner) Run(ctx context.Context, c *Chunk, code string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if _, err := exec.LookPath(c.Cmd); err != nil {
		return Result{ExitCode: -1, Err: fmt.Errorf("%w: %s", ErrProgramNotFound, c.Cmd)}, nil
	}

	args := r.args(c)
	if !c.Stdin {
		script, cleanup, err := r.writeScript(c, code)
		if err != nil {
			return Result{}, err
		}
		defer cleanup()
		args = append(args, script)
	}

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	limit := r.MaxOutput
	if limit <= 0 {
		limit = DefaultMaxOutput
	}
	stdout := &cappedBuffer{max: limit}
	stderr := &cappedBuffer{max: limit}

	cmd := exec.CommandContext(runCtx, c.Cmd, args...) // #nosec G204 -- chunk commands are the document author's
	cmd.Dir = r.Dir
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if c.Stdin {
		cmd.Stdin = strings.NewReader(code)
	}
	if len(r.Env) > 0 {
		cmd.Env = append(os.Environ(), r.Env...)
	}
	process.Isolate(cmd)
	cmd.Cancel = func() error {
		process.KillProcessGroup(cmd.Process.Pid)
		return cmd.Process.Kill()
	}
	cmd.WaitDelay = waitDelay

	start := time.Now()
	err := cmd.Run()
	if cmd.Process != nil {
		// Background children outliving the chunk.
		process.KillProcessGroup(cmd.Process.Pid)
	}

	res := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	switch {
	case ctx.Err() != nil:
		return res, ctx.Err()
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		res.ExitCode = -1
		res.Err = fmt.Errorf("%w after %s", ErrTimeout, timeout)
	case err != nil:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			res.Err = fmt.Errorf("%w: %d", ErrNonZeroExit, res.ExitCode)
		} else {
			res.ExitCode = -1
			res.Err = err
		}
	}
	return res, nil
}

func (r *ExecRunner) args(c *Chunk) []string {
	var args []string
	if l := programFor(c.Lang); l.program == c.Cmd {
		args = append(args, l.args...)
	}
	return append(args, c.Args...)
}

func (r *ExecRunner) writeScript(c *Chunk, code string) (string, func(), error) {
	dir := r.ScratchDir
	if dir == "" {
		dir = os.TempDir()
	}
	ext := Extension(c.Lang)
	if err := fileutil.ValidateExtension(ext); err != nil {
		ext = "txt"
	}
	path := filepath.Join(dir, "mdexport-chunk-"+uuid.NewString()+"."+ext)
	if err := os.WriteFile(path, []byte(code), 0o600); err != nil {
		return "", nil, fmt.Errorf("writing chunk script: %w", err)
	}
	return path, func() { _ = os.Remove(path) }, nil
}

// cappedBuffer keeps the first max bytes written and discards the rest
// without failing the writer.
type cappedBuffer struct {
	buf       bytes.Buffer
	max       int
	truncated bool
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	if room := b.max - b.buf.Len(); room < len(p) {
		b.truncated = true
		if room > 0 {
			b.buf.Write(p[:room])
		}
		return len(p), nil
	}
	return b.buf.Write(p)
}

func (b *cappedBuffer) String() string {
	if b.truncated {
		return b.buf.String() + "\n[output truncated]\n"
	}
	return b.buf.String()
}
