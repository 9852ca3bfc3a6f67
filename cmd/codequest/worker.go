package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime/debug"
	"strings"
	"time"

	"codequest/internal/logging"
	"codequest/internal/submission"
	"codequest/internal/verify"

	"go.uber.org/zap"
)

// workerEnv switches the binary into verification worker mode.
const workerEnv = "CODEQUEST_VERIFY_WORKER"

const (
	// workerMaxStack bounds the worker's goroutine stacks so runaway
	// recursion fails fast.
	workerMaxStack = 256 << 20
	// workerOutputLimit caps how much of the worker's stderr is kept.
	workerOutputLimit = 64 << 10
)

// workerGrace is added to a challenge's time limit for the worker to start
// up and load the challenges.
var workerGrace = 5 * time.Second

// workerRequest is what the parent sends a worker on stdin.
type workerRequest struct {
	Challenge      string   `json:"challenge"`
	Source         string   `json:"source"`
	Enabled        []string `json:"enabled,omitempty"`
	PackDirs       []string `json:"pack_dirs,omitempty"`
	BlockedImports []string `json:"blocked_imports,omitempty"`
	CaptureOutput  bool     `json:"capture_output"`
}

// workerResponse is what a worker writes back on stdout.
type workerResponse struct {
	Result verify.Result `json:"result"`
}

func newWorkerRequest(id, source string) workerRequest {
	return workerRequest{
		Challenge:      id,
		Source:         source,
		Enabled:        cfg.Challenges.Enabled,
		PackDirs:       cfg.Challenges.PackDirs,
		BlockedImports: cfg.Submission.BlockedImports,
		CaptureOutput:  cfg.Submission.CaptureOutput,
	}
}

// workerMain serves one verification for a parent process and returns the
// exit code.
func workerMain() int {
	debug.SetMaxStack(workerMaxStack)
	logger = zap.NewNop()

	// Learner code writing to os.Stdout must not corrupt the reply.
	reply := os.Stdout
	os.Stdout = os.Stderr

	if err := serveWorker(os.Stdin, reply); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func serveWorker(in io.Reader, out io.Writer) error {
	var req workerRequest
	if err := json.NewDecoder(in).Decode(&req); err != nil {
		return fmt.Errorf("failed to read request: %w", err)
	}
	registry := loadRegistry(req.Enabled, req.PackDirs, submission.Config{
		BlockedImports: req.BlockedImports,
		CaptureOutput:  req.CaptureOutput,
	})
	ch, ok := registry.Get(req.Challenge)
	if !ok {
		return fmt.Errorf("unknown challenge %q", req.Challenge)
	}

	res := ch.Attempt(req.Source)
	// Snapshots hold arbitrary interpreted values; the feedback already
	// describes them.
	for i := range res.Outcomes {
		res.Outcomes[i].Snapshot = nil
	}
	return json.NewEncoder(out).Encode(workerResponse{Result: res})
}

// attemptIsolated verifies req in a child process. A worker that crashes or
// overruns the time limit yields a failed result.
func attemptIsolated(ctx context.Context, req workerRequest, limitSeconds int) verify.Result {
	exe, err := os.Executable()
	if err != nil {
		return verify.Fail("Error evaluating solution: %v", err)
	}
	body, err := json.Marshal(req)
	if err != nil {
		return verify.Fail("Error evaluating solution: %v", err)
	}

	if limitSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(limitSeconds)*time.Second+workerGrace)
		defer cancel()
	}

	var stdout bytes.Buffer
	stderr := &limitedBuffer{max: workerOutputLimit}
	cmd := exec.CommandContext(ctx, exe)
	cmd.Env = append(os.Environ(), workerEnv+"=1")
	cmd.Stdin = bytes.NewReader(body)
	cmd.Stdout = &stdout
	cmd.Stderr = stderr

	start := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(start)
	if runErr != nil {
		logging.Verify("Worker for %s failed after %s: %v", req.Challenge, elapsed, runErr)
		res := crashResult(ctx, runErr, stderr.String(), limitSeconds)
		res.Elapsed = elapsed
		return res
	}

	var resp workerResponse
	if err := json.Unmarshal(stdout.Bytes(), &resp); err != nil {
		return verify.Fail("Error evaluating solution: unreadable worker reply: %v", err)
	}
	logging.VerifyDebug("Worker for %s finished in %s", req.Challenge, elapsed)
	return resp.Result
}

func crashResult(ctx context.Context, runErr error, stderr string, limitSeconds int) verify.Result {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded) && limitSeconds > 0:
		return verify.Fail("Time limit exceeded. Your solution did not finish within %ds.", limitSeconds)
	case ctx.Err() != nil:
		return verify.Fail("Verification was cancelled: %v", ctx.Err())
	case strings.Contains(stderr, "stack overflow"):
		return verify.Fail("Your solution crashed with a stack overflow. Check that every recursive call moves towards a base case.")
	default:
		return verify.Fail("Error evaluating solution: %s", crashLine(stderr, runErr))
	}
}

// crashLine picks the most telling line of a worker's stderr.
func crashLine(stderr string, runErr error) string {
	var first string
	for _, line := range strings.Split(stderr, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "fatal error:") || strings.HasPrefix(line, "panic:") {
			return line
		}
		if first == "" {
			first = line
		}
	}
	if first != "" {
		return first
	}
	return runErr.Error()
}

// limitedBuffer keeps the first max bytes written to it and drops the rest.
type limitedBuffer struct {
	buf bytes.Buffer
	max int
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	if room := b.max - b.buf.Len(); room > 0 {
		if len(p) > room {
			b.buf.Write(p[:room])
		} else {
			b.buf.Write(p)
		}
	}
	return len(p), nil
}

func (b *limitedBuffer) String() string { return b.buf.String() }
