package ceacli

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"syscall"
)

// ExecError reports a child process that ran to completion with a non-zero
// exit code. The command's argv is retained for diagnostics; its output has
// already been delivered to the caller's sink or buffer. Stderr is set only
// on the capture path, where it would otherwise be lost.
type ExecError struct {
	Args     []string
	ExitCode int
	Stderr   string
}

func (e *ExecError) Error() string {
	if e == nil {
		return ""
	}
	msg := fmt.Sprintf("cea cli exited with code %d: %v", e.ExitCode, e.Args)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

// lineFunc receives one output line, with the trailing newline stripped.
type lineFunc func(line string)

// stream runs argv and forwards each stdout and stderr line to onLine as
// it arrives. Every line is delivered exactly once; there is no post-exit
// re-drain of already-streamed output.
//
// Cancellation: when ctx is done the entire process group is killed, so a
// hung child cannot hang the caller past its deadline.
//
// The returned exit code is 0 on success. A non-nil error indicates an
// infrastructure failure (inability to start, cancelled context); non-zero
// exits are reported through the exit code, not the error.
func stream(ctx context.Context, argv []string, onLine lineFunc) (int, error) {
	if len(argv) == 0 {
		return 0, fmt.Errorf("empty command")
	}
	if onLine == nil {
		onLine = func(string) {}
	}

	// Cancellation is handled below by killing the process group, so the
	// command is deliberately not bound to ctx here.
	cmd := exec.Command(argv[0], argv[1:]...)

	// Own process group so cancellation can kill the whole tree.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return 0, fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return 0, fmt.Errorf("stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("failed to start command: %w", err)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	forward := func(r io.Reader) {
		defer wg.Done()
		br := bufio.NewReader(r)
		for {
			// ReadString has no token-size limit, so lines of any length
			// are delivered whole and the pipe is always drained to EOF;
			// the child can never block mid-write on abandoned output.
			line, err := br.ReadString('\n')
			if err == nil || line != "" {
				mu.Lock()
				onLine(strings.TrimRight(line, "\r\n"))
				mu.Unlock()
			}
			if err != nil {
				return
			}
		}
	}
	wg.Add(2)
	go forward(stdout)
	go forward(stderr)

	done := make(chan error, 1)
	go func() {
		wg.Wait()
		done <- cmd.Wait()
	}()

	var waitErr error
	select {
	case <-ctx.Done():
		if cmd.Process != nil {
			// Kill the process group (negative PID).
			_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
		}
		<-done // wait for the process to actually exit
		return 0, fmt.Errorf("execution cancelled: %w", ctx.Err())
	case waitErr = <-done:
	}

	if waitErr != nil {
		if exitErr, ok := waitErr.(*exec.ExitError); ok {
			return exitErr.ExitCode(), nil
		}
		return 0, fmt.Errorf("waiting for command: %w", waitErr)
	}
	return 0, nil
}

// capture runs argv and returns its whitespace-trimmed stdout. A non-zero
// exit yields an ExecError carrying the trimmed stderr, alongside whatever
// stdout was produced.
func capture(ctx context.Context, argv []string) (string, error) {
	if len(argv) == 0 {
		return "", fmt.Errorf("empty command")
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("failed to start command: %w", err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	var waitErr error
	select {
	case <-ctx.Done():
		if cmd.Process != nil {
			_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
		}
		<-done
		return "", fmt.Errorf("execution cancelled: %w", ctx.Err())
	case waitErr = <-done:
	}

	out := trimOutput(stdout.Bytes())
	if waitErr != nil {
		if exitErr, ok := waitErr.(*exec.ExitError); ok {
			return out, &ExecError{Args: argv, ExitCode: exitErr.ExitCode(), Stderr: trimOutput(stderr.Bytes())}
		}
		return out, fmt.Errorf("waiting for command: %w", waitErr)
	}
	return out, nil
}

func trimOutput(b []byte) string {
	return string(bytes.TrimSpace(b))
}
