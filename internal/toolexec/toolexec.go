// Package toolexec runs the external profiling binaries. Every client in
// internal/services takes an Executor so tests can substitute scripted
// results for real tool invocations.
package toolexec

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
)

// Executor abstracts command execution for testability.
type Executor interface {
	// Run executes the binary and streams every output line (stdout and
	// stderr interleaved) to onLine. A nonzero exit is returned as an error
	// that ExitCode can classify.
	Run(ctx context.Context, dir, binary string, args []string, onLine func(string)) error
}

// Starter launches a binary without waiting for it. Used for the detached
// curve visualizations, which the operator closes themselves.
type Starter interface {
	Start(ctx context.Context, dir, binary string, args []string) error
}

// CommandExecutor runs commands via os/exec.
type CommandExecutor struct{}

func (CommandExecutor) Run(ctx context.Context, dir, binary string, args []string, onLine func(string)) error {
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Dir = dir

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", binary, err)
	}

	var wg sync.WaitGroup
	var scanErr error
	var once sync.Once

	forward := func(line string) {
		if onLine != nil {
			onLine(line)
			return
		}
		fmt.Fprintln(os.Stderr, line)
	}

	scan := func(r io.Reader) {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			forward(scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			once.Do(func() { scanErr = err })
		}
	}

	wg.Add(2)
	go scan(stdout)
	go scan(stderr)

	wg.Wait()
	if scanErr != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return fmt.Errorf("scan output: %w", scanErr)
	}

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("%s: %w", binary, err)
	}
	return nil
}

// Start launches the binary detached from the calling process. Stdout and
// stderr are discarded; the process is deliberately not waited on.
func (CommandExecutor) Start(ctx context.Context, dir, binary string, args []string) error {
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Dir = dir
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", binary, err)
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}

// ExitCode extracts the process exit code from a Run error. Returns -1 when
// the error does not carry one (start failures, cancellation).
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// IsExit reports whether the error is the external tool exiting nonzero, as
// opposed to a failure to launch or stream it.
func IsExit(err error) bool {
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr)
}
