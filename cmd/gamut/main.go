package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gamut/internal/services"
)

// Exit codes: 1 for any failure, 2 when the operator aborted a stage with
// the quit sentinel, so wrapper scripts can tell a deliberate stop from a
// broken run.
const (
	exitFailure = 1
	exitAborted = 2
)

func main() {
	err := newRootCommand().Execute()
	if err == nil {
		return
	}
	if !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, err)
	}
	if services.IsAbort(err) {
		os.Exit(exitAborted)
	}
	os.Exit(exitFailure)
}
