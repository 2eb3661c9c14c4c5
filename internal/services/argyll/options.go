package argyll

import (
	"fmt"

	"gamut/internal/services"
	"gamut/internal/toolexec"
)

// Option configures a client.
type Option func(exec *toolexec.Executor, start *toolexec.Starter)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec toolexec.Executor) Option {
	return func(target *toolexec.Executor, _ *toolexec.Starter) {
		if exec != nil && target != nil {
			*target = exec
		}
	}
}

// WithStarter injects a custom background launcher (primarily for tests).
func WithStarter(start toolexec.Starter) Option {
	return func(_ *toolexec.Executor, target *toolexec.Starter) {
		if start != nil && target != nil {
			*target = start
		}
	}
}

func applyOptions(exec *toolexec.Executor, start *toolexec.Starter, opts []Option) {
	for _, opt := range opts {
		opt(exec, start)
	}
}

// toolError classifies a failed invocation. A nonzero exit is tagged with
// the external-tool sentinel and keeps the exit error in the chain; a launch
// failure (missing binary, bad permissions) is not a tool result and stays
// untagged.
func toolError(tool string, err error) error {
	if toolexec.IsExit(err) {
		return fmt.Errorf("%w: %s: %w", services.ErrExternalTool, tool, err)
	}
	return fmt.Errorf("%s launch: %w", tool, err)
}
