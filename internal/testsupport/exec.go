package testsupport

import (
	"context"
	"os/exec"
)

// Call records one scripted executor invocation.
type Call struct {
	Dir    string
	Binary string
	Args   []string
}

// FakeExecutor satisfies toolexec.Executor and toolexec.Starter with
// scripted behavior. Results are consumed in invocation order; when the
// script runs out the zero value (success, no output) is used.
type FakeExecutor struct {
	Calls   []Call
	Started []Call

	// Results holds one entry per expected Run call.
	Results []FakeResult

	// OnRun, when set, is consulted instead of Results.
	OnRun func(call Call) FakeResult
}

// FakeResult scripts the outcome of a single Run call.
type FakeResult struct {
	Lines []string
	Err   error
}

func (f *FakeExecutor) Run(_ context.Context, dir, binary string, args []string, onLine func(string)) error {
	call := Call{Dir: dir, Binary: binary, Args: append([]string(nil), args...)}
	index := len(f.Calls)
	f.Calls = append(f.Calls, call)

	var result FakeResult
	switch {
	case f.OnRun != nil:
		result = f.OnRun(call)
	case index < len(f.Results):
		result = f.Results[index]
	}

	if onLine != nil {
		for _, line := range result.Lines {
			onLine(line)
		}
	}
	return result.Err
}

func (f *FakeExecutor) Start(_ context.Context, dir, binary string, args []string) error {
	f.Started = append(f.Started, Call{Dir: dir, Binary: binary, Args: append([]string(nil), args...)})
	return nil
}

// ExitError fabricates a real nonzero process exit so toolexec.IsExit
// classification works in tests.
func ExitError() error {
	cmd := exec.Command("sh", "-c", "exit 1")
	return cmd.Run()
}
