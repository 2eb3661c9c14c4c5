package pipeline

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"gamut/internal/config"
	"gamut/internal/logging"
	"gamut/internal/prompt"
	"gamut/internal/services"
	"gamut/internal/services/argyll"
	"gamut/internal/session"
	"gamut/internal/testsupport"
)

func newStageFixture(t *testing.T, pages int) (*config.Config, *session.Session, string) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	sess := &session.Session{Name: "proof", Status: session.StatusScanned, PageCount: pages}
	dir := cfg.SessionDir(sess.Name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	return cfg, sess, dir
}

func writeReadInputs(t *testing.T, cfg *config.Config, dir, name string, pages int) {
	t.Helper()
	testsupport.WriteFile(t, session.ChartPath(dir, name), "chart")
	for page := 1; page <= pages; page++ {
		testsupport.WriteFile(t, session.ScanPath(dir, name, page, cfg.Scanner.OutputExt), "image")
	}
}

func newReader(t *testing.T, cfg *config.Config, fake *testsupport.FakeExecutor, input io.Reader) *Reader {
	t.Helper()
	scanin, err := argyll.NewScanin("scanin", argyll.WithExecutor(fake))
	if err != nil {
		t.Fatal(err)
	}
	if input == nil {
		input = strings.NewReader("")
	}
	return NewReaderWithDependencies(cfg, logging.NewNop(), scanin, prompt.New(input, io.Discard))
}

func TestReaderFirstAttemptSucceeds(t *testing.T) {
	cfg, sess, dir := newStageFixture(t, 1)
	writeReadInputs(t, cfg, dir, sess.Name, 1)

	fake := &testsupport.FakeExecutor{}
	reader := newReader(t, cfg, fake, nil)

	if err := reader.Prepare(context.Background(), sess); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if err := reader.Execute(context.Background(), sess); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(fake.Calls) != 1 {
		t.Fatalf("calls = %d, want 1", len(fake.Calls))
	}
	args := strings.Join(fake.Calls[0].Args, " ")
	if strings.Contains(args, "-a") || strings.Contains(args, "-F") {
		t.Fatalf("first page must read in create mode without fiducials: %q", args)
	}
	if sess.MeasurePath != session.MeasurePath(dir, sess.Name) {
		t.Fatalf("measure path = %q", sess.MeasurePath)
	}
}

func TestReaderSecondPageAccumulates(t *testing.T) {
	cfg, sess, dir := newStageFixture(t, 2)
	writeReadInputs(t, cfg, dir, sess.Name, 2)

	fake := &testsupport.FakeExecutor{}
	reader := newReader(t, cfg, fake, nil)

	if err := reader.Execute(context.Background(), sess); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(fake.Calls) != 2 {
		t.Fatalf("calls = %d, want 2", len(fake.Calls))
	}
	second := strings.Join(fake.Calls[1].Args, " ")
	if !strings.Contains(second, "-a") {
		t.Fatalf("second page must accumulate: %q", second)
	}
}

func TestReaderRetriesWithManualFiducials(t *testing.T) {
	cfg, sess, dir := newStageFixture(t, 1)
	writeReadInputs(t, cfg, dir, sess.Name, 1)

	fake := &testsupport.FakeExecutor{
		Results: []testsupport.FakeResult{
			{Err: testsupport.ExitError()},
			{Err: testsupport.ExitError()},
			{},
		},
	}
	input := strings.NewReader("10,10,2400,12,2390,3300,11,3290\n15,10,2400,12,2390,3300,11,3290\n")
	reader := newReader(t, cfg, fake, input)

	if err := reader.Execute(context.Background(), sess); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(fake.Calls) != 3 {
		t.Fatalf("calls = %d, want 3 (auto, retry, retry)", len(fake.Calls))
	}
	for i := 1; i < 3; i++ {
		if !strings.Contains(strings.Join(fake.Calls[i].Args, " "), "-F") {
			t.Fatalf("retry %d missing forced fiducials: %v", i, fake.Calls[i].Args)
		}
	}
}

func TestReaderInvalidCoordinatesReprompt(t *testing.T) {
	cfg, sess, dir := newStageFixture(t, 1)
	writeReadInputs(t, cfg, dir, sess.Name, 1)

	fake := &testsupport.FakeExecutor{
		Results: []testsupport.FakeResult{
			{Err: testsupport.ExitError()},
			{},
		},
	}
	input := strings.NewReader("not,numbers\n1,2,3,4,5,6,7,8\n")
	reader := newReader(t, cfg, fake, input)

	if err := reader.Execute(context.Background(), sess); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(fake.Calls) != 2 {
		t.Fatalf("calls = %d, want 2 (bad coordinates never reach the tool)", len(fake.Calls))
	}
}

func TestReaderQuitAbortsRun(t *testing.T) {
	cfg, sess, dir := newStageFixture(t, 3)
	writeReadInputs(t, cfg, dir, sess.Name, 3)

	fake := &testsupport.FakeExecutor{
		Results: []testsupport.FakeResult{{Err: testsupport.ExitError()}},
	}
	reader := newReader(t, cfg, fake, strings.NewReader("quit\n"))

	err := reader.Execute(context.Background(), sess)
	if !services.IsAbort(err) {
		t.Fatalf("err = %v, want operator abort", err)
	}
	if len(fake.Calls) != 1 {
		t.Fatalf("calls = %d, want 1 (no further pages after abort)", len(fake.Calls))
	}
}

func TestReaderClosedInputAborts(t *testing.T) {
	cfg, sess, dir := newStageFixture(t, 1)
	writeReadInputs(t, cfg, dir, sess.Name, 1)

	fake := &testsupport.FakeExecutor{
		Results: []testsupport.FakeResult{{Err: testsupport.ExitError()}},
	}
	reader := newReader(t, cfg, fake, strings.NewReader(""))

	if err := reader.Execute(context.Background(), sess); !services.IsAbort(err) {
		t.Fatalf("err = %v, want abort when input ends mid-prompt", err)
	}
}

func TestReaderLaunchFailureNotRetried(t *testing.T) {
	cfg, sess, dir := newStageFixture(t, 1)
	writeReadInputs(t, cfg, dir, sess.Name, 1)

	launchErr := errors.New("exec: scanin: not found")
	fake := &testsupport.FakeExecutor{
		Results: []testsupport.FakeResult{{Err: launchErr}},
	}
	reader := newReader(t, cfg, fake, strings.NewReader("1,2,3,4,5,6,7,8\n"))

	err := reader.Execute(context.Background(), sess)
	if err == nil || services.IsAbort(err) {
		t.Fatalf("err = %v, want plain launch failure", err)
	}
	if len(fake.Calls) != 1 {
		t.Fatalf("calls = %d, want 1 (launch failures are fatal)", len(fake.Calls))
	}
}

func TestReaderPrepareMissingScan(t *testing.T) {
	cfg, sess, dir := newStageFixture(t, 2)
	writeReadInputs(t, cfg, dir, sess.Name, 1)

	reader := newReader(t, cfg, &testsupport.FakeExecutor{}, nil)
	err := reader.Prepare(context.Background(), sess)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("err = %v, want validation error for missing page 2", err)
	}
}
