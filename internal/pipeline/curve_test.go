package pipeline

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"gamut/internal/logging"
	"gamut/internal/prompt"
	"gamut/internal/services"
	"gamut/internal/services/argyll"
	"gamut/internal/session"
	"gamut/internal/testsupport"
)

func TestTunerSavesParamsAndSpawnsViewers(t *testing.T) {
	cfg, sess, dir := newStageFixture(t, 1)
	if err := os.WriteFile(session.MeasurePath(dir, sess.Name), []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}

	prep := session.PrepProfilePath(dir, sess.Name)
	fake := &testsupport.FakeExecutor{
		OnRun: func(call testsupport.Call) testsupport.FakeResult {
			if err := os.WriteFile(prep, []byte("icc"), 0o644); err != nil {
				t.Fatal(err)
			}
			return testsupport.FakeResult{}
		},
	}
	colprof, err := argyll.NewColprof("colprof", argyll.WithExecutor(fake))
	if err != nil {
		t.Fatal(err)
	}
	xicclu, err := argyll.NewXicclu("xicclu", argyll.WithStarter(fake))
	if err != nil {
		t.Fatal(err)
	}

	const params = "-kp 0 0 0.86 0.75 0.55"
	input := strings.NewReader(params + "\n\n")
	tuner := NewTunerWithDependencies(cfg, logging.NewNop(), colprof, xicclu, prompt.New(input, io.Discard))

	if err := tuner.Prepare(context.Background(), sess); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if err := tuner.Execute(context.Background(), sess); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	saved, err := session.ReadCurveParams(session.CurveParamsPath(dir, sess.Name))
	if err != nil {
		t.Fatalf("read saved params: %v", err)
	}
	if saved != params {
		t.Fatalf("saved = %q, want %q", saved, params)
	}

	// Two extreme viewers plus one per accepted parameter string.
	if len(fake.Started) != 3 {
		t.Fatalf("started %d viewers, want 3", len(fake.Started))
	}
	last := strings.Join(fake.Started[2].Args, " ")
	if !strings.Contains(last, "-kp 0 0 0.86 0.75 0.55") {
		t.Fatalf("curve viewer args = %q", last)
	}
}

func TestTunerOverwritesPreviousParams(t *testing.T) {
	cfg, sess, dir := newStageFixture(t, 1)
	if err := os.WriteFile(session.MeasurePath(dir, sess.Name), []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}
	prep := session.PrepProfilePath(dir, sess.Name)
	fake := &testsupport.FakeExecutor{
		OnRun: func(testsupport.Call) testsupport.FakeResult {
			if err := os.WriteFile(prep, []byte("icc"), 0o644); err != nil {
				t.Fatal(err)
			}
			return testsupport.FakeResult{}
		},
	}
	colprof, _ := argyll.NewColprof("colprof", argyll.WithExecutor(fake))
	xicclu, _ := argyll.NewXicclu("xicclu", argyll.WithStarter(fake))

	input := strings.NewReader("-kp 0 0 0.5 0.5 0.5\n-kp 0 0 0.9 0.8 0.6\n\n")
	tuner := NewTunerWithDependencies(cfg, logging.NewNop(), colprof, xicclu, prompt.New(input, io.Discard))

	if err := tuner.Execute(context.Background(), sess); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	saved, err := session.ReadCurveParams(session.CurveParamsPath(dir, sess.Name))
	if err != nil {
		t.Fatal(err)
	}
	if saved != "-kp 0 0 0.9 0.8 0.6" {
		t.Fatalf("saved = %q, want the last accepted string", saved)
	}
}

func TestTunerQuitAborts(t *testing.T) {
	cfg, sess, dir := newStageFixture(t, 1)
	if err := os.WriteFile(session.MeasurePath(dir, sess.Name), []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}
	prep := session.PrepProfilePath(dir, sess.Name)
	fake := &testsupport.FakeExecutor{
		OnRun: func(testsupport.Call) testsupport.FakeResult {
			if err := os.WriteFile(prep, []byte("icc"), 0o644); err != nil {
				t.Fatal(err)
			}
			return testsupport.FakeResult{}
		},
	}
	colprof, _ := argyll.NewColprof("colprof", argyll.WithExecutor(fake))
	xicclu, _ := argyll.NewXicclu("xicclu", argyll.WithStarter(fake))

	tuner := NewTunerWithDependencies(cfg, logging.NewNop(), colprof, xicclu,
		prompt.New(strings.NewReader("quit\n"), io.Discard))

	if err := tuner.Execute(context.Background(), sess); !services.IsAbort(err) {
		t.Fatalf("err = %v, want operator abort", err)
	}
}

func TestTunerPrepareRequiresMeasurement(t *testing.T) {
	cfg, sess, _ := newStageFixture(t, 1)
	colprof, _ := argyll.NewColprof("colprof", argyll.WithExecutor(&testsupport.FakeExecutor{}))
	xicclu, _ := argyll.NewXicclu("xicclu", argyll.WithStarter(&testsupport.FakeExecutor{}))
	tuner := NewTunerWithDependencies(cfg, logging.NewNop(), colprof, xicclu,
		prompt.New(strings.NewReader(""), io.Discard))

	if err := tuner.Prepare(context.Background(), sess); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}
}
