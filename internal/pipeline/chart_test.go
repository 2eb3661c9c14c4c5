package pipeline

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"gamut/internal/logging"
	"gamut/internal/services/argyll"
	"gamut/internal/session"
	"gamut/internal/testsupport"
)

func TestGeneratorDetectsPageCount(t *testing.T) {
	cfg, sess, dir := newStageFixture(t, 0)

	fake := &testsupport.FakeExecutor{
		OnRun: func(call testsupport.Call) testsupport.FakeResult {
			switch call.Binary {
			case "targen":
				if err := os.WriteFile(session.TargetPath(dir, sess.Name), []byte("ti1"), 0o644); err != nil {
					t.Fatal(err)
				}
			case "printtarg":
				chart := strings.Repeat(fmt.Sprintf("patch rows\n%s\n", cfg.Chart.PageMarker), 3)
				if err := os.WriteFile(session.ChartPath(dir, sess.Name), []byte(chart), 0o644); err != nil {
					t.Fatal(err)
				}
			}
			return testsupport.FakeResult{}
		},
	}
	targen, err := argyll.NewTargen("targen", argyll.WithExecutor(fake))
	if err != nil {
		t.Fatal(err)
	}
	printtarg, err := argyll.NewPrinttarg("printtarg", argyll.WithExecutor(fake))
	if err != nil {
		t.Fatal(err)
	}
	gen := NewGeneratorWithDependencies(cfg, logging.NewNop(), targen, printtarg)

	if err := gen.Prepare(context.Background(), sess); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if err := gen.Execute(context.Background(), sess); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if sess.PageCount != 3 {
		t.Fatalf("page count = %d, want 3", sess.PageCount)
	}
	if sess.ChartPath != session.ChartPath(dir, sess.Name) {
		t.Fatalf("chart path = %q", sess.ChartPath)
	}
}

func TestGeneratorPageOverride(t *testing.T) {
	cfg, sess, dir := newStageFixture(t, 0)

	fake := &testsupport.FakeExecutor{
		OnRun: func(call testsupport.Call) testsupport.FakeResult {
			switch call.Binary {
			case "targen":
				os.WriteFile(session.TargetPath(dir, sess.Name), []byte("ti1"), 0o644)
			case "printtarg":
				os.WriteFile(session.ChartPath(dir, sess.Name), []byte("no markers"), 0o644)
			}
			return testsupport.FakeResult{}
		},
	}
	targen, _ := argyll.NewTargen("targen", argyll.WithExecutor(fake))
	printtarg, _ := argyll.NewPrinttarg("printtarg", argyll.WithExecutor(fake))
	gen := NewGeneratorWithDependencies(cfg, logging.NewNop(), targen, printtarg)
	gen.PageOverride = "4"

	if err := gen.Execute(context.Background(), sess); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if sess.PageCount != 4 {
		t.Fatalf("page count = %d, want override 4", sess.PageCount)
	}
}

func TestGeneratorPrepareRejectsBadOverride(t *testing.T) {
	cfg, sess, _ := newStageFixture(t, 0)
	targen, _ := argyll.NewTargen("targen", argyll.WithExecutor(&testsupport.FakeExecutor{}))
	printtarg, _ := argyll.NewPrinttarg("printtarg", argyll.WithExecutor(&testsupport.FakeExecutor{}))
	gen := NewGeneratorWithDependencies(cfg, logging.NewNop(), targen, printtarg)
	gen.PageOverride = "-2"

	if err := gen.Prepare(context.Background(), sess); err == nil {
		t.Fatal("expected error for negative page override")
	}
}

func TestGeneratorPrepareRejectsBadName(t *testing.T) {
	cfg, _, _ := newStageFixture(t, 0)
	targen, _ := argyll.NewTargen("targen", argyll.WithExecutor(&testsupport.FakeExecutor{}))
	printtarg, _ := argyll.NewPrinttarg("printtarg", argyll.WithExecutor(&testsupport.FakeExecutor{}))
	gen := NewGeneratorWithDependencies(cfg, logging.NewNop(), targen, printtarg)

	bad := &session.Session{Name: "has space"}
	if err := gen.Prepare(context.Background(), bad); err == nil {
		t.Fatal("expected error for unsafe session name")
	}
}
