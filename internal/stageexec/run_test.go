package stageexec_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/gofrs/flock"

	"gamut/internal/logging"
	"gamut/internal/services"
	"gamut/internal/session"
	"gamut/internal/stageexec"
	"gamut/internal/testsupport"
)

type scriptedHandler struct {
	prepareErr error
	executeErr error
	prepared   int
	executed   int
	onPrepare  func(*session.Session)
}

func (h *scriptedHandler) Prepare(_ context.Context, sess *session.Session) error {
	h.prepared++
	if h.onPrepare != nil {
		h.onPrepare(sess)
	}
	return h.prepareErr
}

func (h *scriptedHandler) Execute(context.Context, *session.Session) error {
	h.executed++
	return h.executeErr
}

func newSession(t *testing.T) (*session.Store, *session.Session) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store, err := session.Open(cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	sess, err := store.Create(context.Background(), "proof")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	return store, sess
}

func TestRunTransitionsStatuses(t *testing.T) {
	store, sess := newSession(t)
	handler := &scriptedHandler{
		onPrepare: func(s *session.Session) { s.PageCount = 3 },
	}

	err := stageexec.Run(context.Background(), stageexec.Options{
		Logger:     logging.NewNop(),
		Store:      store,
		Handler:    handler,
		StageName:  "chart",
		Processing: session.StatusChartGen,
		Done:       session.StatusChartReady,
		Session:    sess,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if handler.prepared != 1 || handler.executed != 1 {
		t.Fatalf("prepared=%d executed=%d", handler.prepared, handler.executed)
	}

	persisted, err := store.GetByName(context.Background(), "proof")
	if err != nil {
		t.Fatal(err)
	}
	if persisted.Status != session.StatusChartReady {
		t.Fatalf("status = %s, want %s", persisted.Status, session.StatusChartReady)
	}
	if persisted.PageCount != 3 {
		t.Fatalf("page count = %d, want 3 (prepare mutation not persisted)", persisted.PageCount)
	}
}

func TestRunPersistsFailure(t *testing.T) {
	store, sess := newSession(t)
	handler := &scriptedHandler{executeErr: errors.New("driver exploded")}

	err := stageexec.Run(context.Background(), stageexec.Options{
		Logger:     logging.NewNop(),
		Store:      store,
		Handler:    handler,
		StageName:  "scan",
		Processing: session.StatusScanning,
		Done:       session.StatusScanned,
		Session:    sess,
	})
	if err == nil {
		t.Fatal("expected execute error to propagate")
	}

	persisted, err := store.GetByName(context.Background(), "proof")
	if err != nil {
		t.Fatal(err)
	}
	if persisted.Status != session.StatusFailed {
		t.Fatalf("status = %s, want failed", persisted.Status)
	}
	if persisted.ErrorMessage != "driver exploded" {
		t.Fatalf("error message = %q", persisted.ErrorMessage)
	}
}

func TestRunPrepareFailureSkipsExecute(t *testing.T) {
	store, sess := newSession(t)
	handler := &scriptedHandler{prepareErr: errors.New("missing chart file")}

	err := stageexec.Run(context.Background(), stageexec.Options{
		Logger:     logging.NewNop(),
		Store:      store,
		Handler:    handler,
		StageName:  "print",
		Processing: session.StatusPrinting,
		Done:       session.StatusPrinted,
		Session:    sess,
	})
	if err == nil {
		t.Fatal("expected prepare error to propagate")
	}
	if handler.executed != 0 {
		t.Fatalf("execute ran %d times after failed prepare", handler.executed)
	}
}

func TestRunRefusesHeldLock(t *testing.T) {
	store, sess := newSession(t)
	lockPath := filepath.Join(t.TempDir(), "workspace.lock")

	other := flock.New(lockPath)
	held, err := other.TryLock()
	if err != nil || !held {
		t.Fatalf("prelock: held=%v err=%v", held, err)
	}
	defer other.Unlock()

	err = stageexec.Run(context.Background(), stageexec.Options{
		Logger:     logging.NewNop(),
		Store:      store,
		Handler:    &scriptedHandler{},
		StageName:  "chart",
		Processing: session.StatusChartGen,
		Done:       session.StatusChartReady,
		Session:    sess,
		LockPath:   lockPath,
	})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("err = %v, want validation error for held lock", err)
	}
}

func TestRunReadonlyLeavesSessionRecord(t *testing.T) {
	store, sess := newSession(t)
	sess.Status = session.StatusCompleted
	if err := store.Update(context.Background(), sess); err != nil {
		t.Fatal(err)
	}
	handler := &scriptedHandler{}

	err := stageexec.Run(context.Background(), stageexec.Options{
		Logger:    logging.NewNop(),
		Store:     store,
		Handler:   handler,
		StageName: "check",
		Session:   sess,
		Readonly:  true,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if handler.prepared != 1 || handler.executed != 1 {
		t.Fatalf("prepared=%d executed=%d", handler.prepared, handler.executed)
	}

	persisted, err := store.GetByName(context.Background(), "proof")
	if err != nil {
		t.Fatal(err)
	}
	if persisted.Status != session.StatusCompleted {
		t.Fatalf("status = %s, want completed untouched", persisted.Status)
	}
}

func TestRunReadonlyFailureDoesNotMarkFailed(t *testing.T) {
	store, sess := newSession(t)
	sess.Status = session.StatusCompleted
	if err := store.Update(context.Background(), sess); err != nil {
		t.Fatal(err)
	}
	handler := &scriptedHandler{prepareErr: errors.New("session is pending")}

	err := stageexec.Run(context.Background(), stageexec.Options{
		Logger:    logging.NewNop(),
		Store:     store,
		Handler:   handler,
		StageName: "check",
		Session:   sess,
		Readonly:  true,
	})
	if err == nil {
		t.Fatal("expected prepare error to propagate")
	}
	if handler.executed != 0 {
		t.Fatalf("execute ran %d times after failed prepare", handler.executed)
	}

	persisted, err := store.GetByName(context.Background(), "proof")
	if err != nil {
		t.Fatal(err)
	}
	if persisted.Status != session.StatusCompleted {
		t.Fatalf("status = %s, viewer failure must not change it", persisted.Status)
	}
	if persisted.ErrorMessage != "" {
		t.Fatalf("error message = %q, want empty", persisted.ErrorMessage)
	}
}

func TestRunRequiresHandler(t *testing.T) {
	store, sess := newSession(t)
	err := stageexec.Run(context.Background(), stageexec.Options{
		Logger:  logging.NewNop(),
		Store:   store,
		Session: sess,
	})
	if err == nil {
		t.Fatal("expected error for nil handler")
	}
}
