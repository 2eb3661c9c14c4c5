// Package stageexec runs one pipeline stage against a session, handling the
// operator lock, status transitions, and failure persistence shared by every
// subcommand.
package stageexec

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"gamut/internal/logging"
	"gamut/internal/services"
	"gamut/internal/session"
	"gamut/internal/stage"
)

// Options controls stage execution and session persistence behavior.
type Options struct {
	Logger     *slog.Logger
	Store      *session.Store
	Handler    stage.Handler
	StageName  string
	Processing session.Status
	Done       session.Status
	Session    *session.Session
	// LockPath, when set, serializes pipeline stages across processes. The
	// workflow assumes a single operator; a held lock means another command
	// is mid-stage and the run is refused rather than queued.
	LockPath string
	// Readonly marks viewer stages that inspect session artifacts without
	// advancing the lifecycle. No status transition is persisted, and a
	// failure is reported without marking the session failed.
	Readonly bool
}

// Run executes a stage with the transition semantics used by every pipeline
// subcommand: persist the processing status, run Prepare and Execute, then
// persist the done status, recording failures on the session record.
func Run(ctx context.Context, opts Options) error {
	if opts.Handler == nil {
		return fmt.Errorf("stage handler unavailable: %s", opts.StageName)
	}
	if opts.Store == nil {
		return fmt.Errorf("session store is required")
	}
	if opts.Session == nil {
		return fmt.Errorf("session is required")
	}

	if opts.LockPath != "" {
		lock := flock.New(opts.LockPath)
		held, err := lock.TryLock()
		if err != nil {
			return fmt.Errorf("acquire operator lock: %w", err)
		}
		if !held {
			return fmt.Errorf("%w: another command is running against this workspace", services.ErrValidation)
		}
		defer lock.Unlock()
	}

	stageCtx := services.WithSession(ctx, opts.Session.Name)
	stageCtx = services.WithStage(stageCtx, opts.StageName)
	stageCtx = services.WithRequestID(stageCtx, uuid.NewString())

	stageLogger := logging.WithContext(stageCtx, opts.Logger)
	if aware, ok := opts.Handler.(stage.LoggerAware); ok {
		aware.SetLogger(stageLogger)
	}

	if opts.Readonly {
		return runReadonly(stageCtx, stageLogger, opts)
	}

	stageLogger.Info(
		"stage started",
		logging.String(logging.FieldEventType, "stage_start"),
		logging.String("processing_status", string(opts.Processing)),
	)

	opts.Session.Status = opts.Processing
	opts.Session.ErrorMessage = ""
	if err := opts.Store.Update(stageCtx, opts.Session); err != nil {
		return fmt.Errorf("persist processing transition: %w", err)
	}

	if err := opts.Handler.Prepare(stageCtx, opts.Session); err != nil {
		return handleFailure(stageCtx, stageLogger, opts.Store, opts.Session, err)
	}
	if err := opts.Store.Update(stageCtx, opts.Session); err != nil {
		return fmt.Errorf("persist stage preparation: %w", err)
	}

	if err := opts.Handler.Execute(stageCtx, opts.Session); err != nil {
		return handleFailure(stageCtx, stageLogger, opts.Store, opts.Session, err)
	}

	if opts.Session.Status == opts.Processing || opts.Session.Status == "" {
		opts.Session.Status = opts.Done
	}
	if err := opts.Store.Update(stageCtx, opts.Session); err != nil {
		return fmt.Errorf("persist stage result: %w", err)
	}

	stageLogger.Info(
		"stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.String("next_status", string(opts.Session.Status)),
	)

	return nil
}

func runReadonly(ctx context.Context, logger *slog.Logger, opts Options) error {
	logger.Info(
		"stage started",
		logging.String(logging.FieldEventType, "stage_start"),
		logging.String("session_status", string(opts.Session.Status)),
	)

	if err := opts.Handler.Prepare(ctx, opts.Session); err != nil {
		return logReadonlyFailure(logger, err)
	}
	if err := opts.Handler.Execute(ctx, opts.Session); err != nil {
		return logReadonlyFailure(logger, err)
	}

	logger.Info(
		"stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.String("next_status", string(opts.Session.Status)),
	)
	return nil
}

func logReadonlyFailure(logger *slog.Logger, stageErr error) error {
	logger.Error(
		"stage failed",
		logging.String(logging.FieldEventType, "stage_failure"),
		logging.Error(stageErr),
	)
	return stageErr
}

func handleFailure(ctx context.Context, logger *slog.Logger, store *session.Store, sess *session.Session, stageErr error) error {
	message := "stage failed"
	if stageErr != nil {
		message = strings.TrimSpace(stageErr.Error())
	}
	sess.SetFailed(message)

	logger.Error(
		"stage failed",
		logging.String(logging.FieldEventType, "stage_failure"),
		logging.String("resolved_status", string(session.StatusFailed)),
		logging.String("error_message", message),
		logging.Error(stageErr),
	)
	if err := store.Update(ctx, sess); err != nil {
		logger.Error("failed to persist stage failure", logging.Error(err))
	}

	return stageErr
}
