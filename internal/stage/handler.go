// Package stage defines the contract each pipeline stage implements for the
// execution helper.
package stage

import (
	"context"
	"log/slog"

	"gamut/internal/session"
)

// Handler describes one pipeline stage. Prepare validates preconditions and
// may mutate the session record (page counts, artifact paths); Execute does
// the work. Both receive the session so transitions can be persisted between
// the two phases.
type Handler interface {
	Prepare(context.Context, *session.Session) error
	Execute(context.Context, *session.Session) error
}

// LoggerAware is implemented by handlers that want the run-scoped logger the
// execution helper builds, with session, stage, and correlation fields
// already attached.
type LoggerAware interface {
	SetLogger(*slog.Logger)
}
