package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"gamut/internal/config"
	"gamut/internal/logging"
	"gamut/internal/prompt"
	"gamut/internal/services"
	"gamut/internal/services/argyll"
	"gamut/internal/session"
)

// Tuner runs the black-curve tuning stage. An intermediate profile is built
// from the measurement data, two detached viewers show the achievable black
// extremes, and the operator then iterates on curve parameter strings. Each
// accepted string replaces the persisted parameter file and spawns a viewer
// for the resulting curve; the operator decides visually when to stop.
type Tuner struct {
	cfg      *config.Config
	logger   *slog.Logger
	colprof  *argyll.Colprof
	xicclu   *argyll.Xicclu
	prompter *prompt.Prompter
}

// NewTuner constructs the curve stage with real tool clients.
func NewTuner(cfg *config.Config, logger *slog.Logger, prompter *prompt.Prompter) (*Tuner, error) {
	colprof, err := argyll.NewColprof(cfg.Tools.Colprof)
	if err != nil {
		return nil, err
	}
	xicclu, err := argyll.NewXicclu(cfg.Tools.Xicclu)
	if err != nil {
		return nil, err
	}
	return NewTunerWithDependencies(cfg, logger, colprof, xicclu, prompter), nil
}

// NewTunerWithDependencies allows injecting tool clients (used in tests).
func NewTunerWithDependencies(cfg *config.Config, logger *slog.Logger, colprof *argyll.Colprof, xicclu *argyll.Xicclu, prompter *prompt.Prompter) *Tuner {
	return &Tuner{
		cfg:      cfg,
		logger:   componentLogger(logger, "curve"),
		colprof:  colprof,
		xicclu:   xicclu,
		prompter: prompter,
	}
}

// SetLogger installs the run-scoped logger.
func (t *Tuner) SetLogger(logger *slog.Logger) {
	if logger != nil {
		t.logger = logger
	}
}

func (t *Tuner) Prepare(ctx context.Context, sess *session.Session) error {
	dir := t.cfg.SessionDir(sess.Name)
	if _, err := os.Stat(session.MeasurePath(dir, sess.Name)); err != nil {
		return services.Wrap(services.ErrValidation, "curve", "check measurement data",
			"measurement data missing; run the read stage first", err)
	}
	return nil
}

func (t *Tuner) Execute(ctx context.Context, sess *session.Session) error {
	logger := logging.WithContext(ctx, t.logger)
	dir := t.cfg.SessionDir(sess.Name)
	prep := session.PrepProfilePath(dir, sess.Name)

	_, err := t.colprof.Build(ctx, dir, argyll.BuildRequest{
		Name:           sess.Name,
		OutputPath:     prep,
		Quality:        t.cfg.Profile.Quality,
		InkLimit:       t.cfg.Profile.InkLimit,
		BlackInkLimit:  t.cfg.Profile.BlackInkLimit,
		NoiseTolerance: t.cfg.Profile.NoiseTolerance,
	}, toolOutput(logger, "colprof"))
	if err != nil {
		return err
	}
	logger.Info("intermediate profile built", logging.String("profile_file", prep))

	// The extreme viewers are advisory; a missing display must not block
	// parameter entry.
	if err := t.xicclu.GraphBlackMin(ctx, dir, prep); err != nil {
		logger.Warn("black minimum viewer failed to start", logging.Error(err))
	}
	if err := t.xicclu.GraphBlackMax(ctx, dir, prep); err != nil {
		logger.Warn("black maximum viewer failed to start", logging.Error(err))
	}

	paramsPath := session.CurveParamsPath(dir, sess.Name)
	for {
		response, promptErr := t.prompter.Line(
			`Black curve parameters (e.g. "-kp 0 0 .9 .7 .5"), empty line to finish, "quit" to abort`)
		if promptErr != nil {
			if errors.Is(promptErr, prompt.ErrClosed) {
				break
			}
			return promptErr
		}
		if response == "" {
			break
		}
		if prompt.IsQuit(response) {
			return services.Wrap(services.ErrAborted, "curve", "parameter prompt",
				"operator aborted curve tuning", nil)
		}

		if err := session.WriteCurveParams(paramsPath, response); err != nil {
			return err
		}
		logger.Info("curve parameters saved",
			logging.String("params", response),
			logging.String("params_file", paramsPath),
		)

		if err := t.xicclu.GraphCurve(ctx, dir, prep, response); err != nil {
			logger.Warn("curve viewer failed to start", logging.Error(err))
		}
	}

	return nil
}
