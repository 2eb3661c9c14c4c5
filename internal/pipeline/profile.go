package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"gamut/internal/config"
	"gamut/internal/logging"
	"gamut/internal/services"
	"gamut/internal/services/argyll"
	"gamut/internal/session"
)

// Profiler runs the final profile assembly: the persisted curve parameters
// are combined with the configured ink limits, identity strings, and gamut
// link into a single profiler invocation. A missing parameter file fails the
// stage before the profiler runs, since it means tuning never happened.
type Profiler struct {
	cfg     *config.Config
	logger  *slog.Logger
	colprof *argyll.Colprof

	curveParams string
}

// NewProfiler constructs the profile stage with a real colprof client.
func NewProfiler(cfg *config.Config, logger *slog.Logger) (*Profiler, error) {
	colprof, err := argyll.NewColprof(cfg.Tools.Colprof)
	if err != nil {
		return nil, err
	}
	return NewProfilerWithDependencies(cfg, logger, colprof), nil
}

// NewProfilerWithDependencies allows injecting the colprof client (used in tests).
func NewProfilerWithDependencies(cfg *config.Config, logger *slog.Logger, colprof *argyll.Colprof) *Profiler {
	return &Profiler{cfg: cfg, logger: componentLogger(logger, "profile"), colprof: colprof}
}

// SetLogger installs the run-scoped logger.
func (p *Profiler) SetLogger(logger *slog.Logger) {
	if logger != nil {
		p.logger = logger
	}
}

func (p *Profiler) Prepare(ctx context.Context, sess *session.Session) error {
	dir := p.cfg.SessionDir(sess.Name)

	params, err := session.ReadCurveParams(session.CurveParamsPath(dir, sess.Name))
	if err != nil {
		if errors.Is(err, session.ErrNoCurveParams) {
			return services.Wrap(services.ErrValidation, "profile", "load curve parameters",
				"black curve tuning has not run for this session; run the curve stage first", err)
		}
		return err
	}
	p.curveParams = params

	if _, err := os.Stat(session.MeasurePath(dir, sess.Name)); err != nil {
		return services.Wrap(services.ErrValidation, "profile", "check measurement data",
			"measurement data missing; run the read stage first", err)
	}
	return nil
}

func (p *Profiler) Execute(ctx context.Context, sess *session.Session) error {
	logger := logging.WithContext(ctx, p.logger)
	dir := p.cfg.SessionDir(sess.Name)

	out, err := p.colprof.Build(ctx, dir, argyll.BuildRequest{
		Name:           sess.Name,
		OutputPath:     session.ProfilePath(dir, sess.Name),
		Quality:        p.cfg.Profile.Quality,
		InkLimit:       p.cfg.Profile.InkLimit,
		BlackInkLimit:  p.cfg.Profile.BlackInkLimit,
		NoiseTolerance: p.cfg.Profile.NoiseTolerance,
		CurveParams:    p.curveParams,
		LinkProfile:    p.cfg.Profile.LinkProfile,
		Manufacturer:   p.cfg.Printer.Manufacturer,
		Model:          p.cfg.Printer.Model,
		Description:    p.cfg.Printer.Description,
	}, toolOutput(logger, "colprof"))
	if err != nil {
		return err
	}

	sess.ProfilePath = out
	logger.Info("profile built",
		logging.String("profile_file", out),
		logging.String("curve_params", p.curveParams),
	)
	return nil
}
