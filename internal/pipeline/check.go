package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gamut/internal/config"
	"gamut/internal/logging"
	"gamut/internal/services"
	"gamut/internal/services/argyll"
	"gamut/internal/session"
)

// Checker runs the profile check stage: the finished profile's black curve
// is rendered with the same parameters that built it, so the operator can
// confirm the tuning survived into the final profile.
type Checker struct {
	cfg    *config.Config
	logger *slog.Logger
	xicclu *argyll.Xicclu

	curveParams string
}

// NewChecker constructs the check stage with a real xicclu client.
func NewChecker(cfg *config.Config, logger *slog.Logger) (*Checker, error) {
	xicclu, err := argyll.NewXicclu(cfg.Tools.Xicclu)
	if err != nil {
		return nil, err
	}
	return NewCheckerWithDependencies(cfg, logger, xicclu), nil
}

// NewCheckerWithDependencies allows injecting the xicclu client (used in tests).
func NewCheckerWithDependencies(cfg *config.Config, logger *slog.Logger, xicclu *argyll.Xicclu) *Checker {
	return &Checker{cfg: cfg, logger: componentLogger(logger, "check"), xicclu: xicclu}
}

// SetLogger installs the run-scoped logger.
func (c *Checker) SetLogger(logger *slog.Logger) {
	if logger != nil {
		c.logger = logger
	}
}

func (c *Checker) Prepare(ctx context.Context, sess *session.Session) error {
	if sess.Status != session.StatusCompleted {
		return services.Wrap(services.ErrValidation, "check", "check profile",
			fmt.Sprintf("session is %s; the check stage inspects a completed profile", sess.Status.Label()), nil)
	}

	dir := c.cfg.SessionDir(sess.Name)

	if _, err := os.Stat(session.ProfilePath(dir, sess.Name)); err != nil {
		return services.Wrap(services.ErrValidation, "check", "check profile",
			"finished profile missing; run the profile stage first", err)
	}

	params, err := session.ReadCurveParams(session.CurveParamsPath(dir, sess.Name))
	if err != nil {
		return err
	}
	c.curveParams = params
	return nil
}

func (c *Checker) Execute(ctx context.Context, sess *session.Session) error {
	logger := logging.WithContext(ctx, c.logger)
	dir := c.cfg.SessionDir(sess.Name)
	profile := session.ProfilePath(dir, sess.Name)

	if err := c.xicclu.GraphCurve(ctx, dir, profile, c.curveParams); err != nil {
		return err
	}
	logger.Info("curve viewer started",
		logging.String("profile_file", profile),
		logging.String("curve_params", c.curveParams),
	)
	return nil
}
