package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gamut/internal/config"
	"gamut/internal/logging"
	"gamut/internal/prompt"
	"gamut/internal/services"
	"gamut/internal/services/argyll"
	"gamut/internal/session"
	"gamut/internal/toolexec"
)

// Reader runs the chart-reading stage. Each scanned page is measured with
// automatic fiducial recognition first; when the tool rejects a page the
// operator supplies corner coordinates and the page is retried, without
// bound, until it reads cleanly or the operator aborts. The first page
// creates the session measurement data, later pages accumulate into it.
type Reader struct {
	cfg      *config.Config
	logger   *slog.Logger
	scanin   *argyll.Scanin
	prompter *prompt.Prompter
}

// NewReader constructs the read stage with a real scanin client.
func NewReader(cfg *config.Config, logger *slog.Logger, prompter *prompt.Prompter) (*Reader, error) {
	scanin, err := argyll.NewScanin(cfg.Tools.Scanin)
	if err != nil {
		return nil, err
	}
	return NewReaderWithDependencies(cfg, logger, scanin, prompter), nil
}

// NewReaderWithDependencies allows injecting the scanin client (used in tests).
func NewReaderWithDependencies(cfg *config.Config, logger *slog.Logger, scanin *argyll.Scanin, prompter *prompt.Prompter) *Reader {
	return &Reader{cfg: cfg, logger: componentLogger(logger, "read"), scanin: scanin, prompter: prompter}
}

// SetLogger installs the run-scoped logger.
func (r *Reader) SetLogger(logger *slog.Logger) {
	if logger != nil {
		r.logger = logger
	}
}

func (r *Reader) Prepare(ctx context.Context, sess *session.Session) error {
	if sess.PageCount <= 0 {
		return services.Wrap(services.ErrValidation, "read", "check page count",
			"page count unknown; run the chart stage first", nil)
	}
	dir := r.cfg.SessionDir(sess.Name)
	if _, err := os.Stat(session.ChartPath(dir, sess.Name)); err != nil {
		return services.Wrap(services.ErrValidation, "read", "check chart description",
			"chart description missing; run the chart stage first", err)
	}
	for page := 1; page <= sess.PageCount; page++ {
		scan := session.ScanPath(dir, sess.Name, page, r.cfg.Scanner.OutputExt)
		if _, err := os.Stat(scan); err != nil {
			return services.Wrap(services.ErrValidation, "read", "check scanned pages",
				fmt.Sprintf("scanned page %d missing at %s; run the scan stage first", page, scan), err)
		}
	}
	return nil
}

func (r *Reader) Execute(ctx context.Context, sess *session.Session) error {
	dir := r.cfg.SessionDir(sess.Name)

	for page := 1; page <= sess.PageCount; page++ {
		pageCtx := services.WithPage(ctx, page)
		logger := logging.WithContext(pageCtx, r.logger)

		if err := r.readPage(pageCtx, logger, dir, sess, page); err != nil {
			return err
		}
		logger.Info("page measured")
	}

	sess.MeasurePath = session.MeasurePath(dir, sess.Name)
	return nil
}

// readPage measures one page, looping through the manual fiducial prompt on
// recognition failure. Only tool exits are retryable; anything else (driver
// missing, cancelled context) fails the stage outright.
func (r *Reader) readPage(ctx context.Context, logger *slog.Logger, dir string, sess *session.Session, page int) error {
	req := argyll.ReadRequest{
		ImagePath:          session.ScanPath(dir, sess.Name, page, r.cfg.Scanner.OutputExt),
		ChartPath:          session.ChartPath(dir, sess.Name),
		Name:               sess.Name,
		Mode:               argyll.ReadCreate,
		CalibrationProfile: r.cfg.Scanner.CalibrationProfile,
		NoiseTolerance:     r.cfg.Profile.NoiseTolerance,
	}
	if page > 1 {
		req.Mode = argyll.ReadAccumulate
	}

	err := r.scanin.Read(ctx, dir, req, toolOutput(logger, "scanin"))
	if err == nil {
		return nil
	}
	if !toolexec.IsExit(err) {
		return err
	}

	for {
		logger.Warn("chart recognition failed",
			logging.Int("exit_code", toolexec.ExitCode(err)),
			logging.Error(err),
		)

		response, promptErr := r.prompter.Line(
			`Fiducial coordinates x1,y1,x2,y2,x3,y3,x4,y4 (top-left, top-right, bottom-right, bottom-left) or "quit"`)
		if promptErr != nil {
			if errors.Is(promptErr, prompt.ErrClosed) {
				return services.Wrap(services.ErrAborted, "read", "fiducial prompt",
					"input closed before coordinates were supplied", promptErr)
			}
			return promptErr
		}
		if prompt.IsQuit(response) {
			return services.Wrap(services.ErrAborted, "read", "fiducial prompt",
				fmt.Sprintf("operator aborted chart reading on page %d", page), nil)
		}

		fiducials, parseErr := argyll.ParseFiducials(response)
		if parseErr != nil {
			logger.Warn("invalid fiducial coordinates", logging.Error(parseErr))
			continue
		}

		req.Fiducials = &fiducials
		err = r.scanin.Read(ctx, dir, req, toolOutput(logger, "scanin"))
		if err == nil {
			return nil
		}
		if !toolexec.IsExit(err) {
			return err
		}
	}
}
