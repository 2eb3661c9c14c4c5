package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gamut/internal/chart"
	"gamut/internal/config"
	"gamut/internal/logging"
	"gamut/internal/prompt"
	"gamut/internal/services"
	scannersvc "gamut/internal/services/scanner"
	"gamut/internal/session"
)

// Scanner runs the scan stage: one driver invocation per physical page, with
// an operator pause between pages so the next sheet can be placed on the
// scanner bed.
type Scanner struct {
	cfg      *config.Config
	logger   *slog.Logger
	svc      *scannersvc.Service
	prompter *prompt.Prompter

	// PageOverride, when non-empty, replaces the recorded page count.
	PageOverride string
}

// NewScanner constructs the scan stage from the configured backend.
func NewScanner(cfg *config.Config, logger *slog.Logger, prompter *prompt.Prompter) (*Scanner, error) {
	backend, err := scanBackend(cfg)
	if err != nil {
		return nil, err
	}
	svc, err := scannersvc.New(cfg.Tools.Scan, backend, cfg.Scanner.OutputExt)
	if err != nil {
		return nil, err
	}
	return NewScannerWithDependencies(cfg, logger, svc, prompter), nil
}

// NewScannerWithDependencies allows injecting the scan service (used in tests).
func NewScannerWithDependencies(cfg *config.Config, logger *slog.Logger, svc *scannersvc.Service, prompter *prompt.Prompter) *Scanner {
	return &Scanner{cfg: cfg, logger: componentLogger(logger, "scan"), svc: svc, prompter: prompter}
}

func scanBackend(cfg *config.Config) (scannersvc.Backend, error) {
	switch cfg.Scanner.Backend {
	case "vendor":
		return scannersvc.VendorBackend{SettingsFile: cfg.Scanner.SettingsFile}, nil
	case "generic", "":
		return scannersvc.GenericBackend{Device: cfg.Scanner.Device}, nil
	default:
		return nil, services.Wrap(services.ErrConfiguration, "scan", "select backend",
			fmt.Sprintf("unknown scanner backend %q", cfg.Scanner.Backend), nil)
	}
}

// SetLogger installs the run-scoped logger.
func (s *Scanner) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

func (s *Scanner) Prepare(ctx context.Context, sess *session.Session) error {
	if pages, ok, err := chart.ParsePageOverride(s.PageOverride); err != nil {
		return err
	} else if ok {
		sess.PageCount = pages
	}
	if sess.PageCount <= 0 {
		return services.Wrap(services.ErrValidation, "scan", "check page count",
			"page count unknown; run the chart stage first or pass an override", nil)
	}
	return nil
}

func (s *Scanner) Execute(ctx context.Context, sess *session.Session) error {
	dir := s.cfg.SessionDir(sess.Name)

	for page := 1; page <= sess.PageCount; page++ {
		pageCtx := services.WithPage(ctx, page)
		logger := logging.WithContext(pageCtx, s.logger)

		if err := s.pause(page, sess.PageCount); err != nil {
			return err
		}

		path, err := s.svc.ScanPage(pageCtx, dir, sess.Name, page, toolOutput(logger, "scan"))
		if err != nil {
			return err
		}
		logger.Info("page scanned", logging.String("image_file", path))
	}
	return nil
}

// pause waits for the operator to load the next sheet. A closed input stream
// skips the pause so scripted runs proceed unattended.
func (s *Scanner) pause(page, total int) error {
	if s.prompter == nil {
		return nil
	}
	_, err := s.prompter.Line(fmt.Sprintf("Place chart page %d/%d on the scanner and press enter", page, total))
	if err != nil && !errors.Is(err, prompt.ErrClosed) {
		return err
	}
	return nil
}
