package pipeline

import (
	"context"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"gamut/internal/config"
	"gamut/internal/logging"
	"gamut/internal/services"
	printersvc "gamut/internal/services/printer"
	"gamut/internal/session"
)

// Printer runs the print stage: every rendered chart page goes to the
// spooler as its own job.
type Printer struct {
	cfg    *config.Config
	logger *slog.Logger
	client *printersvc.Client

	files []string
}

// NewPrinter constructs the print stage with a real spooler client.
func NewPrinter(cfg *config.Config, logger *slog.Logger) (*Printer, error) {
	client, err := printersvc.New(cfg.Tools.Print, cfg.Printer.Queue, cfg.Printer.Options)
	if err != nil {
		return nil, err
	}
	return NewPrinterWithDependencies(cfg, logger, client), nil
}

// NewPrinterWithDependencies allows injecting the spooler client (used in tests).
func NewPrinterWithDependencies(cfg *config.Config, logger *slog.Logger, client *printersvc.Client) *Printer {
	return &Printer{cfg: cfg, logger: componentLogger(logger, "print"), client: client}
}

// SetLogger installs the run-scoped logger.
func (p *Printer) SetLogger(logger *slog.Logger) {
	if logger != nil {
		p.logger = logger
	}
}

func (p *Printer) Prepare(ctx context.Context, sess *session.Session) error {
	dir := p.cfg.SessionDir(sess.Name)
	files, err := chartPageFiles(dir, sess.Name)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return services.Wrap(services.ErrValidation, "print", "locate chart pages",
			"no rendered chart pages found; run the chart stage first", nil)
	}
	p.files = files
	return nil
}

func (p *Printer) Execute(ctx context.Context, sess *session.Session) error {
	logger := logging.WithContext(ctx, p.logger)
	dir := p.cfg.SessionDir(sess.Name)

	logger.Info("submitting chart pages",
		logging.Int("pages", len(p.files)),
		logging.String("queue", p.cfg.Printer.Queue),
	)
	if err := p.client.Print(ctx, dir, p.files, toolOutput(logger, "print")); err != nil {
		return err
	}
	logger.Info("chart pages queued for printing")
	return nil
}

// chartPageFiles returns the rendered chart page rasters for a session in
// page order. Scanned pages share the extension and are skipped by the
// session scan naming convention.
func chartPageFiles(dir, name string) ([]string, error) {
	var files []string
	for _, pattern := range []string{name + "*.tif", name + "*.ps"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		for _, match := range matches {
			if strings.Contains(filepath.Base(match), "_scan_") {
				continue
			}
			files = append(files, match)
		}
	}
	sort.Strings(files)
	return files, nil
}
