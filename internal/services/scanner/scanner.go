// Package scanner drives the scan driver once per physical chart page and
// renames each driver output into the session-scoped naming convention.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gamut/internal/fileutil"
	"gamut/internal/session"
	"gamut/internal/toolexec"
)

// Backend describes one scan driver variant. The vendor driver and the
// generic multi-scan driver differ only in the arguments they pass; output
// discovery and renaming are shared.
type Backend interface {
	Name() string
	Args(page int) []string
}

// GenericBackend invokes the multi-scan driver (scanimage style), asking for
// one page per batch invocation.
type GenericBackend struct {
	Device string
}

func (b GenericBackend) Name() string { return "generic" }

func (b GenericBackend) Args(page int) []string {
	args := []string{"--format=tiff"}
	if b.Device != "" {
		args = append(args, "-d", b.Device)
	}
	args = append(args,
		fmt.Sprintf("--batch=raw_page_%03d.tif", page),
		"--batch-count=1",
	)
	return args
}

// VendorBackend invokes a vendor driver that reads its scan parameters from
// a settings file and picks its own output name.
type VendorBackend struct {
	SettingsFile string
}

func (b VendorBackend) Name() string { return "vendor" }

func (b VendorBackend) Args(page int) []string {
	return []string{"--settings", b.SettingsFile}
}

// Service runs the scan stage for one page at a time.
type Service struct {
	binary  string
	backend Backend
	ext     string
	exec    toolexec.Executor
}

// Option configures the service.
type Option func(*Service)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec toolexec.Executor) Option {
	return func(s *Service) {
		if exec != nil {
			s.exec = exec
		}
	}
}

// New constructs the scan service.
func New(binary string, backend Backend, ext string, opts ...Option) (*Service, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("scan binary required")
	}
	if backend == nil {
		return nil, errors.New("scan backend required")
	}
	svc := &Service{
		binary:  binary,
		backend: backend,
		ext:     strings.TrimPrefix(strings.ToLower(ext), "."),
		exec:    toolexec.CommandExecutor{},
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// ScanPage invokes the driver for one physical page, locates its output, and
// renames it to the session-scoped path. A missing output file is fatal: it
// means scanning failed silently or the driver's output convention changed.
//
// Discovery uses the most-recently-modified file written after the driver
// started. The driver's own output naming is not reliable across vendors,
// so the heuristic stays; it assumes nothing else writes into the session
// directory during a scan, which holds for the single-operator model.
func (s *Service) ScanPage(ctx context.Context, dir, name string, page int, onLine func(string)) (string, error) {
	start := time.Now().Add(-time.Second)

	if err := s.exec.Run(ctx, dir, s.binary, s.backend.Args(page), onLine); err != nil {
		return "", fmt.Errorf("scan driver (%s backend): %w", s.backend.Name(), err)
	}

	target := session.ScanPath(dir, name, page, s.ext)
	sessionPrefix := name + "_scan_"
	entry, err := fileutil.NewestFile(dir, []string{s.ext, "tif", "tiff", "png"}, start, func(candidate string) bool {
		return strings.HasPrefix(candidate, sessionPrefix)
	})
	if err != nil {
		return "", fmt.Errorf("locate scan output: %w", err)
	}
	if entry == nil {
		return "", fmt.Errorf("scan driver produced no output file in %s for page %d", dir, page)
	}

	if entry.Path != target {
		if err := os.Rename(entry.Path, target); err != nil {
			// Vendor drivers may write to a scratch directory on another
			// filesystem, where rename fails with EXDEV.
			if copyErr := fileutil.CopyFile(entry.Path, target); copyErr != nil {
				return "", fmt.Errorf("rename scan output: %w", err)
			}
			if err := os.Remove(entry.Path); err != nil {
				return "", fmt.Errorf("remove original scan output: %w", err)
			}
		}
	}

	if err := verifyImage(target); err != nil {
		return "", fmt.Errorf("verify scan output %s: %w", target, err)
	}
	return target, nil
}
