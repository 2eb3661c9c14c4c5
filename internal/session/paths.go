package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// File naming conventions. Every artifact of a session lives in the session
// directory under a name derived from the session name, so a directory
// listing reads as a run history.

// TargetPath is the patch value file written by the target generator.
func TargetPath(dir, name string) string {
	return filepath.Join(dir, name+".ti1")
}

// ChartPath is the chart description written by the layout tool.
func ChartPath(dir, name string) string {
	return filepath.Join(dir, name+".ti2")
}

// MeasurePath is the accumulated chart measurement data.
func MeasurePath(dir, name string) string {
	return filepath.Join(dir, name+".ti3")
}

// ScanFileName is the session-relative name for one scanned page. Page
// indexes are 1-based and zero padded to two digits.
func ScanFileName(name string, page int, ext string) string {
	return fmt.Sprintf("%s_scan_%02d.%s", name, page, strings.TrimPrefix(ext, "."))
}

// ScanPath is the full path for one scanned page.
func ScanPath(dir, name string, page int, ext string) string {
	return filepath.Join(dir, ScanFileName(name, page, ext))
}

// PrepProfilePath is the intermediate profile used for curve inspection.
func PrepProfilePath(dir, name string) string {
	return filepath.Join(dir, name+"_prep.icc")
}

// ProfilePath is the finished ICC profile.
func ProfilePath(dir, name string) string {
	return filepath.Join(dir, name+".icc")
}

// CurveParamsPath is the persisted black-generation curve parameter file.
func CurveParamsPath(dir, name string) string {
	return filepath.Join(dir, name+".kparams")
}

// ErrNoCurveParams indicates curve tuning has not been run for the session.
var ErrNoCurveParams = errors.New("no curve parameters saved")

// WriteCurveParams persists the curve parameter string verbatim, replacing
// any previous value. The file holds a single line plus trailing newline.
func WriteCurveParams(path, params string) error {
	if strings.TrimSpace(params) == "" {
		return errors.New("curve parameters required")
	}
	if err := os.WriteFile(path, []byte(params+"\n"), 0o644); err != nil {
		return fmt.Errorf("write curve parameters: %w", err)
	}
	return nil
}

// ReadCurveParams reads back the persisted parameter string. A missing file
// means tuning never ran, which callers treat as fatal before invoking the
// profiler.
func ReadCurveParams(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNoCurveParams, path)
		}
		return "", fmt.Errorf("read curve parameters: %w", err)
	}
	value := strings.TrimSuffix(string(data), "\n")
	value = strings.TrimSuffix(value, "\r")
	return value, nil
}

// ValidateName restricts session names to filesystem- and shell-safe
// characters, since the name is spliced into every artifact path.
func ValidateName(name string) error {
	if name == "" {
		return errors.New("session name required")
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return fmt.Errorf("session name %q may only contain letters, digits, hyphen, underscore", name)
		}
	}
	return nil
}
