package argyll

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gamut/internal/toolexec"
)

// ReadMode selects how scanin treats the session measurement data.
type ReadMode int

const (
	// ReadCreate starts a fresh measurement file for the session. Used for
	// the first physical page.
	ReadCreate ReadMode = iota
	// ReadAccumulate appends this page's patches to the existing session
	// measurement data. Used for every page after the first.
	ReadAccumulate
)

// ReadRequest describes one chart-reading invocation.
type ReadRequest struct {
	// ImagePath is the scanned page image.
	ImagePath string
	// ChartPath is the chart description the page was printed from.
	ChartPath string
	// Name is the session base name the measurement data is keyed by.
	Name string
	Mode ReadMode
	// Fiducials, when set, forces the chart corner coordinates instead of
	// automatic recognition.
	Fiducials *Fiducials
	// CalibrationProfile is the scanner's ICC profile, when available.
	CalibrationProfile string
	// NoiseTolerance relaxes patch consistency checking when positive.
	NoiseTolerance float64
}

// Scanin reads scanned chart pages into measurement data.
type Scanin struct {
	binary string
	exec   toolexec.Executor
}

// NewScanin constructs a scanin client.
func NewScanin(binary string, opts ...Option) (*Scanin, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("scanin binary required")
	}
	c := &Scanin{binary: binary, exec: toolexec.CommandExecutor{}}
	applyOptions(&c.exec, nil, opts)
	return c, nil
}

// Read runs one measurement pass. A nonzero tool exit is returned untouched
// so the caller's retry loop can distinguish recognition failures (retryable
// with forced fiducials) from launch failures.
func (c *Scanin) Read(ctx context.Context, dir string, req ReadRequest, onLine func(string)) error {
	if req.ImagePath == "" || req.ChartPath == "" || req.Name == "" {
		return errors.New("scanin: image, chart, and session name required")
	}

	args := []string{"-v"}
	if req.Mode == ReadAccumulate {
		args = append(args, "-a")
	}
	if req.Fiducials != nil {
		args = append(args, "-F", req.Fiducials.Arg())
	}
	if req.NoiseTolerance > 0 {
		args = append(args, "-r", fmt.Sprintf("%g", req.NoiseTolerance))
	}
	if req.CalibrationProfile != "" {
		args = append(args, "-i", req.CalibrationProfile)
	}
	args = append(args, req.ImagePath, req.ChartPath, req.Name)

	if err := c.exec.Run(ctx, dir, c.binary, args, onLine); err != nil {
		return toolError("scanin", err)
	}
	return nil
}
