package argyll

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"gamut/internal/toolexec"
)

// BuildRequest describes one profile construction run.
type BuildRequest struct {
	// Name is the session base name; colprof reads <Name>.ti3 from dir.
	Name string
	// OutputPath is the profile file to write.
	OutputPath string
	Quality    string
	InkLimit   float64
	// BlackInkLimit caps black coverage when positive.
	BlackInkLimit float64
	// NoiseTolerance is the average measurement deviation when positive.
	NoiseTolerance float64
	// CurveParams is the black-generation curve flag string, passed through
	// verbatim (split on whitespace), e.g. "-kp 0 0 0.86 0.75 0.55".
	CurveParams string
	// LinkProfile enables gamut mapping against the given source profile.
	LinkProfile  string
	Manufacturer string
	Model        string
	Description  string
}

// Colprof builds ICC profiles from measurement data.
type Colprof struct {
	binary string
	exec   toolexec.Executor
}

// NewColprof constructs a colprof client.
func NewColprof(binary string, opts ...Option) (*Colprof, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("colprof binary required")
	}
	c := &Colprof{binary: binary, exec: toolexec.CommandExecutor{}}
	applyOptions(&c.exec, nil, opts)
	return c, nil
}

// Build assembles one colprof invocation from the accumulated parameters and
// verifies the output profile exists afterwards.
func (c *Colprof) Build(ctx context.Context, dir string, req BuildRequest, onLine func(string)) (string, error) {
	if req.Name == "" {
		return "", errors.New("colprof: session name required")
	}
	if req.OutputPath == "" {
		return "", errors.New("colprof: output path required")
	}

	args := []string{"-v"}
	if req.Quality != "" {
		args = append(args, "-q"+req.Quality)
	}
	if req.InkLimit > 0 {
		args = append(args, fmt.Sprintf("-l%g", req.InkLimit))
	}
	if req.BlackInkLimit > 0 {
		args = append(args, fmt.Sprintf("-L%g", req.BlackInkLimit))
	}
	if req.NoiseTolerance > 0 {
		args = append(args, fmt.Sprintf("-r%g", req.NoiseTolerance))
	}
	if params := strings.TrimSpace(req.CurveParams); params != "" {
		args = append(args, strings.Fields(params)...)
	}
	if req.LinkProfile != "" {
		args = append(args, "-S", req.LinkProfile, "-cmt", "-dpp")
	}
	if req.Manufacturer != "" {
		args = append(args, "-A", req.Manufacturer)
	}
	if req.Model != "" {
		args = append(args, "-M", req.Model)
	}
	if req.Description != "" {
		args = append(args, "-D", req.Description)
	}
	args = append(args, "-O", req.OutputPath, req.Name)

	if err := c.exec.Run(ctx, dir, c.binary, args, onLine); err != nil {
		return "", toolError("colprof", err)
	}
	if _, err := os.Stat(req.OutputPath); err != nil {
		return "", fmt.Errorf("colprof produced no profile at %s: %w", req.OutputPath, err)
	}
	return req.OutputPath, nil
}
