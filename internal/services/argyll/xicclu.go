package argyll

import (
	"context"
	"errors"
	"strings"

	"gamut/internal/toolexec"
)

// Xicclu launches profile curve visualizations. The graphs open in their own
// windows and are deliberately fire-and-forget: the operator inspects and
// closes them, the pipeline never waits.
type Xicclu struct {
	binary string
	start  toolexec.Starter
}

// NewXicclu constructs an xicclu client.
func NewXicclu(binary string, opts ...Option) (*Xicclu, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("xicclu binary required")
	}
	c := &Xicclu{binary: binary, start: toolexec.CommandExecutor{}}
	applyOptions(nil, &c.start, opts)
	return c, nil
}

// GraphBlackMin shows the minimum-black rendering of the profile.
func (c *Xicclu) GraphBlackMin(ctx context.Context, dir, profile string) error {
	return c.graph(ctx, dir, profile, []string{"-kz"})
}

// GraphBlackMax shows the maximum-black rendering of the profile.
func (c *Xicclu) GraphBlackMax(ctx context.Context, dir, profile string) error {
	return c.graph(ctx, dir, profile, []string{"-kx"})
}

// GraphCurve shows the profile rendered with the given black-generation
// curve flag string (verbatim, split on whitespace).
func (c *Xicclu) GraphCurve(ctx context.Context, dir, profile, curveParams string) error {
	params := strings.Fields(strings.TrimSpace(curveParams))
	if len(params) == 0 {
		return errors.New("xicclu: curve parameters required")
	}
	return c.graph(ctx, dir, profile, params)
}

func (c *Xicclu) graph(ctx context.Context, dir, profile string, blackArgs []string) error {
	if profile == "" {
		return errors.New("xicclu: profile path required")
	}
	args := []string{"-g", "-fif", "-ir"}
	args = append(args, blackArgs...)
	args = append(args, profile)
	return c.start.Start(ctx, dir, c.binary, args)
}
