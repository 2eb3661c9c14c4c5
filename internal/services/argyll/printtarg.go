package argyll

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"gamut/internal/session"
	"gamut/internal/toolexec"
)

// Printtarg lays out generated patches onto printable chart pages.
type Printtarg struct {
	binary string
	exec   toolexec.Executor
}

// NewPrinttarg constructs a printtarg client.
func NewPrinttarg(binary string, opts ...Option) (*Printtarg, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("printtarg binary required")
	}
	c := &Printtarg{binary: binary, exec: toolexec.CommandExecutor{}}
	applyOptions(&c.exec, nil, opts)
	return c, nil
}

// Layout consumes <name>.ti1 in dir and writes the chart description
// <name>.ti2 plus one raster page image per physical sheet.
func (c *Printtarg) Layout(ctx context.Context, dir, name, pageSize string, dpi int, onLine func(string)) (string, error) {
	args := []string{
		"-v",
		"-iSS",
		"-h",
		"-T", fmt.Sprintf("%d", dpi),
		"-p", pageSize,
		name,
	}
	if err := c.exec.Run(ctx, dir, c.binary, args, onLine); err != nil {
		return "", toolError("printtarg", err)
	}
	out := session.ChartPath(dir, name)
	if _, err := os.Stat(out); err != nil {
		return "", fmt.Errorf("printtarg produced no chart description at %s: %w", out, err)
	}
	return out, nil
}
