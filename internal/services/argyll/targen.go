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

// Targen generates the patch values for a test chart.
type Targen struct {
	binary string
	exec   toolexec.Executor
}

// NewTargen constructs a targen client.
func NewTargen(binary string, opts ...Option) (*Targen, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("targen binary required")
	}
	c := &Targen{binary: binary, exec: toolexec.CommandExecutor{}}
	applyOptions(&c.exec, nil, opts)
	return c, nil
}

// Generate writes <name>.ti1 into dir with the requested patch count and
// combined ink limit.
func (c *Targen) Generate(ctx context.Context, dir, name string, patches int, inkLimit float64, onLine func(string)) (string, error) {
	args := []string{
		"-v",
		"-d2",
		fmt.Sprintf("-f%d", patches),
		fmt.Sprintf("-l%g", inkLimit),
		name,
	}
	if err := c.exec.Run(ctx, dir, c.binary, args, onLine); err != nil {
		return "", toolError("targen", err)
	}
	out := session.TargetPath(dir, name)
	if _, err := os.Stat(out); err != nil {
		return "", fmt.Errorf("targen produced no patch file at %s: %w", out, err)
	}
	return out, nil
}
