// Package prompt implements the operator input loop used by the interactive
// stages. All readers and writers are injected so tests can script the
// dialogue.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// QuitSentinel aborts the surrounding retry loop when entered instead of a
// value.
const QuitSentinel = "quit"

// ErrClosed indicates the input stream ended before a value was read.
var ErrClosed = errors.New("input closed")

// Prompter reads operator responses line by line.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// New constructs a Prompter over the given streams.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Line prints the label and returns the next line of input, trimmed.
func (p *Prompter) Line(label string) (string, error) {
	if label != "" {
		fmt.Fprintf(p.out, "%s: ", label)
	}
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				return trimmed, nil
			}
			return "", ErrClosed
		}
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// IsQuit reports whether the response is the abort sentinel.
func IsQuit(response string) bool {
	return strings.EqualFold(strings.TrimSpace(response), QuitSentinel)
}
