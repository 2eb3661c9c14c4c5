// Package printer sends chart pages to the print spooler.
package printer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gamut/internal/toolexec"
)

// Client wraps the spooler submission command.
type Client struct {
	binary  string
	queue   string
	options []string
	exec    toolexec.Executor
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec toolexec.Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// New constructs a spooler client. An empty queue submits to the system
// default printer.
func New(binary, queue string, options []string, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("print binary required")
	}
	c := &Client{
		binary:  binary,
		queue:   strings.TrimSpace(queue),
		options: append([]string(nil), options...),
		exec:    toolexec.CommandExecutor{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Print submits the given files to the spooler, one job per file.
func (c *Client) Print(ctx context.Context, dir string, files []string, onLine func(string)) error {
	if len(files) == 0 {
		return errors.New("no files to print")
	}
	for _, file := range files {
		args := make([]string, 0, len(c.options)+3)
		if c.queue != "" {
			args = append(args, "-P", c.queue)
		}
		args = append(args, c.options...)
		args = append(args, file)
		if err := c.exec.Run(ctx, dir, c.binary, args, onLine); err != nil {
			return fmt.Errorf("print %s: %w", file, err)
		}
	}
	return nil
}
