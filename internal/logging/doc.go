// Package logging configures the slog loggers used across the pipeline.
// It provides a console handler for operator-facing output, a JSON handler
// for file logs, attribute helpers, and context-derived field extraction.
package logging
