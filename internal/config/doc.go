// Package config loads, normalizes, and validates the TOML configuration
// that parameterizes a profiling project: directories, printer identity,
// scanner backend, chart generation settings, and profiling options.
package config
