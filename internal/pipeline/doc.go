// Package pipeline implements the seven profiling stages as stage.Handler
// values: chart generation, printing, scanning, chart reading, black curve
// tuning, final profile assembly, and the profile check. Each handler wraps
// one or two external tool clients and carries the session through its
// status transitions; the interactive stages take an operator prompter so
// tests can script the dialogue.
package pipeline
