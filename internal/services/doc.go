// Package services provides shared error classification and context
// annotation helpers used by the pipeline stage implementations and the
// external tool clients.
package services
