// Package session persists the per-session stage ledger in SQLite and owns
// the session-relative file naming conventions shared by every stage.
//
// A session namespaces all artifacts for one profiling run: the chart
// description, the scanned pages, the accumulated measurements, the curve
// parameter file, and the finished profile.
package session
