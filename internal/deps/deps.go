// Package deps verifies the external tools and support files the profiling
// pipeline shells out to.
package deps

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Requirement defines an external dependency the pipeline relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Available = false
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Available = false
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// CheckFile reports whether a configured support file exists. An empty path
// for an optional file is reported as available with a note, since the
// feature is simply unused.
func CheckFile(name, path, description string, optional bool) Status {
	status := Status{
		Name:        name,
		Command:     strings.TrimSpace(path),
		Description: strings.TrimSpace(description),
		Optional:    optional,
	}
	if status.Command == "" {
		if optional {
			status.Available = true
			status.Detail = "not configured"
			return status
		}
		status.Detail = "path not configured"
		return status
	}
	info, err := os.Stat(status.Command)
	if err != nil {
		status.Detail = fmt.Sprintf("file %q not found", status.Command)
		return status
	}
	if info.IsDir() {
		status.Detail = fmt.Sprintf("%q is a directory", status.Command)
		return status
	}
	status.Available = true
	return status
}

// Missing filters statuses down to unavailable required dependencies.
func Missing(statuses []Status) []Status {
	var missing []Status
	for _, status := range statuses {
		if !status.Available && !status.Optional {
			missing = append(missing, status)
		}
	}
	return missing
}
