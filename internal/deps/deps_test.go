package deps

import (
	"os"
	"path/filepath"
	"testing"

	"gamut/internal/testsupport"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Unset", Command: ""},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}

	if !results[0].Available {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}

	if results[1].Available {
		t.Fatalf("expected missing binary to be unavailable")
	}
	if results[1].Detail == "" {
		t.Fatalf("expected detail message for missing binary")
	}

	if results[2].Available || results[2].Detail != "command not configured" {
		t.Fatalf("unexpected status for unset command: %#v", results[2])
	}
}

func TestRequirementsCoverEveryStageTool(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	reqs := Requirements(cfg)

	want := map[string]bool{
		cfg.Tools.Targen:    false,
		cfg.Tools.Printtarg: false,
		cfg.Tools.Print:     false,
		cfg.Tools.Scan:      false,
		cfg.Tools.Scanin:    false,
		cfg.Tools.Colprof:   false,
		cfg.Tools.Xicclu:    false,
	}
	for _, req := range reqs {
		if _, ok := want[req.Command]; ok {
			want[req.Command] = true
		}
	}
	for command, seen := range want {
		if !seen {
			t.Errorf("tool %q missing from requirements", command)
		}
	}
}

func TestCheckBinariesWithStubbedTools(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	statuses := CheckBinaries(Requirements(cfg))
	for _, status := range statuses {
		if !status.Available {
			t.Errorf("%s unavailable: %s", status.Name, status.Detail)
		}
	}
	if missing := Missing(statuses); len(missing) != 0 {
		t.Fatalf("missing = %#v", missing)
	}
}

func TestCheckFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scanner.icc")
	if err := os.WriteFile(path, []byte("icc"), 0o644); err != nil {
		t.Fatal(err)
	}

	if status := CheckFile("Profile", path, "", false); !status.Available {
		t.Fatalf("existing file unavailable: %#v", status)
	}
	if status := CheckFile("Profile", filepath.Join(dir, "missing.icc"), "", false); status.Available {
		t.Fatalf("missing file reported available")
	}
	if status := CheckFile("Profile", "", "", true); !status.Available {
		t.Fatalf("optional unset file must not block: %#v", status)
	}
	if status := CheckFile("Profile", "", "", false); status.Available {
		t.Fatalf("required unset file reported available")
	}
	if status := CheckFile("Profile", dir, "", false); status.Available {
		t.Fatalf("directory reported available")
	}
}

func TestMissing(t *testing.T) {
	statuses := []Status{
		{Name: "a", Available: true},
		{Name: "b", Available: false, Optional: true},
		{Name: "c", Available: false},
	}
	missing := Missing(statuses)
	if len(missing) != 1 || missing[0].Name != "c" {
		t.Fatalf("missing = %#v", missing)
	}
}
