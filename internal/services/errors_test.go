package services_test

import (
	"errors"
	"strings"
	"testing"

	"gamut/internal/services"
)

func TestWrapIncludesMarkerAndDetail(t *testing.T) {
	underlying := errors.New("exit status 1")
	err := services.Wrap(services.ErrExternalTool, "read", "scanin", "page 2", underlying)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool marker, got %v", err)
	}
	if !errors.Is(err, underlying) {
		t.Fatalf("expected underlying error preserved, got %v", err)
	}
	for _, fragment := range []string{"read", "scanin", "page 2"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Fatalf("expected %q in %q", fragment, err.Error())
		}
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "scan", "", "", nil)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected default marker, got %v", err)
	}
}

func TestIsAbort(t *testing.T) {
	err := services.Wrap(services.ErrAborted, "read", "fiducials", "operator quit", nil)
	if !services.IsAbort(err) {
		t.Fatalf("expected abort classification for %v", err)
	}
	if services.IsAbort(errors.New("plain")) {
		t.Fatal("plain error misclassified as abort")
	}
}
