package platform

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ytget/yt-converter/internal/model"
)

func TestResolveBinary_Empty(t *testing.T) {
	_, err := ResolveBinary("")
	if !errors.Is(err, model.ErrSubprocessUnavailable) {
		t.Errorf("expected ErrSubprocessUnavailable, got %v", err)
	}
}

func TestResolveBinary_MissingOnPath(t *testing.T) {
	_, err := ResolveBinary("definitely-not-a-real-encoder-binary")
	if !errors.Is(err, model.ErrSubprocessUnavailable) {
		t.Errorf("expected ErrSubprocessUnavailable, got %v", err)
	}
}

func TestResolveBinary_MissingFile(t *testing.T) {
	_, err := ResolveBinary(filepath.Join(t.TempDir(), "ffmpeg"))
	if !errors.Is(err, model.ErrSubprocessUnavailable) {
		t.Errorf("expected ErrSubprocessUnavailable, got %v", err)
	}
}

func TestResolveBinary_Directory(t *testing.T) {
	_, err := ResolveBinary(t.TempDir())
	if !errors.Is(err, model.ErrSubprocessUnavailable) {
		t.Errorf("expected ErrSubprocessUnavailable for directory, got %v", err)
	}
}

func TestResolveBinary_NotExecutable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ffmpeg")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0o644); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	_, err := ResolveBinary(path)
	if !errors.Is(err, model.ErrSubprocessUnavailable) {
		t.Errorf("expected ErrSubprocessUnavailable for mode 0644, got %v", err)
	}
}

func TestResolveBinary_Executable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ffmpeg")
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	resolved, err := ResolveBinary(path)
	if err != nil {
		t.Fatalf("ResolveBinary() error: %v", err)
	}
	if !filepath.IsAbs(resolved) {
		t.Errorf("resolved path %q is not absolute", resolved)
	}
}
