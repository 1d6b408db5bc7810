package platform

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/ytget/yt-converter/internal/model"
)

// Executable permission bits checked on Unix
const executableBits = 0111

// ResolveBinary resolves a configured encoder path or bare command name to
// an executable path. Bare names are looked up on PATH. Failures map to the
// subprocess-unavailable error so sessions can refuse work before spawning
// anything.
func ResolveBinary(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: empty binary path", model.ErrSubprocessUnavailable)
	}

	// Bare command name: rely on PATH lookup.
	if !strings.ContainsRune(path, os.PathSeparator) {
		resolved, err := exec.LookPath(path)
		if err != nil {
			return "", fmt.Errorf("%w: %q not found on PATH", model.ErrSubprocessUnavailable, path)
		}
		return resolved, nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrSubprocessUnavailable, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("%w: %q does not exist", model.ErrSubprocessUnavailable, path)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %q is a directory", model.ErrSubprocessUnavailable, path)
	}
	if info.Mode()&executableBits == 0 {
		return "", fmt.Errorf("%w: %q is not executable", model.ErrSubprocessUnavailable, path)
	}

	return abs, nil
}
