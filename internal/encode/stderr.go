package encode

import (
	"strings"
	"sync"
)

// stderrTail keeps the last N lines written by the subprocess so failure
// reports carry the encoder's own diagnostics without buffering everything.
type stderrTail struct {
	mu      sync.Mutex
	max     int
	partial strings.Builder
	lines   []string
}

func newStderrTail(max int) *stderrTail {
	return &stderrTail{max: max}
}

// Write implements io.Writer for use as the subprocess stderr.
func (t *stderrTail) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, b := range p {
		if b == '\n' {
			t.appendLine(t.partial.String())
			t.partial.Reset()
			continue
		}
		t.partial.WriteByte(b)
	}
	return len(p), nil
}

func (t *stderrTail) appendLine(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	t.lines = append(t.lines, line)
	if len(t.lines) > t.max {
		t.lines = t.lines[1:]
	}
}

// String joins the captured tail into one diagnostic string.
func (t *stderrTail) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.partial.Len() > 0 {
		t.appendLine(t.partial.String())
		t.partial.Reset()
	}
	return strings.Join(t.lines, "; ")
}
