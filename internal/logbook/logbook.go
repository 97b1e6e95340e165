package logbook

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Level tags a journey entry.
type Level string

const (
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// Logbook records the user's journey through the app (screens visited,
// posts shared, media failures) as plain text lines for the log panel.
// A nil *Logbook is valid and records nothing.
type Logbook struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// New returns a journey log at path, creating its directory.
func New(path string) (*Logbook, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("logbook: ensure dir: %w", err)
	}
	return &Logbook{path: path, now: time.Now}, nil
}

// Path is the journey file, or "" for a nil logbook.
func (l *Logbook) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Append writes one entry. Multi-line messages are folded onto one line so
// Tail counts entries.
func (l *Logbook) Append(level Level, message string) {
	if l == nil {
		return
	}
	entry := fmt.Sprintf("%s %-5s %s\n",
		l.now().UTC().Format(time.RFC3339), level, strings.Join(strings.Fields(message), " "))

	l.mu.Lock()
	defer l.mu.Unlock()
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return
	}
	_, _ = f.WriteString(entry)
	_ = f.Close()
}

// Tail returns up to n of the most recent entries, oldest first, and the
// total number of entries in the file.
func (l *Logbook) Tail(n int) ([]string, int) {
	if l == nil {
		return nil, 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	f, err := os.Open(l.path)
	if err != nil {
		return nil, 0
	}
	defer f.Close()

	// Only the last n entries are kept while counting the rest.
	var window []string
	total := 0
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		total++
		if n <= 0 {
			continue
		}
		if len(window) == n {
			window = window[1:]
		}
		window = append(window, sc.Text())
	}
	if len(window) == 0 {
		return nil, total
	}
	return window, total
}

// Message strips the timestamp and level from a Tail line.
func Message(line string) string {
	fields := strings.SplitN(line, " ", 3)
	if len(fields) < 3 {
		return line
	}
	return strings.TrimSpace(fields[2])
}

func (l *Logbook) Info(format string, args ...any) {
	l.Append(LevelInfo, fmt.Sprintf(format, args...))
}

func (l *Logbook) Warn(format string, args ...any) {
	l.Append(LevelWarn, fmt.Sprintf(format, args...))
}

func (l *Logbook) Error(format string, args ...any) {
	l.Append(LevelError, fmt.Sprintf(format, args...))
}
