package quant

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/sambeau/quant/pkg/quant/evaluator"
)

// Logger is an alias for evaluator.Logger for convenience
type Logger = evaluator.Logger

// writerLogger writes to an io.Writer
type writerLogger struct {
	w io.Writer
}

func (l *writerLogger) Log(values ...any) {
	fmt.Fprint(l.w, formatLogValues(values...))
}

func (l *writerLogger) LogLine(values ...any) {
	fmt.Fprintln(l.w, formatLogValues(values...))
}

// WriterLogger returns a logger that writes to an io.Writer
func WriterLogger(w io.Writer) Logger {
	return &writerLogger{w: w}
}

// Transcript records the messages of a macro run, one entry per LogLine,
// for rendering after the run (quant run --html).
type Transcript struct {
	mu      sync.Mutex
	entries []string
	pending string
}

// NewTranscript starts an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{}
}

// Log adds to the entry in progress.
func (t *Transcript) Log(values ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending += formatLogValues(values...)
}

func (t *Transcript) LogLine(values ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append(t.entries, t.pending+formatLogValues(values...))
	t.pending = ""
}

// Entries returns the finished entries; an entry still in progress is
// left out.
func (t *Transcript) Entries() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.entries...)
}

type nullLogger struct{}

func (nullLogger) Log(values ...any)     {}
func (nullLogger) LogLine(values ...any) {}

// NullLogger returns a logger that discards all output
func NullLogger() Logger {
	return nullLogger{}
}

// LeveledLogger drops output below its level. Levels are "debug", "info",
// "warn" and "error"; the CLI sends pipeline traces at debug and macro
// output at info.
type LeveledLogger struct {
	Logger
	level int
}

var levels = map[string]int{"debug": 0, "info": 1, "warn": 2, "error": 3}

// ParseLevel validates a level name.
func ParseLevel(name string) (int, error) {
	if name == "" {
		return levels["info"], nil
	}
	lvl, ok := levels[strings.ToLower(name)]
	if !ok {
		return 0, fmt.Errorf("unknown log level %q (want debug, info, warn or error)", name)
	}
	return lvl, nil
}

// NewLeveledLogger wraps l, keeping messages at or above level.
func NewLeveledLogger(l Logger, level string) (*LeveledLogger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return &LeveledLogger{Logger: l, level: lvl}, nil
}

// Enabled reports whether messages at level are kept.
func (l *LeveledLogger) Enabled(level string) bool {
	lvl, ok := levels[level]
	return ok && lvl >= l.level
}

// At returns the underlying logger if level is enabled, else NullLogger.
func (l *LeveledLogger) At(level string) Logger {
	if l.Enabled(level) {
		return l.Logger
	}
	return NullLogger()
}

// formatLogValues joins values with spaces
func formatLogValues(values ...any) string {
	if len(values) == 0 {
		return ""
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, " ")
}
