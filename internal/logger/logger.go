// Package logger is a small leveled logger with prefixes, key=value fields
// and context propagation.
package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Level is the severity of a log line.
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a level name to a Level. Unknown names map to INFO.
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return DEBUG
	case "WARN", "WARNING":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}

// sink is shared by a logger and every child derived from it so that
// lines from different children never interleave.
type sink struct {
	mu  sync.Mutex
	out io.Writer
}

// Logger writes leveled lines of the form
//
//	2026-01-02 15:04:05.000 WARN  [prefix] message key=value
type Logger struct {
	sink   *sink
	level  Level
	prefix string
	fields map[string]any
	now    func() time.Time
}

// Option configures a Logger.
type Option func(*Logger)

// WithOutput sets the destination writer.
func WithOutput(w io.Writer) Option {
	return func(l *Logger) { l.sink = &sink{out: w} }
}

// WithLevel sets the minimum level that is written.
func WithLevel(level Level) Option {
	return func(l *Logger) { l.level = level }
}

// WithClock overrides the timestamp source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(l *Logger) { l.now = now }
}

// New creates a Logger writing to stderr at INFO.
func New(opts ...Option) *Logger {
	l := &Logger{
		sink:  &sink{out: os.Stderr},
		level: INFO,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return New(WithOutput(io.Discard), WithLevel(ERROR+1))
}

var (
	defaultMu     sync.RWMutex
	defaultLogger = New()
)

// SetDefault replaces the process-wide fallback logger.
func SetDefault(l *Logger) {
	defaultMu.Lock()
	defaultLogger = l
	defaultMu.Unlock()
}

// Default returns the process-wide fallback logger.
func Default() *Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

func (l *Logger) clone() *Logger {
	fields := make(map[string]any, len(l.fields))
	for k, v := range l.fields {
		fields[k] = v
	}
	return &Logger{sink: l.sink, level: l.level, prefix: l.prefix, fields: fields, now: l.now}
}

// WithPrefix returns a child logger tagged with prefix.
func (l *Logger) WithPrefix(prefix string) *Logger {
	c := l.clone()
	c.prefix = prefix
	return c
}

// WithField returns a child logger carrying key=value on every line.
func (l *Logger) WithField(key string, value any) *Logger {
	c := l.clone()
	c.fields[key] = value
	return c
}

// Enabled reports whether lines at level would be written.
func (l *Logger) Enabled(level Level) bool {
	return level >= l.level
}

func (l *Logger) write(level Level, msg string, args ...any) {
	if !l.Enabled(level) {
		return
	}
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}

	var b strings.Builder
	b.WriteString(l.now().Format("2006-01-02 15:04:05.000"))
	b.WriteByte(' ')
	fmt.Fprintf(&b, "%-5s ", level)
	if l.prefix != "" {
		b.WriteString("[" + l.prefix + "] ")
	}
	b.WriteString(msg)

	if len(l.fields) > 0 {
		keys := make([]string, 0, len(l.fields))
		for k := range l.fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%v", k, l.fields[k])
		}
	}
	b.WriteByte('\n')

	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	io.WriteString(l.sink.out, b.String())
}

func (l *Logger) Debug(msg string, args ...any) { l.write(DEBUG, msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.write(INFO, msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.write(WARN, msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.write(ERROR, msg, args...) }

type ctxKey struct{}

// NewContext attaches l to ctx.
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the logger attached to ctx, or Default.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(ctxKey{}).(*Logger); ok {
		return l
	}
	return Default()
}
