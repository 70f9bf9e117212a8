package logger

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Level represents the severity of a log message
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

var (
	colorTime   = color.New(color.FgHiBlack)
	colorPrefix = color.New(color.FgCyan)
	colorFields = color.New(color.FgHiBlack)
)

// Logger is the main logger interface
type Logger interface {
	Debug(args ...interface{})
	Debugf(format string, args ...interface{})
	Info(args ...interface{})
	Infof(format string, args ...interface{})
	Warn(args ...interface{})
	Warnf(format string, args ...interface{})
	Error(args ...interface{})
	Errorf(format string, args ...interface{})
	Fatal(args ...interface{})
	Fatalf(format string, args ...interface{})
	WithField(key string, value interface{}) Logger
	WithFields(fields map[string]interface{}) Logger
	WithPrefix(prefix string) Logger
}

// settings is shared by a logger and every child derived from it, so level
// and colour changes apply to loggers created before the change
type settings struct {
	mu       sync.Mutex
	level    Level
	writer   io.Writer
	noColor  bool
	showTime bool
}

type logger struct {
	s      *settings
	fields map[string]interface{}
	prefix string
}

var defaultLogger = New()

// Config holds logger configuration
type Config struct {
	Level    Level
	Writer   io.Writer
	NoColor  bool
	ShowTime bool
}

// New creates a new logger with default configuration
func New() Logger {
	return NewWithConfig(Config{
		Level:    InfoLevel,
		Writer:   os.Stdout,
		ShowTime: true,
	})
}

// NewWithConfig creates a new logger with custom configuration
func NewWithConfig(cfg Config) Logger {
	if cfg.Writer == nil {
		cfg.Writer = os.Stdout
	}
	return &logger{
		s: &settings{
			level:    cfg.Level,
			writer:   cfg.Writer,
			noColor:  cfg.NoColor,
			showTime: cfg.ShowTime,
		},
		fields: make(map[string]interface{}),
	}
}

// Discard returns a logger that drops everything
func Discard() Logger {
	return NewWithConfig(Config{Level: FatalLevel + 1, Writer: io.Discard, NoColor: true})
}

// SetLevel sets the global log level
func SetLevel(level Level) {
	if l, ok := defaultLogger.(*logger); ok {
		l.s.mu.Lock()
		l.s.level = level
		l.s.mu.Unlock()
	}
}

// SetNoColor disables color output
func SetNoColor(noColor bool) {
	if l, ok := defaultLogger.(*logger); ok {
		l.s.mu.Lock()
		l.s.noColor = noColor
		l.s.mu.Unlock()
	}
	color.NoColor = noColor
}

// SetOutput redirects the default logger
func SetOutput(w io.Writer) {
	if l, ok := defaultLogger.(*logger); ok {
		l.s.mu.Lock()
		l.s.writer = w
		l.s.mu.Unlock()
	}
}

// Helper methods for the default logger
func Debug(args ...interface{})                       { defaultLogger.Debug(args...) }
func Debugf(format string, args ...interface{})       { defaultLogger.Debugf(format, args...) }
func Info(args ...interface{})                        { defaultLogger.Info(args...) }
func Infof(format string, args ...interface{})        { defaultLogger.Infof(format, args...) }
func Warn(args ...interface{})                        { defaultLogger.Warn(args...) }
func Warnf(format string, args ...interface{})        { defaultLogger.Warnf(format, args...) }
func Error(args ...interface{})                       { defaultLogger.Error(args...) }
func Errorf(format string, args ...interface{})       { defaultLogger.Errorf(format, args...) }
func Fatal(args ...interface{})                       { defaultLogger.Fatal(args...) }
func Fatalf(format string, args ...interface{})       { defaultLogger.Fatalf(format, args...) }
func WithField(key string, value interface{}) Logger  { return defaultLogger.WithField(key, value) }
func WithFields(fields map[string]interface{}) Logger { return defaultLogger.WithFields(fields) }
func WithPrefix(prefix string) Logger                 { return defaultLogger.WithPrefix(prefix) }

func (l *logger) log(level Level, args ...interface{}) {
	l.s.mu.Lock()

	if level < l.s.level {
		l.s.mu.Unlock()
		return
	}

	paint := func(c *color.Color, s string) string {
		if l.s.noColor {
			return s
		}
		return c.Sprint(s)
	}

	var parts []string

	if l.s.showTime {
		parts = append(parts, paint(colorTime, time.Now().Format("15:04:05")))
	}

	levelStr, levelColor := levelStyle(level)
	parts = append(parts, paint(levelColor, levelStr))

	if l.prefix != "" {
		parts = append(parts, paint(colorPrefix, "["+l.prefix+"]"))
	}

	// Sorted so the same fields always print in the same order
	if len(l.fields) > 0 {
		keys := make([]string, 0, len(l.fields))
		for k := range l.fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		fieldParts := make([]string, len(keys))
		for i, k := range keys {
			fieldParts[i] = fmt.Sprintf("%s=%v", k, l.fields[k])
		}
		parts = append(parts, paint(colorFields, strings.Join(fieldParts, " ")))
	}

	parts = append(parts, fmt.Sprint(args...))

	_, _ = fmt.Fprintln(l.s.writer, strings.Join(parts, " "))

	l.s.mu.Unlock()

	if level == FatalLevel {
		os.Exit(1)
	}
}

func (l *logger) logf(level Level, format string, args ...interface{}) {
	l.log(level, fmt.Sprintf(format, args...))
}

func levelStyle(level Level) (string, *color.Color) {
	switch level {
	case DebugLevel:
		return "DEBUG", color.New(color.FgHiBlack)
	case InfoLevel:
		return "INFO ", color.New(color.FgGreen)
	case WarnLevel:
		return "WARN ", color.New(color.FgYellow)
	case ErrorLevel:
		return "ERROR", color.New(color.FgRed)
	case FatalLevel:
		return "FATAL", color.New(color.FgRed, color.Bold)
	default:
		return "UNKNOWN", color.New(color.Reset)
	}
}

func (l *logger) Debug(args ...interface{})                 { l.log(DebugLevel, args...) }
func (l *logger) Debugf(format string, args ...interface{}) { l.logf(DebugLevel, format, args...) }
func (l *logger) Info(args ...interface{})                  { l.log(InfoLevel, args...) }
func (l *logger) Infof(format string, args ...interface{})  { l.logf(InfoLevel, format, args...) }
func (l *logger) Warn(args ...interface{})                  { l.log(WarnLevel, args...) }
func (l *logger) Warnf(format string, args ...interface{})  { l.logf(WarnLevel, format, args...) }
func (l *logger) Error(args ...interface{})                 { l.log(ErrorLevel, args...) }
func (l *logger) Errorf(format string, args ...interface{}) { l.logf(ErrorLevel, format, args...) }
func (l *logger) Fatal(args ...interface{})                 { l.log(FatalLevel, args...) }
func (l *logger) Fatalf(format string, args ...interface{}) { l.logf(FatalLevel, format, args...) }

// child copies the logger's fields into a new logger sharing its settings
func (l *logger) child(prefix string, extra map[string]interface{}) *logger {
	fields := make(map[string]interface{}, len(l.fields)+len(extra))
	for k, v := range l.fields {
		fields[k] = v
	}
	for k, v := range extra {
		fields[k] = v
	}
	return &logger{s: l.s, fields: fields, prefix: prefix}
}

func (l *logger) WithField(key string, value interface{}) Logger {
	return l.child(l.prefix, map[string]interface{}{key: value})
}

func (l *logger) WithFields(fields map[string]interface{}) Logger {
	return l.child(l.prefix, fields)
}

func (l *logger) WithPrefix(prefix string) Logger {
	return l.child(prefix, nil)
}

// ParseLevel parses a string log level
func ParseLevel(level string) Level {
	switch strings.ToLower(level) {
	case "debug":
		return DebugLevel
	case "info":
		return InfoLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	case "fatal":
		return FatalLevel
	default:
		return InfoLevel
	}
}
