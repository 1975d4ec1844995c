// Package log is codetyper's logging facade over logrus. It keeps a
// package-level logger for convenience and understands the typed errors from
// internal/errors so failures are logged with their kind and subject.
package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"codetyper/internal/errors"
)

var (
	isDebug atomic.Bool
	logger  = NewLogger()
)

// Field is a single structured key/value pair attached to a log entry
type Field struct {
	Key   string
	Value interface{}
}

// F builds a Field
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

type options struct {
	out      io.Writer
	json     bool
	filePath string
	level    logrus.Level
}

// Option configures a Logger
type Option func(*options)

// WithOutput sends log output to w
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.out = w
	}
}

// WithJSON switches to JSON formatted entries
func WithJSON() Option {
	return func(o *options) {
		o.json = true
	}
}

// WithFile appends log output to the file at path instead of the configured writer
func WithFile(path string) Option {
	return func(o *options) {
		o.filePath = path
	}
}

// WithLevel sets the minimum level ("debug", "info", "warn", "error").
// Unknown names leave the level unchanged.
func WithLevel(level string) Option {
	return func(o *options) {
		if lvl, err := logrus.ParseLevel(level); err == nil {
			o.level = lvl
		}
	}
}

// Logger wraps a logrus entry with the fields accumulated so far
type Logger struct {
	entry *logrus.Entry
	file  *os.File
}

// NewLogger creates a logger writing text entries to stderr unless options say otherwise
func NewLogger(opts ...Option) *Logger {
	o := options{
		out:   os.Stderr,
		level: logrus.DebugLevel,
	}
	for _, opt := range opts {
		opt(&o)
	}

	base := logrus.New()
	base.SetLevel(o.level)

	l := &Logger{}
	out := o.out
	if o.filePath != "" {
		f, err := os.OpenFile(o.filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file %s: %v\n", o.filePath, err)
		} else {
			l.file = f
			out = f
		}
	}
	base.SetOutput(out)

	if o.json {
		base.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime: "timestamp",
				logrus.FieldKeyMsg:  "message",
			},
		})
	} else {
		base.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	l.entry = logrus.NewEntry(base)
	return l
}

// Configure replaces the package-level logger
func Configure(opts ...Option) {
	if logger != nil && logger.file != nil {
		logger.file.Close()
	}
	logger = NewLogger(opts...)
}

// Close releases the log file of the package-level logger, if any
func Close() error {
	if logger.file == nil {
		return nil
	}
	err := logger.file.Close()
	logger.file = nil
	return err
}

// SetDebug toggles Debug/Debugf output for all loggers
func SetDebug(debug bool) {
	isDebug.Store(debug)
}

// With returns a logger carrying the given fields in addition to the current ones
func (l *Logger) With(fields ...Field) *Logger {
	lf := make(logrus.Fields, len(fields))
	for _, f := range fields {
		lf[f.Key] = f.Value
	}
	return &Logger{entry: l.entry.WithFields(lf), file: l.file}
}

// WithContext attaches ctx to subsequent entries
func (l *Logger) WithContext(ctx context.Context) *Logger {
	return &Logger{entry: l.entry.WithContext(ctx), file: l.file}
}

// WithError adds the error and, for typed errors, their kind and subject
func (l *Logger) WithError(err error) *Logger {
	return l.With(errorFields(err)...)
}

func (l *Logger) Info(msg string) { l.entry.Info(msg) }

func (l *Logger) Infof(format string, args ...interface{}) { l.entry.Infof(format, args...) }

func (l *Logger) Warn(msg string) { l.entry.Warn(msg) }

func (l *Logger) Warnf(format string, args ...interface{}) { l.entry.Warnf(format, args...) }

func (l *Logger) Error(msg string) { l.entry.Error(msg) }

func (l *Logger) Errorf(format string, args ...interface{}) { l.entry.Errorf(format, args...) }

// Debug logs only when debug mode is on
func (l *Logger) Debug(msg string) {
	if isDebug.Load() {
		l.entry.Debug(msg)
	}
}

// Debugf logs a formatted message only when debug mode is on
func (l *Logger) Debugf(format string, args ...interface{}) {
	if isDebug.Load() {
		l.entry.Debugf(format, args...)
	}
}

func errorFields(err error) []Field {
	if err == nil {
		return []Field{F("error", "<nil>")}
	}

	fields := []Field{F("error", err.Error())}
	fields = append(fields, F("error_kind", errors.KindOf(err).String()))

	var fileErr *errors.FileError
	if errors.As(err, &fileErr) && fileErr.Path() != "" {
		fields = append(fields, F("path", fileErr.Path()))
	}
	var remoteErr *errors.RemoteError
	if errors.As(err, &remoteErr) {
		if remoteErr.URL() != "" {
			fields = append(fields, F("url", remoteErr.URL()))
		}
		if remoteErr.Status() != 0 {
			fields = append(fields, F("status", remoteErr.Status()))
		}
	}
	var configErr *errors.ConfigError
	if errors.As(err, &configErr) && configErr.Param() != "" {
		fields = append(fields, F("param", configErr.Param()))
	}
	return fields
}

// LogWithFields returns the package-level logger with fields attached
func LogWithFields(fields ...Field) *Logger {
	return logger.With(fields...)
}

// LogWithError returns the package-level logger with error fields attached
func LogWithError(err error) *Logger {
	return logger.WithError(err)
}

// LogError logs err at error level with msg
func LogError(err error, msg string) {
	LogWithError(err).Error(msg)
}

func Info(msg string) { logger.Info(msg) }

func Infof(format string, args ...interface{}) { logger.Infof(format, args...) }

func Warn(msg string) { logger.Warn(msg) }

func Warnf(format string, args ...interface{}) { logger.Warnf(format, args...) }

func Error(msg string) { logger.Error(msg) }

func Errorf(format string, args ...interface{}) { logger.Errorf(format, args...) }

func Debug(msg string) { logger.Debug(msg) }

func Debugf(format string, args ...interface{}) { logger.Debugf(format, args...) }
