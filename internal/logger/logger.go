package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/natefinch/lumberjack"
	"github.com/sirupsen/logrus"

	"github.com/zsiec/tint/internal/config"
	"github.com/zsiec/tint/pkg/version"
)

// Logger defines the interface for structured logging
type Logger interface {
	WithFields(fields map[string]interface{}) Logger
	WithField(key string, value interface{}) Logger
	WithError(err error) Logger
	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})
	Log(level logrus.Level, args ...interface{})
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Fatal(args ...interface{})
}

// Fields is a type alias for logrus.Fields for convenience
type Fields = logrus.Fields

// LogrusAdapter wraps logrus.Entry to implement Logger interface
type LogrusAdapter struct {
	entry *logrus.Entry
}

// NewLogrusAdapter creates a new LogrusAdapter
func NewLogrusAdapter(entry *logrus.Entry) Logger {
	return &LogrusAdapter{entry: entry}
}

// FromLogrus adapts a bare logrus logger.
func FromLogrus(l *logrus.Logger) Logger {
	return NewLogrusAdapter(logrus.NewEntry(l))
}

func (l *LogrusAdapter) WithFields(fields map[string]interface{}) Logger {
	return &LogrusAdapter{entry: l.entry.WithFields(fields)}
}

func (l *LogrusAdapter) WithField(key string, value interface{}) Logger {
	return &LogrusAdapter{entry: l.entry.WithField(key, value)}
}

func (l *LogrusAdapter) WithError(err error) Logger {
	return &LogrusAdapter{entry: l.entry.WithError(err)}
}

func (l *LogrusAdapter) Debug(args ...interface{}) { l.entry.Debug(args...) }
func (l *LogrusAdapter) Info(args ...interface{})  { l.entry.Info(args...) }
func (l *LogrusAdapter) Warn(args ...interface{})  { l.entry.Warn(args...) }
func (l *LogrusAdapter) Error(args ...interface{}) { l.entry.Error(args...) }

func (l *LogrusAdapter) Log(level logrus.Level, args ...interface{}) {
	l.entry.Log(level, args...)
}

func (l *LogrusAdapter) Debugf(format string, args ...interface{}) { l.entry.Debugf(format, args...) }
func (l *LogrusAdapter) Infof(format string, args ...interface{})  { l.entry.Infof(format, args...) }
func (l *LogrusAdapter) Warnf(format string, args ...interface{})  { l.entry.Warnf(format, args...) }
func (l *LogrusAdapter) Errorf(format string, args ...interface{}) { l.entry.Errorf(format, args...) }

// Fatal logs at fatal level and exits through the logger's ExitFunc.
func (l *LogrusAdapter) Fatal(args ...interface{}) {
	l.entry.Log(logrus.FatalLevel, args...)
	l.entry.Logger.Exit(1)
}

// Entry exposes the underlying logrus entry.
func (l *LogrusAdapter) Entry() *logrus.Entry {
	return l.entry
}

// NewLogrus builds the base logrus logger described by cfg.
func NewLogrus(cfg *config.LoggingConfig) (*logrus.Logger, error) {
	l := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	l.SetLevel(level)

	if cfg.Format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	} else {
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05.000",
		})
	}

	out, err := output(cfg)
	if err != nil {
		return nil, err
	}
	l.SetOutput(out)

	return l, nil
}

func output(cfg *config.LoggingConfig) (io.Writer, error) {
	switch cfg.Output {
	case "", "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	}

	// File output with rotation
	if err := os.MkdirAll(filepath.Dir(cfg.Output), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	return &lumberjack.Logger{
		Filename:   cfg.Output,
		MaxSize:    cfg.MaxSize, // megabytes
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge, // days
		Compress:   true,
	}, nil
}

// New creates the service logger. Every entry carries service and version.
func New(cfg *config.LoggingConfig) (Logger, error) {
	l, err := NewLogrus(cfg)
	if err != nil {
		return nil, err
	}
	return NewLogrusAdapter(l.WithFields(logrus.Fields{
		"service": "tint",
		"version": version.GetInfo().Short(),
	})), nil
}

// WithComponent tags log entries with the emitting component.
func WithComponent(l Logger, component string) Logger {
	return l.WithField("component", component)
}

// WithConnection tags log entries with a command connection.
func WithConnection(l Logger, connID, remote string) Logger {
	return l.WithFields(Fields{
		"conn_id":     connID,
		"remote_addr": remote,
	})
}
