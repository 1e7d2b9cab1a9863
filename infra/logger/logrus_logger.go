package logger

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sirupsen/logrus"
)

// LogrusLogger implements Logger using sirupsen/logrus.
type LogrusLogger struct {
	entry *logrus.Entry
}

// NewLogrusLogger creates a LogrusLogger writing JSON, or text when APP_ENV
// is dev, to the configured output. The level follows the global level set
// by Configure.
func NewLogrusLogger(component string) Logger {
	l := logrus.New()
	l.SetOutput(currentOutput())
	if strings.ToLower(os.Getenv("APP_ENV")) == "dev" {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: time.RFC3339})
	} else {
		l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	}
	l.SetLevel(logrusLevel(zerolog.GlobalLevel()))
	return &LogrusLogger{entry: l.WithField("component", component)}
}

func logrusLevel(z zerolog.Level) logrus.Level {
	switch z {
	case zerolog.TraceLevel:
		return logrus.TraceLevel
	case zerolog.DebugLevel:
		return logrus.DebugLevel
	case zerolog.WarnLevel:
		return logrus.WarnLevel
	case zerolog.ErrorLevel:
		return logrus.ErrorLevel
	case zerolog.FatalLevel, zerolog.PanicLevel, zerolog.Disabled:
		return logrus.FatalLevel
	default:
		return logrus.InfoLevel
	}
}

func (l *LogrusLogger) Debugf(format string, args ...any) {
	l.entry.Debugf(format, args...)
}

func (l *LogrusLogger) Debugw(msg string, fields map[string]any) {
	l.entry.WithFields(logrus.Fields(fields)).Debug(msg)
}

func (l *LogrusLogger) Infof(format string, args ...any) {
	l.entry.Infof(format, args...)
}

func (l *LogrusLogger) Warnf(format string, args ...any) {
	l.entry.Warnf(format, args...)
}

func (l *LogrusLogger) Errorf(format string, args ...any) {
	l.entry.Errorf(format, args...)
}
