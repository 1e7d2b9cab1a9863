package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	outMu   sync.RWMutex
	output  io.Writer = os.Stdout
	backend           = "zerolog"
)

// Configure sets the global level and the output of loggers created
// afterwards. A nil writer keeps the current output.
func Configure(level string, w io.Writer) error {
	return ConfigureBackend("", level, w)
}

// ConfigureBackend is Configure with a choice of logging library for the
// loggers created afterwards. An empty name keeps the current backend.
func ConfigureBackend(name, level string, w io.Writer) error {
	switch name {
	case "", "zerolog", "logrus":
	default:
		return fmt.Errorf("unknown log backend %q", name)
	}
	if level != "" {
		lvl, err := zerolog.ParseLevel(strings.ToLower(level))
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", level, err)
		}
		zerolog.SetGlobalLevel(lvl)
	}
	outMu.Lock()
	defer outMu.Unlock()
	if w != nil {
		output = w
	}
	if name != "" {
		backend = name
	}
	return nil
}

func currentBackend() string {
	outMu.RLock()
	defer outMu.RUnlock()
	return backend
}

func currentOutput() io.Writer {
	outMu.RLock()
	defer outMu.RUnlock()
	return output
}

// ZerologLogger implements Logger using rs/zerolog.
type ZerologLogger struct {
	log zerolog.Logger
}

// NewZerologLogger creates a ZerologLogger using the APP_ENV environment variable
// to determine the output format. All logs include the provided component field.
func NewZerologLogger(component string) Logger {
	return newZerolog(component, currentOutput())
}

func newZerolog(component string, w io.Writer) *ZerologLogger {
	if strings.ToLower(os.Getenv("APP_ENV")) == "dev" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	z := zerolog.New(w).With().Timestamp().Str("component", component).Logger()
	return &ZerologLogger{log: z}
}

func (l *ZerologLogger) Debugf(format string, args ...any) {
	l.log.Debug().Msgf(format, args...)
}

func (l *ZerologLogger) Debugw(msg string, fields map[string]any) {
	ev := l.log.Debug()
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	ev.Msg(msg)
}

func (l *ZerologLogger) Infof(format string, args ...any) {
	l.log.Info().Msgf(format, args...)
}

func (l *ZerologLogger) Warnf(format string, args ...any) {
	l.log.Warn().Msgf(format, args...)
}

func (l *ZerologLogger) Errorf(format string, args ...any) {
	l.log.Error().Msgf(format, args...)
}
