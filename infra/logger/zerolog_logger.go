package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ZerologLogger implements Logger using rs/zerolog.
type ZerologLogger struct {
	log zerolog.Logger
}

var (
	mu       sync.RWMutex
	defLevel = "info"
	defDev   bool
)

// Configure sets the level and output format used by loggers created
// afterwards. The LOG_LEVEL and APP_ENV environment variables still win.
func Configure(level string, console bool) {
	mu.Lock()
	defer mu.Unlock()
	defLevel = level
	defDev = console
}

// NewZerologLogger creates a ZerologLogger writing to stderr so the console
// progress on stdout stays readable. APP_ENV=dev switches to the human
// friendly console writer; LOG_LEVEL sets the minimum level (default info).
func NewZerologLogger(component string) Logger {
	mu.RLock()
	level, dev := defLevel, defDev
	mu.RUnlock()
	if env := os.Getenv("LOG_LEVEL"); env != "" {
		level = env
	}
	if strings.ToLower(os.Getenv("APP_ENV")) == "dev" {
		dev = true
	}
	var out io.Writer = os.Stderr
	if dev {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}
	return NewWriterLogger(out, component, level)
}

// NewWriterLogger creates a ZerologLogger writing JSON lines to w.
// An empty or unknown level falls back to info.
func NewWriterLogger(w io.Writer, component, level string) Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	z := zerolog.New(w).Level(lvl).With().Timestamp().Str("component", component).Logger()
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
