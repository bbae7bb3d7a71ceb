// Package logger configures the process-wide slog logger used by both front ends.
package logger

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

var globalLogger *slog.Logger

// Replaced in tests.
var (
	isTerminal           = term.IsTerminal
	stderr     io.Writer = os.Stderr
)

func init() {
	Init(LevelInfo, nil)
}

// Init installs the global logger. Console output is colored only when stderr is a terminal
// and no log file is attached; logFile, when set, receives every record as JSON.
func Init(level slog.Level, logFile io.Writer) {
	opts := &slog.HandlerOptions{Level: level, ReplaceAttr: RedactAttr}

	color := false
	if f, ok := stderr.(*os.File); ok && logFile == nil {
		color = isTerminal(int(f.Fd()))
	}
	var h slog.Handler = newConsoleHandler(stderr, opts, color)
	if logFile != nil {
		h = fanout{h, slog.NewJSONHandler(logFile, opts)}
	}

	globalLogger = slog.New(h)
	slog.SetDefault(globalLogger)
}

func Debug(msg string, args ...any) { globalLogger.Debug(msg, args...) }
func Info(msg string, args ...any)  { globalLogger.Info(msg, args...) }
func Warn(msg string, args ...any)  { globalLogger.Warn(msg, args...) }
func Error(msg string, args ...any) { globalLogger.Error(msg, args...) }
