package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

var globalLogger *slog.Logger

// InitLogger initializes the global slog logger at the given level with a
// text handler on stderr.
func InitLogger(level string) error {
	return initLogger(level, os.Stderr)
}

// InitLoggerWithFile initializes the global logger writing both to stderr
// and to a rotating log file.
func InitLoggerWithFile(level, file string) error {
	sink := &lumberjack.Logger{
		Filename:   file,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
	return initLogger(level, io.MultiWriter(os.Stderr, sink))
}

func initLogger(level string, w io.Writer) error {
	var slogLevel slog.Level

	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "info":
		slogLevel = slog.LevelInfo
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		return fmt.Errorf("invalid log level: %s", level)
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: slogLevel,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)

	return nil
}

// GetLogger returns the global logger, or slog's default before InitLogger
// has run.
func GetLogger() *slog.Logger {
	if globalLogger == nil {
		return slog.Default()
	}
	return globalLogger
}
