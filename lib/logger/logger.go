package logger

import (
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

// SetupLogger builds the process logger. An empty logPath writes to stdout,
// which is what container platforms collect; level overrides the env default when set.
func SetupLogger(env, level, logPath string) *slog.Logger {
	var out io.Writer = os.Stdout

	if env != envLocal && logPath != "" {
		logFile, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			log.Fatal("error opening log file: ", err)
		}
		log.Printf("env: %s; log file: %s", env, logPath)
		out = logFile
	}

	var logger *slog.Logger
	switch env {
	case envLocal:
		logger = slog.New(
			slog.NewTextHandler(out, &slog.HandlerOptions{Level: parseLevel(level, slog.LevelDebug)}),
		)
	case envDev:
		logger = slog.New(
			slog.NewTextHandler(out, &slog.HandlerOptions{Level: parseLevel(level, slog.LevelDebug)}),
		)
	case envProd:
		logger = slog.New(
			slog.NewJSONHandler(out, &slog.HandlerOptions{Level: parseLevel(level, slog.LevelInfo)}),
		)
	default:
		log.Fatal("invalid environment: ", env)
	}

	return logger
}

func parseLevel(level string, def slog.Level) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error", "critical":
		return slog.LevelError
	}
	return def
}
