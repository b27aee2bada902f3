package bootstrap

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/osse101/CozyCasino_Go/internal/config"
	"github.com/osse101/CozyCasino_Go/internal/logger"
)

// SetupLogger initializes slog writing to a new log file in cfg.LogDir and, when console
// is not nil, to console as well. The terminal client passes nil so log lines never
// interleave with the game. Every record is tagged with frontend.
// Returns the log file handle (caller must close).
func SetupLogger(cfg *config.Config, frontend string, console io.Writer) (*os.File, error) {
	if err := os.MkdirAll(cfg.LogDir, DirPermission); err != nil {
		return nil, fmt.Errorf("%s: %w", LogMsgFailedCreateLogsDir, err)
	}

	cleanupLogs(cfg.LogDir, cfg.ServiceName)

	timestamp := time.Now().Format(LogFileTimestampFormat)
	logFileName := filepath.Join(cfg.LogDir, fmt.Sprintf(LogFileNamePattern, cfg.ServiceName, timestamp))

	logFile, err := os.OpenFile(logFileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, LogFilePermission)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", LogMsgFailedOpenLogFile, err)
	}

	var w io.Writer = logFile
	if console != nil {
		w = io.MultiWriter(console, logFile)
	}

	logCfg := cfg.LoggerConfig().WithFrontend(frontend)
	logger.InitLoggerWithWriter(logCfg, w)

	slog.Info(LogMsgLoggingInitialized, "level", logCfg.LogLevel(), "file", logFileName)
	slog.Info(LogMsgStartingCozyCasino,
		"environment", cfg.Environment,
		"log_level", cfg.LogLevel,
		"log_format", cfg.LogFormat,
		"version", cfg.Version)

	slog.Debug(LogMsgConfigurationLoaded,
		"backend_url", cfg.BackendURL,
		"identity_db", cfg.IdentityDBPath,
		"status_port", cfg.StatusPort,
		"meta_sync_interval", cfg.MetaSyncInterval)

	for _, warning := range cfg.Warnings() {
		slog.Warn(LogMsgConfigWarning, "warning", warning)
	}

	return logFile, nil
}

// cleanupLogs removes the oldest log files of service, keeping LogFileRetentionCount.
// Names embed a sortable timestamp, so lexical order is age order.
func cleanupLogs(logDir, service string) {
	entries, err := os.ReadDir(logDir)
	if err != nil {
		return
	}

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() && strings.HasPrefix(name, service+"_") && strings.HasSuffix(name, LogFileExtension) {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	for i := 0; i < len(names)-LogFileRetentionCount; i++ {
		if err := os.Remove(filepath.Join(logDir, names[i])); err != nil {
			slog.Warn(LogMsgFailedDeleteOldLog, "file", names[i], "error", err)
		}
	}
}
