package main

import (
	"log/slog"
	"os"

	"github.com/wagiedev/codex-proto-go/internal/settings"
)

// openLogger returns a discard logger unless debug logging is on, in which
// case records are appended to cfg.Path as text.
func openLogger(cfg settings.Log) (*slog.Logger, func() error, error) {
	if !cfg.Debug {
		return slog.New(slog.DiscardHandler), func() error { return nil }, nil
	}

	path := cfg.Path
	if path == "" {
		path = settings.DefaultLogPath
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}

	log := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	log.Info("Logger initialized", "path", path, "pid", os.Getpid())

	return log, f.Close, nil
}
