package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/example/timetable-console/internal/application"
	"github.com/example/timetable-console/internal/backend"
	"github.com/example/timetable-console/internal/cli"
	"github.com/example/timetable-console/internal/config"
	"github.com/example/timetable-console/internal/logging"
	"github.com/example/timetable-console/internal/snapshot"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", cli.FormatError(err))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(os.Stderr, logLevel(cfg.Log.Level))

	client := backend.New(backend.Options{
		BaseURL: cfg.Backend.BaseURL,
		Token:   cfg.Backend.Token,
		Timeout: cfg.RequestTimeout(),
		Logger:  logger,
	})

	store, err := openSnapshot(cfg.Snapshot.Path, logger)
	if err != nil {
		return err
	}
	if store != nil {
		defer func() { _ = store.Close() }()
	}

	services := cli.Services{
		Headers: application.NewHeaderService(client, snapshotWriter(store), logger),
		Editor:  application.NewEditorService(client, logger),
		Lookups: application.NewLookupService(client, logger),
		Profile: application.NewProfileService(client, logger),
	}

	app := cli.NewApp(cfg, services, snapshotReader(store), os.Stdout)
	return app.Execute()
}

// openSnapshot opens the offline cache. A broken cache degrades to running
// without one rather than blocking the console.
func openSnapshot(path string, logger *slog.Logger) (*snapshot.Store, error) {
	if path == "" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		logger.Warn("snapshot directory unavailable", "path", path, "error", err)
		return nil, nil
	}
	store, err := snapshot.Open(path)
	if err != nil {
		logger.Warn("snapshot cache unavailable", "path", path, "error", err)
		return nil, nil
	}
	return store, nil
}

// snapshotWriter avoids handing the services a typed nil interface.
func snapshotWriter(store *snapshot.Store) application.SnapshotWriter {
	if store == nil {
		return nil
	}
	return store
}

func snapshotReader(store *snapshot.Store) cli.SnapshotReader {
	if store == nil {
		return nil
	}
	return store
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
