// Package logging builds the application logger. A TUI owns the
// terminal, so debug logs go to a file under the config dir rather
// than stderr.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// New returns a logger writing to jirapeek.log under dir when debug is
// set, and a no-op logger otherwise. The returned cleanup flushes
// buffered entries and should be deferred by the caller.
func New(debug bool, dir string) (*zap.Logger, func(), error) {
	if !debug {
		return zap.NewNop(), func() {}, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating log dir: %w", err)
	}
	logPath := filepath.Join(dir, "jirapeek.log")

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	cfg.OutputPaths = []string{logPath}
	cfg.ErrorOutputPaths = []string{logPath}

	logger, err := cfg.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("building logger: %w", err)
	}
	cleanup := func() { _ = logger.Sync() }
	return logger, cleanup, nil
}
