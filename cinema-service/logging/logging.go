// Package logging builds the zap loggers shared by the API server and the
// notification worker.
package logging

import (
	"fmt"

	"go.uber.org/zap"
)

// New returns a JSON production logger at the given level ("debug", "info",
// "warn", "error").
func New(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	cfg.Level = lvl
	return cfg.Build()
}
