// Package logging builds the process-wide zap logger and keeps secrets
// out of log output.
package logging

import (
	"fmt"

	"go.uber.org/zap"
)

// New constructs the root logger for the given environment. Components
// derive their own sub-loggers with logger.Named(...).
func New(env string) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if env == "local" || env == "development" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}
