// Package logging builds the zap loggers used across techstacks-engine
// and provides helpers to keep credentials out of log output.
package logging

import (
	"fmt"

	"go.uber.org/zap"
)

// New builds a logger appropriate for the given environment.
// "local" gets a human-readable development logger; everything else
// gets the production JSON encoder.
func New(env string) (*zap.Logger, error) {
	var logger *zap.Logger
	var err error

	if env == "local" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	return logger, nil
}
