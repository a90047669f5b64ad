//go:build !windows && !linux

package appvol

import (
	"fmt"
	"runtime"

	"go.uber.org/zap"
)

type unsupportedSubsystem struct {
	logger *zap.SugaredLogger
}

// NewSubsystem returns a backend that can never be bound on this platform
func NewSubsystem(logger *zap.SugaredLogger) (Subsystem, error) {
	return &unsupportedSubsystem{logger: logger.Named("unsupported")}, nil
}

func (s *unsupportedSubsystem) Open() (Binding, error) {
	s.logger.Warnw("No audio subsystem backend for this platform", "os", runtime.GOOS)
	return nil, fmt.Errorf("no audio backend for %s", runtime.GOOS)
}
