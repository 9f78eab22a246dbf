//go:build !linux

package inhibit

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// ScreenSaverInhibitor stub for non-Linux platforms
type ScreenSaverInhibitor struct {
	logger *zap.Logger
}

// NewScreenSaverInhibitor creates a stub inhibitor
func NewScreenSaverInhibitor(logger *zap.Logger) *ScreenSaverInhibitor {
	return &ScreenSaverInhibitor{logger: logger}
}

// Acquire returns an error indicating inhibition is not supported on this platform
func (s *ScreenSaverInhibitor) Acquire(ctx context.Context) error {
	return fmt.Errorf("%w: only supported on Linux systems", ErrUnavailable)
}

// Release is a no-op on non-Linux platforms
func (s *ScreenSaverInhibitor) Release(ctx context.Context) error {
	return nil
}

// Held always reports false on non-Linux platforms
func (s *ScreenSaverInhibitor) Held() bool {
	return false
}
