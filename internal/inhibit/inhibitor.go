//go:build linux

package inhibit

import (
	"context"
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	screenSaverDest  = "org.freedesktop.ScreenSaver"
	screenSaverIface = "org.freedesktop.ScreenSaver"

	appName       = "artshow"
	inhibitReason = "Slideshow is playing"
)

// Some desktops only export the service at the legacy path
var screenSaverPaths = []dbus.ObjectPath{"/org/freedesktop/ScreenSaver", "/ScreenSaver"}

// ScreenSaverInhibitor keeps the screensaver and display sleep away while the
// slideshow runs, through the freedesktop ScreenSaver D-Bus service.
type ScreenSaverInhibitor struct {
	logger *zap.Logger
	dial   func() (DBusClient, error)

	mu     sync.Mutex
	conn   DBusClient // Interface for testability
	path   dbus.ObjectPath
	cookie uint32
	held   bool
}

// NewScreenSaverInhibitor creates an inhibitor that connects lazily on Acquire
func NewScreenSaverInhibitor(logger *zap.Logger) *ScreenSaverInhibitor {
	return &ScreenSaverInhibitor{
		logger: logger,
		dial: func() (DBusClient, error) {
			c, err := NewStdDBusClient()
			if err != nil {
				return nil, err
			}
			return c, nil
		},
	}
}

// Acquire asks the screensaver service for an inhibit cookie. Calling it while
// a cookie is held is a no-op.
func (s *ScreenSaverInhibitor) Acquire(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.held {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	conn, err := s.dial()
	if err != nil {
		return fmt.Errorf("session bus connection failed: %w", err)
	}

	var errs error
	for _, path := range screenSaverPaths {
		body, err := conn.Call(screenSaverDest, path, screenSaverIface+".Inhibit", appName, inhibitReason)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", path, err))
			continue
		}

		cookie, ok := firstUint32(body)
		if !ok {
			errs = multierr.Append(errs, fmt.Errorf("%s: unexpected reply %v", path, body))
			continue
		}

		s.conn = conn
		s.path = path
		s.cookie = cookie
		s.held = true

		s.logger.Info("Screensaver inhibited",
			zap.String("path", string(path)),
			zap.Uint32("cookie", cookie))
		return nil
	}

	if err := conn.Close(); err != nil {
		s.logger.Warn("Failed to close D-Bus connection", zap.Error(err))
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, errs)
}

// Release returns the cookie and closes the connection
func (s *ScreenSaverInhibitor) Release(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.held {
		return nil
	}
	s.held = false

	var errs error
	if _, err := s.conn.Call(screenSaverDest, s.path, screenSaverIface+".UnInhibit", s.cookie); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("uninhibit: %w", err))
	}
	if err := s.conn.Close(); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("close D-Bus connection: %w", err))
	}
	s.conn = nil

	if errs != nil {
		return errs
	}
	s.logger.Info("Screensaver inhibition released", zap.Uint32("cookie", s.cookie))
	return nil
}

// Held reports whether an inhibit cookie is currently held
func (s *ScreenSaverInhibitor) Held() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.held
}

func firstUint32(body []interface{}) (uint32, bool) {
	if len(body) == 0 {
		return 0, false
	}
	v, ok := body[0].(uint32)
	return v, ok
}
