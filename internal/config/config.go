package config

import (
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"
)

const (
	defaultDwell             = 10 * time.Second
	defaultMaxUpscale        = 0.0
	defaultMaxImageDimension = 2048
)

// Overrides carries command-line settings that take precedence over the environment
type Overrides struct {
	Windowed bool
}

// AppConfig holds application configuration
type AppConfig struct {
	logger            *zap.Logger
	dwell             time.Duration
	maxUpscale        float64
	maxImageDimension int
	fullscreen        bool
	filenameTitle     bool
}

// NewAppConfig creates a new application configuration instance
func NewAppConfig(logger *zap.Logger, overrides Overrides) *AppConfig {
	cfg := &AppConfig{
		logger:            logger,
		dwell:             defaultDwell,
		maxUpscale:        defaultMaxUpscale,
		maxImageDimension: defaultMaxImageDimension,
		fullscreen:        true,
	}

	if v := os.Getenv("ARTSHOW_DWELL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			logger.Warn("Invalid ARTSHOW_DWELL, using default",
				zap.String("value", v),
				zap.Duration("default", defaultDwell))
		} else {
			cfg.dwell = d
		}
	}

	if v := os.Getenv("ARTSHOW_MAX_UPSCALE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			logger.Warn("Invalid ARTSHOW_MAX_UPSCALE, upscaling is unlimited",
				zap.String("value", v))
		} else {
			cfg.maxUpscale = f
		}
	}

	if v := os.Getenv("ARTSHOW_MAX_IMAGE_DIMENSION"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			logger.Warn("Invalid ARTSHOW_MAX_IMAGE_DIMENSION, using default",
				zap.String("value", v),
				zap.Int("default", defaultMaxImageDimension))
		} else {
			cfg.maxImageDimension = n
		}
	}

	cfg.fullscreen = !(boolEnv(logger, "ARTSHOW_WINDOWED") || overrides.Windowed)
	cfg.filenameTitle = boolEnv(logger, "ARTSHOW_FILENAME_TITLE")

	logger.Info("Configuration loaded",
		zap.Duration("dwell", cfg.dwell),
		zap.Float64("maxUpscale", cfg.maxUpscale),
		zap.Int("maxImageDimension", cfg.maxImageDimension),
		zap.Bool("fullscreen", cfg.fullscreen),
		zap.Bool("filenameTitle", cfg.filenameTitle))

	return cfg
}

func boolEnv(logger *zap.Logger, key string) bool {
	v := os.Getenv(key)
	if v == "" {
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		logger.Warn("Invalid boolean setting, treating as false",
			zap.String("key", key),
			zap.String("value", v))
		return false
	}
	return b
}

// GetDwell returns how long a slide stays on screen before auto-advance
func (c *AppConfig) GetDwell() time.Duration {
	return c.dwell
}

// GetMaxUpscale returns the foreground upscale clamp, 0 means unlimited
func (c *AppConfig) GetMaxUpscale() float64 {
	return c.maxUpscale
}

// GetMaxImageDimension returns the longest allowed foreground side
func (c *AppConfig) GetMaxImageDimension() int {
	return c.maxImageDimension
}

// IsFullscreen reports whether the window starts fullscreen
func (c *AppConfig) IsFullscreen() bool {
	return c.fullscreen
}

// UseFilenameTitle reports whether the file stem replaces a missing sidecar title
func (c *AppConfig) UseFilenameTitle() bool {
	return c.filenameTitle
}
