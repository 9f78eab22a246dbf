package config

import (
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestNewAppConfig(t *testing.T) {
	tests := []struct {
		name          string
		env           map[string]string
		overrides     Overrides
		dwell         time.Duration
		maxUpscale    float64
		maxDimension  int
		fullscreen    bool
		filenameTitle bool
	}{
		{
			name:         "Defaults",
			dwell:        defaultDwell,
			maxDimension: defaultMaxImageDimension,
			fullscreen:   true,
		},
		{
			name: "Valid Overrides From Environment",
			env: map[string]string{
				"ARTSHOW_DWELL":               "3s",
				"ARTSHOW_MAX_UPSCALE":         "1",
				"ARTSHOW_MAX_IMAGE_DIMENSION": "1024",
				"ARTSHOW_WINDOWED":            "true",
				"ARTSHOW_FILENAME_TITLE":      "1",
			},
			dwell:         3 * time.Second,
			maxUpscale:    1,
			maxDimension:  1024,
			fullscreen:    false,
			filenameTitle: true,
		},
		{
			name: "Invalid Values Fall Back",
			env: map[string]string{
				"ARTSHOW_DWELL":               "soon",
				"ARTSHOW_MAX_UPSCALE":         "-2",
				"ARTSHOW_MAX_IMAGE_DIMENSION": "0",
				"ARTSHOW_WINDOWED":            "maybe",
			},
			dwell:        defaultDwell,
			maxDimension: defaultMaxImageDimension,
			fullscreen:   true,
		},
		{
			name:         "Windowed Flag Wins",
			overrides:    Overrides{Windowed: true},
			dwell:        defaultDwell,
			maxDimension: defaultMaxImageDimension,
			fullscreen:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{
				"ARTSHOW_DWELL", "ARTSHOW_MAX_UPSCALE", "ARTSHOW_MAX_IMAGE_DIMENSION",
				"ARTSHOW_WINDOWED", "ARTSHOW_FILENAME_TITLE",
			} {
				t.Setenv(key, tt.env[key])
			}

			cfg := NewAppConfig(zap.NewNop(), tt.overrides)

			if cfg.GetDwell() != tt.dwell {
				t.Errorf("dwell: expected %v, got %v", tt.dwell, cfg.GetDwell())
			}
			if cfg.GetMaxUpscale() != tt.maxUpscale {
				t.Errorf("maxUpscale: expected %v, got %v", tt.maxUpscale, cfg.GetMaxUpscale())
			}
			if cfg.GetMaxImageDimension() != tt.maxDimension {
				t.Errorf("maxImageDimension: expected %d, got %d", tt.maxDimension, cfg.GetMaxImageDimension())
			}
			if cfg.IsFullscreen() != tt.fullscreen {
				t.Errorf("fullscreen: expected %v, got %v", tt.fullscreen, cfg.IsFullscreen())
			}
			if cfg.UseFilenameTitle() != tt.filenameTitle {
				t.Errorf("filenameTitle: expected %v, got %v", tt.filenameTitle, cfg.UseFilenameTitle())
			}
		})
	}
}
