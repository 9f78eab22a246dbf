package display

import (
	"image"

	"github.com/genricoloni/artshow/internal/domain"
	"github.com/kbinani/screenshot"
	"go.uber.org/zap"
)

const (
	fallbackWidth  = 1920
	fallbackHeight = 1080
)

// NewScreenResolution detects the primary screen resolution at startup.
// The first slide is prepared for this size before the window exists.
func NewScreenResolution(logger *zap.Logger) *domain.ScreenResolution {
	return detect(logger, screenshot.NumActiveDisplays, screenshot.GetDisplayBounds)
}

// detect picks the display whose bounds contain the origin, or the first one
func detect(logger *zap.Logger, count func() int, bounds func(int) image.Rectangle) *domain.ScreenResolution {
	n := count()
	if n <= 0 {
		logger.Warn("No active displays detected, falling back to default resolution",
			zap.Int("width", fallbackWidth),
			zap.Int("height", fallbackHeight))
		return &domain.ScreenResolution{Width: fallbackWidth, Height: fallbackHeight}
	}

	primary := bounds(0)
	for i := 1; i < n; i++ {
		if b := bounds(i); image.Pt(0, 0).In(b) {
			primary = b
			break
		}
	}

	res := &domain.ScreenResolution{Width: primary.Dx(), Height: primary.Dy()}
	if !res.Valid() {
		logger.Warn("Primary display reports an empty size, falling back to default resolution",
			zap.Int("width", fallbackWidth),
			zap.Int("height", fallbackHeight))
		return &domain.ScreenResolution{Width: fallbackWidth, Height: fallbackHeight}
	}

	logger.Info("Screen resolution detected",
		zap.Int("displays", n),
		zap.Int("width", res.Width),
		zap.Int("height", res.Height))

	return res
}
