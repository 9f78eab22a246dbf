package processor

import (
	"math"

	"github.com/genricoloni/artshow/internal/domain"
)

// Scaler computes the fit placement of the foreground
type Scaler struct {
	maxUpscale float64
}

// NewScaler creates a scaler honouring the configured upscale clamp
func NewScaler(cfg domain.Config) *Scaler {
	return &Scaler{maxUpscale: cfg.GetMaxUpscale()}
}

// Place returns the largest rectangle with the source aspect ratio that fits inside
// dstW x dstH, centered on both axes. Degenerate input yields the zero Rect.
func (s *Scaler) Place(srcW, srcH, dstW, dstH int) domain.Rect {
	if srcW <= 0 || srcH <= 0 || dstW <= 0 || dstH <= 0 {
		return domain.Rect{}
	}

	scale := math.Min(float64(dstW)/float64(srcW), float64(dstH)/float64(srcH))
	if s.maxUpscale > 0 && scale > s.maxUpscale {
		scale = s.maxUpscale
	}

	w := float64(srcW) * scale
	h := float64(srcH) * scale

	return domain.Rect{
		X:      (float64(dstW) - w) / 2,
		Y:      (float64(dstH) - h) / 2,
		Width:  w,
		Height: h,
	}
}
