package processor

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/disintegration/imaging"
	"go.uber.org/zap"
)

const (
	defaultBlurPasses = 3
	defaultDimFactor  = 0.6
	defaultWorkScale  = 1.0 / 3.0 // 1920x1080 is blurred at 640x360
	radiusDivisor     = 36        // box radius as a fraction of the shorter canvas side
)

// BlurConfig holds configuration for background rendering
type BlurConfig struct {
	Passes    int     // Number of successive blur passes (>= 2)
	DimFactor float64 // RGB multiplier applied last (0.0-1.0)
	WorkScale float64 // Blur canvas size relative to the target (0.0-1.0]
}

// BlurEngine renders the blurred, darkened, screen-filling background of a slide
type BlurEngine struct {
	logger *zap.Logger
	config BlurConfig
}

// NewBlurEngine creates a blur engine with the default constants
func NewBlurEngine(logger *zap.Logger) *BlurEngine {
	return &BlurEngine{
		logger: logger,
		config: BlurConfig{
			Passes:    defaultBlurPasses,
			DimFactor: defaultDimFactor,
			WorkScale: defaultWorkScale,
		},
	}
}

// Render produces a width x height background from src:
// cover-fill on a reduced canvas, multi-pass blur, upscale, darken.
func (b *BlurEngine) Render(ctx context.Context, src image.Image, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid target dimensions: %dx%d", width, height)
	}
	bounds := src.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return nil, fmt.Errorf("invalid image dimensions: %dx%d", bounds.Dx(), bounds.Dy())
	}

	cw, ch := b.canvasSize(width, height)

	b.logger.Debug("Creating blurred background",
		zap.Int("w", width), zap.Int("h", height),
		zap.Int("canvasW", cw), zap.Int("canvasH", ch))

	canvas := b.Cover(src, cw, ch)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	blurred := b.Smooth(canvas)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	full := blurred
	if cw != width || ch != height {
		full = imaging.Resize(blurred, width, height, imaging.Linear)
	}

	return b.Darken(full), nil
}

// Cover crops src around its center to the w x h aspect ratio, scales the crop
// to fill the canvas and flattens the result over opaque black. No intermediate
// is larger than the source or the canvas.
func (b *BlurEngine) Cover(src image.Image, w, h int) *image.NRGBA {
	sw, sh := src.Bounds().Dx(), src.Bounds().Dy()
	cropW, cropH := coverCrop(sw, sh, w, h)

	filled := imaging.Resize(imaging.CropCenter(src, cropW, cropH), w, h, imaging.Linear)
	return imaging.Overlay(imaging.New(w, h, color.Black), filled, image.Pt(0, 0), 1.0)
}

// coverCrop returns the largest centered region of a sw x sh source with the
// aspect ratio of a w x h canvas, each side at least 1.
func coverCrop(sw, sh, w, h int) (int, int) {
	cropW := min(sw, ceilDiv(sh*w, h))
	cropH := min(sh, ceilDiv(sw*h, w))
	return max(1, cropW), max(1, cropH)
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// Smooth applies the configured number of blur passes, each reading the previous
// pass's output. The radius follows the canvas size.
func (b *BlurEngine) Smooth(img *image.NRGBA) *image.NRGBA {
	bounds := img.Bounds()
	sigma := boxSigma(BlurRadius(bounds.Dx(), bounds.Dy()))

	out := img
	for i := 0; i < b.config.Passes; i++ {
		out = imaging.Blur(out, sigma)
	}
	return out
}

// Darken multiplies every RGB channel by the dim factor, truncating, and forces full opacity
func (b *BlurEngine) Darken(img image.Image) *image.RGBA {
	f := b.config.DimFactor
	return adjust.Apply(img, func(c color.RGBA) color.RGBA {
		return color.RGBA{
			R: uint8(float64(c.R) * f),
			G: uint8(float64(c.G) * f),
			B: uint8(float64(c.B) * f),
			A: 0xff,
		}
	})
}

func (b *BlurEngine) canvasSize(width, height int) (int, int) {
	scale := b.config.WorkScale
	if scale <= 0 || scale > 1 {
		scale = 1
	}
	cw := max(1, int(math.Round(float64(width)*scale)))
	ch := max(1, int(math.Round(float64(height)*scale)))
	return cw, ch
}

// BlurRadius returns the box radius for a w x h canvas, clamped to at least 1
// and at most half the shorter side.
func BlurRadius(w, h int) int {
	short := min(w, h)
	r := short / radiusDivisor
	return max(1, min(r, short/2))
}

// boxSigma converts a box radius to the Gaussian sigma with the same variance
func boxSigma(radius int) float64 {
	r := float64(radius)
	return math.Sqrt(r * (r + 1) / 3)
}
