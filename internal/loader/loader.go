package loader

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"  // GIF format support (first frame)
	_ "image/jpeg" // JPEG format support
	_ "image/png"  // PNG format support

	"github.com/disintegration/imaging"
	"github.com/genricoloni/artshow/internal/domain"
	"go.uber.org/zap"
	_ "golang.org/x/image/bmp" // BMP format support
)

// FileLoader decodes images from the local filesystem
type FileLoader struct {
	logger *zap.Logger
	maxDim int
}

// NewFileLoader creates a loader that caps the longest side at the configured dimension
func NewFileLoader(logger *zap.Logger, cfg domain.Config) *FileLoader {
	return &FileLoader{
		logger: logger,
		maxDim: cfg.GetMaxImageDimension(),
	}
}

// Load decodes the file at path, honouring EXIF orientation, and returns an NRGBA copy
func (l *FileLoader) Load(ctx context.Context, path string) (*image.NRGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w %s: %v", domain.ErrDecode, path, err)
	}

	// Validate image dimensions to prevent division by zero downstream
	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return nil, fmt.Errorf("%w %s: invalid image dimensions %dx%d", domain.ErrDecode, path, bounds.Dx(), bounds.Dy())
	}

	if l.maxDim > 0 && (bounds.Dx() > l.maxDim || bounds.Dy() > l.maxDim) {
		l.logger.Debug("Downscaling oversized image",
			zap.String("path", path),
			zap.Int("w", bounds.Dx()),
			zap.Int("h", bounds.Dy()),
			zap.Int("max", l.maxDim))
		return imaging.Fit(img, l.maxDim, l.maxDim, imaging.Lanczos), nil
	}

	return imaging.Clone(img), nil
}
