package processor

import (
	"context"
	"fmt"

	"github.com/genricoloni/artshow/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SlidePreparer assembles a Slide from an image path
type SlidePreparer struct {
	logger   *zap.Logger
	loader   domain.ImageLoader
	resolver domain.MetadataResolver
	placer   domain.Placer
	renderer domain.BackgroundRenderer
}

// NewSlidePreparer creates a preparer from its collaborators
func NewSlidePreparer(
	logger *zap.Logger,
	loader domain.ImageLoader,
	resolver domain.MetadataResolver,
	placer domain.Placer,
	renderer domain.BackgroundRenderer,
) *SlidePreparer {
	return &SlidePreparer{
		logger:   logger,
		loader:   loader,
		resolver: resolver,
		placer:   placer,
		renderer: renderer,
	}
}

// Prepare decodes, resolves metadata, places and renders one slide.
// Decode failures wrap domain.ErrDecode; metadata problems never fail.
func (p *SlidePreparer) Prepare(ctx context.Context, path string, res domain.ScreenResolution) (*domain.Slide, error) {
	if !res.Valid() {
		return nil, fmt.Errorf("invalid screen resolution: %dx%d", res.Width, res.Height)
	}

	// 1. Decode
	fg, err := p.loader.Load(ctx, path)
	if err != nil {
		return nil, err
	}

	// 2. Metadata
	meta := p.resolver.Resolve(path)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 3. Placement
	bounds := fg.Bounds()
	placement := p.placer.Place(bounds.Dx(), bounds.Dy(), res.Width, res.Height)

	// 4. Background
	bg, err := p.renderer.Render(ctx, fg, res.Width, res.Height)
	if err != nil {
		return nil, fmt.Errorf("failed to render background for %s: %w", path, err)
	}

	slide := &domain.Slide{
		ID:         uuid.NewString(),
		Path:       path,
		Foreground: fg,
		Background: bg,
		Placement:  placement,
		Metadata:   meta,
		Target:     res,
	}

	p.logger.Debug("Slide prepared",
		zap.String("id", slide.ID),
		zap.String("path", path),
		zap.String("title", meta.Title),
		zap.String("artist", meta.Artist))

	return slide, nil
}
