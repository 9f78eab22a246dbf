package slideshow

import (
	"time"

	"github.com/genricoloni/artshow/internal/domain"
	"go.uber.org/zap"
)

// Source hands over prepared slides without blocking
type Source interface {
	// Poll returns (nil, nil) while the next slide is still being prepared
	Poll() (*domain.Slide, error)
	// Rewind retargets the look-ahead to the slide before the displayed one
	Rewind()
	// Forward retargets the look-ahead to the slide after the displayed one,
	// a no-op when it already points forward
	Forward()
}

// Player holds the display-loop state: the slide on screen, when it appeared,
// and whether a swap is pending. It is driven from the game loop only.
type Player struct {
	logger  *zap.Logger
	source  Source
	dwell   time.Duration
	current *domain.Slide
	shownAt time.Time
	pending bool
}

// NewPlayer creates a player that advances every dwell interval
func NewPlayer(logger *zap.Logger, source Source, cfg domain.Config) *Player {
	return &Player{
		logger: logger,
		source: source,
		dwell:  cfg.GetDwell(),
	}
}

// Show puts slide on screen and restarts the dwell timer
func (p *Player) Show(slide *domain.Slide, now time.Time) {
	p.current = slide
	p.shownAt = now
	p.pending = false

	p.logger.Info("Showing slide",
		zap.String("id", slide.ID),
		zap.String("path", slide.Path),
		zap.String("title", slide.Metadata.Title))
}

// Current returns the slide on screen, nil before the first Show
func (p *Player) Current() *domain.Slide {
	return p.current
}

// Pending reports whether a swap is waiting for the next slide
func (p *Player) Pending() bool {
	return p.pending
}

// Next requests a swap to the following slide as soon as it is ready. It
// cancels a Previous whose slide has not arrived yet.
func (p *Player) Next() {
	p.source.Forward()
	p.pending = true
}

// Previous requests a swap to the preceding slide
func (p *Player) Previous() {
	p.source.Rewind()
	p.pending = true
}

// Tick advances the player to now. When a swap is pending it polls the source
// once; if nothing is ready the current slide stays and the swap is retried on
// the next tick. A source error is terminal and is returned as is.
func (p *Player) Tick(now time.Time) error {
	if p.current == nil || now.Sub(p.shownAt) >= p.dwell {
		p.pending = true
	}
	if !p.pending {
		return nil
	}

	slide, err := p.source.Poll()
	if err != nil {
		return err
	}
	if slide == nil {
		return nil
	}

	p.Show(slide, now)
	return nil
}
