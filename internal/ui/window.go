package ui

import (
	"context"
	"time"

	"github.com/genricoloni/artshow/internal/domain"
	"github.com/genricoloni/artshow/internal/slideshow"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"go.uber.org/zap"
)

// Resizer is told when the drawable surface changes size
type Resizer interface {
	Resize(res domain.ScreenResolution)
}

var (
	nextKeys     = []ebiten.Key{ebiten.KeyArrowRight, ebiten.KeySpace, ebiten.KeyPageDown}
	previousKeys = []ebiten.Key{ebiten.KeyArrowLeft, ebiten.KeyPageUp}
	quitKeys     = []ebiten.Key{ebiten.KeyEscape, ebiten.KeyQ}
)

// textures caches the GPU images of the slide on screen
type textures struct {
	id         string
	background *ebiten.Image
	foreground *ebiten.Image
	caption    *ebiten.Image
}

func (t *textures) deallocate() {
	t.background.Deallocate()
	t.foreground.Deallocate()
	t.caption.Deallocate()
}

// Window is the ebiten game driving the slideshow. Update runs the player,
// Draw composes background, foreground and caption panel.
type Window struct {
	logger     *zap.Logger
	player     *slideshow.Player
	resizer    Resizer
	placer     domain.Placer
	fullscreen bool

	ctx     context.Context
	surface domain.ScreenResolution
	current *textures
}

// NewWindow creates the display window; it opens on Run
func NewWindow(
	logger *zap.Logger,
	player *slideshow.Player,
	resizer Resizer,
	placer domain.Placer,
	cfg domain.Config,
	res *domain.ScreenResolution,
) *Window {
	return &Window{
		logger:     logger,
		player:     player,
		resizer:    resizer,
		placer:     placer,
		fullscreen: cfg.IsFullscreen(),
		ctx:        context.Background(),
		surface:    *res,
	}
}

// Run opens the window and blocks until it is closed, ctx is cancelled, or the
// slideshow fails. It must be called from the main goroutine.
func (w *Window) Run(ctx context.Context) error {
	w.ctx = ctx

	ebiten.SetWindowTitle("artshow")
	ebiten.SetWindowSize(max(1, w.surface.Width/2), max(1, w.surface.Height/2))
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(w.fullscreen)
	if w.fullscreen {
		ebiten.SetCursorMode(ebiten.CursorModeHidden)
	}

	w.logger.Info("Opening window", zap.Bool("fullscreen", w.fullscreen))
	err := ebiten.RunGame(w)

	if w.current != nil {
		w.current.deallocate()
		w.current = nil
	}
	return err
}

// Update handles input and advances the player
func (w *Window) Update() error {
	if w.ctx.Err() != nil || anyJustPressed(quitKeys) {
		w.logger.Info("Closing window")
		return ebiten.Termination
	}

	switch {
	case anyJustPressed(nextKeys):
		w.player.Next()
	case anyJustPressed(previousKeys):
		w.player.Previous()
	case inpututil.IsKeyJustPressed(ebiten.KeyF):
		fs := !ebiten.IsFullscreen()
		ebiten.SetFullscreen(fs)
		if fs {
			ebiten.SetCursorMode(ebiten.CursorModeHidden)
		} else {
			ebiten.SetCursorMode(ebiten.CursorModeVisible)
		}
	}

	return w.player.Tick(time.Now())
}

// Draw renders the current slide stretched to the surface
func (w *Window) Draw(screen *ebiten.Image) {
	slide := w.player.Current()
	if slide == nil {
		return
	}
	tex := w.texturesFor(slide)

	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()

	// Background was prepared for slide.Target; stretch it until the resized one arrives
	op := &ebiten.DrawImageOptions{Filter: ebiten.FilterLinear}
	bw, bh := tex.background.Bounds().Dx(), tex.background.Bounds().Dy()
	op.GeoM.Scale(float64(sw)/float64(bw), float64(sh)/float64(bh))
	screen.DrawImage(tex.background, op)

	fw, fh := tex.foreground.Bounds().Dx(), tex.foreground.Bounds().Dy()
	place := slide.Placement
	if slide.Target != (domain.ScreenResolution{Width: sw, Height: sh}) {
		place = w.placer.Place(fw, fh, sw, sh)
	}
	op = &ebiten.DrawImageOptions{Filter: ebiten.FilterLinear}
	op.GeoM.Scale(place.Width/float64(fw), place.Height/float64(fh))
	op.GeoM.Translate(place.X, place.Y)
	screen.DrawImage(tex.foreground, op)

	cw, ch := tex.caption.Bounds().Dx(), tex.caption.Bounds().Dy()
	o := slideshow.LayoutOverlay(domain.ScreenResolution{Width: sw, Height: sh}, cw, ch)
	vector.DrawFilledRect(screen,
		float32(o.Panel.X), float32(o.Panel.Y), float32(o.Panel.Width), float32(o.Panel.Height),
		slideshow.PanelColor, false)

	op = &ebiten.DrawImageOptions{}
	op.GeoM.Scale(o.Scale, o.Scale)
	op.GeoM.Translate(o.Text.X, o.Text.Y)
	screen.DrawImage(tex.caption, op)
}

// Layout reports the surface size in device pixels and forwards changes to the resizer
func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	scale := 1.0
	if m := ebiten.Monitor(); m != nil {
		scale = m.DeviceScaleFactor()
	}
	res := domain.ScreenResolution{
		Width:  int(float64(outsideWidth) * scale),
		Height: int(float64(outsideHeight) * scale),
	}

	if res.Valid() && res != w.surface {
		w.surface = res
		w.resizer.Resize(res)
	}
	return max(1, res.Width), max(1, res.Height)
}

// texturesFor uploads the slide images once per slide
func (w *Window) texturesFor(slide *domain.Slide) *textures {
	if w.current != nil && w.current.id == slide.ID {
		return w.current
	}
	if w.current != nil {
		w.current.deallocate()
	}

	w.current = &textures{
		id:         slide.ID,
		background: ebiten.NewImageFromImage(slide.Background),
		foreground: ebiten.NewImageFromImage(slide.Foreground),
		caption:    ebiten.NewImageFromImage(slideshow.RenderCaption(slide.Metadata)),
	}
	w.logger.Debug("Uploaded slide textures", zap.String("id", slide.ID))
	return w.current
}

func anyJustPressed(keys []ebiten.Key) bool {
	for _, k := range keys {
		if inpututil.IsKeyJustPressed(k) {
			return true
		}
	}
	return false
}
