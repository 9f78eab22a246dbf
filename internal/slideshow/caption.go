package slideshow

import (
	"image"
	"image/color"

	"github.com/genricoloni/artshow/internal/domain"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	captionPadding = 2
	captionLineGap = 4

	overlayMargin  = 30
	overlayPadding = 15

	// Caption pixels are scaled by one step per 540 rows of screen
	overlayScaleStep = 540
)

var (
	headlineColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	yearColor     = color.RGBA{R: 220, G: 220, B: 220, A: 255}

	// PanelColor is the translucent backdrop behind the caption
	PanelColor = color.RGBA{A: 200}
)

// Headline formats the first caption line
func Headline(m domain.Metadata) string {
	return m.Title + " - " + m.Artist
}

// RenderCaption draws the headline and the year on a transparent image just
// large enough for both lines.
func RenderCaption(m domain.Metadata) *image.RGBA {
	face := basicfont.Face7x13
	lines := []struct {
		text string
		col  color.Color
	}{
		{Headline(m), headlineColor},
		{m.Year, yearColor},
	}

	metrics := face.Metrics()
	lineHeight := metrics.Height.Ceil()

	width := 0
	for _, l := range lines {
		width = max(width, font.MeasureString(face, l.text).Ceil())
	}
	height := len(lines)*lineHeight + (len(lines)-1)*captionLineGap

	img := image.NewRGBA(image.Rect(0, 0, width+2*captionPadding, height+2*captionPadding))
	for i, l := range lines {
		d := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(l.col),
			Face: face,
			Dot:  fixed.P(captionPadding, captionPadding+i*(lineHeight+captionLineGap)+metrics.Ascent.Ceil()),
		}
		d.DrawString(l.text)
	}
	return img
}

// Overlay positions the caption panel in the bottom-left corner of the screen
type Overlay struct {
	Panel domain.Rect
	Text  domain.Rect
	Scale float64
}

// LayoutOverlay computes where a caption of capW x capH pixels is drawn on screen
func LayoutOverlay(screen domain.ScreenResolution, capW, capH int) Overlay {
	scale := float64(max(1, screen.Height/overlayScaleStep))
	textW := float64(capW) * scale
	textH := float64(capH) * scale

	panel := domain.Rect{
		X:      overlayMargin - overlayPadding,
		Width:  textW + 2*overlayPadding,
		Height: textH + 2*overlayPadding,
	}
	panel.Y = max(0, float64(screen.Height-overlayMargin)-panel.Height)

	return Overlay{
		Panel: panel,
		Text: domain.Rect{
			X:      panel.X + overlayPadding,
			Y:      panel.Y + overlayPadding,
			Width:  textW,
			Height: textH,
		},
		Scale: scale,
	}
}
