package domain

import "image"

// UnknownField is substituted for any metadata value that cannot be resolved
const UnknownField = "Unknown"

// Metadata describes the artwork shown in the overlay panel
type Metadata struct {
	// Title of the artwork
	Title string
	// Artist name
	Artist string
	// Year is kept as text, sidecars may hold "c. 1889" as well as 1889
	Year string
}

// DefaultMetadata returns metadata with every field set to UnknownField
func DefaultMetadata() Metadata {
	return Metadata{
		Title:  UnknownField,
		Artist: UnknownField,
		Year:   UnknownField,
	}
}

// ScreenResolution holds the display dimensions
type ScreenResolution struct {
	Width  int
	Height int
}

// Valid reports whether both dimensions are positive
func (r ScreenResolution) Valid() bool {
	return r.Width > 0 && r.Height > 0
}

// Rect is a placement rectangle in display coordinates
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Slide is one fully prepared displayable unit.
// A Slide is never mutated after the preparer returns it.
type Slide struct {
	// ID correlates log lines and display textures
	ID string
	// Index is the playlist position the slide was prepared from
	Index int
	// Path of the source image
	Path string
	// Foreground is the artwork, downscaled to the configured maximum dimension
	Foreground *image.NRGBA
	// Background fills Target exactly, blurred, darkened and opaque
	Background *image.RGBA
	// Placement centers Foreground inside Target
	Placement Rect
	// Metadata from the sidecar file
	Metadata Metadata
	// Target is the display size the slide was prepared for
	Target ScreenResolution
}
