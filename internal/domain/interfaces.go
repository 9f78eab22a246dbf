package domain

import (
	"context"
	"image"
	"time"
)

// ImageLoader decodes image files from disk
type ImageLoader interface {
	// Load decodes the file at path into an origin-anchored NRGBA buffer.
	// Errors wrap ErrDecode.
	Load(ctx context.Context, path string) (*image.NRGBA, error)
}

// MetadataResolver supplies artwork metadata for an image path
type MetadataResolver interface {
	// Resolve never fails, unresolvable fields are set to UnknownField
	Resolve(imagePath string) Metadata
}

// BackgroundRenderer produces the blurred, darkened, screen-filling background
type BackgroundRenderer interface {
	// Render returns a buffer of exactly width x height pixels
	Render(ctx context.Context, src image.Image, width, height int) (*image.RGBA, error)
}

// Placer computes foreground placement
type Placer interface {
	// Place fits a srcW x srcH image inside dstW x dstH, centered, keeping aspect ratio
	Place(srcW, srcH, dstW, dstH int) Rect
}

// Preparer turns an image path into a ready-to-display Slide
type Preparer interface {
	// Prepare is the unit of work executed by the preload worker
	Prepare(ctx context.Context, path string, res ScreenResolution) (*Slide, error)
}

// Playlist is an ordered, cyclic list of image paths
type Playlist interface {
	// Len returns the number of entries
	Len() int

	// At returns the path at index i, wrapping cyclically in both directions
	At(i int) string
}

// Config defines the interface for application configuration
type Config interface {
	// GetDwell returns how long a slide stays on screen before auto-advance
	GetDwell() time.Duration

	// GetMaxUpscale returns the foreground upscale clamp, 0 means unlimited
	GetMaxUpscale() float64

	// GetMaxImageDimension returns the longest allowed foreground side
	GetMaxImageDimension() int

	// IsFullscreen reports whether the window starts fullscreen
	IsFullscreen() bool

	// UseFilenameTitle reports whether the file stem replaces a missing sidecar title
	UseFilenameTitle() bool
}
