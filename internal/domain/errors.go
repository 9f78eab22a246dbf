package domain

import "errors"

var (
	// ErrDirectory is returned when the input folder is missing, not a directory or unreadable
	ErrDirectory = errors.New("invalid image directory")

	// ErrEmptyPlaylist is returned when the input folder holds no supported images
	ErrEmptyPlaylist = errors.New("no supported images found")

	// ErrDecode marks a single image that could not be decoded
	ErrDecode = errors.New("failed to decode image")

	// ErrMetadataParse marks a malformed sidecar file
	ErrMetadataParse = errors.New("failed to parse metadata")

	// ErrAllFilesFailed is returned when every file in the playlist failed to decode
	ErrAllFilesFailed = errors.New("no displayable images")
)
