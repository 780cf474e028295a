package pngencoder

import "errors"

var (
	// ErrBadDimensions is returned when a frame has a non-positive
	// width or height.
	ErrBadDimensions = errors.New("pngencoder: non-positive frame dimensions")

	// ErrMissingPalette is returned when an indexed frame carries no
	// color table.
	ErrMissingPalette = errors.New("pngencoder: indexed frame has no color table")

	// ErrPaletteTooLarge is returned when a color table exceeds the
	// 256 entries a palette image can address.
	ErrPaletteTooLarge = errors.New("pngencoder: color table exceeds 256 entries")

	// ErrTransparentIndex is returned when a frame's transparent index
	// points outside its color table.
	ErrTransparentIndex = errors.New("pngencoder: transparent index outside color table")

	// ErrBitDepth is returned when a frame's declared bit count
	// disagrees with its color table size.
	ErrBitDepth = errors.New("pngencoder: bit count does not match color table size")

	// ErrPixelBounds is returned when the pixel buffer length does not
	// match the frame dimensions.
	ErrPixelBounds = errors.New("pngencoder: pixel buffer does not match frame dimensions")
)
