package ports

import (
	"image"
	"image/color"
)

// RGB is one palette entry as stored in a GIF color table.
type RGB struct {
	R uint8
	G uint8
	B uint8
}

// FrameRecord is one fully resolved animation frame, ready for
// still-image encoding. Exactly one of the two pixel representations
// applies, selected by Truecolor.
type FrameRecord struct {
	// Width and Height are the pixel grid dimensions of this frame.
	// Frames of the same animation may differ in size.
	Width  int
	Height int

	// Truecolor selects the pixel representation: 4 bytes per pixel
	// (R, G, B, A) when true, 1 palette index byte per pixel when false.
	// Rows are contiguous with no padding either way.
	Truecolor bool

	// Pixels holds the row-major pixel data described above.
	Pixels []byte

	// ColorTable is the palette for indexed frames, at most 256 entries.
	// Nil for truecolor frames.
	ColorTable []RGB

	// BitsPerPixel is the minimum bit width needed to address
	// ColorTable (a 6-entry table needs 3 bits). Indexed frames only;
	// not necessarily a power of two.
	BitsPerPixel int

	// TransparentIndex is the palette index of the fully transparent
	// color, or -1 when the frame has none. Indexed frames only.
	TransparentIndex int

	// DelayCS is the display duration in centiseconds. Reported
	// alongside the encoded file, never embedded in it.
	DelayCS int

	// LocalPalette records whether the frame carried its own color
	// table in the container. Informational only.
	LocalPalette bool
}

// Image wraps the record in an image.Image without copying pixel
// data. It returns false when the record is malformed (bad geometry,
// missing palette, or out-of-range indices) and cannot be wrapped
// safely.
func (f *FrameRecord) Image() (image.Image, bool) {
	if f.Width <= 0 || f.Height <= 0 {
		return nil, false
	}
	rect := image.Rect(0, 0, f.Width, f.Height)

	if f.Truecolor {
		if len(f.Pixels) != 4*f.Width*f.Height {
			return nil, false
		}
		return &image.NRGBA{Pix: f.Pixels, Stride: 4 * f.Width, Rect: rect}, true
	}

	if len(f.Pixels) != f.Width*f.Height ||
		len(f.ColorTable) == 0 ||
		f.TransparentIndex >= len(f.ColorTable) {
		return nil, false
	}
	for _, idx := range f.Pixels {
		if int(idx) >= len(f.ColorTable) {
			return nil, false
		}
	}

	pal := make(color.Palette, len(f.ColorTable))
	for i, c := range f.ColorTable {
		a := uint8(0xff)
		if i == f.TransparentIndex {
			a = 0
		}
		pal[i] = color.NRGBA{R: c.R, G: c.G, B: c.B, A: a}
	}
	return &image.Paletted{
		Pix:     f.Pixels,
		Stride:  f.Width,
		Rect:    rect,
		Palette: pal,
	}, true
}

// SplitInfo is the aggregate metadata of a frame sequence, available
// once the sequence is exhausted.
type SplitInfo struct {
	// LoopCount is the container's looping directive. 0 means loop
	// forever. Only meaningful when HasLoopCount is true.
	LoopCount int

	// HasLoopCount reports whether the container specified a looping
	// directive at all.
	HasLoopCount bool

	// HasErrors reports whether any decode anomaly occurred while
	// producing the frames, recoverable or not.
	HasErrors bool
}

// FrameSource yields the frames of an animated container one at a
// time. It is not safe for concurrent pulls.
type FrameSource interface {
	// NextFrame returns the next fully resolved frame, or io.EOF once
	// the container is exhausted. The returned record owns its pixel
	// data and stays valid across later calls.
	NextFrame() (*FrameRecord, error)

	// Info returns the aggregate metadata. It fails unless NextFrame
	// has already reported io.EOF.
	Info() (SplitInfo, error)

	// Close releases the underlying container.
	Close() error
}
