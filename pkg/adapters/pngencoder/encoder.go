// Package pngencoder implements the still-image encoder that turns one
// frame record into a complete PNG file.
package pngencoder

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/elvisoliveira/gifsplit/pkg/ports"
)

// Encoder implements ports.StillEncoder, producing non-interlaced PNG
// output: 8-bit RGBA for truecolor frames, palette images with a
// minimized transparency table for indexed frames.
//
// The only state kept between calls is a pixel scratch buffer that
// grows to the largest frame seen, so one Encoder must not be shared
// by concurrent encodes. A failed call leaves the Encoder ready for
// the next frame.
type Encoder struct {
	pix []byte
}

// New creates a new Encoder.
func New() *Encoder {
	return &Encoder{}
}

// Encode produces the complete PNG file for one frame. Structural
// violations of the frame record and faults from the underlying PNG
// writer are both returned as errors; no partial output is ever
// produced because encoding targets memory.
func (e *Encoder) Encode(frame *ports.FrameRecord) ([]byte, error) {
	if frame.Width <= 0 || frame.Height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrBadDimensions, frame.Width, frame.Height)
	}

	var (
		img image.Image
		err error
	)
	if frame.Truecolor {
		img, err = e.truecolorImage(frame)
	} else {
		img, err = e.palettedImage(frame)
	}
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("write png: %w", err)
	}
	return buf.Bytes(), nil
}

// truecolorImage wraps the frame's RGBA bytes in an 8-bit-per-channel
// image. GIF pixel data is not alpha-premultiplied, so the
// non-premultiplied NRGBA type keeps the bytes unchanged end to end.
func (e *Encoder) truecolorImage(frame *ports.FrameRecord) (image.Image, error) {
	stride := 4 * frame.Width
	pix, err := e.copyRows(frame.Pixels, frame.Height, stride)
	if err != nil {
		return nil, err
	}
	return rgbaImage{&image.NRGBA{
		Pix:    pix,
		Stride: stride,
		Rect:   image.Rect(0, 0, frame.Width, frame.Height),
	}}, nil
}

// rgbaImage pins truecolor output to four channels. The PNG writer
// asks Opaque before choosing a color type and drops the alpha
// channel from fully opaque images; answering false keeps the RGBA
// layout no matter the pixel content.
type rgbaImage struct {
	*image.NRGBA
}

func (rgbaImage) Opaque() bool { return false }

// palettedImage wraps the frame's index bytes in a palette image whose
// color table and transparency information reproduce the record
// exactly.
func (e *Encoder) palettedImage(frame *ports.FrameRecord) (image.Image, error) {
	if len(frame.ColorTable) == 0 {
		return nil, ErrMissingPalette
	}
	if len(frame.ColorTable) > 256 {
		return nil, fmt.Errorf("%w: %d", ErrPaletteTooLarge, len(frame.ColorTable))
	}
	if frame.TransparentIndex < -1 || frame.TransparentIndex >= len(frame.ColorTable) {
		return nil, fmt.Errorf("%w: index %d, %d colors",
			ErrTransparentIndex, frame.TransparentIndex, len(frame.ColorTable))
	}
	// BitsPerPixel is defined as the minimum width addressing the
	// table, at least 1, so after rounding it must land on the depth
	// the palette length implies. A mismatch means the record is
	// malformed.
	if frame.BitsPerPixel < 1 || frame.BitsPerPixel > 8 ||
		BitDepth(frame.BitsPerPixel) != BitDepth(minBits(len(frame.ColorTable))) {
		return nil, fmt.Errorf("%w: %d bits for %d colors",
			ErrBitDepth, frame.BitsPerPixel, len(frame.ColorTable))
	}

	stride := frame.Width
	pix, err := e.copyRows(frame.Pixels, frame.Height, stride)
	if err != nil {
		return nil, err
	}
	return &image.Paletted{
		Pix:     pix,
		Stride:  stride,
		Rect:    image.Rect(0, 0, frame.Width, frame.Height),
		Palette: buildPalette(frame.ColorTable, frame.TransparentIndex),
	}, nil
}

// copyRows rebuilds the destination pixel buffer one row at a time
// from row*stride offsets into the source, reusing the encoder's
// scratch buffer across calls. The source length must match the frame
// geometry exactly.
func (e *Encoder) copyRows(src []byte, height, stride int) ([]byte, error) {
	need := height * stride
	if len(src) != need {
		return nil, fmt.Errorf("%w: have %d bytes, need %d", ErrPixelBounds, len(src), need)
	}
	if cap(e.pix) < need {
		e.pix = make([]byte, need)
	}
	dst := e.pix[:need]
	for row := 0; row < height; row++ {
		off := row * stride
		copy(dst[off:off+stride], src[off:off+stride])
	}
	return dst, nil
}

// BitDepth rounds an indexed frame's bit count up to the next power of
// two, the only palette depths PNG supports. The result is always one
// of 1, 2, 4 or 8, and values already a power of two are unchanged.
func BitDepth(bits int) int {
	if bits <= 1 {
		return 1
	}
	if bits >= 8 {
		return 8
	}
	for bits&(bits-1) != 0 {
		bits++
	}
	return bits
}

// minBits returns the minimum bit width needed to represent a color
// table of n entries.
func minBits(n int) int {
	bits := 1
	for 1<<bits < n {
		bits++
	}
	return bits
}

// alphaTable builds the per-palette-entry opacity list for a
// transparent index k: k fully opaque entries followed by one fully
// transparent one, and nothing after. Entries past the end of the
// table default to opaque, which is how PNG readers treat a short
// tRNS chunk. Returns nil when k is -1.
func alphaTable(transparentIndex int) []uint8 {
	if transparentIndex < 0 {
		return nil
	}
	table := make([]uint8, transparentIndex+1)
	for i := range table {
		table[i] = 0xff
	}
	table[transparentIndex] = 0
	return table
}

// buildPalette converts the color table into a PNG palette, copying
// each triple field by field rather than assuming the two types share
// a memory layout. The alpha channel carries the minimized
// transparency table; the PNG writer emits a tRNS chunk that ends at
// the last non-opaque entry, which reproduces the table exactly.
func buildPalette(table []ports.RGB, transparentIndex int) color.Palette {
	alpha := alphaTable(transparentIndex)
	pal := make(color.Palette, len(table))
	for i, c := range table {
		a := uint8(0xff)
		if i < len(alpha) {
			a = alpha[i]
		}
		pal[i] = color.NRGBA{R: c.R, G: c.G, B: c.B, A: a}
	}
	return pal
}

// Ensure Encoder implements ports.StillEncoder
var _ ports.StillEncoder = (*Encoder)(nil)
