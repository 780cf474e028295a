// Package gifsource implements the frame source over an animated GIF
// container. Frames are handed out fully resolved: sub-rectangle
// frames are composited over the running canvas according to their
// disposal method, so the consumer never sees partial updates.
package gifsource

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"io"
	"os"

	"golang.org/x/image/draw"

	"github.com/elvisoliveira/gifsplit/pkg/ports"
)

var (
	// ErrNotDrained is returned by Info before the frame sequence has
	// been read to the end.
	ErrNotDrained = errors.New("gifsource: frame sequence not drained")
)

// Source implements ports.FrameSource for GIF input. It is not safe
// for concurrent pulls.
type Source struct {
	g      *gif.GIF
	global color.Palette
	logger ports.Logger
	closer io.Closer

	index     int
	canvas    *image.NRGBA
	snapshot  *image.NRGBA
	done      bool
	hasErrors bool
}

// Open opens the GIF at path, or standard input when path is "-".
func Open(path string, logger ports.Logger) (*Source, error) {
	if path == "-" {
		return New(os.Stdin, logger)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	src, err := New(f, logger)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	src.closer = f
	return src, nil
}

// New creates a Source reading a GIF container from r.
func New(r io.Reader, logger ports.Logger) (*Source, error) {
	g, err := gif.DecodeAll(r)
	if err != nil {
		return nil, fmt.Errorf("decode gif: %w", err)
	}
	if len(g.Image) == 0 {
		return nil, errors.New("gifsource: container has no frames")
	}

	bounds := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if bounds.Empty() {
		// Some encoders omit the logical screen size; fall back to
		// the union of the frame bounds.
		for _, frame := range g.Image {
			bounds = bounds.Union(frame.Bounds())
		}
	}

	var global color.Palette
	if p, ok := g.Config.ColorModel.(color.Palette); ok {
		global = p
	}

	return &Source{
		g:      g,
		global: global,
		logger: logger.WithComponent("gifsource"),
		canvas: image.NewNRGBA(bounds),
	}, nil
}

// FrameCount returns the number of frames in the container.
func (s *Source) FrameCount() int {
	return len(s.g.Image)
}

// Bounds returns the logical canvas of the animation.
func (s *Source) Bounds() image.Rectangle {
	return s.canvas.Bounds()
}

// NextFrame returns the next fully resolved frame, or io.EOF once the
// container is exhausted.
func (s *Source) NextFrame() (*ports.FrameRecord, error) {
	for s.index < len(s.g.Image) {
		pm := s.g.Image[s.index]
		index := s.index
		s.index++

		if len(pm.Palette) == 0 {
			s.logger.Warn("Frame %d has an empty palette, skipping", index)
			s.hasErrors = true
			continue
		}

		bounds := pm.Bounds()
		if !bounds.In(s.canvas.Bounds()) {
			s.logger.Warn("Frame %d escapes the canvas, clipping", index)
			s.hasErrors = true
			bounds = bounds.Intersect(s.canvas.Bounds())
		}

		disposal := s.disposal(index)
		if disposal == gif.DisposalPrevious {
			s.snapshot = cloneNRGBA(s.canvas)
		}

		transparent := transparentIndex(pm.Palette)

		// A frame that covers the whole canvas and either replaces it
		// outright or opens the animation can keep its palette
		// representation. Anything else shows prior canvas state
		// through and must be flattened to truecolor.
		indexed := bounds == s.canvas.Bounds() && bounds == pm.Bounds() &&
			(transparent < 0 || index == 0)

		op := draw.Over
		if indexed && transparent < 0 {
			op = draw.Src
		}
		draw.Draw(s.canvas, bounds, pm, bounds.Min, op)

		var rec *ports.FrameRecord
		if indexed {
			rec = s.indexedRecord(pm, transparent)
		} else {
			rec = s.truecolorRecord()
		}
		rec.DelayCS = s.delay(index)

		switch disposal {
		case gif.DisposalBackground:
			// The GIF background color is rarely honored by real
			// viewers; restore to transparent like they do.
			draw.Draw(s.canvas, bounds, image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			s.canvas = s.snapshot
			s.snapshot = nil
		}

		s.logger.Debug("Read frame %d (truecolor=%t, local=%t, delay=%d)",
			index, rec.Truecolor, rec.LocalPalette, rec.DelayCS)
		return rec, nil
	}

	s.done = true
	return nil, io.EOF
}

// Info returns the aggregate metadata once the sequence is exhausted.
func (s *Source) Info() (ports.SplitInfo, error) {
	if !s.done {
		return ports.SplitInfo{}, ErrNotDrained
	}
	info := ports.SplitInfo{HasErrors: s.hasErrors}
	// image/gif reports -1 when the container carried no looping
	// directive at all.
	if s.g.LoopCount >= 0 {
		info.LoopCount = s.g.LoopCount
		info.HasLoopCount = true
	}
	return info, nil
}

// Close releases the underlying file, if the Source opened one.
func (s *Source) Close() error {
	if s.closer == nil {
		return nil
	}
	err := s.closer.Close()
	s.closer = nil
	return err
}

// indexedRecord builds a palette record straight from the decoded
// frame, preserving index values and palette order.
func (s *Source) indexedRecord(pm *image.Paletted, transparent int) *ports.FrameRecord {
	bounds := pm.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	pixels := make([]byte, w*h)
	for row := 0; row < h; row++ {
		src := pm.Pix[row*pm.Stride : row*pm.Stride+w]
		copy(pixels[row*w:], src)
	}

	table := make([]ports.RGB, len(pm.Palette))
	for i, entry := range pm.Palette {
		c := color.NRGBAModel.Convert(entry).(color.NRGBA)
		table[i] = ports.RGB{R: c.R, G: c.G, B: c.B}
	}

	return &ports.FrameRecord{
		Width:            w,
		Height:           h,
		Pixels:           pixels,
		ColorTable:       table,
		BitsPerPixel:     minBits(len(table)),
		TransparentIndex: transparent,
		LocalPalette:     !s.isGlobalPalette(pm.Palette),
	}
}

// truecolorRecord snapshots the whole composited canvas as RGBA.
func (s *Source) truecolorRecord() *ports.FrameRecord {
	bounds := s.canvas.Bounds()
	pixels := make([]byte, len(s.canvas.Pix))
	copy(pixels, s.canvas.Pix)

	return &ports.FrameRecord{
		Width:            bounds.Dx(),
		Height:           bounds.Dy(),
		Truecolor:        true,
		Pixels:           pixels,
		TransparentIndex: -1,
	}
}

func (s *Source) delay(i int) int {
	if i < len(s.g.Delay) {
		return s.g.Delay[i]
	}
	return 0
}

func (s *Source) disposal(i int) byte {
	if i < len(s.g.Disposal) {
		return s.g.Disposal[i]
	}
	return gif.DisposalNone
}

// isGlobalPalette reports whether the frame reuses the container's
// global color table. The decoder hands out the same slice in that
// case, so slice identity is the test.
func (s *Source) isGlobalPalette(p color.Palette) bool {
	return len(s.global) > 0 && len(p) > 0 && &s.global[0] == &p[0]
}

// transparentIndex returns the first fully transparent palette entry,
// or -1 when the palette has none.
func transparentIndex(p color.Palette) int {
	for i, entry := range p {
		if _, _, _, a := entry.RGBA(); a == 0 {
			return i
		}
	}
	return -1
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

func cloneNRGBA(img *image.NRGBA) *image.NRGBA {
	clone := image.NewNRGBA(img.Bounds())
	copy(clone.Pix, img.Pix)
	return clone
}

// Ensure Source implements ports.FrameSource
var _ ports.FrameSource = (*Source)(nil)
