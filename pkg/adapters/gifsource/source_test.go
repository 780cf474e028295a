package gifsource

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"io"
	"testing"

	"github.com/elvisoliveira/gifsplit/pkg/adapters/logger"
	"github.com/elvisoliveira/gifsplit/pkg/ports"
)

var blackWhite = color.Palette{
	color.RGBA{A: 255},
	color.RGBA{R: 255, G: 255, B: 255, A: 255},
}

func encodeGIF(t *testing.T, g *gif.GIF) io.Reader {
	t.Helper()
	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, g); err != nil {
		t.Fatalf("encode test gif: %v", err)
	}
	return &buf
}

func drainFrames(t *testing.T, src *Source) []*ports.FrameRecord {
	t.Helper()
	var frames []*ports.FrameRecord
	for {
		rec, err := src.NextFrame()
		if errors.Is(err, io.EOF) {
			return frames
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		frames = append(frames, rec)
	}
}

func TestSource_IndexedFrames(t *testing.T) {
	first := image.NewPaletted(image.Rect(0, 0, 4, 4), blackWhite)
	second := image.NewPaletted(image.Rect(0, 0, 4, 4), blackWhite)
	for i := range second.Pix {
		second.Pix[i] = 1
	}

	reader := encodeGIF(t, &gif.GIF{
		Image:     []*image.Paletted{first, second},
		Delay:     []int{10, 25},
		LoopCount: 0,
	})

	src, err := New(reader, logger.NewNoop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.FrameCount() != 2 {
		t.Errorf("FrameCount() = %d, want 2", src.FrameCount())
	}

	frames := drainFrames(t, src)
	if len(frames) != 2 {
		t.Fatalf("got %d frames, want 2", len(frames))
	}

	for i, rec := range frames {
		if rec.Truecolor {
			t.Errorf("frame %d: expected indexed record", i)
		}
		if rec.Width != 4 || rec.Height != 4 {
			t.Errorf("frame %d: dimensions %dx%d, want 4x4", i, rec.Width, rec.Height)
		}
		if len(rec.ColorTable) != 2 {
			t.Errorf("frame %d: %d palette entries, want 2", i, len(rec.ColorTable))
		}
		if rec.BitsPerPixel != 1 {
			t.Errorf("frame %d: BitsPerPixel = %d, want 1", i, rec.BitsPerPixel)
		}
		if rec.TransparentIndex != -1 {
			t.Errorf("frame %d: TransparentIndex = %d, want -1", i, rec.TransparentIndex)
		}
	}

	if frames[0].DelayCS != 10 || frames[1].DelayCS != 25 {
		t.Errorf("delays = %d, %d, want 10, 25", frames[0].DelayCS, frames[1].DelayCS)
	}
	if frames[1].Pixels[0] != 1 {
		t.Errorf("second frame index = %d, want 1", frames[1].Pixels[0])
	}

	// Palette order must be preserved exactly.
	want := []ports.RGB{{}, {R: 255, G: 255, B: 255}}
	for i, c := range frames[0].ColorTable {
		if c != want[i] {
			t.Errorf("palette[%d] = %v, want %v", i, c, want[i])
		}
	}
}

func TestSource_CompositesSubRectangles(t *testing.T) {
	first := image.NewPaletted(image.Rect(0, 0, 4, 4), blackWhite)
	patch := image.NewPaletted(image.Rect(1, 1, 3, 3), blackWhite)
	for i := range patch.Pix {
		patch.Pix[i] = 1
	}

	reader := encodeGIF(t, &gif.GIF{
		Image: []*image.Paletted{first, patch},
		Delay: []int{0, 0},
	})

	src, err := New(reader, logger.NewNoop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	frames := drainFrames(t, src)
	if len(frames) != 2 {
		t.Fatalf("got %d frames, want 2", len(frames))
	}

	rec := frames[1]
	if !rec.Truecolor {
		t.Fatal("expected sub-rectangle frame to be flattened to truecolor")
	}
	if rec.Width != 4 || rec.Height != 4 {
		t.Fatalf("dimensions %dx%d, want full 4x4 canvas", rec.Width, rec.Height)
	}

	at := func(x, y int) [4]byte {
		off := (y*rec.Width + x) * 4
		return [4]byte{rec.Pixels[off], rec.Pixels[off+1], rec.Pixels[off+2], rec.Pixels[off+3]}
	}
	if got := at(0, 0); got != [4]byte{0, 0, 0, 255} {
		t.Errorf("pixel (0,0) = %v, want opaque black from first frame", got)
	}
	if got := at(1, 1); got != [4]byte{255, 255, 255, 255} {
		t.Errorf("pixel (1,1) = %v, want white from patch", got)
	}
	if got := at(3, 3); got != [4]byte{0, 0, 0, 255} {
		t.Errorf("pixel (3,3) = %v, want black outside the patch", got)
	}
}

func TestSource_TransparentFirstFrame(t *testing.T) {
	pal := color.Palette{
		color.RGBA{R: 255, A: 255},
		color.RGBA{}, // fully transparent
	}
	pm := image.NewPaletted(image.Rect(0, 0, 2, 2), pal)
	pm.Pix = []byte{0, 1, 1, 0}

	reader := encodeGIF(t, &gif.GIF{
		Image: []*image.Paletted{pm},
		Delay: []int{0},
	})

	src, err := New(reader, logger.NewNoop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	frames := drainFrames(t, src)
	if len(frames) != 1 {
		t.Fatalf("got %d frames, want 1", len(frames))
	}

	rec := frames[0]
	if rec.Truecolor {
		t.Fatal("expected opening frame to stay indexed")
	}
	if rec.TransparentIndex != 1 {
		t.Errorf("TransparentIndex = %d, want 1", rec.TransparentIndex)
	}
	if !bytes.Equal(rec.Pixels, []byte{0, 1, 1, 0}) {
		t.Errorf("indices = %v, want [0 1 1 0]", rec.Pixels)
	}
}

func TestSource_LocalPaletteFlag(t *testing.T) {
	first := image.NewPaletted(image.Rect(0, 0, 2, 2), blackWhite)
	second := image.NewPaletted(image.Rect(0, 0, 2, 2), color.Palette{
		color.RGBA{R: 255, A: 255},
		color.RGBA{G: 255, A: 255},
	})

	reader := encodeGIF(t, &gif.GIF{
		Image: []*image.Paletted{first, second},
		Delay: []int{0, 0},
	})

	src, err := New(reader, logger.NewNoop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	frames := drainFrames(t, src)
	if len(frames) != 2 {
		t.Fatalf("got %d frames, want 2", len(frames))
	}

	if frames[0].LocalPalette {
		t.Error("first frame should use the global color table")
	}
	if !frames[1].LocalPalette {
		t.Error("second frame should carry a local color table")
	}
}

func TestSource_Info(t *testing.T) {
	tests := []struct {
		name      string
		loopCount int
		want      ports.SplitInfo
	}{
		{
			name:      "loop forever",
			loopCount: 0,
			want:      ports.SplitInfo{LoopCount: 0, HasLoopCount: true},
		},
		{
			name:      "finite loop",
			loopCount: 3,
			want:      ports.SplitInfo{LoopCount: 3, HasLoopCount: true},
		},
		{
			name:      "no looping directive",
			loopCount: -1,
			want:      ports.SplitInfo{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pm := image.NewPaletted(image.Rect(0, 0, 2, 2), blackWhite)
			reader := encodeGIF(t, &gif.GIF{
				Image:     []*image.Paletted{pm},
				Delay:     []int{0},
				LoopCount: tt.loopCount,
			})

			src, err := New(reader, logger.NewNoop())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			// Info is not available before the sequence ends.
			if _, err := src.Info(); !errors.Is(err, ErrNotDrained) {
				t.Errorf("Info() before drain: error = %v, want %v", err, ErrNotDrained)
			}

			drainFrames(t, src)

			info, err := src.Info()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if info != tt.want {
				t.Errorf("Info() = %+v, want %+v", info, tt.want)
			}
		})
	}
}

func TestSource_EmptyContainer(t *testing.T) {
	if _, err := New(bytes.NewReader([]byte("GIF89a")), logger.NewNoop()); err == nil {
		t.Error("expected error for truncated container")
	}
}
