// Package export implements the per-frame still-image export stage.
package export

import (
	"context"
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"github.com/elvisoliveira/gifsplit/pkg/pipeline"
	"github.com/elvisoliveira/gifsplit/pkg/ports"
)

// Stage encodes one frame record into a complete still-image file.
type Stage struct {
	encoder ports.StillEncoder
	logger  ports.Logger
}

// NewStage creates a new export stage.
func NewStage(encoder ports.StillEncoder, logger ports.Logger) *Stage {
	return &Stage{
		encoder: encoder,
		logger:  logger.WithComponent("export"),
	}
}

// Execute encodes the input frame. Errors always name the frame index
// so the driver can report which frame of the run failed.
func (s *Stage) Execute(ctx context.Context, input pipeline.ExportInput) (pipeline.ExportResult, error) {
	result := pipeline.ExportResult{Index: input.Index}

	select {
	case <-ctx.Done():
		return result, ctx.Err()
	default:
	}

	if input.Frame == nil {
		return result, fmt.Errorf("frame %d: no frame record", input.Index)
	}

	frame := input.Frame
	if input.Scale > 0 && input.Scale != 1 {
		frame = scaleFrame(frame, input.Scale)
	}

	data, err := s.encoder.Encode(frame)
	if err != nil {
		return result, fmt.Errorf("frame %d: %w", input.Index, err)
	}

	s.logger.Debug("Encoded frame %d (%d bytes)", input.Index, len(data))

	result.Data = data
	result.DelayCS = frame.DelayCS
	return result, nil
}

// scaleFrame resamples a frame by the given factor for thumbnail
// output. The result is always truecolor: a resampled palette image is
// no longer index-addressable. Malformed records are passed through
// unchanged so the encoder reports the structural error.
func scaleFrame(frame *ports.FrameRecord, scale float64) *ports.FrameRecord {
	src, ok := frame.Image()
	if !ok {
		return frame
	}

	w := int(float64(frame.Width)*scale + 0.5)
	h := int(float64(frame.Height)*scale + 0.5)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	return &ports.FrameRecord{
		Width:            w,
		Height:           h,
		Truecolor:        true,
		Pixels:           dst.Pix,
		TransparentIndex: -1,
		DelayCS:          frame.DelayCS,
		LocalPalette:     frame.LocalPalette,
	}
}
