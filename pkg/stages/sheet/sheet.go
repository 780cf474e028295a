// Package sheet implements the contact-sheet stage: all frames of an
// animation laid out on one labeled grid for quick inspection.
package sheet

import (
	"context"
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"

	"github.com/elvisoliveira/gifsplit/pkg/pipeline"
	"github.com/elvisoliveira/gifsplit/pkg/ports"
)

const (
	defaultColumns   = 4
	defaultCellWidth = 160

	padding     = 8
	gap         = 8
	labelHeight = 16
)

// Stage renders frames into a contact sheet.
type Stage struct {
	logger ports.Logger
}

// NewStage creates a new sheet stage.
func NewStage(logger ports.Logger) *Stage {
	return &Stage{
		logger: logger.WithComponent("sheet"),
	}
}

// Execute lays the input frames out on a grid, each cell scaled to the
// configured width and labeled with its frame index and delay.
func (s *Stage) Execute(ctx context.Context, input pipeline.SheetInput) (pipeline.SheetResult, error) {
	result := pipeline.SheetResult{}

	if len(input.Frames) == 0 {
		return result, fmt.Errorf("no frames to lay out")
	}

	columns := input.Columns
	if columns < 1 {
		columns = defaultColumns
	}
	if columns > len(input.Frames) {
		columns = len(input.Frames)
	}
	cellWidth := input.CellWidth
	if cellWidth < 1 {
		cellWidth = defaultCellWidth
	}

	// All frames of one animation share the source canvas, so the
	// first frame fixes the cell aspect ratio.
	bounds := input.Frames[0].Bounds()
	cellHeight := cellWidth * bounds.Dy() / bounds.Dx()
	if cellHeight < 1 {
		cellHeight = 1
	}

	rows := (len(input.Frames) + columns - 1) / columns
	width := 2*padding + columns*cellWidth + (columns-1)*gap
	height := 2*padding + rows*(cellHeight+labelHeight) + (rows-1)*gap

	dc := gg.NewContext(width, height)
	dc.SetColor(color.RGBA{R: 30, G: 30, B: 30, A: 255})
	dc.Clear()

	for i, frame := range input.Frames {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		col := i % columns
		row := i / columns
		x := padding + col*(cellWidth+gap)
		y := padding + row*(cellHeight+labelHeight+gap)

		cell := image.NewNRGBA(image.Rect(0, 0, cellWidth, cellHeight))
		draw.CatmullRom.Scale(cell, cell.Bounds(), frame, frame.Bounds(), draw.Over, nil)
		dc.DrawImage(cell, x, y)

		label := fmt.Sprintf("%06d", i)
		if i < len(input.Delays) {
			label = fmt.Sprintf("%06d  %dcs", i, input.Delays[i])
		}
		dc.SetColor(color.White)
		dc.DrawString(label, float64(x), float64(y+cellHeight+labelHeight-4))
	}

	s.logger.Debug("Laid out %d frames on a %dx%d grid", len(input.Frames), columns, rows)

	result.Image = dc.Image()
	result.Rows = rows
	result.Columns = columns
	return result, nil
}
