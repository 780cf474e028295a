package pipeline

import (
	"image"

	"github.com/elvisoliveira/gifsplit/pkg/ports"
)

// =============================================================================
// Export Stage Types
// =============================================================================

// ExportInput contains one frame to encode as a still image.
type ExportInput struct {
	// Index is the zero-based position of the frame in the animation,
	// used for error reporting and file naming.
	Index int

	// Frame is the fully resolved frame record to encode.
	Frame *ports.FrameRecord

	// Scale resamples the frame by this factor before encoding.
	// Values <= 0 or == 1 leave the frame untouched. Scaling forces
	// the truecolor path, since a resampled palette image is no longer
	// index-addressable.
	Scale float64
}

// ExportResult contains one encoded still image.
type ExportResult struct {
	// Index echoes the frame index from the input.
	Index int

	// Data is the complete encoded file.
	Data []byte

	// DelayCS is the frame's display duration in centiseconds,
	// carried through for per-frame reporting.
	DelayCS int
}

// =============================================================================
// Sheet Stage Types
// =============================================================================

// SheetInput contains the frames to lay out on a contact sheet.
type SheetInput struct {
	// Frames are the decoded frame images in animation order.
	Frames []image.Image

	// Delays are the per-frame display durations in centiseconds,
	// one per frame, drawn into each cell label.
	Delays []int

	// Columns is the number of grid columns. Values < 1 fall back to
	// a default.
	Columns int

	// CellWidth is the width each frame is scaled to fit. Values < 1
	// fall back to a default.
	CellWidth int
}

// SheetResult contains the rendered contact sheet.
type SheetResult struct {
	// Image is the assembled grid of labeled frames.
	Image image.Image

	// Rows and Columns describe the grid actually rendered.
	Rows    int
	Columns int
}
