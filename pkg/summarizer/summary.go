// Package summarizer provides summary generation for split runs.
package summarizer

import "time"

// Summary contains all data collected during a split run.
type Summary struct {
	// Metadata
	GeneratedAt time.Time

	// Input container information
	Input InputInfo

	// Looping directive of the container
	Loop LoopInfo

	// Per-frame export results, in animation order
	Frames []FrameInfo

	// Output totals
	Output OutputInfo
}

// InputInfo describes the source container.
type InputInfo struct {
	Path       string
	Width      int
	Height     int
	FrameCount int
}

// LoopInfo describes the container's looping directive.
type LoopInfo struct {
	// Count is the loop count; 0 means loop forever.
	Count int
	// Specified is false when the container carried no directive.
	Specified bool
}

// FrameInfo describes one exported frame.
type FrameInfo struct {
	Index   int
	DelayCS int
	Bytes   int
	Path    string
}

// OutputInfo describes the produced files as a whole.
type OutputInfo struct {
	Base       string
	TotalBytes int64
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithInput sets source container information.
func (b *Builder) WithInput(path string, width, height, frameCount int) *Builder {
	b.summary.Input = InputInfo{
		Path:       path,
		Width:      width,
		Height:     height,
		FrameCount: frameCount,
	}
	return b
}

// WithLoop sets the looping directive.
func (b *Builder) WithLoop(count int, specified bool) *Builder {
	b.summary.Loop = LoopInfo{
		Count:     count,
		Specified: specified,
	}
	return b
}

// WithFrames sets the per-frame export results.
func (b *Builder) WithFrames(frames []FrameInfo) *Builder {
	b.summary.Frames = frames
	return b
}

// WithOutput sets the output totals.
func (b *Builder) WithOutput(base string, totalBytes int64) *Builder {
	b.summary.Output = OutputInfo{
		Base:       base,
		TotalBytes: totalBytes,
	}
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}
