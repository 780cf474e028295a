// Package orchestrator drives the split run: it drains the frame
// source, exports every frame as a still image and reports the
// aggregate metadata once the source is exhausted.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/ideamans/go-l10n"
	"golang.org/x/sync/errgroup"

	"github.com/elvisoliveira/gifsplit/pkg/pipeline"
	"github.com/elvisoliveira/gifsplit/pkg/ports"
)

// ErrDecodeAnomalies is returned when the frame source reports decode
// errors after the sequence is drained. Every successfully exported
// frame is already on disk by then; the run still counts as failed.
var ErrDecodeAnomalies = errors.New("orchestrator: frame source reported decode errors")

// Config contains all configuration for a split run.
type Config struct {
	// OutputBase is the prefix of generated files; frame n is written
	// to <OutputBase><n %06d>.png.
	OutputBase string

	// Scale resamples every frame by this factor before encoding.
	// 0 or 1 exports frames at their native size.
	Scale float64

	// Workers is the number of concurrent frame encodes. The frame
	// source is always drained by a single goroutine; only the
	// encoding overlaps. Values < 1 mean sequential.
	Workers int
}

// FrameReport describes one exported frame.
type FrameReport struct {
	Index   int
	DelayCS int
	Path    string
	Bytes   int
}

// RunResult contains the results of a split run for summary generation.
type RunResult struct {
	Frames       []FrameReport
	LoopCount    int
	HasLoopCount bool
	TotalBytes   int64
}

// Orchestrator coordinates the split run. Export stages are created
// per worker because an encoder's scratch buffer must not be shared by
// concurrent encodes.
type Orchestrator struct {
	newExportStage func() pipeline.Stage[pipeline.ExportInput, pipeline.ExportResult]
	fs             ports.FileSystem
	logger         ports.Logger
}

// New creates a new Orchestrator.
func New(
	newExportStage func() pipeline.Stage[pipeline.ExportInput, pipeline.ExportResult],
	fs ports.FileSystem,
	logger ports.Logger,
) *Orchestrator {
	return &Orchestrator{
		newExportStage: newExportStage,
		fs:             fs,
		logger:         logger,
	}
}

// Run drains the source and exports every frame. It stops at the first
// destination or structural error, leaving previously written files
// intact; a failed write never leaves a partial file behind.
func (o *Orchestrator) Run(ctx context.Context, source ports.FrameSource, config Config) (RunResult, error) {
	result := RunResult{}

	workers := config.Workers
	if workers < 1 {
		workers = 1
	}

	stages := make(chan pipeline.Stage[pipeline.ExportInput, pipeline.ExportResult], workers)
	for i := 0; i < workers; i++ {
		stages <- o.newExportStage()
	}

	var (
		mu      sync.Mutex
		reports []FrameReport
	)

	g, gctx := errgroup.WithContext(ctx)

	// The source is not safe for concurrent pulls, so frames are read
	// here one at a time regardless of the worker count. A stage is
	// claimed before the frame is handed off, which bounds the frames
	// in flight to the worker count and keeps a single-worker run
	// strictly ordered.
	pullErr := func() error {
		for index := 0; ; index++ {
			if err := gctx.Err(); err != nil {
				return err
			}
			frame, err := source.NextFrame()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("read frame %d: %w", index, err)
			}

			var stage pipeline.Stage[pipeline.ExportInput, pipeline.ExportResult]
			select {
			case stage = <-stages:
			case <-gctx.Done():
				return gctx.Err()
			}

			index, frame := index, frame
			g.Go(func() error {
				defer func() { stages <- stage }()

				exported, err := stage.Execute(gctx, pipeline.ExportInput{
					Index: index,
					Frame: frame,
					Scale: config.Scale,
				})
				if err != nil {
					return fmt.Errorf("export stage: %w", err)
				}

				path := outputPath(config.OutputBase, index)
				if err := o.fs.WriteFile(path, exported.Data); err != nil {
					// Never leave output that could pass for a valid
					// frame file.
					o.fs.Remove(path)
					return fmt.Errorf("write %s: %w", path, err)
				}

				o.logger.Info("%d delay=%d", index, exported.DelayCS)

				mu.Lock()
				reports = append(reports, FrameReport{
					Index:   index,
					DelayCS: exported.DelayCS,
					Path:    path,
					Bytes:   len(exported.Data),
				})
				mu.Unlock()
				return nil
			})
		}
	}()

	waitErr := g.Wait()
	if pullErr != nil && !errors.Is(pullErr, context.Canceled) {
		return result, pullErr
	}
	if waitErr != nil {
		return result, waitErr
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	sort.Slice(reports, func(i, j int) bool { return reports[i].Index < reports[j].Index })
	result.Frames = reports
	for _, report := range reports {
		result.TotalBytes += int64(report.Bytes)
	}

	info, err := source.Info()
	if err != nil {
		return result, fmt.Errorf("read aggregate metadata: %w", err)
	}
	result.LoopCount = info.LoopCount
	result.HasLoopCount = info.HasLoopCount

	if info.HasLoopCount {
		o.logger.Info("loops=%d", info.LoopCount)
	}
	if info.HasErrors {
		o.logger.Error(l10n.T("Error while processing input"))
		return result, ErrDecodeAnomalies
	}

	o.logger.Info(l10n.F("Exported %d frames", len(reports)))
	return result, nil
}

// outputPath names a frame file: the base followed by a zero-padded
// six-digit frame number.
func outputPath(base string, index int) string {
	return fmt.Sprintf("%s%06d.png", base, index)
}
