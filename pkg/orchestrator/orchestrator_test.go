package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/elvisoliveira/gifsplit/pkg/adapters/logger"
	"github.com/elvisoliveira/gifsplit/pkg/mocks"
	"github.com/elvisoliveira/gifsplit/pkg/pipeline"
	"github.com/elvisoliveira/gifsplit/pkg/ports"
	"github.com/elvisoliveira/gifsplit/pkg/stages/export"
)

func testFrames(n int) []*ports.FrameRecord {
	frames := make([]*ports.FrameRecord, n)
	for i := range frames {
		frames[i] = &ports.FrameRecord{
			Width:     2,
			Height:    2,
			Truecolor: true,
			Pixels:    make([]byte, 16),
			DelayCS:   10 * (i + 1),
		}
	}
	return frames
}

func newTestOrchestrator(fs ports.FileSystem) *Orchestrator {
	newStage := func() pipeline.Stage[pipeline.ExportInput, pipeline.ExportResult] {
		return export.NewStage(&mocks.StillEncoder{}, logger.NewNoop())
	}
	return New(newStage, fs, logger.NewNoop())
}

func TestRun_ExportsAllFrames(t *testing.T) {
	fs := mocks.NewFileSystem()
	orch := newTestOrchestrator(fs)

	source := &mocks.FrameSource{
		Frames:    testFrames(3),
		SplitInfo: ports.SplitInfo{LoopCount: 2, HasLoopCount: true},
	}

	result, err := orch.Run(context.Background(), source, Config{OutputBase: "out/frame"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Frames) != 3 {
		t.Fatalf("got %d frame reports, want 3", len(result.Frames))
	}
	for i, report := range result.Frames {
		if report.Index != i {
			t.Errorf("report %d has index %d", i, report.Index)
		}
		if report.DelayCS != 10*(i+1) {
			t.Errorf("report %d delay = %d, want %d", i, report.DelayCS, 10*(i+1))
		}
		want := fmt.Sprintf("out/frame%06d.png", i)
		if report.Path != want {
			t.Errorf("report %d path = %q, want %q", i, report.Path, want)
		}
		if _, ok := fs.GetFile(want); !ok {
			t.Errorf("file %q was not written", want)
		}
	}

	if !result.HasLoopCount || result.LoopCount != 2 {
		t.Errorf("loop count = %d (has=%t), want 2 (has=true)", result.LoopCount, result.HasLoopCount)
	}
	if result.TotalBytes == 0 {
		t.Error("expected non-zero total bytes")
	}
}

func TestRun_DecodeAnomaliesFailTheRun(t *testing.T) {
	fs := mocks.NewFileSystem()
	orch := newTestOrchestrator(fs)

	// Five frames decode fine, but the source saw anomalies: all five
	// files must exist even though the run fails.
	source := &mocks.FrameSource{
		Frames:    testFrames(5),
		SplitInfo: ports.SplitInfo{HasErrors: true},
	}

	_, err := orch.Run(context.Background(), source, Config{OutputBase: "frame"})
	if !errors.Is(err, ErrDecodeAnomalies) {
		t.Fatalf("error = %v, want ErrDecodeAnomalies", err)
	}
	if got := len(fs.GetAllFiles()); got != 5 {
		t.Errorf("%d files written, want 5", got)
	}
}

func TestRun_WriteFailureAbortsAndCleansUp(t *testing.T) {
	fs := mocks.NewFileSystem()
	failPath := fmt.Sprintf("frame%06d.png", 1)
	written := map[string][]byte{}
	var removed []string
	fs.WriteFileFunc = func(path string, data []byte) error {
		if path == failPath {
			return errors.New("disk full")
		}
		written[path] = data
		return nil
	}
	fs.RemoveFunc = func(path string) error {
		removed = append(removed, path)
		return nil
	}

	orch := newTestOrchestrator(fs)
	source := &mocks.FrameSource{Frames: testFrames(3)}

	_, err := orch.Run(context.Background(), source, Config{OutputBase: "frame"})
	if err == nil {
		t.Fatal("expected write failure to abort the run")
	}

	// The failed destination must not be left behind as valid output.
	if len(removed) != 1 || removed[0] != failPath {
		t.Errorf("removed = %v, want [%s]", removed, failPath)
	}

	// The frame written before the failure stays intact.
	if _, ok := written[fmt.Sprintf("frame%06d.png", 0)]; !ok {
		t.Error("first frame file should remain on disk")
	}
}

func TestRun_StructuralErrorNamesFrame(t *testing.T) {
	fs := mocks.NewFileSystem()
	newStage := func() pipeline.Stage[pipeline.ExportInput, pipeline.ExportResult] {
		encoder := &mocks.StillEncoder{
			EncodeFunc: func(frame *ports.FrameRecord) ([]byte, error) {
				return nil, errors.New("malformed frame")
			},
		}
		return export.NewStage(encoder, logger.NewNoop())
	}
	orch := New(newStage, fs, logger.NewNoop())

	source := &mocks.FrameSource{Frames: testFrames(1)}
	_, err := orch.Run(context.Background(), source, Config{OutputBase: "frame"})
	if err == nil {
		t.Fatal("expected structural error to fail the run")
	}
	if got := len(fs.GetAllFiles()); got != 0 {
		t.Errorf("%d files written, want 0", got)
	}
}

func TestRun_ParallelWorkers(t *testing.T) {
	fs := mocks.NewFileSystem()
	orch := newTestOrchestrator(fs)

	source := &mocks.FrameSource{Frames: testFrames(12)}

	result, err := orch.Run(context.Background(), source, Config{
		OutputBase: "frame",
		Workers:    4,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Frames) != 12 {
		t.Fatalf("got %d frame reports, want 12", len(result.Frames))
	}
	// Reports come back in frame order no matter which worker finished
	// first.
	for i, report := range result.Frames {
		if report.Index != i {
			t.Errorf("report %d has index %d", i, report.Index)
		}
	}
	if got := len(fs.GetAllFiles()); got != 12 {
		t.Errorf("%d files written, want 12", got)
	}
}

func TestRun_ContextCancelled(t *testing.T) {
	fs := mocks.NewFileSystem()
	orch := newTestOrchestrator(fs)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	source := &mocks.FrameSource{Frames: testFrames(2)}
	if _, err := orch.Run(ctx, source, Config{OutputBase: "frame"}); err == nil {
		t.Error("expected error for cancelled context")
	}
}
