package summarizer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func testSummary() *Summary {
	return NewBuilder().
		WithInput("anim.gif", 320, 240, 3).
		WithLoop(0, true).
		WithFrames([]FrameInfo{
			{Index: 0, DelayCS: 10, Bytes: 2048, Path: "out000000.png"},
			{Index: 1, DelayCS: 10, Bytes: 1024, Path: "out000001.png"},
			{Index: 2, DelayCS: 20, Bytes: 512, Path: "out000002.png"},
		}).
		WithOutput("out", 3584).
		Build()
}

func TestBuilder(t *testing.T) {
	summary := testSummary()

	if summary.Input.Path != "anim.gif" {
		t.Errorf("input path = %q, want anim.gif", summary.Input.Path)
	}
	if summary.Input.Width != 320 || summary.Input.Height != 240 {
		t.Errorf("canvas = %dx%d, want 320x240", summary.Input.Width, summary.Input.Height)
	}
	if len(summary.Frames) != 3 {
		t.Errorf("frames = %d, want 3", len(summary.Frames))
	}
	if !summary.Loop.Specified || summary.Loop.Count != 0 {
		t.Errorf("loop = %+v, want forever", summary.Loop)
	}
	if summary.GeneratedAt.IsZero() {
		t.Error("expected GeneratedAt to be set")
	}
}

func TestTextFormatter_Format(t *testing.T) {
	result := NewTextFormatter().Format(testSummary())

	want := "0 delay=10\n1 delay=10\n2 delay=20\nloops=0\n"
	if result != want {
		t.Errorf("Format() = %q, want %q", result, want)
	}
}

func TestTextFormatter_Format_NoLoopDirective(t *testing.T) {
	summary := NewBuilder().
		WithFrames([]FrameInfo{{Index: 0, DelayCS: 5}}).
		Build()

	result := NewTextFormatter().Format(summary)
	if strings.Contains(result, "loops=") {
		t.Errorf("Format() = %q, expected no loops line", result)
	}
}

func TestWriter_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "summary.txt")
	writer := NewWriter(NewTextFormatter())

	if err := writer.Write(path, testSummary()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(data), "0 delay=10") {
		t.Errorf("written summary %q missing frame line", data)
	}
}

func TestMarkdownFormatter_Format(t *testing.T) {
	summary := testSummary()
	summary.GeneratedAt = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	result := NewMarkdownFormatter().Format(summary)

	checks := []string{
		"# Split Summary",
		"anim.gif",
		"320x240",
		"forever",
		"| 0 | 10 cs | 2.00 KB | out000000.png |",
		"3.50 KB",
	}
	for _, check := range checks {
		if !strings.Contains(result, check) {
			t.Errorf("expected output to contain %q", check)
		}
	}
}

func TestMarkdownFormatter_LoopRendering(t *testing.T) {
	tests := []struct {
		name string
		loop LoopInfo
		want string
	}{
		{"forever", LoopInfo{Count: 0, Specified: true}, "forever"},
		{"finite", LoopInfo{Count: 5, Specified: true}, "5"},
		{"absent", LoopInfo{}, "none"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatLoop(tt.loop); got != tt.want {
				t.Errorf("formatLoop(%+v) = %q, want %q", tt.loop, got, tt.want)
			}
		})
	}
}
