package summarizer

import (
	"fmt"
	"strings"
)

// MarkdownFormatter formats a Summary as a Markdown document.
type MarkdownFormatter struct{}

// NewMarkdownFormatter creates a new MarkdownFormatter.
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// Format converts the summary to Markdown.
func (f *MarkdownFormatter) Format(summary *Summary) string {
	var b strings.Builder

	b.WriteString("# Split Summary\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", summary.GeneratedAt.Format("2006-01-02 15:04:05 MST"))

	b.WriteString("## Input\n\n")
	fmt.Fprintf(&b, "- File: %s\n", summary.Input.Path)
	fmt.Fprintf(&b, "- Canvas: %dx%d\n", summary.Input.Width, summary.Input.Height)
	fmt.Fprintf(&b, "- Frames: %d\n", summary.Input.FrameCount)
	fmt.Fprintf(&b, "- Loop: %s\n\n", formatLoop(summary.Loop))

	b.WriteString("## Frames\n\n")
	b.WriteString("| Frame | Delay | Size | File |\n")
	b.WriteString("|------:|------:|-----:|:-----|\n")
	for _, frame := range summary.Frames {
		fmt.Fprintf(&b, "| %d | %d cs | %s | %s |\n",
			frame.Index, frame.DelayCS, formatBytes(int64(frame.Bytes)), frame.Path)
	}
	b.WriteString("\n")

	b.WriteString("## Output\n\n")
	fmt.Fprintf(&b, "- Base: %s\n", summary.Output.Base)
	fmt.Fprintf(&b, "- Total: %s\n", formatBytes(summary.Output.TotalBytes))

	return b.String()
}

// formatLoop renders the looping directive the way GIF viewers talk
// about it.
func formatLoop(loop LoopInfo) string {
	switch {
	case !loop.Specified:
		return "none"
	case loop.Count == 0:
		return "forever"
	default:
		return fmt.Sprintf("%d", loop.Count)
	}
}

// formatBytes renders a byte count with a binary unit.
func formatBytes(n int64) string {
	switch {
	case n >= 1024*1024:
		return fmt.Sprintf("%.2f MB", float64(n)/(1024*1024))
	case n >= 1024:
		return fmt.Sprintf("%.2f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%d B", n)
	}
}

// Ensure MarkdownFormatter implements Formatter
var _ Formatter = (*MarkdownFormatter)(nil)
