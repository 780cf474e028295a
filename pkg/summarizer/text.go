package summarizer

import (
	"fmt"
	"strings"
)

// TextFormatter formats a Summary as a plain frame listing: one
// "index delay=n" line per frame, followed by the loop count when the
// container specified one.
type TextFormatter struct{}

// NewTextFormatter creates a new TextFormatter.
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{}
}

// Format converts the summary to plain text.
func (f *TextFormatter) Format(summary *Summary) string {
	var b strings.Builder
	for _, frame := range summary.Frames {
		fmt.Fprintf(&b, "%d delay=%d\n", frame.Index, frame.DelayCS)
	}
	if summary.Loop.Specified {
		fmt.Fprintf(&b, "loops=%d\n", summary.Loop.Count)
	}
	return b.String()
}

// Ensure TextFormatter implements Formatter
var _ Formatter = (*TextFormatter)(nil)
