package mocks

import (
	"io"

	"github.com/elvisoliveira/gifsplit/pkg/ports"
)

// FrameSource is a mock implementation of ports.FrameSource that
// yields a fixed frame sequence followed by io.EOF.
type FrameSource struct {
	Frames    []*ports.FrameRecord
	SplitInfo ports.SplitInfo

	NextFrameFunc func() (*ports.FrameRecord, error)
	InfoFunc      func() (ports.SplitInfo, error)

	// Recorded state for verification
	Pulls       int
	CloseCalled bool

	next int
}

func (m *FrameSource) NextFrame() (*ports.FrameRecord, error) {
	m.Pulls++
	if m.NextFrameFunc != nil {
		return m.NextFrameFunc()
	}
	if m.next >= len(m.Frames) {
		return nil, io.EOF
	}
	frame := m.Frames[m.next]
	m.next++
	return frame, nil
}

func (m *FrameSource) Info() (ports.SplitInfo, error) {
	if m.InfoFunc != nil {
		return m.InfoFunc()
	}
	return m.SplitInfo, nil
}

func (m *FrameSource) Close() error {
	m.CloseCalled = true
	return nil
}

var _ ports.FrameSource = (*FrameSource)(nil)
