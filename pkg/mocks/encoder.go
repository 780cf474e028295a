// Package mocks provides hand-rolled test doubles for the ports
// interfaces.
package mocks

import (
	"github.com/elvisoliveira/gifsplit/pkg/ports"
)

// StillEncoder is a mock implementation of ports.StillEncoder.
type StillEncoder struct {
	EncodeFunc func(frame *ports.FrameRecord) ([]byte, error)

	// Recorded calls for verification
	EncodeCalls []*ports.FrameRecord
}

func (m *StillEncoder) Encode(frame *ports.FrameRecord) ([]byte, error) {
	m.EncodeCalls = append(m.EncodeCalls, frame)
	if m.EncodeFunc != nil {
		return m.EncodeFunc(frame)
	}
	// Minimal PNG signature
	return []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, nil
}

var _ ports.StillEncoder = (*StillEncoder)(nil)
