package ports

// StillEncoder converts one frame record into a complete still-image
// file held in memory. Implementations are pure functions of the
// record: no state carries over between calls except an optional
// reusable scratch buffer, so a failed encode never affects the next
// frame.
type StillEncoder interface {
	// Encode produces the full encoded file for one frame, or a
	// structured error. It never returns partial output.
	Encode(frame *FrameRecord) ([]byte, error)
}
