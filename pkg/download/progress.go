package download

import (
	"io"
	"time"
)

// Progress is one observational progress event for a task. Total <= 0 means
// the total size is unknown. Events never affect control flow.
type Progress struct {
	Label string
	Bytes int64
	Total int64
	Done  bool
}

// Percent returns completion in percent, or -1 when the total is unknown
func (p Progress) Percent() float64 {
	if p.Total <= 0 {
		return -1
	}
	return float64(p.Bytes) / float64(p.Total) * 100
}

// ProgressFunc receives progress events. Implementations must not block.
type ProgressFunc func(Progress)

// progressInterval bounds the event rate so the UI boundary is not flooded
// on every chunk.
const progressInterval = 250 * time.Millisecond

// progressWriter counts bytes written through it and emits rate-limited
// progress events.
type progressWriter struct {
	label    string
	total    int64
	bytes    int64
	lastEmit time.Time
	fn       ProgressFunc
}

func newProgressWriter(label string, total int64, fn ProgressFunc) *progressWriter {
	return &progressWriter{label: label, total: total, fn: fn}
}

func (w *progressWriter) Write(p []byte) (int, error) {
	w.bytes += int64(len(p))
	if w.fn != nil && time.Since(w.lastEmit) >= progressInterval {
		w.lastEmit = time.Now()
		w.fn(Progress{Label: w.label, Bytes: w.bytes, Total: w.total})
	}
	return len(p), nil
}

// finish emits the final event for a completed transfer
func (w *progressWriter) finish() {
	if w.fn != nil {
		w.fn(Progress{Label: w.label, Bytes: w.bytes, Total: w.total, Done: true})
	}
}

var _ io.Writer = (*progressWriter)(nil)
