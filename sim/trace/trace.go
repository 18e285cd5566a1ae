// Package trace persists simulation event streams for offline analysis.
// A Recorder writes one JSON document per step (JSON Lines), so traces
// can be replayed with standard tooling (jq, zstdcat) without a schema.
package trace

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/cachesim/cachesim/sim"
)

// Recorder appends step events to an underlying writer, one JSON
// document per line.
type Recorder struct {
	enc     *json.Encoder
	closers []io.Closer
	steps   int
}

// NewRecorder records to w. The caller retains ownership of w; Close
// on the returned Recorder does not close it.
func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{enc: json.NewEncoder(w)}
}

// Create opens path for recording and takes ownership of the file.
// A ".zst" suffix enables transparent zstd compression.
func Create(path string) (*Recorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating trace file: %w", err)
	}
	r := NewRecorder(f)
	r.closers = []io.Closer{f}
	if strings.HasSuffix(path, ".zst") {
		zw, err := zstd.NewWriter(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("creating zstd writer: %w", err)
		}
		r.enc = json.NewEncoder(zw)
		r.closers = []io.Closer{zw, f}
	}
	return r, nil
}

// Record appends one event to the trace.
func (r *Recorder) Record(event sim.StepEvent) error {
	if err := r.enc.Encode(event); err != nil {
		return fmt.Errorf("writing trace event: %w", err)
	}
	r.steps++
	return nil
}

// Steps returns the number of events recorded so far.
func (r *Recorder) Steps() int {
	return r.steps
}

// Close flushes and closes whatever Create opened. Recorders built
// with NewRecorder have nothing to close and return nil.
func (r *Recorder) Close() error {
	for _, c := range r.closers {
		if err := c.Close(); err != nil {
			return fmt.Errorf("closing trace: %w", err)
		}
	}
	r.closers = nil
	return nil
}
