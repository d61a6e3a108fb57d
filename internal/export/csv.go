// Package export writes per-frame particle trajectories to CSV for
// offline analysis.
package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/san-kum/hyperstellar/internal/world"
)

// FrameRow is one particle's state at one committed frame.
type FrameRow struct {
	Frame uint64  `csv:"frame"`
	Time  float64 `csv:"time"`
	Index int     `csv:"index"`
	X     float64 `csv:"x"`
	Y     float64 `csv:"y"`
	VX    float64 `csv:"vx"`
	VY    float64 `csv:"vy"`
	Theta float64 `csv:"theta"`
	Omega float64 `csv:"omega"`
	R     float64 `csv:"r"`
	G     float64 `csv:"g"`
	B     float64 `csv:"b"`
	A     float64 `csv:"a"`
}

// Writer streams frames to a trajectory.csv inside dir. A nil Writer is
// valid and discards everything, so callers can leave output disabled.
type Writer struct {
	file          *os.File
	headerWritten bool
}

func NewWriter(dir string) (*Writer, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	f, err := os.Create(filepath.Join(dir, "trajectory.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating trajectory.csv: %w", err)
	}
	return &Writer{file: f}, nil
}

// WriteFrame appends one row per particle for a committed frame.
func (w *Writer) WriteFrame(frame uint64, t float64, recs []world.ParticleRecord) error {
	if w == nil {
		return nil
	}

	rows := make([]FrameRow, len(recs))
	for i := range recs {
		p := &recs[i]
		rows[i] = FrameRow{
			Frame: frame, Time: t, Index: p.Index,
			X: p.X, Y: p.Y, VX: p.VX, VY: p.VY,
			Theta: p.Theta, Omega: p.Omega,
			R: p.R, G: p.G, B: p.B, A: p.A,
		}
	}

	if !w.headerWritten {
		if err := gocsv.Marshal(rows, w.file); err != nil {
			return fmt.Errorf("writing trajectory: %w", err)
		}
		w.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(rows, w.file); err != nil {
		return fmt.Errorf("writing trajectory: %w", err)
	}
	return nil
}

func (w *Writer) Close() error {
	if w == nil {
		return nil
	}
	return w.file.Close()
}
