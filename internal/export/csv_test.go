package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gocarina/gocsv"

	"github.com/san-kum/hyperstellar/internal/world"
)

func TestWriterRoundTrip(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}

	recs := []world.ParticleRecord{
		{Index: 0, X: 1.5, VY: -2},
		{Index: 1, Theta: 0.25},
	}
	if err := w.WriteFrame(1, 0.0167, recs); err != nil {
		t.Fatalf("write frame 1: %v", err)
	}
	if err := w.WriteFrame(2, 0.0334, recs[:1]); err != nil {
		t.Fatalf("write frame 2: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	f, err := os.Open(filepath.Join(dir, "trajectory.csv"))
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()

	var rows []FrameRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		t.Fatalf("read back: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].Frame != 1 || rows[0].X != 1.5 || rows[0].VY != -2 {
		t.Errorf("unexpected first row: %+v", rows[0])
	}
	if rows[1].Index != 1 || rows[1].Theta != 0.25 {
		t.Errorf("unexpected second row: %+v", rows[1])
	}
	if rows[2].Frame != 2 {
		t.Errorf("unexpected third row: %+v", rows[2])
	}
}

func TestWriterSingleHeader(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}

	recs := []world.ParticleRecord{{}}
	w.WriteFrame(1, 0, recs)
	w.WriteFrame(2, 0, recs)
	w.Close()

	data, err := os.ReadFile(filepath.Join(dir, "trajectory.csv"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if n := strings.Count(string(data), "frame,"); n != 1 {
		t.Errorf("expected exactly one header line, found %d", n)
	}
}

func TestNilWriterDiscards(t *testing.T) {
	w, err := NewWriter("")
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}
	if w != nil {
		t.Fatal("empty directory should yield a nil writer")
	}
	if err := w.WriteFrame(1, 0, nil); err != nil {
		t.Errorf("nil writer write should be a no-op, got %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("nil writer close should be a no-op, got %v", err)
	}
}
