// Package store holds the authoritative, index-addressed table of particle
// records with double-buffered frame commits. The store itself is not
// synchronized; the simulation serializes access (steps and host writes
// exclusive, host reads shared).
package store

import (
	"fmt"

	"github.com/san-kum/hyperstellar/internal/world"
)

// DefaultMaxObjects bounds the table like the original engine's object
// limit.
const DefaultMaxObjects = 100000

// Store is a dense table of particle records. Indices are stable until a
// removal; removal compacts the table, shifting every subsequent index
// down by one.
type Store struct {
	records []world.ParticleRecord
	scratch []world.ParticleRecord
	snap    world.Snapshot
	frame   uint64
	max     int
}

func New(maxObjects int) *Store {
	if maxObjects <= 0 {
		maxObjects = DefaultMaxObjects
	}
	return &Store{max: maxObjects}
}

// Count returns the number of live records.
func (s *Store) Count() int { return len(s.records) }

// Frame returns the number of committed frames.
func (s *Store) Frame() uint64 { return s.frame }

// Add appends a record built from spec and returns its index.
func (s *Store) Add(spec world.ObjectSpec) (int, error) {
	if len(s.records) >= s.max {
		return 0, fmt.Errorf("%w (max %d)", world.ErrStoreFull, s.max)
	}

	rec := world.ParticleRecord{
		Index: len(s.records),
		X:     spec.X, Y: spec.Y,
		VX: spec.VX, VY: spec.VY,
		Theta: spec.Theta, Omega: spec.Omega,
		Mass: spec.Mass, Charge: spec.Charge,
		Skin:  spec.Skin,
		Sides: spec.Sides,
		R:     spec.R, G: spec.G, B: spec.B, A: spec.A,
	}
	switch spec.Skin {
	case world.SkinCircle:
		rec.Radius = spec.Size
		rec.Width = spec.Size * 2
		rec.Height = spec.Size * 2
	case world.SkinRectangle:
		rec.Width = spec.Width
		rec.Height = spec.Height
	case world.SkinPolygon:
		rec.Radius = spec.Size
		if rec.Sides < 3 {
			rec.Sides = 3
		}
		if rec.Sides > 12 {
			rec.Sides = 12
		}
	}

	s.records = append(s.records, rec)
	return rec.Index, nil
}

// Remove deletes the record at index and compacts the table: records
// index+1.. shift down by one and are renumbered.
func (s *Store) Remove(index int) error {
	if index < 0 || index >= len(s.records) {
		return &world.NotFoundError{Index: index, Count: len(s.records)}
	}
	copy(s.records[index:], s.records[index+1:])
	s.records = s.records[:len(s.records)-1]
	for i := index; i < len(s.records); i++ {
		s.records[i].Index = i
	}
	return nil
}

// Get returns a copy of the record at index.
func (s *Store) Get(index int) (world.ParticleRecord, error) {
	if index < 0 || index >= len(s.records) {
		return world.ParticleRecord{}, &world.NotFoundError{Index: index, Count: len(s.records)}
	}
	return s.records[index], nil
}

// View returns the live record slice for in-engine reads. Callers must
// not hold it across a Commit.
func (s *Store) View() []world.ParticleRecord { return s.records }

// BeginFrame stamps a snapshot of the committed state and returns it
// together with the writable next-frame buffer, pre-filled with the
// current records. The snapshot stays valid until the next BeginFrame.
func (s *Store) BeginFrame(t float64) (*world.Snapshot, []world.ParticleRecord) {
	s.snap.Frame = s.frame
	s.snap.Time = t
	s.snap.Records = append(s.snap.Records[:0], s.records...)

	s.scratch = append(s.scratch[:0], s.records...)
	return &s.snap, s.scratch
}

// Commit swaps the buffer returned by BeginFrame in as the new committed
// state. Reads after Commit observe the new frame.
func (s *Store) Commit() {
	s.records, s.scratch = s.scratch, s.records
	s.frame++
}
