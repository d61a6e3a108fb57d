package store

import "github.com/san-kum/hyperstellar/internal/world"

// BatchGet returns copies of the requested records in request order. Any
// bad index fails the whole call.
func (s *Store) BatchGet(indices []int) ([]world.ParticleRecord, error) {
	for _, idx := range indices {
		if idx < 0 || idx >= len(s.records) {
			return nil, &world.NotFoundError{Index: idx, Count: len(s.records)}
		}
	}
	out := make([]world.ParticleRecord, len(indices))
	for i, idx := range indices {
		out[i] = s.records[idx]
	}
	return out, nil
}

// BatchUpdate applies sparse overwrites to the committed state,
// all-or-nothing: if any update names a bad index, none are applied. The
// overwritten values feed the next frame's evaluation.
func (s *Store) BatchUpdate(updates []world.BatchUpdate) error {
	for i := range updates {
		idx := updates[i].Index
		if idx < 0 || idx >= len(s.records) {
			return &world.NotFoundError{Index: idx, Count: len(s.records)}
		}
	}
	for i := range updates {
		updates[i].Apply(&s.records[updates[i].Index])
	}
	return nil
}
