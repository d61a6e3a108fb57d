package world

import "math"

// SkinKind selects the shape descriptor stored in a record.
type SkinKind int

const (
	SkinCircle SkinKind = iota
	SkinRectangle
	SkinPolygon
)

func (k SkinKind) String() string {
	switch k {
	case SkinCircle:
		return "circle"
	case SkinRectangle:
		return "rectangle"
	case SkinPolygon:
		return "polygon"
	default:
		return "unknown"
	}
}

// ParticleRecord is one particle's full state. Index is the stable position
// in the store until the record is removed.
type ParticleRecord struct {
	Index int

	X, Y   float64
	VX, VY float64
	Theta  float64
	Omega  float64
	Mass   float64
	Charge float64

	Skin   SkinKind
	Radius float64
	Width  float64
	Height float64
	Sides  int

	R, G, B, A float64
}

// IsFinite reports whether every dynamical field holds a finite value.
// NaN/Inf are legal states (they propagate as data) but callers may want
// to detect them.
func (p *ParticleRecord) IsFinite() bool {
	for _, v := range []float64{p.X, p.Y, p.VX, p.VY, p.Theta, p.Omega} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// ObjectSpec carries the creation-time state for AddObject.
type ObjectSpec struct {
	X, Y   float64
	VX, VY float64
	Theta  float64
	Omega  float64
	Mass   float64
	Charge float64

	Skin   SkinKind
	Size   float64
	Width  float64
	Height float64
	Sides  int

	R, G, B, A float64
}

// DefaultObjectSpec mirrors the defaults of the original add_object call:
// unit mass, white opaque circle of radius 0.5.
func DefaultObjectSpec() ObjectSpec {
	return ObjectSpec{
		Mass: 1.0,
		Skin: SkinCircle,
		Size: 0.5,
		R:    1.0, G: 1.0, B: 1.0, A: 1.0,
	}
}

// Snapshot is a frame-stamped copy of all particle records. The stepper
// evaluates every kernel against one snapshot; nothing mutates it after
// it is taken.
type Snapshot struct {
	Frame   uint64
	Time    float64
	Records []ParticleRecord
}

// Clone returns a deep copy.
func (s *Snapshot) Clone() Snapshot {
	out := Snapshot{Frame: s.Frame, Time: s.Time}
	out.Records = make([]ParticleRecord, len(s.Records))
	copy(out.Records, s.Records)
	return out
}

// FieldMask selects which fields a BatchUpdate overwrites.
type FieldMask uint32

const (
	FieldX FieldMask = 1 << iota
	FieldY
	FieldVX
	FieldVY
	FieldTheta
	FieldOmega
	FieldMass
	FieldCharge
	FieldWidth
	FieldHeight
	FieldR
	FieldG
	FieldB
	FieldA

	FieldPosition = FieldX | FieldY
	FieldVelocity = FieldVX | FieldVY
	FieldColor    = FieldR | FieldG | FieldB | FieldA
	FieldAll      = FieldMask(1<<14) - 1
)

// Has reports whether every bit of f is set in m.
func (m FieldMask) Has(f FieldMask) bool { return m&f == f }

// BatchUpdate is a sparse overwrite of one record, applied outside the
// integration path. Only fields selected by Mask are written.
type BatchUpdate struct {
	Index int
	Mask  FieldMask

	X, Y       float64
	VX, VY     float64
	Theta      float64
	Omega      float64
	Mass       float64
	Charge     float64
	Width      float64
	Height     float64
	R, G, B, A float64
}

// Apply writes the masked fields into p.
func (u *BatchUpdate) Apply(p *ParticleRecord) {
	m := u.Mask
	if m.Has(FieldX) {
		p.X = u.X
	}
	if m.Has(FieldY) {
		p.Y = u.Y
	}
	if m.Has(FieldVX) {
		p.VX = u.VX
	}
	if m.Has(FieldVY) {
		p.VY = u.VY
	}
	if m.Has(FieldTheta) {
		p.Theta = u.Theta
	}
	if m.Has(FieldOmega) {
		p.Omega = u.Omega
	}
	if m.Has(FieldMass) {
		p.Mass = u.Mass
	}
	if m.Has(FieldCharge) {
		p.Charge = u.Charge
	}
	if m.Has(FieldWidth) {
		p.Width = u.Width
	}
	if m.Has(FieldHeight) {
		p.Height = u.Height
	}
	if m.Has(FieldR) {
		p.R = u.R
	}
	if m.Has(FieldG) {
		p.G = u.G
	}
	if m.Has(FieldB) {
		p.B = u.B
	}
	if m.Has(FieldA) {
		p.A = u.A
	}
}
