package metrics

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Series accumulates samples of one quantity over a run.
type Series struct {
	name    string
	samples []float64
}

func NewSeries(name string) *Series {
	return &Series{name: name}
}

func (s *Series) Name() string       { return s.name }
func (s *Series) Add(v float64)      { s.samples = append(s.samples, v) }
func (s *Series) Len() int           { return len(s.samples) }
func (s *Series) Samples() []float64 { return s.samples }
func (s *Series) Reset()             { s.samples = s.samples[:0] }

// Summary is the reduced view of a series.
type Summary struct {
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

// Summarize reduces the accumulated samples. An empty series yields the
// zero Summary.
func (s *Series) Summarize() Summary {
	if len(s.samples) == 0 {
		return Summary{}
	}
	return Summary{
		Mean:   stat.Mean(s.samples, nil),
		StdDev: stat.StdDev(s.samples, nil),
		Min:    floats.Min(s.samples),
		Max:    floats.Max(s.samples),
	}
}
