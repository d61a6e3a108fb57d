package kernel

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// builtin is one entry of the backend's pure-function table. Arity is
// fixed; the binder rejects calls with the wrong argument count.
type builtin struct {
	arity int
	fn    func(a, b, c float64) float64
}

// noiseField backs the noise2 builtin. The seed is fixed so equation
// evaluation stays deterministic across runs.
var noiseField = opensimplex.New(1)

var builtins = map[string]builtin{
	"sin":   {1, func(a, _, _ float64) float64 { return math.Sin(a) }},
	"cos":   {1, func(a, _, _ float64) float64 { return math.Cos(a) }},
	"tan":   {1, func(a, _, _ float64) float64 { return math.Tan(a) }},
	"sqrt":  {1, func(a, _, _ float64) float64 { return math.Sqrt(a) }},
	"log":   {1, func(a, _, _ float64) float64 { return math.Log(a) }},
	"exp":   {1, func(a, _, _ float64) float64 { return math.Exp(a) }},
	"abs":   {1, func(a, _, _ float64) float64 { return math.Abs(a) }},
	"floor": {1, func(a, _, _ float64) float64 { return math.Floor(a) }},
	"ceil":  {1, func(a, _, _ float64) float64 { return math.Ceil(a) }},
	"frac":  {1, func(a, _, _ float64) float64 { return a - math.Floor(a) }},
	"sign":  {1, signOf},
	"step":  {1, func(a, _, _ float64) float64 { return stepOf(a) }},

	"min":    {2, func(a, b, _ float64) float64 { return math.Min(a, b) }},
	"max":    {2, func(a, b, _ float64) float64 { return math.Max(a, b) }},
	"mod":    {2, func(a, b, _ float64) float64 { return math.Mod(a, b) }},
	"atan2":  {2, func(a, b, _ float64) float64 { return math.Atan2(a, b) }},
	"noise2": {2, func(a, b, _ float64) float64 { return noiseField.Eval2(a, b) }},

	"clamp": {3, func(a, lo, hi float64) float64 { return math.Min(math.Max(a, lo), hi) }},
}

func signOf(a, _, _ float64) float64 {
	switch {
	case a > 0:
		return 1
	case a < 0:
		return -1
	default:
		return 0
	}
}

// stepOf is the GLSL-style Heaviside step with edge at zero.
func stepOf(a float64) float64 {
	if a < 0 {
		return 0
	}
	return 1
}
