package config

import "sort"

func f(v float64) *float64 { return &v }

// Presets are built-in scenes, ported from the engine's original client
// scripts. The orbit numbers reproduce the circular two-body setup:
// G=1, masses 50+1, separation 3, center-of-mass initial velocities.
var Presets = map[string]*Scene{
	"orbit": {
		Name:  "orbit",
		Dt:    0.0167,
		Steps: 3600,
		Params: ParamsConfig{
			Damping:   f(0),
			Stiffness: f(1),
		},
		Objects: []ObjectConfig{
			{
				X: -0.058823529411764705, VY: 0.08084530638466982,
				Mass: 50, Skin: "circle", Size: 0.8,
				R: 1.0, G: 0.9, B: 0.3, A: 1.0,
				Equation: "1*(p[1].x-x)/((p[1].x-x)^2+(p[1].y-y)^2)^1.5," +
					"1*(p[1].y-y)/((p[1].x-x)^2+(p[1].y-y)^2)^1.5",
			},
			{
				X: 2.9411764705882355, VY: -4.042265319233491,
				Mass: 1, Skin: "circle", Size: 0.25,
				R: 0.3, G: 0.6, B: 1.0, A: 1.0,
				Equation: "50*(p[0].x-x)/((p[0].x-x)^2+(p[0].y-y)^2)^1.5," +
					"50*(p[0].y-y)/((p[0].x-x)^2+(p[0].y-y)^2)^1.5",
			},
		},
	},

	"oscillator": {
		Name:  "oscillator",
		Dt:    0.01,
		Steps: 2000,
		Params: ParamsConfig{
			Damping:   f(0.05),
			Stiffness: f(2),
		},
		Objects: []ObjectConfig{
			{X: 2, Mass: 1, Skin: "circle", Size: 0.3, R: 0.9, G: 0.4, B: 0.2, A: 1,
				Equation: "-k*x, -k*y"},
			{X: -2, Y: 1, Mass: 1, Skin: "circle", Size: 0.3, R: 0.2, G: 0.4, B: 0.9, A: 1,
				Equation: "-k*x, -k*y"},
		},
	},

	"spinner": {
		Name:  "spinner",
		Dt:    0.01,
		Steps: 1200,
		Objects: []ObjectConfig{
			{Mass: 1, Skin: "rectangle", Width: 1.5, Height: 0.4,
				R: 0.8, G: 0.8, B: 0.2, A: 1,
				Equation: "0, 0, 2*sin(t)"},
		},
	},

	// A field sampler: stationary particles whose color samples a
	// time-evolving scalar field at their position, the way the MCMC
	// walker scripts colored their particles.
	"field": {
		Name:  "field",
		Dt:    0.0167,
		Steps: 1800,
		Objects: []ObjectConfig{
			{X: 0, Y: 0, Mass: 1, Skin: "circle", Size: 0.15,
				Equation: "0, 0, 0, 0.3, 0.6, exp(-1*(x*x+y*y)*(1 + 0.5*sin(0.3*t))), 1"},
			{X: 1, Y: 0.5, Mass: 1, Skin: "circle", Size: 0.15,
				Equation: "0, 0, 0, 0.5+0.5*noise2(x+t,y), 0.4, 0.8, 1"},
		},
	},
}

// Preset returns the named built-in scene, nil when absent.
func Preset(name string) *Scene {
	src, ok := Presets[name]
	if !ok {
		return nil
	}
	// Hand out a copy so callers can override dt or objects without
	// mutating the shared table.
	out := *src
	out.Objects = append([]ObjectConfig(nil), src.Objects...)
	if p := src.Params.Gravity; p != nil {
		v := *p
		out.Params.Gravity = &v
	}
	if p := src.Params.Damping; p != nil {
		v := *p
		out.Params.Damping = &v
	}
	if p := src.Params.Stiffness; p != nil {
		v := *p
		out.Params.Stiffness = &v
	}
	return &out
}

// ListPresets returns the built-in scene names.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
