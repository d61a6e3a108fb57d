// Package config loads and saves YAML scene files: a particle list with
// optional equations, a timestep, and the global parameters.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/hyperstellar/internal/sim"
	"github.com/san-kum/hyperstellar/internal/world"
)

const (
	DefaultDt    = 0.0167
	DefaultSteps = 600
)

type Scene struct {
	Name    string         `yaml:"name"`
	Dt      float64        `yaml:"dt"`
	Steps   int            `yaml:"steps"`
	Params  ParamsConfig   `yaml:"params"`
	Objects []ObjectConfig `yaml:"objects"`
}

type ParamsConfig struct {
	Gravity   *float64 `yaml:"gravity,omitempty"`
	Damping   *float64 `yaml:"damping,omitempty"`
	Stiffness *float64 `yaml:"stiffness,omitempty"`
}

type ObjectConfig struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	VX       float64 `yaml:"vx"`
	VY       float64 `yaml:"vy"`
	Theta    float64 `yaml:"theta"`
	Omega    float64 `yaml:"omega"`
	Mass     float64 `yaml:"mass"`
	Charge   float64 `yaml:"charge"`
	Skin     string  `yaml:"skin"`
	Size     float64 `yaml:"size"`
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
	Sides    int     `yaml:"sides"`
	R        float64 `yaml:"r"`
	G        float64 `yaml:"g"`
	B        float64 `yaml:"b"`
	A        float64 `yaml:"a"`
	Equation string  `yaml:"equation,omitempty"`
}

func DefaultScene() *Scene {
	return &Scene{
		Name:  "empty",
		Dt:    DefaultDt,
		Steps: DefaultSteps,
	}
}

func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	scene := DefaultScene()
	if err := yaml.Unmarshal(data, scene); err != nil {
		return nil, err
	}
	if scene.Dt <= 0 {
		scene.Dt = DefaultDt
	}
	return scene, nil
}

func Save(path string, scene *Scene) error {
	data, err := yaml.Marshal(scene)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Spec converts one object entry to the engine's creation spec.
func (o *ObjectConfig) Spec() (world.ObjectSpec, error) {
	spec := world.DefaultObjectSpec()
	spec.X, spec.Y = o.X, o.Y
	spec.VX, spec.VY = o.VX, o.VY
	spec.Theta, spec.Omega = o.Theta, o.Omega
	if o.Mass != 0 {
		spec.Mass = o.Mass
	}
	spec.Charge = o.Charge
	if o.Size != 0 {
		spec.Size = o.Size
	}
	spec.Width, spec.Height = o.Width, o.Height
	spec.Sides = o.Sides
	if o.R != 0 || o.G != 0 || o.B != 0 || o.A != 0 {
		spec.R, spec.G, spec.B, spec.A = o.R, o.G, o.B, o.A
	}

	switch o.Skin {
	case "", "circle":
		spec.Skin = world.SkinCircle
	case "rectangle":
		spec.Skin = world.SkinRectangle
	case "polygon":
		spec.Skin = world.SkinPolygon
	default:
		return spec, fmt.Errorf("unknown skin %q", o.Skin)
	}
	return spec, nil
}

// Apply builds the scene inside s: parameters, particles, equations. It
// drives the compile queue to completion so the caller starts from a
// fully Ready simulation.
func (sc *Scene) Apply(s *sim.Simulation) error {
	if p := sc.Params.Gravity; p != nil {
		if err := s.SetParameter("gravity", *p); err != nil {
			return err
		}
	}
	if p := sc.Params.Damping; p != nil {
		if err := s.SetParameter("damping", *p); err != nil {
			return err
		}
	}
	if p := sc.Params.Stiffness; p != nil {
		if err := s.SetParameter("stiffness", *p); err != nil {
			return err
		}
	}

	for i := range sc.Objects {
		spec, err := sc.Objects[i].Spec()
		if err != nil {
			return fmt.Errorf("object %d: %w", i, err)
		}
		if _, err := s.AddObject(spec); err != nil {
			return fmt.Errorf("object %d: %w", i, err)
		}
	}
	// Equations bind after all objects exist so forward references
	// (p[1] from object 0) resolve.
	for i := range sc.Objects {
		if sc.Objects[i].Equation == "" {
			continue
		}
		if err := s.SetEquation(i, sc.Objects[i].Equation); err != nil {
			return fmt.Errorf("object %d: %w", i, err)
		}
	}
	for !s.AllKernelsReady() {
		s.DriveCompiles(8)
	}
	return nil
}
