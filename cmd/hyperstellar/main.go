package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/hyperstellar/internal/config"
	"github.com/san-kum/hyperstellar/internal/equation"
	"github.com/san-kum/hyperstellar/internal/export"
	"github.com/san-kum/hyperstellar/internal/kernel"
	"github.com/san-kum/hyperstellar/internal/metrics"
	"github.com/san-kum/hyperstellar/internal/sim"
	"github.com/san-kum/hyperstellar/internal/tui"
)

var (
	dtOverride float64
	steps      int
	outDir     string
	live       bool
	frameRate  int
	gravConst  float64

	checkObjects int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "hyperstellar",
		Short: "equation-driven particle simulation engine",
	}

	runCmd := &cobra.Command{
		Use:   "run [scene]",
		Short: "run a scene file or preset headless",
		Args:  cobra.ExactArgs(1),
		RunE:  runScene,
	}
	runCmd.Flags().Float64Var(&dtOverride, "dt", 0, "timestep override")
	runCmd.Flags().IntVar(&steps, "steps", 0, "step count override")
	runCmd.Flags().StringVar(&outDir, "out", "", "directory for CSV trajectory output")
	runCmd.Flags().BoolVar(&live, "live", false, "render the world while running")
	runCmd.Flags().IntVar(&frameRate, "fps", 30, "live render frame rate")
	runCmd.Flags().Float64Var(&gravConst, "G", 1.0, "gravitational constant for energy reporting")

	viewCmd := &cobra.Command{
		Use:   "view [scene]",
		Short: "interactive terminal viewer",
		Args:  cobra.ExactArgs(1),
		RunE:  viewScene,
	}
	viewCmd.Flags().Float64Var(&dtOverride, "dt", 0, "timestep override")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in scenes",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				fmt.Printf("  %-12s %d objects, dt=%g, %d steps\n",
					name,
					len(config.Presets[name].Objects),
					config.Presets[name].Dt,
					config.Presets[name].Steps)
			}
		},
	}

	checkCmd := &cobra.Command{
		Use:   "check [equation]",
		Short: "parse and bind an equation without running it",
		Long: "Validates equation source against the schema. Cross-references\n" +
			"p[i] are checked against --objects live particles.",
		Args: cobra.ExactArgs(1),
		RunE: checkEquation,
	}
	checkCmd.Flags().IntVar(&checkObjects, "objects", 1, "live particle count to bind against")

	rootCmd.AddCommand(runCmd, viewCmd, presetsCmd, checkCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func loadScene(arg string) (*config.Scene, error) {
	if scene := config.Preset(arg); scene != nil {
		return scene, nil
	}
	return config.Load(arg)
}

func buildSim(arg string) (*sim.Simulation, *config.Scene, error) {
	scene, err := loadScene(arg)
	if err != nil {
		return nil, nil, err
	}
	if dtOverride > 0 {
		scene.Dt = dtOverride
	}
	if steps > 0 {
		scene.Steps = steps
	}

	s := sim.New()
	if err := scene.Apply(s); err != nil {
		return nil, nil, err
	}
	return s, scene, nil
}

func runScene(cmd *cobra.Command, args []string) error {
	s, scene, err := buildSim(args[0])
	if err != nil {
		return err
	}

	writer, err := export.NewWriter(outDir)
	if err != nil {
		return err
	}
	defer writer.Close()

	var renderer *tui.LiveRenderer
	if live {
		renderer = tui.NewLiveRenderer(frameRate)
		renderer.Begin()
		defer renderer.End()
	}

	energy := metrics.NewSeries("total_energy")
	drift := metrics.NewEnergyDrift(gravConst)

	for i := 0; i < scene.Steps; i++ {
		if err := s.Update(scene.Dt); err != nil {
			return err
		}
		recs := s.Records()
		energy.Add(metrics.SystemEnergy(recs, gravConst))
		drift.Observe(recs, s.Time())

		if err := writer.WriteFrame(s.Frame(), s.Time(), recs); err != nil {
			return err
		}
		if renderer != nil {
			renderer.OnFrame(recs, s.Time())
		}
	}

	fmt.Printf("\n%s: %d steps at dt=%g, %d objects\n",
		scene.Name, scene.Steps, scene.Dt, s.ObjectCount())

	if energy.Len() > 1 {
		fmt.Println("\ntotal energy:")
		fmt.Println(asciigraph.Plot(downsample(energy.Samples(), 72),
			asciigraph.Height(10), asciigraph.Precision(4)))
	}

	sum := energy.Summarize()
	fmt.Printf("\nenergy  mean=%.6g  stddev=%.3g  min=%.6g  max=%.6g\n",
		sum.Mean, sum.StdDev, sum.Min, sum.Max)
	fmt.Printf("max energy drift: %.4g%%\n", drift.Value()*100)

	if outDir != "" {
		fmt.Printf("trajectory written to %s\n", outDir)
	}
	return nil
}

func viewScene(cmd *cobra.Command, args []string) error {
	s, scene, err := buildSim(args[0])
	if err != nil {
		return err
	}
	return tui.RunInteractive(s, scene.Name, scene.Dt)
}

func checkEquation(cmd *cobra.Command, args []string) error {
	ast, err := equation.Parse(args[0])
	if err != nil {
		return err
	}
	prog, err := kernel.Bind(ast, checkObjects)
	if err != nil {
		return err
	}

	var parts []string
	parts = append(parts, "ax", "ay")
	if prog.HasTorque() {
		parts = append(parts, "torque")
	}
	if prog.HasColor() {
		parts = append(parts, "r", "g", "b", "a")
	}
	fmt.Printf("ok: channels [%s]", strings.Join(parts, " "))
	if refs := prog.Refs(); len(refs) > 0 {
		fmt.Printf(", references %v", refs)
	}
	fmt.Println()
	return nil
}

// downsample keeps plots readable for long runs.
func downsample(samples []float64, max int) []float64 {
	if len(samples) <= max {
		return samples
	}
	out := make([]float64, max)
	for i := 0; i < max; i++ {
		out[i] = samples[i*len(samples)/max]
	}
	return out
}
