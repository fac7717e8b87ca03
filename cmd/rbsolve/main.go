package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/rbsolve/internal/config"
	"github.com/san-kum/rbsolve/internal/constraint"
	"github.com/san-kum/rbsolve/internal/export"
	"github.com/san-kum/rbsolve/internal/linalg"
	"github.com/san-kum/rbsolve/internal/pool"
	"github.com/san-kum/rbsolve/internal/rigid"
	"github.com/san-kum/rbsolve/internal/shape"
	"github.com/san-kum/rbsolve/internal/step"
	"github.com/san-kum/rbsolve/internal/storage"
	"github.com/san-kum/rbsolve/internal/tui"
)

// bobSphere is the mass distribution every free body in these demo
// scenarios is given: a solid sphere of radius 0.5, mass 1.
var bobSphere = shape.Sphere{Radius: 0.5}

// bobInertia is bobSphere's inverse local inertia tensor at mass 1.
func bobInertia() linalg.Mat3 {
	i := bobSphere.InertiaLocal(1)
	return linalg.DiagMat3(1/i[0], 1/i[4], 1/i[8])
}

var (
	dataDir     string
	variant     string
	dt          float64
	steps       int
	seed        int64
	threadModel string
	threadCount int
	frameRate   int
)

// main registers commands and flags and executes the root command. It
// exits with status 1 if command execution returns an error.
func main() {
	rootCmd := &cobra.Command{
		Use:   "rbsolve",
		Short: "impulse-based rigid-body solver lab",
		Run: func(cmd *cobra.Command, args []string) {
			if err := tui.RunInteractive(); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		},
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".rbsolve", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [model]",
		Short: "run a scenario headless and save its sample history",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	runCmd.Flags().StringVar(&variant, "variant", "", "preset variant (see `rbsolve presets`)")
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	runCmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "step count")
	runCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed, recorded only (no stochastic behavior yet)")
	runCmd.Flags().StringVar(&threadModel, "thread-model", "regular", "persistent | regular")
	runCmd.Flags().IntVar(&threadCount, "threads", 1, "worker pool size")

	liveCmd := &cobra.Command{
		Use:   "live [model]",
		Short: "run a scenario with a live terminal view",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&variant, "variant", "", "preset variant")
	liveCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	liveCmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "step count")
	liveCmd.Flags().IntVar(&frameRate, "fps", 20, "max terminal refresh rate")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "interactive scenario menu",
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.RunInteractive()
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "ascii-plot a run's residual and position history",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print run metadata as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportMeta,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "print a run's sample history as csv",
		Args:  cobra.ExactArgs(1),
		RunE:  runExportCSV,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "print a run's tracked-body trajectory as svg",
		Args:  cobra.ExactArgs(1),
		RunE:  runExportSVG,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list preset variants for a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			variants := config.ListPresets(args[0])
			if len(variants) == 0 {
				fmt.Printf("no presets for model: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, v := range variants {
				fmt.Printf("  %s\n", v)
			}
			return nil
		},
	}

	benchCmd := &cobra.Command{
		Use:   "bench [model]",
		Short: "benchmark step throughput across thread count/model configurations",
		Args:  cobra.ExactArgs(1),
		RunE:  benchScenario,
	}
	benchCmd.Flags().StringVar(&variant, "variant", "", "preset variant")

	rootCmd.AddCommand(runCmd, liveCmd, tuiCmd, listCmd, plotCmd, exportCmd, exportCSVCmd, exportSVGCmd, presetsCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveScenario looks up the --variant preset for model. If that variant
// does not exist it takes one of the model's presets (the first in map
// iteration order, so which one is not fixed); a model with no presets
// gets config.DefaultScenario. It then overlays the dt, steps,
// thread-model and threads flags the caller actually set, and always
// records the --seed value.
func resolveScenario(cmd *cobra.Command, model string) *config.Scenario {
	sc := config.GetPreset(model, variant)
	if sc == nil {
		variants := config.ListPresets(model)
		if len(variants) > 0 {
			sc = config.GetPreset(model, variants[0])
		}
	}
	if sc == nil {
		sc = config.DefaultScenario()
		sc.Model = model
	}
	cp := *sc
	if cmd.Flags().Changed("dt") {
		cp.Dt = dt
	}
	if cmd.Flags().Changed("steps") {
		cp.Steps = steps
	}
	if cmd.Flags().Changed("thread-model") {
		cp.Step.ThreadModel = threadModel
	}
	if cmd.Flags().Changed("threads") {
		cp.Step.ThreadCount = threadCount
	}
	cp.Seed = seed
	return &cp
}

// buildWorld wires bodies and constraint rows for model into a fresh
// World built from sc, returning the handle of the body worth tracking.
func buildWorld(sc *config.Scenario) (*step.World, rigid.Handle) {
	tm := pool.Regular
	if sc.Step.ThreadModel == "persistent" {
		tm = pool.Persistent
	}
	w := step.NewWorld(sc.World, linalg.Vec3{sc.Gravity[0], sc.Gravity[1], sc.Gravity[2]}, tm, sc.Step.ThreadCount)

	anchor, _ := w.AddBody()
	ab, _ := w.Bodies.Get(anchor)
	ab.InverseMass = 0
	ab.RecomputeWorldInertia()

	switch sc.Model {
	case "chain":
		prev := anchor
		prevAnchor := linalg.Vec3{0, 0, 0}
		n := sc.World.BodyCount - 1
		if n < 1 {
			n = 1
		}
		var tracked rigid.Handle
		for i := 0; i < n; i++ {
			h, _ := w.AddBody()
			b, _ := w.Bodies.Get(h)
			b.Position = linalg.Vec3{0, prevAnchor.Y() - 1, 0}
			b.InverseInertiaLocal = bobInertia()
			b.RecomputeWorldInertia()

			row, err := constraint.NewHinge(prev, h, w.Bodies, linalg.Vec3{1, 0, 0}, -math.Pi/3, math.Pi/3, 0, 0, 0.2, 0.2)
			if err == nil {
				w.AddConstraint(row)
			}
			prev = h
			prevAnchor = b.Position
			tracked = h
		}
		return w, tracked

	case "point_on_plane":
		bob, _ := w.AddBody()
		bb, _ := w.Bodies.Get(bob)
		bb.Position = linalg.Vec3{0, 2, 0}
		bb.InverseInertiaLocal = bobInertia()
		bb.RecomputeWorldInertia()
		row, err := constraint.NewPointOnPlane(anchor, bob, w.Bodies, linalg.Vec3{0, 1, 0}, linalg.Vec3{0, 0, 0}, linalg.Vec3{0, 2, 0}, 0, 0.5, 0, 0.2)
		if err == nil {
			w.AddConstraint(row)
		}
		return w, bob

	default: // "hinge"
		bob, _ := w.AddBody()
		bb, _ := w.Bodies.Get(bob)
		bb.Position = linalg.Vec3{0, 2, 0}
		bb.InverseInertiaLocal = bobInertia()
		bb.RecomputeWorldInertia()
		bb.AngularVelocity = linalg.Vec3{0.5, 0, 0}
		row, err := constraint.NewHinge(anchor, bob, w.Bodies, linalg.Vec3{0, 1, 0}, -math.Pi/4, math.Pi/4, 0, 0, 0.2, 0.2)
		if err == nil {
			w.AddConstraint(row)
		}
		return w, bob
	}
}

func residualOf(w *step.World) float64 {
	total := 0.0
	for _, row := range w.Constraints.IterActive() {
		if h, ok := row.(*constraint.Hinge); ok {
			total += h.AccumulatedImpulse.Len()
		}
		if p, ok := row.(*constraint.PointOnPlane); ok {
			total += math.Abs(p.AccumulatedImpulse)
		}
	}
	return total
}

func runScenario(cmd *cobra.Command, args []string) error {
	model := args[0]
	sc := resolveScenario(cmd, model)

	w, tracked := buildWorld(sc)
	defer w.Close()

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	samples := make([]storage.Sample, 0, sc.Steps)
	t := 0.0
	start := time.Now()
	for i := 0; i < sc.Steps; i++ {
		if err := w.Step(sc.Dt, sc.Step.ThreadCount > 1, sc.Step); err != nil {
			return err
		}
		t += sc.Dt

		b, err := w.Bodies.Get(tracked)
		if err != nil {
			return err
		}
		samples = append(samples, storage.Sample{
			Time:        t,
			Position:    [3]float64{b.Position.X(), b.Position.Y(), b.Position.Z()},
			Orientation: [4]float64{b.Orientation.W, b.Orientation.V.X(), b.Orientation.V.Y(), b.Orientation.V.Z()},
			Residual:    residualOf(w),
		})
	}
	elapsed := time.Since(start)

	runID, err := st.Save(model, sc.Dt, sc.Steps, sc.Seed, sc.Step.ThreadModel, sc.Step.ThreadCount, samples)
	if err != nil {
		return err
	}

	fmt.Printf("completed %d steps in %v\n", sc.Steps, elapsed)
	fmt.Printf("run id: %s\n", runID)
	if len(samples) > 0 {
		last := samples[len(samples)-1]
		fmt.Printf("final residual: %.6f\n", last.Residual)
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	model := args[0]
	sc := resolveScenario(cmd, model)

	w, tracked := buildWorld(sc)
	defer w.Close()

	renderer := tui.NewLiveRenderer(model, frameRate)
	renderer.Start()
	defer renderer.Stop()

	t := 0.0
	for i := 0; i < sc.Steps; i++ {
		if err := w.Step(sc.Dt, sc.Step.ThreadCount > 1, sc.Step); err != nil {
			return err
		}
		t += sc.Dt

		b, err := w.Bodies.Get(tracked)
		if err != nil {
			return err
		}
		renderer.OnStep(b.Position, b.Orientation, residualOf(w), t)
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tTIME\tSTEPS\tDT\tTHREADS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.4fs\t%s(%d)\n",
			run.ID, run.Model, run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Steps, run.Dt, run.ThreadModel, run.ThreadCount)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\nmodel: %s\nsamples: %d\n\n", meta.ID, meta.Model, len(samples))

	residual := make([]float64, len(samples))
	posY := make([]float64, len(samples))
	for i, s := range samples {
		residual[i] = s.Residual
		posY[i] = s.Position[1]
	}

	fmt.Println(asciigraph.Plot(residual, asciigraph.Height(10), asciigraph.Width(80), asciigraph.Caption("constraint residual")))
	fmt.Println()
	fmt.Println(asciigraph.Plot(posY, asciigraph.Height(10), asciigraph.Width(80), asciigraph.Caption("tracked body y position")))
	return nil
}

func exportMeta(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func runExportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write([]string{"time", "px", "py", "pz", "qw", "qx", "qy", "qz", "residual"}); err != nil {
		return err
	}
	for _, s := range samples {
		row := []string{
			strconv.FormatFloat(s.Time, 'f', 6, 64),
			strconv.FormatFloat(s.Position[0], 'f', 6, 64),
			strconv.FormatFloat(s.Position[1], 'f', 6, 64),
			strconv.FormatFloat(s.Position[2], 'f', 6, 64),
			strconv.FormatFloat(s.Orientation[0], 'f', 6, 64),
			strconv.FormatFloat(s.Orientation[1], 'f', 6, 64),
			strconv.FormatFloat(s.Orientation[2], 'f', 6, 64),
			strconv.FormatFloat(s.Orientation[3], 'f', 6, 64),
			strconv.FormatFloat(s.Residual, 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// runExportSVG renders a run's tracked-body trajectory (x, y plane) as a
// standalone SVG document printed to stdout, independent of the
// terminal's braille canvas.
func runExportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to export")
	}

	points := make([]struct{ X, Y float64 }, len(samples))
	for i, s := range samples {
		points[i] = struct{ X, Y float64 }{s.Position[0], s.Position[1]}
	}

	svg := export.TrajectoryToSVG(points, 640, 480, "#39ff14")
	fmt.Println(svg)
	return nil
}

func benchScenario(cmd *cobra.Command, args []string) error {
	model := args[0]
	sc := resolveScenario(cmd, model)

	configs := []struct {
		threads     int
		threadModel string
	}{
		{1, "regular"},
		{2, "regular"},
		{4, "regular"},
		{4, "persistent"},
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "THREADS\tMODEL\tSTEPS\tTIME\tSTEPS/SEC")

	for _, c := range configs {
		cp := *sc
		cp.Step.ThreadCount = c.threads
		cp.Step.ThreadModel = c.threadModel

		world, _ := buildWorld(&cp)
		start := time.Now()
		for i := 0; i < cp.Steps; i++ {
			if err := world.Step(cp.Dt, c.threads > 1, cp.Step); err != nil {
				world.Close()
				return err
			}
		}
		elapsed := time.Since(start)
		world.Close()

		stepsPerSec := float64(cp.Steps) / elapsed.Seconds()
		fmt.Fprintf(w, "%d\t%s\t%d\t%v\t%.0f\n", c.threads, c.threadModel, cp.Steps, elapsed, stepsPerSec)
	}

	return w.Flush()
}
