package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/leptosim/internal/asymmetry"
	"github.com/san-kum/leptosim/internal/config"
	"github.com/san-kum/leptosim/internal/dynamo"
	"github.com/san-kum/leptosim/internal/leptogenesis"
	"github.com/san-kum/leptosim/internal/logger"
	"github.com/san-kum/leptosim/internal/metrics"
	"github.com/san-kum/leptosim/internal/storage"
	"github.com/san-kum/leptosim/internal/sweep"
	"github.com/san-kum/leptosim/internal/viz"
	"github.com/spf13/cobra"
)

type outcome struct {
	cfg     *config.Config
	model   *leptogenesis.Model
	traj    *asymmetry.Trajectory
	etaB    float64
	metrics map[string]float64
	nn, neq []float64
	elapsed time.Duration
}

// solve builds the model and integrates N_l. phase, when set, is told about
// each stage.
func solve(ctx context.Context, cfg *config.Config, phase func(string), observers ...dynamo.Observer) (*outcome, error) {
	mc, err := cfg.Model()
	if err != nil {
		return nil, err
	}
	mc.Logger = logger.L()

	start := time.Now()
	if phase != nil {
		phase("solving RHN distribution")
	}
	m, err := leptogenesis.New(ctx, cfg.Source(), mc)
	if err != nil {
		return nil, err
	}

	if phase != nil {
		phase("solving lepton asymmetry")
	}
	set := metrics.Standard()
	traj, err := m.Asymmetry(ctx, append(observers, set)...)
	if err != nil {
		return nil, err
	}
	eta, err := m.EtaB(ctx)
	if err != nil {
		return nil, err
	}

	return &outcome{
		cfg:     cfg,
		model:   m,
		traj:    traj,
		etaB:    eta,
		metrics: set.Values(),
		elapsed: time.Since(start),
	}, nil
}

func (o *outcome) addDensities() error {
	nn, err := o.model.RHNDensity(o.traj.Z)
	if err != nil {
		return err
	}
	neq, err := o.model.EquilibriumDensity(o.traj.Z)
	if err != nil {
		return err
	}
	o.nn, o.neq = nn, neq
	return nil
}

func (o *outcome) metadata() storage.RunMetadata {
	return storage.RunMetadata{
		Model:          o.model.ShortName(),
		Case:           o.model.Case().String(),
		Preset:         preset,
		K:              o.model.K(),
		Epsilon:        o.model.Epsilon(),
		ZMin:           o.cfg.Z.Min,
		ZMax:           o.cfg.Z.Max,
		GridPoints:     o.cfg.Grid.Points,
		Method:         o.traj.Method,
		Terminal:       o.traj.Terminal(),
		EtaB:           o.etaB,
		Steps:          o.traj.Stats.Accepted,
		Rejected:       o.traj.Stats.Rejected,
		RHSEvaluations: o.traj.RHSEvaluations,
		ElapsedSeconds: o.elapsed.Seconds(),
		Metrics:        o.metrics,
	}
}

func (o *outcome) report(runID string) viz.Report {
	return viz.Report{
		RunID:          runID,
		Model:          o.model.ShortName(),
		Case:           o.model.Case().String(),
		K:              o.model.K(),
		Epsilon:        o.model.Epsilon(),
		EtaB:           o.etaB,
		Terminal:       o.traj.Terminal(),
		Method:         o.traj.Method,
		Steps:          o.traj.Stats.Accepted,
		Rejected:       o.traj.Stats.Rejected,
		RHSEvaluations: o.traj.RHSEvaluations,
		Elapsed:        o.elapsed,
		Metrics:        o.metrics,
	}
}

func (o *outcome) save() (string, error) {
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return "", err
	}
	return st.Save(o.metadata(), storage.Series{Z: o.traj.Z, NL: o.traj.NL, NN: o.nn, NEq: o.neq})
}

func runSolve(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("solving K=%g eps=%g on z=[%g, %g]...\n", cfg.K, cfg.Epsilon.Total(), cfg.Z.Min, cfg.Z.Max)
	out, err := solve(cmd.Context(), cfg, func(p string) { fmt.Println("  " + p) })
	if err != nil {
		return err
	}
	if withDensity {
		if err := out.addDensities(); err != nil {
			return err
		}
	}

	var runID string
	if !noSave {
		if runID, err = out.save(); err != nil {
			return err
		}
	}

	fmt.Println(viz.RenderReport(out.report(runID)))
	fmt.Println(viz.Chart("N_l", out.traj.Z, out.traj.NL, 70, 10))
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	p := tea.NewProgram(viz.NewProgress(cfg.Z.Min, cfg.Z.Max))

	go func() {
		out, err := solve(ctx, cfg, func(s string) { p.Send(viz.PhaseMsg(s)) }, viz.StepObserver(p.Send))
		if err != nil {
			p.Send(viz.DoneMsg{Err: err})
			return
		}
		var runID string
		if !noSave {
			if runID, err = out.save(); err != nil {
				p.Send(viz.DoneMsg{Err: err})
				return
			}
		}
		p.Send(viz.DoneMsg{Report: out.report(runID)})
	}()

	final, err := p.Run()
	if err != nil {
		return err
	}
	prog := final.(viz.Progress)
	if prog.Aborted() {
		cancel()
		return context.Canceled
	}
	return prog.Err()
}

func runDensity(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	mc, err := cfg.Model()
	if err != nil {
		return err
	}
	mc.Logger = logger.L()

	m, err := leptogenesis.New(cmd.Context(), cfg.Source(), mc)
	if err != nil {
		return err
	}

	zs, err := asymmetry.SamplePoints(cfg.Z.Min, cfg.Z.Max, nDensity)
	if err != nil {
		return err
	}
	nn, err := m.RHNDensity(zs)
	if err != nil {
		return err
	}
	neq, err := m.EquilibriumDensity(zs)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Z\tN_N\tN_N^EQ\tRATIO")
	for i, z := range zs {
		ratio := 0.0
		if neq[i] != 0 {
			ratio = nn[i] / neq[i]
		}
		fmt.Fprintf(w, "%.4g\t%.6e\t%.6e\t%.4f\n", z, nn[i], neq[i], ratio)
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	if len(sweepKs) == 0 {
		return fmt.Errorf("sweep needs at least one --ks value")
	}
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	mc, err := cfg.Model()
	if err != nil {
		return err
	}
	mc.Logger = logger.L()

	points := sweep.Grid(sweepKs, [3]float64{cfg.Epsilon.EE, cfg.Epsilon.MM, cfg.Epsilon.TT})
	runner := sweep.NewRunner(mc, workers)
	runner.OnProgress(func(done, total int) {
		fmt.Fprintf(os.Stderr, "\r%s %d/%d", viz.ProgressBar(float64(done)/float64(total), 30), done, total)
	})

	fmt.Fprintf(os.Stderr, "sweeping %d points on %d workers\n", len(points), runner.Workers())
	results, err := runner.Run(cmd.Context(), points)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	rows := make([]viz.SweepRow, len(results))
	for i, res := range results {
		rows[i] = viz.SweepRow{
			K:       res.Point.K,
			Epsilon: cfg.Epsilon.Total(),
			EtaB:    res.EtaB,
			Steps:   res.Trajectory.Stats.Accepted,
			Elapsed: res.Trajectory.Elapsed,
		}
		if noSave {
			continue
		}
		meta := storage.RunMetadata{
			Model:          "1BE1FCase2",
			Case:           mc.Case.String(),
			Preset:         preset,
			K:              res.Point.K,
			Epsilon:        cfg.Epsilon.Total(),
			ZMin:           cfg.Z.Min,
			ZMax:           cfg.Z.Max,
			GridPoints:     cfg.Grid.Points,
			Method:         res.Trajectory.Method,
			Terminal:       res.Trajectory.Terminal(),
			EtaB:           res.EtaB,
			Steps:          res.Trajectory.Stats.Accepted,
			Rejected:       res.Trajectory.Stats.Rejected,
			RHSEvaluations: res.Trajectory.RHSEvaluations,
			ElapsedSeconds: res.Trajectory.Elapsed.Seconds(),
		}
		if _, err := st.Save(meta, storage.Series{Z: res.Trajectory.Z, NL: res.Trajectory.NL}); err != nil {
			return err
		}
	}

	fmt.Print(viz.RenderSweep(rows))
	return nil
}
