package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/san-kum/leptosim/internal/export"
	"github.com/san-kum/leptosim/internal/storage"
	"github.com/san-kum/leptosim/internal/viz"
	"github.com/spf13/cobra"
)

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
	fmt.Fprintln(w, "ID\tCASE\tTIME\tK\tEPS\tETA_B\tSTEPS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%g\t%g\t%.4e\t%d\n",
			run.ID,
			run.Case,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.K,
			run.Epsilon,
			run.EtaB,
			run.Steps,
		)
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	fmt.Println(viz.RenderReport(viz.Report{
		RunID:          meta.ID,
		Model:          meta.Model,
		Case:           meta.Case,
		K:              meta.K,
		Epsilon:        meta.Epsilon,
		EtaB:           meta.EtaB,
		Terminal:       meta.Terminal,
		Method:         meta.Method,
		Steps:          meta.Steps,
		Rejected:       meta.Rejected,
		RHSEvaluations: meta.RHSEvaluations,
		Elapsed:        time.Duration(meta.ElapsedSeconds * float64(time.Second)),
		Metrics:        meta.Metrics,
	}))
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	series, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}

	ys, err := pickColumn(series, args[0])
	if err != nil {
		return err
	}

	fmt.Println(viz.Chart(column, series.Z, ys, chartW, chartH))
	return nil
}

func pickColumn(series *storage.Series, runID string) ([]float64, error) {
	var ys []float64
	switch column {
	case "n_l":
		ys = series.NL
	case "n_n":
		ys = series.NN
	case "n_n_eq":
		ys = series.NEq
	default:
		return nil, fmt.Errorf("unknown column: %s (available: n_l, n_n, n_n_eq)", column)
	}
	if ys == nil {
		return nil, fmt.Errorf("run %s has no %s column (store it with run --density)", runID, column)
	}
	return ys, nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	series, err := storage.New(dataDir).LoadSeries(args[0])
	if err != nil {
		return err
	}
	ys, err := pickColumn(series, args[0])
	if err != nil {
		return err
	}

	p := export.DefaultPlot()
	p.Width, p.Height = chartW, chartH
	p.Title = fmt.Sprintf("%s  %s", args[0], column)
	return withOutput(func(w io.Writer) error {
		return export.WriteSVG(w, series.Z, ys, p)
	})
}

func exportCSV(cmd *cobra.Command, args []string) error {
	return withOutput(func(w io.Writer) error {
		return storage.New(dataDir).ExportCSV(w, args[0])
	})
}

func exportJSON(cmd *cobra.Command, args []string) error {
	return withOutput(func(w io.Writer) error {
		return storage.New(dataDir).ExportJSON(w, args[0])
	})
}

func withOutput(fn func(io.Writer) error) error {
	if outPath == "" {
		return fn(os.Stdout)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "exported to %s\n", outPath)
	return nil
}
