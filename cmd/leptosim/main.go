package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/san-kum/leptosim/internal/config"
	"github.com/san-kum/leptosim/internal/integrators"
	"github.com/san-kum/leptosim/internal/logger"
	"github.com/spf13/cobra"
)

var (
	dataDir string
	debug   bool

	configFile string
	preset     string

	kParam  float64
	epsEE   float64
	epsMM   float64
	epsTT   float64
	zMin    float64
	zMax    float64
	points  int
	samples int
	method  string
	quadLim int

	noSave      bool
	withDensity bool

	sweepKs  []float64
	workers  int
	column   string
	outPath  string
	chartW   int
	chartH   int
	nDensity int

	closeLog func() error
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "leptosim",
		Short:         "leptogenesis without kinetic equilibrium of the decaying neutrino",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cleanup, err := logger.Setup(logger.Config{DataDir: dataDir, Debug: debug})
			if err != nil {
				return fmt.Errorf("set up logging: %w", err)
			}
			closeLog = cleanup
			logger.L().Debug("cli.command", "name", cmd.CommandPath(), "args", args)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if closeLog != nil {
				return closeLog()
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".leptosim", "data directory")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "solve one parameter point and print eta_B",
		Args:  cobra.NoArgs,
		RunE:  runSolve,
	}
	addModelFlags(runCmd)
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	runCmd.Flags().BoolVar(&withDensity, "density", false, "also store the RHN number density")

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "solve with a live progress view",
		Args:  cobra.NoArgs,
		RunE:  runWatch,
	}
	addModelFlags(watchCmd)
	watchCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	densityCmd := &cobra.Command{
		Use:   "density",
		Short: "print the RHN and equilibrium number densities",
		Args:  cobra.NoArgs,
		RunE:  runDensity,
	}
	addModelFlags(densityCmd)
	densityCmd.Flags().IntVar(&nDensity, "points", 20, "number of z points")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "solve several K values in parallel",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addModelFlags(sweepCmd)
	sweepCmd.Flags().Float64SliceVar(&sweepKs, "ks", nil, "washout parameters to scan")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "parallel solves (default GOMAXPROCS)")
	sweepCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the runs")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored trajectory",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&column, "column", "n_l", "series to plot (n_l, n_n, n_n_eq)")
	plotCmd.Flags().IntVar(&chartW, "width", 80, "chart width")
	plotCmd.Flags().IntVar(&chartH, "height", 15, "chart height")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export the trajectory to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export metadata and trajectory to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render a stored series as an SVG plot",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().StringVar(&column, "column", "n_l", "series to plot (n_l, n_n, n_n_eq)")
	exportSVGCmd.Flags().IntVar(&chartW, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&chartH, "height", 400, "image height")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list configuration presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Printf("  %-10s K=%-8g z=[%g, %g] grid=%d\n", name, p.K, p.Z.Min, p.Z.Max, p.Grid.Points)
			}
			return nil
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage configuration files",
	}
	configInitCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a configuration file",
		Args:  cobra.ExactArgs(1),
		RunE:  initConfig,
	}
	configInitCmd.Flags().StringVar(&preset, "preset", "", "start from a preset")
	configCmd.AddCommand(configInitCmd)

	methodsCmd := &cobra.Command{
		Use:   "methods",
		Short: "list ODE methods",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, m := range integrators.Methods() {
				fmt.Println(m)
			}
		},
	}

	rootCmd.AddCommand(runCmd, watchCmd, densityCmd, sweepCmd, listCmd, showCmd, plotCmd,
		exportCSVCmd, exportJSONCmd, exportSVGCmd, presetsCmd, configCmd, methodsCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func addModelFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.Float64Var(&kParam, "K", config.DefaultK, "washout parameter")
	f.Float64Var(&epsEE, "eps-ee", 2e-7, "CP asymmetry, e flavour")
	f.Float64Var(&epsMM, "eps-mm", 3e-7, "CP asymmetry, mu flavour")
	f.Float64Var(&epsTT, "eps-tt", 5e-7, "CP asymmetry, tau flavour")
	f.Float64Var(&zMin, "zmin", config.DefaultZMin, "start of the z span")
	f.Float64Var(&zMax, "zmax", config.DefaultZMax, "end of the z span")
	f.IntVar(&points, "grid", config.DefaultGridPoints, "momentum grid points")
	f.IntVar(&samples, "samples", config.DefaultSamples, "log-spaced output samples")
	f.StringVar(&method, "method", "RK45", "ODE method for both solves")
	f.IntVar(&quadLim, "quad-limit", config.DefaultQuadLimit, "quadrature subdivision limit")
}

// resolveConfig layers defaults, preset, config file and changed flags, in
// that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("K") {
		cfg.K = kParam
	}
	if flags.Changed("eps-ee") {
		cfg.Epsilon.EE = epsEE
	}
	if flags.Changed("eps-mm") {
		cfg.Epsilon.MM = epsMM
	}
	if flags.Changed("eps-tt") {
		cfg.Epsilon.TT = epsTT
	}
	if flags.Changed("zmin") {
		cfg.Z.Min = zMin
	}
	if flags.Changed("zmax") {
		cfg.Z.Max = zMax
	}
	if flags.Changed("grid") {
		cfg.Grid.Points = points
	}
	if flags.Changed("samples") {
		cfg.Asymmetry.Samples = samples
	}
	if flags.Changed("method") {
		cfg.Distribution.Method = method
		cfg.Asymmetry.Method = method
	}
	if flags.Changed("quad-limit") {
		cfg.Quadrature.Limit = quadLim
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func initConfig(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if preset != "" {
		if cfg = config.GetPreset(preset); cfg == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", args[0])
	return nil
}
