package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/san-kum/quadlab/internal/config"
	"github.com/san-kum/quadlab/internal/convergence"
	"github.com/san-kum/quadlab/internal/experiment"
	"github.com/san-kum/quadlab/internal/logging"
	"github.com/san-kum/quadlab/internal/report"
	"github.com/san-kum/quadlab/internal/storage"
	"github.com/san-kum/quadlab/internal/tui"
	"github.com/spf13/cobra"
)

var (
	dataDir  string
	logLevel string
	noColor  bool

	configFile string
	preset     string
	rules      []string
	left       float64
	right      float64
	exact      float64
	start      int
	limit      int
	parallel   bool
	save       bool
	showPlot   bool

	svgOut    string
	svgWidth  int
	svgHeight int

	logger *slog.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "quadlab",
		Short:         "composite quadrature convergence lab",
		Long:          "quadlab integrates ln(0.5x) with composite quadrature rules and estimates their\nempirical order and Richardson-extrapolated value by repeated step halving.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logging.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logger = logging.New(os.Stderr, level, noColor)
			slog.SetDefault(logger)
			return nil
		},
		RunE: runConvergence,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".quadlab", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored logs")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the convergence study",
		Args:  cobra.NoArgs,
		RunE:  runConvergence,
	}
	for _, c := range []*cobra.Command{rootCmd, runCmd} {
		c.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
		c.Flags().StringVar(&preset, "preset", "", "use preset configuration")
		c.Flags().StringSliceVar(&rules, "rule", nil, "rule to test (repeatable)")
		c.Flags().Float64Var(&left, "left", config.DefaultLeft, "left interval bound")
		c.Flags().Float64Var(&right, "right", config.DefaultRight, "right interval bound")
		c.Flags().Float64Var(&exact, "exact", 0, "exact integral (default: analytic value)")
		c.Flags().IntVar(&start, "start", config.DefaultStart, "first partition count")
		c.Flags().IntVar(&limit, "limit", config.DefaultLimit, "largest partition count")
		c.Flags().BoolVar(&parallel, "parallel", false, "run rules concurrently")
		c.Flags().BoolVar(&save, "save", false, "store the run in the data directory")
		c.Flags().BoolVar(&showPlot, "plot", false, "plot order estimates after the tables")
		c.MarkFlagsMutuallyExclusive("config", "preset")
	}

	rulesCmd := &cobra.Command{
		Use:   "rules",
		Short: "list available rules",
		Args:  cobra.NoArgs,
		RunE:  listRules,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write a config file from defaults or a preset",
		Args:  cobra.ExactArgs(1),
		RunE:  initConfig,
	}
	initCmd.Flags().StringVar(&preset, "preset", "", "preset to write")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "print the tables of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot order and error of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a stored run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export the error curves of a stored run to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&svgOut, "out", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 640, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 400, "image height")

	browseCmd := &cobra.Command{
		Use:   "browse [run_id]",
		Short: "browse a stored run interactively",
		Args:  cobra.ExactArgs(1),
		RunE:  browseRun,
	}

	rootCmd.AddCommand(runCmd, rulesCmd, presetsCmd, initCmd, listCmd, showCmd, plotCmd, exportJSONCmd, exportSVGCmd, browseCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, report.ErrorStyle.Render("error: "+err.Error()))
		os.Exit(1)
	}
}

// resolveConfig starts from the preset, the config file or the defaults,
// then applies any flag set on the command line.
func resolveConfig(cmd *cobra.Command) (*config.Config, string, error) {
	cfg, name, err := config.Resolve(preset, configFile)
	if err != nil {
		return nil, "", err
	}

	flags := cmd.Flags()
	if flags.Changed("rule") {
		cfg.Rules = rules
		cfg.CustomRules = nil
	}
	if flags.Changed("left") {
		cfg.Left = left
	}
	if flags.Changed("right") {
		cfg.Right = right
	}
	if flags.Changed("exact") {
		cfg.Exact = exact
		cfg.AutoExact = false
	}
	if flags.Changed("start") {
		cfg.Start = start
	}
	if flags.Changed("limit") {
		cfg.Limit = limit
	}
	if flags.Changed("parallel") {
		cfg.Parallel = parallel
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, name, nil
}

func runConvergence(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	reg := experiment.NewRegistry()
	exp, err := experiment.New(name, cfg, reg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("starting", "interval", fmt.Sprintf("[%g, %g]", cfg.Left, cfg.Right),
		"exact", exp.Exact(), "rules", cfg.RuleNames(), "parallel", cfg.Parallel)
	began := time.Now()

	passes, err := exp.Run(ctx, logging.RowObserver(logger))
	if err != nil {
		return err
	}
	logger.Info("completed", "elapsed", time.Since(began), "passes", len(passes))

	fmt.Printf("integral of ln(0.5x) over [%g, %g], exact = %.15f\n\n", cfg.Left, cfg.Right, exp.Exact())
	if err := report.WriteTables(os.Stdout, passes); err != nil {
		return err
	}
	fmt.Println()
	if err := report.WriteSummary(os.Stdout, passes, exp.Exact()); err != nil {
		return err
	}

	if showPlot {
		if err := printPlots(passes); err != nil {
			return err
		}
	}

	if save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(exp.Metadata(), passes)
		if err != nil {
			return err
		}
		logger.Info("saved", "run", runID, "dir", dataDir)
		fmt.Printf("\nrun id: %s\n", runID)
	}

	return nil
}

func printPlots(passes []*convergence.Pass) error {
	names := make([]string, len(passes))
	for i, p := range passes {
		names[i] = p.Rule
	}

	for _, plot := range []func([]*convergence.Pass) (string, error){report.PlotOrders, report.PlotErrors} {
		graph, err := plot(passes)
		if err != nil {
			return err
		}
		fmt.Println()
		fmt.Println(graph)
	}
	fmt.Println(report.Subtle.Render("series: " + strings.Join(names, ", ")))
	return nil
}

func listRules(cmd *cobra.Command, args []string) error {
	reg := experiment.NewRegistry()
	fmt.Println(report.HeaderStyle.Render("reference rules on [-1, 1]"))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RULE\tPOINTS\tNODES")
	for _, name := range reg.ListRules() {
		r, err := reg.GetRule(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%d\t%v\n", name, r.Len(), r.Nodes())
	}
	fmt.Fprintln(w, "gaussN\tN\tGauss-Legendre roots, N <= 64")
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	names := config.ListPresets()
	sort.Strings(names)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tINTERVAL\tN\tRULES")
	for _, name := range names {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t[%g, %g]\t%d..%d\t%s\n", name, p.Left, p.Right, p.Start, p.Limit/2, strings.Join(p.RuleNames(), ","))
	}
	return w.Flush()
}

func initConfig(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return fmt.Errorf("unknown preset: %s", preset)
		}
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", args[0])
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
	fmt.Fprintln(w, "ID\tTIME\tINTERVAL\tN\tRULES")
	for _, run := range runs {
		names := make([]string, len(run.Rules))
		for i, r := range run.Rules {
			names[i] = r.Name
		}
		fmt.Fprintf(w, "%s\t%s\t[%g, %g]\t%d..%d\t%s\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Left,
			run.Right,
			run.Start,
			run.Limit/2,
			strings.Join(names, ","),
		)
	}
	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, []*convergence.Pass, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	passes, err := st.LoadPasses(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(passes) == 0 {
		return nil, nil, fmt.Errorf("run %s has no rows", runID)
	}
	return meta, passes, nil
}

func showRun(cmd *cobra.Command, args []string) error {
	meta, passes, err := loadRun(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("interval: [%g, %g], exact = %.15f\n\n", meta.Left, meta.Right, meta.Exact)
	if err := report.WriteTables(os.Stdout, passes); err != nil {
		return err
	}
	fmt.Println()
	return report.WriteSummary(os.Stdout, passes, meta.Exact)
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, passes, err := loadRun(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("run: %s\n", meta.ID)
	return printPlots(passes)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, passes, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, *meta, passes)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	_, passes, err := loadRun(args[0])
	if err != nil {
		return err
	}
	svg := report.PassesToSVG(passes, svgWidth, svgHeight)
	if svg == "" {
		return report.ErrNothingToPlot
	}
	if svgOut == "" {
		_, err := fmt.Println(svg)
		return err
	}
	if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", svgOut)
	return nil
}

func browseRun(cmd *cobra.Command, args []string) error {
	meta, passes, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return tui.Run(fmt.Sprintf("%s  [%g, %g]", meta.ID, meta.Left, meta.Right), passes)
}
