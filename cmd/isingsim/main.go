package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/san-kum/isingsim/internal/analysis"
	"github.com/san-kum/isingsim/internal/automation"
	"github.com/san-kum/isingsim/internal/config"
	"github.com/san-kum/isingsim/internal/ising"
	"github.com/san-kum/isingsim/internal/metrics"
	"github.com/san-kum/isingsim/internal/report"
	"github.com/san-kum/isingsim/internal/storage"
	"github.com/san-kum/isingsim/internal/sweep"
)

var (
	dataDir    string
	verbose    bool
	configFile string
	preset     string
	save       bool
	plotObs    string
	perSpin    bool
	plain      bool
	extra      bool
	plotWidth  int
	plotHeight int
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	rootCmd := &cobra.Command{
		Use:   "isingsim",
		Short: "2-D Ising model Metropolis temperature sweeps",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
			if verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".isingsim", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run a temperature sweep",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&configFile, "config", "", "sweep config file (yaml)")
	sweepCmd.Flags().StringVar(&preset, "preset", "", "use a named preset instead of a config file")
	sweepCmd.Flags().BoolVar(&save, "save", false, "store the results under the data directory")
	sweepCmd.Flags().StringVar(&plotObs, "plot", "", "chart an observable after the sweep (m, abs, e, cv, acc)")
	sweepCmd.Flags().BoolVar(&perSpin, "per-spin", false, "print observables divided by the number of sites")
	sweepCmd.Flags().BoolVar(&plain, "plain", false, "disable header styling")
	sweepCmd.Flags().BoolVar(&extra, "metrics", false, "also measure |M|, susceptibility and acceptance rate")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved sweeps",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "print a saved sweep",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}
	showCmd.Flags().BoolVar(&perSpin, "per-spin", false, "print observables divided by the number of sites")
	showCmd.Flags().BoolVar(&plain, "plain", false, "disable header styling")

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "chart an observable of a saved sweep",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&plotObs, "observable", "cv", "observable to chart (m, abs, e, cv, acc)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id] [path]",
		Short: "export a saved sweep to JSON",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := storage.New(dataDir).ExportJSON(args[1], args[0]); err != nil {
				return err
			}
			log.Info().Str("run", args[0]).Str("path", args[1]).Msg("exported")
			return nil
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write the default sweep config to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultConfig()
			if preset != "" {
				if cfg = config.GetPreset(preset); cfg == nil {
					return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
				}
			}
			return config.Save(args[0], cfg)
		},
	}
	initCmd.Flags().StringVar(&preset, "preset", "", "start from a named preset")

	for _, c := range []*cobra.Command{sweepCmd, plotCmd} {
		c.Flags().IntVar(&plotWidth, "width", 80, "chart width")
		c.Flags().IntVar(&plotHeight, "height", 15, "chart height")
	}

	batchCmd := &cobra.Command{
		Use:   "batch [scenario]",
		Short: "run every sweep of a yaml scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}
	batchCmd.Flags().BoolVar(&save, "save", true, "store the results under the data directory")
	batchCmd.Flags().BoolVar(&plain, "plain", false, "disable header styling")

	rootCmd.AddCommand(sweepCmd, batchCmd, listCmd, showCmd, plotCmd, exportJSONCmd, presetsCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("isingsim failed")
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	switch {
	case preset != "" && configFile != "":
		return nil, fmt.Errorf("--preset and --config are mutually exclusive")
	case preset != "":
		cfg := config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		return cfg, nil
	case configFile != "":
		return config.Load(configFile)
	default:
		return config.DefaultConfig(), nil
	}
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	sc, err := cfg.Sweep()
	if err != nil {
		return err
	}
	if err := sc.Validate(); err != nil {
		return err
	}

	var obs report.Observable
	if plotObs != "" {
		if obs, err = report.ParseObservable(plotObs); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	driver := sweep.New(sc, sweep.WithLogger(log.Logger))
	if extra {
		driver.AddMetric(metrics.NewAbsMagnetization())
		driver.AddMetric(metrics.NewSusceptibility())
		driver.AddMetric(metrics.NewAcceptanceRate())
	}
	driver.AddObserver(report.NewTable(os.Stdout, tableOptions(sc.Rows*sc.Columns)...))

	began := time.Now()
	records, err := driver.Run(ctx)
	elapsed := time.Since(began)
	if err != nil {
		if len(records) > 0 {
			log.Warn().Int("points", len(records)).Msg("sweep stopped early, partial results discarded")
		}
		return err
	}

	if save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(sc, records, elapsed)
		if err != nil {
			return err
		}
		log.Info().Str("run", runID).Str("dir", dataDir).Msg("sweep saved")
	}

	if plotObs != "" {
		fmt.Println()
		fmt.Println(report.Plot(records, obs, plotWidth, plotHeight))
	}
	return nil
}

func tableOptions(sites int) []report.TableOption {
	var opts []report.TableOption
	if plain {
		opts = append(opts, report.Plain())
	}
	if perSpin {
		opts = append(opts, report.PerSpin(sites))
	}
	return opts
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
	fmt.Fprintln(w, "ID\tTIME\tLATTICE\tSTEPS\tT RANGE\tPOINTS\tELAPSED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%dx%d\t%d\t%.2f..%.2f/%.2f\t%d\t%s\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Rows, run.Columns,
			run.Steps,
			run.TempStart, run.TempEnd, run.TempStep,
			run.Points,
			run.Elapsed.Round(time.Millisecond),
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
	records, err := st.LoadRecords(args[0])
	if err != nil {
		return err
	}

	label := func(k string, v any) {
		fmt.Printf("%s %s\n", report.LabelStyle.Render(fmt.Sprintf("%-10s", k)), report.ValueStyle.Render(fmt.Sprint(v)))
	}
	label("run:", meta.ID)
	label("lattice:", fmt.Sprintf("%dx%d", meta.Rows, meta.Columns))
	label("steps:", meta.Steps)
	label("seed:", meta.Seed)
	label("start:", startLabel(meta.OrderedStart))
	label("burn-in:", meta.BurnIn)
	label("reset:", meta.ResetEachTemperature)
	if tc, err := analysis.EstimateTc(records); err == nil {
		label("Cv peak:", fmt.Sprintf("T=%.3f (exact T_c=%.3f)", tc, analysis.CriticalTemperature))
	}
	fmt.Println()

	return report.WriteTable(os.Stdout, records, tableOptions(meta.Rows*meta.Columns)...)
}

func runBatch(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	opts := automation.Options{
		Logger: log.Logger,
		Observers: func(run string, sc sweep.Config) []ising.Observer {
			fmt.Printf("\n%s\n", report.CaptionStyle.Render(run))
			return []ising.Observer{report.NewTable(os.Stdout, tableOptions(sc.Rows*sc.Columns)...)}
		},
	}
	if save {
		opts.Store = storage.New(dataDir)
		if err := opts.Store.Init(); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	outcomes, err := automation.RunScenario(ctx, scenario, opts)
	for _, o := range outcomes {
		ev := log.Info().Str("run", o.Name).Int("points", len(o.Records)).Dur("elapsed", o.Elapsed)
		if o.RunID != "" {
			ev = ev.Str("id", o.RunID)
		}
		if tc, err := analysis.EstimateTc(o.Records); err == nil {
			ev = ev.Float64("cv_peak", tc)
		}
		ev.Msg("run finished")
	}
	return err
}

func startLabel(ordered int) string {
	switch ising.Spin(ordered) {
	case ising.Up:
		return "ordered (+1)"
	case ising.Down:
		return "ordered (-1)"
	default:
		return "random"
	}
}

func plotRun(cmd *cobra.Command, args []string) error {
	obs, err := report.ParseObservable(plotObs)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	records, err := st.LoadRecords(args[0])
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("points: %d\n\n", len(records))
	fmt.Println(report.Plot(records, obs, plotWidth, plotHeight))
	fmt.Println(report.CaptionStyle.Render("x axis: temperature index"))
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tLATTICE\tSTEPS\tT RANGE\tSTART\tBURN-IN\tRESET")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%dx%d\t%d\t%.2f..%.2f/%.2f\t%s\t%d\t%v\n",
			name,
			p.Rows, p.Columns,
			p.Steps,
			p.Temperature.Start, p.Temperature.End, p.Temperature.Step,
			p.Initial,
			p.BurnIn,
			p.ResetEachTemperature,
		)
	}
	return w.Flush()
}
