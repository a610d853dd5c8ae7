package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/rigsim/internal/assembly"
	"github.com/san-kum/rigsim/internal/automation"
	"github.com/san-kum/rigsim/internal/config"
	"github.com/san-kum/rigsim/internal/export"
	"github.com/san-kum/rigsim/internal/logging"
	"github.com/san-kum/rigsim/internal/mbgraph"
	"github.com/san-kum/rigsim/internal/metrics"
	"github.com/san-kum/rigsim/internal/storage"
	"github.com/san-kum/rigsim/internal/viz"
	"github.com/san-kum/rigsim/internal/world"
)

var (
	dataDir     string
	verbose     bool
	configFile  string
	preset      string
	step        float64
	duration    float64
	accuracy    float64
	metricsAddr string
	torque      string // constant joint force, model::joint=value
	torqueDof   int
	plotLink    string
	plotAxis    int
	svgOut      string
)

// main registers the rigsim commands and executes the root command,
// exiting with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:   "rigsim",
		Short: "articulated rigid body simulation lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".rigsim", "data directory")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run [family]",
		Short: "run a world and record link poses",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runWorld,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "world file (yaml), overrides preset")
	runCmd.Flags().StringVar(&preset, "preset", "default", "preset variant")
	runCmd.Flags().Float64Var(&step, "step", 0, "publish step")
	runCmd.Flags().Float64Var(&duration, "time", 0, "duration")
	runCmd.Flags().Float64Var(&accuracy, "accuracy", 0, "integration accuracy")
	runCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address")
	runCmd.Flags().StringVar(&torque, "torque", "", "constant joint force, model::joint=value")
	runCmd.Flags().IntVar(&torqueDof, "torque-dof", 0, "joint dof the torque applies to")

	scriptCmd := &cobra.Command{
		Use:   "script [file]",
		Short: "run a scripted scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}

	graphCmd := &cobra.Command{
		Use:   "graph [family]",
		Short: "print the multibody graph for a world",
		Args:  cobra.MaximumNArgs(1),
		RunE:  printGraph,
	}
	graphCmd.Flags().StringVar(&configFile, "config", "", "world file (yaml), overrides preset")
	graphCmd.Flags().StringVar(&preset, "preset", "default", "preset variant")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [family]",
		Short: "list preset worlds",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot link positions from a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&plotLink, "link", "", "link to plot (default: all)")
	plotCmd.Flags().IntVar(&plotAxis, "axis", 2, "position axis: 0=x 1=y 2=z")
	plotCmd.Flags().StringVar(&svgOut, "svg", "", "write link paths to an svg file instead")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	liveCmd := &cobra.Command{
		Use:   "live [family]",
		Short: "run a world with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&configFile, "config", "", "world file (yaml), overrides preset")
	liveCmd.Flags().StringVar(&preset, "preset", "default", "preset variant")
	liveCmd.Flags().Float64Var(&step, "step", 0, "publish step")
	liveCmd.Flags().Float64Var(&duration, "time", 0, "duration")

	rootCmd.AddCommand(runCmd, scriptCmd, graphCmd, listCmd, presetsCmd, plotCmd, exportCmd, liveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadWorldConfig resolves the world configuration for a command: an
// explicit file wins over a preset, and changed flags override either.
func loadWorldConfig(cmd *cobra.Command, args []string) (*config.WorldConfig, error) {
	var cfg *config.WorldConfig
	switch {
	case configFile != "":
		c, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
	case len(args) == 1:
		p := config.GetPreset(args[0], preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset %s/%s (families: %v)",
				args[0], preset, config.ListFamilies())
		}
		c := *p
		cfg = &c
	default:
		cfg = config.DefaultConfig()
	}

	if cmd.Flags().Changed("step") {
		cfg.Step = step
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("accuracy") {
		cfg.Accuracy = accuracy
	}
	return cfg, nil
}

func logLevel() slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

func runWorld(cmd *cobra.Command, args []string) error {
	cfg, err := loadWorldConfig(cmd, args)
	if err != nil {
		return err
	}

	logger := logging.New(logLevel())

	var opts []world.Option
	if metricsAddr != "" {
		col := metrics.New()
		opts = append(opts, world.WithHooks(col.Hooks()))
		mux := http.NewServeMux()
		mux.Handle("/metrics", col.Handler())
		go func() {
			if err := http.ListenAndServe(metricsAddr, mux); err != nil {
				logger.Error("metrics server failed", "error", err)
			}
		}()
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("running %s...\n", cfg.Name)
	start := time.Now()

	res, err := automation.RunStep(context.Background(), &automation.Step{
		World:     cfg,
		Torque:    torque,
		TorqueDof: torqueDof,
	}, st, logger, opts...)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", time.Since(start))
	fmt.Printf("run id: %s\n", res.RunID)
	fmt.Printf("steps: %d\n", res.Steps)
	fmt.Printf("links: %d\n", res.Links)
	return nil
}

func runScript(cmd *cobra.Command, args []string) error {
	sc, err := automation.Load(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	if sc.Description != "" {
		fmt.Println(sc.Description)
	}

	results, err := automation.Run(context.Background(), sc, st, logging.New(logLevel()))
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tWORLD\tRUN ID\tSTEPS\tLINKS\tTIME")
	for i, r := range results {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\t%.2fs\n",
			i+1, r.Name, r.RunID, r.Steps, r.Links, r.Time)
	}
	return w.Flush()
}

func printGraph(cmd *cobra.Command, args []string) error {
	cfg, err := loadWorldConfig(cmd, args)
	if err != nil {
		return err
	}

	for i := range cfg.Models {
		m, err := cfg.Models[i].ToModel()
		if err != nil {
			return err
		}
		if m.Static {
			fmt.Printf("model %s: static, no mobilizers\n\n", m.Name)
			continue
		}
		g, err := assembly.BuildGraph(m)
		if err != nil {
			return err
		}

		fmt.Printf("model %s: %d mobilizers, %d loop constraints\n",
			m.Name, len(g.Mobilizers), len(g.LoopConstraints))

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "JOINT\tTYPE\tINBOARD\tOUTBOARD\tNOTES")
		for _, mob := range g.Mobilizers {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				mob.JointName, mob.TypeName, mob.Inboard, mob.Outboard, mobNotes(mob))
		}
		if err := w.Flush(); err != nil {
			return err
		}

		if len(g.LoopConstraints) > 0 {
			fmt.Println()
			fmt.Fprintln(w, "LOOP JOINT\tTYPE\tMASTER\tSLAVE")
			for _, lc := range g.LoopConstraints {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					lc.JointName, lc.TypeName, lc.Master, lc.Slave)
			}
			if err := w.Flush(); err != nil {
				return err
			}
		}
		fmt.Println()
	}
	return nil
}

func mobNotes(m mbgraph.Mobilizer) string {
	var notes []string
	if m.IsAddedBase {
		notes = append(notes, "added base")
	}
	if m.IsSlave {
		notes = append(notes, "slave of "+m.Master)
	}
	if m.IsReversed {
		notes = append(notes, "reversed")
	}
	return strings.Join(notes, ", ")
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
	fmt.Fprintln(w, "ID\tWORLD\tTIME\tDURATION\tSTEP\tLINKS\tSTEPS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%d\t%d\n",
			run.ID,
			run.World,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Step,
			len(run.Links),
			run.Steps,
		)
	}

	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		for _, family := range config.ListFamilies() {
			fmt.Printf("%s: %s\n", family, strings.Join(config.ListPresets(family), ", "))
		}
		return nil
	}

	family := args[0]
	names := config.ListPresets(family)
	if len(names) == 0 {
		return fmt.Errorf("unknown family: %s (available: %v)", family, config.ListFamilies())
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tMODELS\tSTEP\tDURATION\tACCURACY\tGRAVITY")
	for _, name := range names {
		cfg := config.GetPreset(family, name)
		fmt.Fprintf(w, "%s\t%d\t%.4fs\t%.1fs\t%g\t(%.2f %.2f %.2f)\n",
			name, len(cfg.Models), cfg.Step, cfg.Duration, cfg.Accuracy,
			cfg.Gravity[0], cfg.Gravity[1], cfg.Gravity[2])
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
	tr, err := st.LoadPoses(runID)
	if err != nil {
		return err
	}
	if len(tr.Poses) == 0 {
		return fmt.Errorf("no data to plot")
	}

	links := tr.Links
	if plotLink != "" {
		links = []string{plotLink}
	}

	if svgOut != "" {
		svg, err := export.PathSVG(tr, links, 800, 600)
		if err != nil {
			return err
		}
		if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgOut)
		return nil
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("world: %s\n", meta.World)
	fmt.Printf("samples: %d\n\n", len(tr.Poses))

	axisName := [3]string{"x", "y", "z"}
	for _, l := range links {
		data, err := viz.Series(tr, l, plotAxis)
		if err != nil {
			return err
		}
		fmt.Println(viz.Chart(data, fmt.Sprintf("%s %s", l, axisName[plotAxis]), 80, 10))
		fmt.Println()
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadWorldConfig(cmd, args)
	if err != nil {
		return err
	}

	// The world logs to stderr, which would tear the live view.
	w, err := automation.BuildWorld(cfg, logging.NewNop())
	if err != nil {
		return err
	}

	p := tea.NewProgram(viz.NewLive(w, cfg.Name, cfg.Step, cfg.Duration))
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
