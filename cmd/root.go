package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dice-sim/dice-sim/sim"
)

var (
	// Expression flags
	diceText     string // Dice notation, e.g. "3d6+2"
	ifText       string // Decision trigger dice
	opText       string // Decision comparison operator
	decisionVal  int    // Decision threshold
	thenText     string // Decision payoff dice
	scenarioPath string // YAML scenario file

	// Engine flags
	iterations int    // Number of trials
	seed       int64  // Master seed
	parallel   bool   // Use the worker pool
	workers    int    // Worker count, 0 = available parallelism
	reduction  string // Partial PMF reduction policy

	// Output flags
	logLevel     string // Log verbosity level
	outputFormat string // "text" or "json"
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "dice-sim",
	Short: "Monte Carlo simulator for dice expressions",
}

// runCmd estimates the outcome distribution of an expression
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Simulate a dice expression and print its PMF",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging(logLevel)

		sc, err := buildScenario(cmd)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if !cmd.Flags().Changed("iterations") && sc.Iterations > 0 {
			logrus.Infof("Using %d iterations from scenario", sc.Iterations)
		}

		logrus.Infof("Starting simulation: iterations=%d, parallel=%v, seed=%d", sc.Iterations, sc.Parallel, sc.Seed)
		res, err := sim.Run(sc)
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		if res.Iterations != res.Requested {
			logrus.Warnf("Dropped %d iterations not divisible across %d workers", res.Requested-res.Iterations, res.Workers)
		}

		if err := writeResult(os.Stdout, res, outputFormat); err != nil {
			logrus.Fatalf("Writing result: %v", err)
		}
		logrus.Info("Simulation complete.")
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogging(name string) {
	level, err := logrus.ParseLevel(name)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", name)
	}
	logrus.SetLevel(level)
}

// buildScenario starts from --scenario when given and applies every flag the
// user set explicitly on top of it.
func buildScenario(cmd *cobra.Command) (*sim.Scenario, error) {
	sc := &sim.Scenario{Version: "1", Seed: seed, Iterations: iterations}
	if scenarioPath != "" {
		loaded, err := sim.LoadScenario(scenarioPath)
		if err != nil {
			return nil, err
		}
		sc = loaded
		logrus.Infof("Loaded scenario from %s", scenarioPath)
	}
	flags := cmd.Flags()

	if scenarioPath == "" || flags.Changed("seed") {
		sc.Seed = seed
	}
	if scenarioPath == "" || flags.Changed("iterations") {
		sc.Iterations = iterations
	}
	if flags.Changed("parallel") {
		sc.Parallel = parallel
	}
	if flags.Changed("workers") {
		sc.Workers = workers
	}
	if flags.Changed("reduction") {
		sc.Reduction = reduction
	}
	if flags.Changed("dice") {
		sc.Dice = diceText
		sc.Decisions = nil
	}
	if decisionFlagsChanged(cmd) {
		sc.Dice = ""
		sc.Decisions = []sim.DecisionSpec{{If: ifText, Op: opText, Value: decisionVal, Then: thenText}}
	}
	return sc, nil
}

// decisionFlagsChanged reports whether any of --if, --op, --value or --then
// was set, which selects decision mode.
func decisionFlagsChanged(cmd *cobra.Command) bool {
	for _, name := range []string{"if", "op", "value", "then"} {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

// writeResult prints res as a text table or JSON.
func writeResult(w io.Writer, res *sim.Result, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case "text", "":
		writeText(w, res)
		return nil
	}
	return fmt.Errorf("unknown format %q; valid: text, json", format)
}

func writeText(w io.Writer, res *sim.Result) {
	_, _ = fmt.Fprintf(w, "=== %s ===\n", res.Expression)
	_, _ = fmt.Fprintf(w, "iterations: %d (workers=%d)  elapsed: %.1fms\n", res.Iterations, res.Workers, res.ElapsedMs)
	s := res.Summary
	_, _ = fmt.Fprintf(w, "mean: %.3f  stddev: %.3f  median: %.0f  p5: %.0f  p95: %.0f  mode: %d\n",
		s.Mean, s.StdDev, s.Median, s.P5, s.P95, s.Mode)

	peak := 0.0
	for _, p := range res.PMF {
		peak = max(peak, p)
	}
	for v, p := range res.PMF {
		if p == 0 {
			continue
		}
		bar := 0
		if peak > 0 {
			bar = int(p / peak * 40)
		}
		_, _ = fmt.Fprintf(w, "%4d  %.6f  %s\n", v, p, strings.Repeat("#", bar))
	}
}

func addExpressionFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&diceText, "dice", "", "Dice notation, e.g. \"3d6+2\" or \"1d8,2d6\"")
	cmd.Flags().StringVar(&ifText, "if", "", "Decision trigger dice, e.g. \"1d20\"")
	cmd.Flags().StringVar(&opText, "op", ">=", "Decision comparison (<=, >=, <, >, ==)")
	cmd.Flags().IntVar(&decisionVal, "value", 0, "Decision threshold")
	cmd.Flags().StringVar(&thenText, "then", "", "Decision payoff dice")
	cmd.Flags().StringVar(&scenarioPath, "scenario", "", "Path to YAML scenario file (flags override its fields)")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Master seed for the simulation RNG")
	cmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
}

// init sets up CLI flags and subcommands
func init() {
	addExpressionFlags(runCmd)
	runCmd.Flags().IntVar(&iterations, "iterations", 1_000_000, "Number of simulated trials")
	runCmd.Flags().BoolVar(&parallel, "parallel", false, "Split trials across a worker pool")
	runCmd.Flags().IntVar(&workers, "workers", 0, "Worker count for --parallel (0 = GOMAXPROCS)")
	runCmd.Flags().StringVar(&reduction, "reduction", "", "Partial PMF reduction: renormalize (default), sum")
	runCmd.Flags().StringVar(&outputFormat, "format", "text", "Output format: text, json")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
