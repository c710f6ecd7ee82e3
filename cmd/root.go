package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	sim "github.com/inference-sim/market-sim/sim"
	"github.com/inference-sim/market-sim/sim/trace"
)

var (
	// CLI flags for the market
	configPath        string    // YAML config file
	logLevel          string    // Log verbosity level
	seed              int64     // Seed for the run's random stream
	horizon           int       // Simulation time steps
	lambdaC           float64   // Nurse arrivals per step
	mu                float64   // Shift reopening rate
	considerationSize int       // Consideration set size (k)
	nShifts           int       // Shift population
	treatmentProb     float64   // Probability a shift is treated
	treatmentBoost    float64   // Utility boost of treated shifts
	positionWeights   []float64 // Per-rank choice weights

	// CLI flags for run handling
	replications  int    // Number of seeded runs
	traceLevel    string // Per-step trace verbosity
	rollingWindow int    // Window of the rolling booking rates in the trace panel
	showEvents    int    // Number of booking events to list
	checkResult   bool   // Re-derive counters from the event log
	plainOutput   bool   // Skip styled rendering
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "market-sim",
	Short: "Discrete-time simulator of a nurse shift marketplace under A/B treatment",
}

// runCmd executes the simulation using the resolved configuration
var runCmd = &cobra.Command{
	Use:          "run",
	Short:        "Run the marketplace simulation",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", logLevel, err)
		}
		logrus.SetLevel(level)

		cfg, err := buildConfig(cmd, configPath, nil)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return runReplications(ctx, cmd.OutOrStdout(), cfg)
	},
}

// runReplications runs the configured number of replications sequentially.
// Replication i uses seed+i, so more than one replication needs a seed.
func runReplications(ctx context.Context, w io.Writer, cfg sim.Config) error {
	if replications < 1 {
		return fmt.Errorf("--replications must be at least 1, got %d", replications)
	}
	if !trace.IsValidTraceLevel(traceLevel) {
		return fmt.Errorf("unknown --trace-level %q; valid levels: none, steps", traceLevel)
	}
	if rollingWindow < 1 {
		return fmt.Errorf("--rolling-window must be at least 1, got %d", rollingWindow)
	}
	if replications > 1 && cfg.RandomSeed == nil {
		return errors.New("--replications > 1 requires a seed (--seed, random_seed or MARKETSIM_RANDOM_SEED)")
	}

	results := make([]*sim.Result, 0, replications)
	for i := 0; i < replications; i++ {
		runCfg := cfg
		if cfg.RandomSeed != nil {
			runCfg = cfg.WithSeed(*cfg.RandomSeed + int64(i))
		}
		res, err := runOnce(ctx, w, runCfg)
		if err != nil {
			return err
		}
		results = append(results, res)
		if ctx.Err() != nil {
			logrus.Warnf("Interrupted after %d of %d replications", i+1, replications)
			break
		}
	}
	if len(results) > 1 {
		fmt.Fprintln(w, renderReplications(results))
	}
	logrus.Info("Simulation complete.")
	return nil
}

// runOnce runs a single simulation and renders its output.
func runOnce(ctx context.Context, w io.Writer, cfg sim.Config) (*sim.Result, error) {
	traceCfg := trace.TraceConfig{Level: trace.TraceLevel(traceLevel)}
	s, err := sim.NewSimulator(cfg, sim.WithTrace(traceCfg))
	if err != nil {
		return nil, err
	}
	res := s.Run(ctx)

	if checkResult {
		if err := res.Validate(); err != nil {
			return nil, fmt.Errorf("result check failed for run %s: %w", res.RunID, err)
		}
	}

	if plainOutput {
		res.Print(w)
	} else {
		fmt.Fprintln(w, renderResult(res))
	}
	if traceCfg.Enabled() {
		fmt.Fprintln(w, renderTracking(res, s.Shifts(), cfg.K, rollingWindow))
	}
	if showEvents > 0 {
		fmt.Fprintln(w, renderEvents(res.Events, showEvents))
	}
	return res, nil
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// registerRunFlags binds the run flags to their package variables.
func registerRunFlags(flags *pflag.FlagSet) {
	defaults := sim.DefaultConfig()

	flags.StringVar(&configPath, "config", "", "Path to a YAML config file")
	flags.StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	flags.Int64Var(&seed, "seed", 0, "Seed for the random stream (random when unset)")

	// Market configs
	flags.IntVar(&horizon, "horizon", defaults.Horizon, "Number of simulation time steps")
	flags.Float64Var(&lambdaC, "lambda", defaults.LambdaC, "Nurse arrivals per step (Poisson mean)")
	flags.Float64Var(&mu, "mu", defaults.Mu, "Shift reopening rate (mean delay 1/mu)")
	flags.IntVar(&considerationSize, "k", defaults.K, "Consideration set size")
	flags.IntVar(&nShifts, "shifts", defaults.NShifts, "Number of shifts")
	flags.Float64Var(&treatmentProb, "treatment-prob", defaults.TreatmentProb, "Probability a shift is treated")
	flags.Float64Var(&treatmentBoost, "treatment-boost", defaults.TreatmentBoost, "Utility added to treated shifts")
	flags.Float64SliceVar(&positionWeights, "position-weights", defaults.PositionWeights, "Comma-separated per-rank choice weights")

	// Run handling
	flags.IntVar(&replications, "replications", 1, "Number of runs; run i uses seed+i")
	flags.StringVar(&traceLevel, "trace-level", string(trace.TraceLevelNone), "Per-step trace verbosity (none, steps)")
	flags.IntVar(&rollingWindow, "rolling-window", 50, "Window in steps of the rolling booking rates shown with --trace-level steps")
	flags.IntVar(&showEvents, "events", 0, "Print the first N booking events")
	flags.BoolVar(&checkResult, "check", false, "Re-derive counters from the event log and fail on mismatch")
	flags.BoolVar(&plainOutput, "plain", false, "Print unstyled results")
}

// init sets up CLI flags and subcommands
func init() {
	registerRunFlags(runCmd.Flags())

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
