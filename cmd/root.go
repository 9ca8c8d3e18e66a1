package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/queueing-sim/queueing-sim/sim"
)

var (
	configPath   string // JSON run configuration
	scenarioPath string // YAML scenario of replicated runs
	seed         int64  // overrides the config seed when > 0
	streams      int    // overrides the config stream count when > 0
	logLevel     string // log verbosity level
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "queueing-sim",
	Short: "Discrete-event simulator for queueing networks",
}

// runCmd executes a single simulation run from a JSON configuration
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one simulation",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		if configPath == "" {
			logrus.Fatal("no run configuration provided, use --config")
		}
		cfg, err := sim.LoadConfig(configPath)
		if err != nil {
			logrus.Fatalf("loading config: %v", err)
		}
		if seed > 0 {
			cfg.Seed = seed
		}
		if streams > 0 {
			cfg.Streams = streams
		}

		s, err := sim.New(cfg)
		if err != nil {
			logrus.Fatalf("building simulation: %v", err)
		}
		s.Run().Log()
	},
}

// scenarioCmd executes every replication of a YAML scenario, runs in
// parallel since replications share no state
var scenarioCmd = &cobra.Command{
	Use:   "scenario",
	Short: "Run a scenario of replicated simulations",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		if scenarioPath == "" {
			logrus.Fatal("no scenario provided, use --scenario")
		}
		sc, err := loadScenario(scenarioPath)
		if err != nil {
			logrus.Fatalf("loading scenario: %v", err)
		}
		reports, err := runScenario(sc)
		if err != nil {
			logrus.Fatalf("running scenario: %v", err)
		}
		for _, r := range reports {
			r.Log()
		}
	},
}

func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().StringVar(&configPath, "config", "", "Path to the JSON run configuration")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "Seed override (positive values only)")
	runCmd.Flags().IntVar(&streams, "streams", 0, "Stream count override (positive values only)")
	runCmd.Flags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")

	scenarioCmd.Flags().StringVar(&scenarioPath, "scenario", "", "Path to the YAML scenario file")
	scenarioCmd.Flags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(scenarioCmd)
}
