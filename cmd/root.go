package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/blockspace-sim/blockspace-sim/sim"
)

var (
	// CLI flags for the simulation run
	logLevel     string   // Log verbosity level
	duration     float64  // Simulated seconds the scenario spans
	stepSize     float64  // Simulated seconds per step
	scenarioName string   // Built-in or catalog-file scenario name
	catalogFile  string   // Optional YAML file overriding the built-in catalogs
	csvPath      string   // Optional CSV export path for the state history
	techSpecs    []string // resource=multiplier pairs for the primary run
	compareSpecs []string // resource=multiplier pairs for a side-by-side comparison run

	// CLI flags for the fee controller and demand model
	initialFee        float64 // Base fee at t=0
	minFee            float64 // Fee floor
	baselineFee       float64 // Fee at which demand sits at its base rate (0 = use initial fee)
	targetUtilization float64 // Utilization the controller steers toward
	maxChangeRate     float64 // Max fractional fee change per step
	volatilityOmega   float64 // Demand volatility sine frequency (rad/s)
	drainFraction     float64 // Share of admitted throughput clearing backlog per second
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "blockspace-sim",
	Short: "Multi-resource throughput and fee simulator for blockspace markets",
}

// runCmd executes one simulation (optionally two, for a tech comparison)
// using parameters from CLI flags.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the throughput and fee simulation",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg, err := buildConfig()
		if err != nil {
			logrus.Fatalf("Configuration error: %v", err)
		}

		logrus.Infof("Starting simulation: scenario=%s duration=%.0fs dt=%.2fs target=%.2f",
			cfg.Scenario.Name, cfg.Duration, stepSize, cfg.Fee.TargetUtilization)

		history, err := sim.RunToCompletion(cfg, stepSize)
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		sim.CollectMetrics(history, stepSize).Print()

		if csvPath != "" {
			if err := WriteHistoryCSV(csvPath, history, cfg); err != nil {
				logrus.Fatalf("CSV export failed: %v", err)
			}
			logrus.Infof("Wrote %d rows to %s", len(history), csvPath)
		}

		if len(compareSpecs) > 0 {
			multipliers, err := parseTechSpecs(compareSpecs)
			if err != nil {
				logrus.Fatalf("Invalid --compare-tech: %v", err)
			}
			// A comparison run gets its own config and state; the engine does
			// not protect concurrent runs that share mutable pieces.
			compareCfg := cfg.WithTechMultipliers(multipliers)
			compareHistory, err := sim.RunToCompletion(compareCfg, stepSize)
			if err != nil {
				logrus.Fatalf("Comparison run failed: %v", err)
			}
			fmt.Printf("\n--- with tech multipliers %v ---\n", multipliers)
			sim.CollectMetrics(compareHistory, stepSize).Print()
		}
	},
}

// buildConfig assembles and validates the SimulationConfig from flags and the
// optional catalog file.
func buildConfig() (*sim.SimulationConfig, error) {
	resources, err := sim.NewResourceCatalog(sim.DefaultResources())
	if err != nil {
		return nil, err
	}
	categories, err := sim.NewCategoryCatalog(sim.DefaultCategories(), resources)
	if err != nil {
		return nil, err
	}
	customScenarios := map[string]sim.Scenario{}

	if catalogFile != "" {
		resources, categories, customScenarios, err = LoadCatalogFile(catalogFile)
		if err != nil {
			return nil, fmt.Errorf("catalog file %s: %w", catalogFile, err)
		}
		logrus.Infof("Loaded catalog from %s: %d resources, %d categories, %d custom scenarios",
			catalogFile, len(resources.Resources), len(categories.Categories), len(customScenarios))
	}

	scenario, ok := customScenarios[scenarioName]
	if !ok {
		scenario, err = sim.ScenarioByName(scenarioName)
		if err != nil {
			return nil, err
		}
	}

	techMultipliers, err := parseTechSpecs(techSpecs)
	if err != nil {
		return nil, fmt.Errorf("invalid --tech: %w", err)
	}

	cfg := sim.NewSimulationConfig(resources, categories, scenario)
	cfg.TechMultipliers = techMultipliers
	cfg.Duration = duration
	cfg.InitialFee = initialFee
	cfg.Fee.MinFee = minFee
	cfg.Fee.TargetUtilization = targetUtilization
	cfg.Fee.MaxChangeRate = maxChangeRate
	cfg.Demand.VolatilityOmega = volatilityOmega
	cfg.Demand.BaselineFee = baselineFee
	if cfg.Demand.BaselineFee == 0 {
		cfg.Demand.BaselineFee = initialFee
	}
	cfg.DrainFraction = drainFraction

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseTechSpecs turns repeated "resource=multiplier" flag values into the
// engine's multiplier map.
func parseTechSpecs(specs []string) (map[string]float64, error) {
	multipliers := make(map[string]float64, len(specs))
	for _, spec := range specs {
		name, value, found := strings.Cut(spec, "=")
		if !found || name == "" {
			return nil, fmt.Errorf("expected resource=multiplier, got %q", spec)
		}
		mult, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("multiplier in %q: %w", spec, err)
		}
		multipliers[name] = mult
	}
	return multipliers, nil
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().Float64Var(&duration, "duration", 120, "Simulated seconds the scenario spans")
	runCmd.Flags().Float64Var(&stepSize, "dt", 0.5, "Simulated seconds per step")
	runCmd.Flags().StringVar(&scenarioName, "scenario", "steady", "Scenario name (built-in or from --catalog file)")
	runCmd.Flags().StringVar(&catalogFile, "catalog", "", "YAML file with resource/category catalogs and custom scenarios")
	runCmd.Flags().StringVar(&csvPath, "csv", "", "Write the state history to this CSV file")
	runCmd.Flags().StringSliceVar(&techSpecs, "tech", nil, "Tech multiplier as resource=multiplier (repeatable)")
	runCmd.Flags().StringSliceVar(&compareSpecs, "compare-tech", nil, "Run a second simulation with these resource=multiplier values and print both summaries")

	// Fee controller and demand model configs
	runCmd.Flags().Float64Var(&initialFee, "initial-fee", 20, "Base fee at t=0")
	runCmd.Flags().Float64Var(&minFee, "min-fee", 0.01, "Base fee floor")
	runCmd.Flags().Float64Var(&baselineFee, "baseline-fee", 0, "Fee at which demand sits at its base rate (0 = initial fee)")
	runCmd.Flags().Float64Var(&targetUtilization, "target-utilization", 0.5, "Bottleneck utilization the fee controller steers toward")
	runCmd.Flags().Float64Var(&maxChangeRate, "max-change-rate", 0.125, "Max fractional fee change per step")
	runCmd.Flags().Float64Var(&volatilityOmega, "volatility-omega", 0.25, "Demand volatility sine frequency (rad per simulated second)")
	runCmd.Flags().Float64Var(&drainFraction, "drain-fraction", 0.1, "Share of admitted throughput clearing backlog per second")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
