package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/replensim/replensim/sim"
	"github.com/replensim/replensim/sim/dataset"
)

var (
	runConfigPath string // Path to experiment config YAML (empty = built-in defaults)
	runSeed       int64  // Master seed override for all random streams
	runDays       int    // Test horizon override (in days)
)

// runCmd executes the full experiment: load the input tables, simulate both
// arms, analyze, and write every result table plus the executive summary.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the replenishment policy experiment",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadExperimentConfig(cmd, runConfigPath)
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}

		skus, demand, orders, err := loadTables(cfg)
		if err != nil {
			logrus.Fatalf("Failed to load input tables: %v", err)
		}

		startTime := time.Now()

		result, err := sim.RunExperiment(cfg, skus, demand, orders)
		if err != nil {
			logrus.Fatalf("Experiment failed: %v", err)
		}

		if err := writeRunOutputs(cfg.Data.ResultsDir, result); err != nil {
			logrus.Fatalf("Failed to write results: %v", err)
		}

		logrus.Infof("Experiment finished in %v, results in %s",
			time.Since(startTime).Round(time.Millisecond), cfg.Data.ResultsDir)
		fmt.Println(result.Analysis.Summary)
	},
}

// loadExperimentConfig resolves the effective configuration: the YAML file
// when a path is given, built-in defaults otherwise, with explicitly-set
// CLI flags overriding either source. Commands without seed/days flags get
// the config values untouched.
func loadExperimentConfig(cmd *cobra.Command, path string) (*sim.ExperimentConfig, error) {
	cfg := sim.DefaultConfig()
	if path != "" {
		loaded, err := sim.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if cmd.Flags().Changed("seed") {
		cfg.ABTest.RandomSeed = runSeed
	}
	if cmd.Flags().Changed("days") {
		cfg.Simulation.TestDurationDays = runDays
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadTables reads the SKU master, demand history, and purchase orders from
// the processed-data directory. SKUs with blank ABC classes trigger a
// reclassification of the whole catalog (the ranking is relative, so partial
// classification would skew the cutoffs). A missing purchase-order table is
// synthesized from the master rather than treated as an error.
func loadTables(cfg *sim.ExperimentConfig) ([]sim.SKU, []sim.DemandRecord, []sim.PurchaseOrder, error) {
	dir := cfg.Data.ProcessedDir

	skus, err := dataset.LoadSKUMaster(filepath.Join(dir, dataset.SKUMasterFile))
	if err != nil {
		return nil, nil, nil, err
	}
	demand, err := dataset.LoadDailyDemand(filepath.Join(dir, dataset.DailyDemandFile))
	if err != nil {
		return nil, nil, nil, err
	}

	unclassified := 0
	for _, s := range skus {
		if s.ABCClass == "" {
			unclassified++
		}
	}
	if unclassified > 0 {
		logrus.Infof("%d of %d SKUs lack an ABC class, reclassifying catalog by revenue", unclassified, len(skus))
		skus = dataset.ClassifyABC(skus, demand)
	}

	var orders []sim.PurchaseOrder
	poPath := filepath.Join(dir, dataset.PurchaseOrdersFile)
	if _, statErr := os.Stat(poPath); os.IsNotExist(statErr) {
		logrus.Warnf("%s not found, synthesizing purchase order history", poPath)
		rng := sim.NewPartitionedRNG(sim.NewSimulationKey(cfg.ABTest.RandomSeed))
		orders = dataset.SynthesizePurchaseOrders(skus, time.Now(), rng.ForSubsystem(sim.SubsystemSynthesis))
	} else {
		orders, err = dataset.LoadPurchaseOrders(poPath)
		if err != nil {
			return nil, nil, nil, err
		}
	}

	return skus, demand, orders, nil
}

// writeRunOutputs persists both arms' per-SKU results plus the analysis
// tables under resultsDir, creating the directory if needed.
func writeRunOutputs(resultsDir string, result *sim.ExperimentResult) error {
	if err := os.MkdirAll(resultsDir, 0755); err != nil {
		return fmt.Errorf("creating results dir: %w", err)
	}
	if err := dataset.WriteSimulationResults(filepath.Join(resultsDir, dataset.ControlResultsFile), result.Control); err != nil {
		return err
	}
	if err := dataset.WriteSimulationResults(filepath.Join(resultsDir, dataset.TreatmentResultsFile), result.Treatment); err != nil {
		return err
	}
	return writeAnalysisOutputs(resultsDir, result.Analysis)
}

// writeAnalysisOutputs persists the statistical comparisons, the ROI table,
// and the executive summary under resultsDir.
func writeAnalysisOutputs(resultsDir string, analysis *sim.AnalysisResult) error {
	if err := os.MkdirAll(resultsDir, 0755); err != nil {
		return fmt.Errorf("creating results dir: %w", err)
	}
	if err := dataset.WriteComparisons(filepath.Join(resultsDir, dataset.StatisticalResultsFile), analysis.Comparisons()); err != nil {
		return err
	}
	if err := dataset.WriteROI(filepath.Join(resultsDir, dataset.ROIAnalysisFile), analysis.ROI); err != nil {
		return err
	}
	return dataset.WriteSummary(filepath.Join(resultsDir, dataset.ExecutiveSummaryFile), analysis.Summary)
}

// init sets up CLI flags for the run subcommand
func init() {
	runCmd.Flags().StringVar(&runConfigPath, "config", "", "Path to experiment config YAML (default: built-in defaults)")
	runCmd.Flags().Int64Var(&runSeed, "seed", 42, "Master seed for assignment and demand sampling (overrides config)")
	runCmd.Flags().IntVar(&runDays, "days", 90, "Test duration in days (overrides config)")

	rootCmd.AddCommand(runCmd)
}
