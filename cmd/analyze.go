package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/replensim/replensim/sim"
	"github.com/replensim/replensim/sim/dataset"
)

var analyzeConfigPath string // Path to experiment config YAML (empty = built-in defaults)

// analyzeCmd re-runs the statistical comparison over per-SKU results written
// by a previous run, without re-simulating. Useful after editing the cost
// model or significance level in the config.
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Re-analyze existing simulation results",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadExperimentConfig(cmd, analyzeConfigPath)
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}

		resultsDir := cfg.Data.ResultsDir
		control, err := dataset.LoadSimulationResults(filepath.Join(resultsDir, dataset.ControlResultsFile))
		if err != nil {
			logrus.Fatalf("Failed to load control results: %v", err)
		}
		treatment, err := dataset.LoadSimulationResults(filepath.Join(resultsDir, dataset.TreatmentResultsFile))
		if err != nil {
			logrus.Fatalf("Failed to load treatment results: %v", err)
		}

		runID := uuid.New().String()
		logrus.Infof("Re-analyzing run %s: %d control SKUs, %d treatment SKUs", runID, len(control), len(treatment))

		analysis := sim.Analyze(cfg, runID, control, treatment)
		if err := writeAnalysisOutputs(resultsDir, analysis); err != nil {
			logrus.Fatalf("Failed to write analysis: %v", err)
		}
		fmt.Println(analysis.Summary)
	},
}

// init sets up CLI flags for the analyze subcommand
func init() {
	analyzeCmd.Flags().StringVar(&analyzeConfigPath, "config", "", "Path to experiment config YAML (default: built-in defaults)")

	rootCmd.AddCommand(analyzeCmd)
}
