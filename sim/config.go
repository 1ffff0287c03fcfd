package sim

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// ExperimentConfig is the top-level experiment configuration.
// Loaded from YAML via LoadConfig(path); zero-config runs use DefaultConfig.
type ExperimentConfig struct {
	Data       DataConfig       `yaml:"data"`
	Simulation SimulationConfig `yaml:"simulation"`
	ABTest     ABTestConfig     `yaml:"ab_test"`
	ROI        ROIConfig        `yaml:"roi"`
}

// DataConfig locates the input tables and the output directory.
// File names inside the directories are fixed (see sim/dataset).
type DataConfig struct {
	ProcessedDir string `yaml:"processed_dir"`
	ResultsDir   string `yaml:"results_dir"`
}

// SimulationConfig parameterizes the inventory simulation itself.
type SimulationConfig struct {
	ServiceLevel     float64 `yaml:"service_level"`
	TestDurationDays int     `yaml:"test_duration_days"`
	CarryingCostRate float64 `yaml:"carrying_cost_rate"`
}

// ABTestConfig parameterizes assignment and hypothesis testing.
type ABTestConfig struct {
	RandomSeed int64   `yaml:"random_seed"`
	Alpha      float64 `yaml:"alpha"`
}

// ROIConfig is the cost model behind the ROI report, in dollars.
type ROIConfig struct {
	AvgUnitCost        float64 `yaml:"avg_unit_cost"`
	StockoutCost       float64 `yaml:"stockout_cost"`
	ImplementationCost float64 `yaml:"implementation_cost"`
	AnnualMaintenance  float64 `yaml:"annual_maintenance"`
	DiscountRate       float64 `yaml:"discount_rate"`
}

// DefaultConfig returns the planning team's standard experiment parameters:
// a 95% service level over a 90-day test window with the historical cost
// model.
func DefaultConfig() *ExperimentConfig {
	return &ExperimentConfig{
		Data: DataConfig{
			ProcessedDir: "data/processed",
			ResultsDir:   "results",
		},
		Simulation: SimulationConfig{
			ServiceLevel:     0.95,
			TestDurationDays: 90,
			CarryingCostRate: 0.25,
		},
		ABTest: ABTestConfig{
			RandomSeed: 42,
			Alpha:      0.05,
		},
		ROI: ROIConfig{
			AvgUnitCost:        25,
			StockoutCost:       150,
			ImplementationCost: 50000,
			AnnualMaintenance:  15000,
			DiscountRate:       0.10,
		},
	}
}

// LoadConfig reads and parses a YAML experiment configuration file over the
// defaults. Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadConfig(path string) (*ExperimentConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading experiment config: %w", err)
	}
	cfg := DefaultConfig()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		return nil, fmt.Errorf("parsing experiment config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid experiment config: %w", err)
	}
	return cfg, nil
}

// Validate checks that all fields in the config are usable.
func (c *ExperimentConfig) Validate() error {
	if c.Data.ProcessedDir == "" {
		return fmt.Errorf("data.processed_dir must not be empty")
	}
	if c.Data.ResultsDir == "" {
		return fmt.Errorf("data.results_dir must not be empty")
	}
	if !(c.Simulation.ServiceLevel > 0 && c.Simulation.ServiceLevel < 1) {
		return fmt.Errorf("simulation.service_level must be in (0,1), got %f", c.Simulation.ServiceLevel)
	}
	if c.Simulation.TestDurationDays < 1 {
		return fmt.Errorf("simulation.test_duration_days must be at least 1, got %d", c.Simulation.TestDurationDays)
	}
	if err := validateFiniteNonNegative("simulation.carrying_cost_rate", c.Simulation.CarryingCostRate); err != nil {
		return err
	}
	if !(c.ABTest.Alpha > 0 && c.ABTest.Alpha < 1) {
		return fmt.Errorf("ab_test.alpha must be in (0,1), got %f", c.ABTest.Alpha)
	}
	for name, val := range map[string]float64{
		"roi.avg_unit_cost":       c.ROI.AvgUnitCost,
		"roi.stockout_cost":       c.ROI.StockoutCost,
		"roi.implementation_cost": c.ROI.ImplementationCost,
		"roi.annual_maintenance":  c.ROI.AnnualMaintenance,
		"roi.discount_rate":       c.ROI.DiscountRate,
	} {
		if err := validateFiniteNonNegative(name, val); err != nil {
			return err
		}
	}
	return nil
}

func validateFiniteNonNegative(name string, val float64) error {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return fmt.Errorf("%s must be a finite number, got %f", name, val)
	}
	if val < 0 {
		return fmt.Errorf("%s must be non-negative, got %f", name, val)
	}
	return nil
}
