package sim

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/replensim/replensim/sim/policy"
	"github.com/replensim/replensim/sim/stats"
)

// Metric display names, shared by the comparison table and the summary.
const (
	MetricFillRate     = "Fill Rate (%)"
	MetricAvgInventory = "Average Inventory (units)"
	MetricStockouts    = "Stockout Count"
)

// ExperimentResult bundles all outputs from one A/B run: the arm assignment,
// both arms' per-SKU simulation results, and the statistical analysis.
type ExperimentResult struct {
	RunID      string
	Key        SimulationKey
	Assignment Assignment
	Control    []SimulationResult
	Treatment  []SimulationResult

	Analysis *AnalysisResult
}

// AnalysisResult holds the comparator's readout: one Comparison per metric,
// the ROI projection, the adoption recommendation, and the rendered summary.
type AnalysisResult struct {
	FillRate     stats.Comparison
	AvgInventory stats.Comparison
	Stockouts    stats.Comparison

	ROI            stats.ROIReport
	Recommendation stats.Recommendation
	Summary        string
}

// Comparisons returns the three metric comparisons in report order.
func (a *AnalysisResult) Comparisons() []stats.Comparison {
	return []stats.Comparison{a.FillRate, a.AvgInventory, a.Stockouts}
}

// ValidateInputs enforces the core's input contract on the three tables.
// Contract violations inside the SKU master, or in rows tied to known SKUs,
// are fatal. Demand and purchase-order rows referencing SKUs absent from the
// master are dropped with a warning; the filtered tables are returned.
func ValidateInputs(skus []SKU, demand []DemandRecord, orders []PurchaseOrder) ([]DemandRecord, []PurchaseOrder, error) {
	if len(skus) == 0 {
		return nil, nil, fmt.Errorf("SKU master is empty")
	}

	known := make(map[string]bool, len(skus))
	for _, s := range skus {
		if s.ID == "" {
			return nil, nil, fmt.Errorf("SKU master contains an empty SKU id")
		}
		if known[s.ID] {
			return nil, nil, fmt.Errorf("duplicate SKU id %q in master", s.ID)
		}
		known[s.ID] = true

		switch s.ABCClass {
		case "A", "B", "C":
		default:
			return nil, nil, fmt.Errorf("SKU %s: ABC class %q outside {A,B,C}", s.ID, s.ABCClass)
		}
		if s.UnitCost < 0 || math.IsNaN(s.UnitCost) {
			return nil, nil, fmt.Errorf("SKU %s: invalid unit cost %v", s.ID, s.UnitCost)
		}
	}

	keptDemand := make([]DemandRecord, 0, len(demand))
	droppedDemand := 0
	for _, d := range demand {
		if !known[d.SKUID] {
			droppedDemand++
			continue
		}
		if d.Quantity < 0 || math.IsNaN(d.Quantity) {
			return nil, nil, fmt.Errorf("demand for SKU %s on %s: invalid quantity %v",
				d.SKUID, d.Date.Format("2006-01-02"), d.Quantity)
		}
		keptDemand = append(keptDemand, d)
	}
	if droppedDemand > 0 {
		logrus.Warnf("Dropped %d demand rows referencing SKUs missing from the master", droppedDemand)
	}

	keptOrders := make([]PurchaseOrder, 0, len(orders))
	droppedOrders := 0
	for _, o := range orders {
		if !known[o.SKUID] {
			droppedOrders++
			continue
		}
		if o.LeadTimeDays < 1 {
			return nil, nil, fmt.Errorf("purchase order %s for SKU %s: non-positive lead time %d days",
				o.ID, o.SKUID, o.LeadTimeDays)
		}
		if o.Quantity < 0 || math.IsNaN(o.Quantity) {
			return nil, nil, fmt.Errorf("purchase order %s for SKU %s: invalid quantity %v",
				o.ID, o.SKUID, o.Quantity)
		}
		keptOrders = append(keptOrders, o)
	}
	if droppedOrders > 0 {
		logrus.Warnf("Dropped %d purchase-order rows referencing SKUs missing from the master", droppedOrders)
	}

	return keptDemand, keptOrders, nil
}

// RunExperiment executes the complete A/B test: input validation, stratified
// assignment, per-arm policy computation, day-stepped simulation of every
// SKU, and statistical analysis. Deterministic for a fixed seed and fixed
// input ordering, except for the generated run id.
func RunExperiment(cfg *ExperimentConfig, skus []SKU, demand []DemandRecord, orders []PurchaseOrder) (*ExperimentResult, error) {
	demand, orders, err := ValidateInputs(skus, demand, orders)
	if err != nil {
		return nil, fmt.Errorf("validating inputs: %w", err)
	}

	runID := uuid.New().String()
	key := SimulationKey(cfg.ABTest.RandomSeed)
	rng := NewPartitionedRNG(key)

	logrus.Infof("Starting experiment %s: %d SKUs, %d-day horizon, seed %d",
		runID, len(skus), cfg.Simulation.TestDurationDays, key)

	assignment := StratifiedSplit(skus, rng.ForSubsystem(SubsystemAssignment))
	bySKU := BuildSkuStatistics(demand, orders)

	controlTasks := buildTasks(assignment.Control, bySKU, cfg.Simulation.ServiceLevel, policy.MethodFixed)
	treatmentTasks := buildTasks(assignment.Treatment, bySKU, cfg.Simulation.ServiceLevel, policy.MethodDynamic)

	// Both arms draw their per-SKU seeds from the same demand stream, control
	// first, so the full run replays from one key.
	demandRNG := rng.ForSubsystem(SubsystemDemand)
	control, err := SimulateGroup(controlTasks, cfg.Simulation.TestDurationDays, demandRNG)
	if err != nil {
		return nil, fmt.Errorf("simulating control arm: %w", err)
	}
	treatment, err := SimulateGroup(treatmentTasks, cfg.Simulation.TestDurationDays, demandRNG)
	if err != nil {
		return nil, fmt.Errorf("simulating treatment arm: %w", err)
	}

	analysis := Analyze(cfg, runID, control, treatment)
	logrus.Infof("Experiment %s complete: recommendation %s", runID, analysis.Recommendation)

	return &ExperimentResult{
		RunID:      runID,
		Key:        key,
		Assignment: assignment,
		Control:    control,
		Treatment:  treatment,
		Analysis:   analysis,
	}, nil
}

// Analyze runs the statistical comparator over two arms of simulation
// results. Pure function of its inputs: re-analyzing the same results yields
// identical figures, so saved per-arm tables can be re-analyzed offline.
func Analyze(cfg *ExperimentConfig, runID string, control, treatment []SimulationResult) *AnalysisResult {
	alpha := cfg.ABTest.Alpha

	fill := stats.Compare(MetricFillRate,
		metricColumn(control, func(r *SimulationResult) float64 { return r.FillRate }),
		metricColumn(treatment, func(r *SimulationResult) float64 { return r.FillRate }),
		alpha)
	inventory := stats.Compare(MetricAvgInventory,
		metricColumn(control, func(r *SimulationResult) float64 { return r.AvgInventory }),
		metricColumn(treatment, func(r *SimulationResult) float64 { return r.AvgInventory }),
		alpha)
	stockouts := stats.Compare(MetricStockouts,
		metricColumn(control, func(r *SimulationResult) float64 { return float64(r.Stockouts) }),
		metricColumn(treatment, func(r *SimulationResult) float64 { return float64(r.Stockouts) }),
		alpha)

	roi := stats.ComputeROI(stats.ROIInput{
		ControlAvgInventorySum:   stats.Sum(metricColumn(control, func(r *SimulationResult) float64 { return r.AvgInventory })),
		TreatmentAvgInventorySum: stats.Sum(metricColumn(treatment, func(r *SimulationResult) float64 { return r.AvgInventory })),
		ControlStockouts:         totalStockouts(control),
		TreatmentStockouts:       totalStockouts(treatment),
		UnitCost:                 decimal.NewFromFloat(cfg.ROI.AvgUnitCost),
		StockoutCost:             decimal.NewFromFloat(cfg.ROI.StockoutCost),
		CarryingCostRate:         decimal.NewFromFloat(cfg.Simulation.CarryingCostRate),
		ImplementationCost:       decimal.NewFromFloat(cfg.ROI.ImplementationCost),
		AnnualMaintenance:        decimal.NewFromFloat(cfg.ROI.AnnualMaintenance),
		DiscountRate:             decimal.NewFromFloat(cfg.ROI.DiscountRate),
	})

	recommendation := stats.Recommend(fill)
	summary := stats.BuildSummary(stats.SummaryInput{
		RunID:            runID,
		TestDurationDays: cfg.Simulation.TestDurationDays,
		Alpha:            alpha,
		FillRate:         fill,
		AvgInventory:     inventory,
		Stockouts:        stockouts,
		ROI:              roi,
		Recommendation:   recommendation,
	})

	return &AnalysisResult{
		FillRate:       fill,
		AvgInventory:   inventory,
		Stockouts:      stockouts,
		ROI:            roi,
		Recommendation: recommendation,
		Summary:        summary,
	}
}

// buildTasks turns one arm's SKU ids into simulation tasks under the arm's
// policy. SKUs with no demand history get fallback statistics and an empty
// sampler rather than failing the run.
func buildTasks(ids []string, bySKU map[string]*SkuStatistics, serviceLevel float64, method policy.Method) []SimTask {
	tasks := make([]SimTask, 0, len(ids))
	for _, id := range ids {
		st, ok := bySKU[id]
		if !ok {
			logrus.Warnf("SKU %s has no demand history, simulating with fallback statistics", id)
			st = FallbackStatistics(id)
		}

		var pol policy.Result
		switch method {
		case policy.MethodDynamic:
			pol = policy.Dynamic(st.DemandHistory, st.LeadTimeHistory, serviceLevel)
		default:
			pol = policy.Fixed(st.AvgDailyDemand, st.AvgLeadTime, st.DemandStd, serviceLevel)
		}

		tasks = append(tasks, SimTask{
			SKUID:       id,
			Policy:      pol,
			AvgLeadTime: st.AvgLeadTime,
			Sampler:     NewEmpiricalSampler(st.DemandHistory),
		})
	}
	return tasks
}

func metricColumn(results []SimulationResult, value func(*SimulationResult) float64) []float64 {
	column := make([]float64, len(results))
	for i := range results {
		column[i] = value(&results[i])
	}
	return column
}

func totalStockouts(results []SimulationResult) int {
	total := 0
	for i := range results {
		total += results[i].Stockouts
	}
	return total
}
