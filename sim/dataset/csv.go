// Package dataset reads the processed input tables and persists experiment
// outputs. Table schemas are fixed: loaders validate the header row and
// address parse failures by row number, writers emit the same columns the
// loaders expect. Only the directories are configurable; file names are the
// constants below.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/replensim/replensim/sim"
	"github.com/replensim/replensim/sim/policy"
	"github.com/replensim/replensim/sim/stats"
)

// Fixed file names inside the processed-data and results directories.
const (
	SKUMasterFile      = "sku_master.csv"
	DailyDemandFile    = "daily_demand.csv"
	PurchaseOrdersFile = "purchase_orders.csv"

	ControlResultsFile     = "control_results.csv"
	TreatmentResultsFile   = "treatment_results.csv"
	StatisticalResultsFile = "statistical_results.csv"
	ROIAnalysisFile        = "roi_analysis.csv"
	ExecutiveSummaryFile   = "executive_summary.txt"
)

const dateLayout = "2006-01-02"

// Column registries for every table this package reads or writes.
var (
	skuMasterColumns = []string{
		"sku_id", "unit_cost", "abc_class", "fulfillment_center", "storage_type",
	}
	dailyDemandColumns = []string{
		"date", "sku_id", "quantity",
	}
	purchaseOrderColumns = []string{
		"po_id", "sku_id", "order_date", "receipt_date", "lead_time_days", "quantity",
	}
	simulationResultColumns = []string{
		"sku_id", "method", "reorder_point", "safety_stock", "fill_rate",
		"avg_inventory", "stockout_count", "total_demand", "demand_met",
	}
	comparisonColumns = []string{
		"metric", "control_mean", "treatment_mean", "control_n", "treatment_n",
		"difference", "pct_change", "pct_change_defined", "t_stat",
		"degrees_of_freedom", "p_value", "cohens_d", "ci_low", "ci_high",
		"alpha", "significant",
	}
	roiColumns = []string{
		"inventory_savings", "carrying_cost_savings", "stockout_savings",
		"total_annual_benefit", "payback_months", "net_present_value_3y",
		"roi_year1_pct",
	}
)

// LoadSKUMaster reads the catalog master table.
func LoadSKUMaster(path string) ([]sim.SKU, error) {
	rows, err := readTable(path, skuMasterColumns)
	if err != nil {
		return nil, fmt.Errorf("SKU master: %w", err)
	}

	skus := make([]sim.SKU, 0, len(rows))
	for i, row := range rows {
		cost, err := parseFloat("unit_cost", row[1], i+2)
		if err != nil {
			return nil, fmt.Errorf("SKU master: %w", err)
		}
		skus = append(skus, sim.SKU{
			ID:                strings.TrimSpace(row[0]),
			UnitCost:          cost,
			ABCClass:          strings.ToUpper(strings.TrimSpace(row[2])),
			FulfillmentCenter: strings.TrimSpace(row[3]),
			StorageType:       strings.TrimSpace(row[4]),
		})
	}
	return skus, nil
}

// LoadDailyDemand reads the demand series table. Rows keep file order; the
// statistics builder date-orders them itself.
func LoadDailyDemand(path string) ([]sim.DemandRecord, error) {
	rows, err := readTable(path, dailyDemandColumns)
	if err != nil {
		return nil, fmt.Errorf("daily demand: %w", err)
	}

	records := make([]sim.DemandRecord, 0, len(rows))
	for i, row := range rows {
		date, err := parseDate("date", row[0], i+2)
		if err != nil {
			return nil, fmt.Errorf("daily demand: %w", err)
		}
		qty, err := parseFloat("quantity", row[2], i+2)
		if err != nil {
			return nil, fmt.Errorf("daily demand: %w", err)
		}
		records = append(records, sim.DemandRecord{
			Date:     date,
			SKUID:    strings.TrimSpace(row[1]),
			Quantity: qty,
		})
	}
	return records, nil
}

// LoadPurchaseOrders reads the replenishment-order history table.
func LoadPurchaseOrders(path string) ([]sim.PurchaseOrder, error) {
	rows, err := readTable(path, purchaseOrderColumns)
	if err != nil {
		return nil, fmt.Errorf("purchase orders: %w", err)
	}

	orders := make([]sim.PurchaseOrder, 0, len(rows))
	for i, row := range rows {
		po, err := parsePurchaseOrder(row, i+2)
		if err != nil {
			return nil, fmt.Errorf("purchase orders: %w", err)
		}
		orders = append(orders, po)
	}
	return orders, nil
}

func parsePurchaseOrder(row []string, rowNum int) (sim.PurchaseOrder, error) {
	orderDate, err := parseDate("order_date", row[2], rowNum)
	if err != nil {
		return sim.PurchaseOrder{}, err
	}
	receiptDate, err := parseDate("receipt_date", row[3], rowNum)
	if err != nil {
		return sim.PurchaseOrder{}, err
	}
	leadTime, err := parseInt("lead_time_days", row[4], rowNum)
	if err != nil {
		return sim.PurchaseOrder{}, err
	}
	qty, err := parseFloat("quantity", row[5], rowNum)
	if err != nil {
		return sim.PurchaseOrder{}, err
	}
	return sim.PurchaseOrder{
		ID:           strings.TrimSpace(row[0]),
		SKUID:        strings.TrimSpace(row[1]),
		OrderDate:    orderDate,
		ReceiptDate:  receiptDate,
		LeadTimeDays: leadTime,
		Quantity:     qty,
	}, nil
}

// WriteSimulationResults persists one arm's per-SKU results.
func WriteSimulationResults(path string, results []sim.SimulationResult) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)
	if err := writer.Write(simulationResultColumns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, r := range results {
		row := []string{
			r.SKUID,
			string(r.Method),
			formatFloat(r.ReorderPoint),
			formatFloat(r.SafetyStock),
			formatFloat(r.FillRate),
			formatFloat(r.AvgInventory),
			strconv.Itoa(r.Stockouts),
			formatFloat(r.TotalDemand),
			formatFloat(r.DemandMet),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing row for SKU %s: %w", r.SKUID, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flushing %s: %w", path, err)
	}
	return nil
}

// LoadSimulationResults reads one arm's saved results back, so an earlier
// run can be re-analyzed without re-simulating.
func LoadSimulationResults(path string) ([]sim.SimulationResult, error) {
	rows, err := readTable(path, simulationResultColumns)
	if err != nil {
		return nil, fmt.Errorf("simulation results: %w", err)
	}

	results := make([]sim.SimulationResult, 0, len(rows))
	for i, row := range rows {
		r, err := parseSimulationResult(row, i+2)
		if err != nil {
			return nil, fmt.Errorf("simulation results: %w", err)
		}
		results = append(results, r)
	}
	return results, nil
}

func parseSimulationResult(row []string, rowNum int) (sim.SimulationResult, error) {
	method := policy.Method(strings.TrimSpace(row[1]))
	if method != policy.MethodFixed && method != policy.MethodDynamic {
		return sim.SimulationResult{}, fmt.Errorf("row %d: unknown method %q", rowNum, row[1])
	}

	rop, err := parseFloat("reorder_point", row[2], rowNum)
	if err != nil {
		return sim.SimulationResult{}, err
	}
	safety, err := parseFloat("safety_stock", row[3], rowNum)
	if err != nil {
		return sim.SimulationResult{}, err
	}
	fillRate, err := parseFloat("fill_rate", row[4], rowNum)
	if err != nil {
		return sim.SimulationResult{}, err
	}
	avgInv, err := parseFloat("avg_inventory", row[5], rowNum)
	if err != nil {
		return sim.SimulationResult{}, err
	}
	stockouts, err := parseInt("stockout_count", row[6], rowNum)
	if err != nil {
		return sim.SimulationResult{}, err
	}
	totalDemand, err := parseFloat("total_demand", row[7], rowNum)
	if err != nil {
		return sim.SimulationResult{}, err
	}
	demandMet, err := parseFloat("demand_met", row[8], rowNum)
	if err != nil {
		return sim.SimulationResult{}, err
	}

	return sim.SimulationResult{
		SKUID:        strings.TrimSpace(row[0]),
		Method:       method,
		ReorderPoint: rop,
		SafetyStock:  safety,
		AvgInventory: avgInv,
		Stockouts:    stockouts,
		FillRate:     fillRate,
		TotalDemand:  totalDemand,
		DemandMet:    demandMet,
	}, nil
}

// WriteComparisons persists the statistical results table, one row per metric.
func WriteComparisons(path string, comparisons []stats.Comparison) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)
	if err := writer.Write(comparisonColumns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, c := range comparisons {
		row := []string{
			c.Metric,
			formatFloat(c.ControlMean),
			formatFloat(c.TreatmentMean),
			strconv.Itoa(c.ControlN),
			strconv.Itoa(c.TreatmentN),
			formatFloat(c.Difference),
			formatFloat(c.PctChange),
			strconv.FormatBool(c.PctChangeDefined),
			formatFloat(c.TStat),
			formatFloat(c.DegreesOfFreedom),
			formatFloat(c.PValue),
			formatFloat(c.CohensD),
			formatFloat(c.CILow),
			formatFloat(c.CIHigh),
			formatFloat(c.Alpha),
			strconv.FormatBool(c.Significant),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing row for metric %s: %w", c.Metric, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flushing %s: %w", path, err)
	}
	return nil
}

// WriteROI persists the single-row ROI record. Monetary figures keep their
// exact decimal representation; payback may legitimately be +Inf.
func WriteROI(path string, report stats.ROIReport) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)
	if err := writer.Write(roiColumns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	row := []string{
		report.InventorySavings.String(),
		report.CarryingCostSavings.String(),
		report.StockoutSavings.String(),
		report.TotalAnnualBenefit.String(),
		formatFloat(report.PaybackMonths),
		report.NetPresentValue3Y.String(),
		formatFloat(report.ROIYear1Pct),
	}
	if err := writer.Write(row); err != nil {
		return fmt.Errorf("writing ROI row: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flushing %s: %w", path, err)
	}
	return nil
}

// WriteSummary persists the rendered executive summary verbatim.
func WriteSummary(path, summary string) error {
	if err := os.WriteFile(path, []byte(summary), 0644); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}
	return nil
}

// readTable opens a CSV file, validates its header against the expected
// columns, and returns the data rows. csv.Reader enforces the column count
// per row once the header fixes it.
func readTable(path string, columns []string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%s is empty, expected header %v", path, columns)
	}
	if err != nil {
		return nil, fmt.Errorf("reading header of %s: %w", path, err)
	}
	if !headerMatches(header, columns) {
		return nil, fmt.Errorf("%s header mismatch: expected %v, got %v", path, columns, header)
	}

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func headerMatches(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}
	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(actual[i])) != col {
			return false
		}
	}
	return true
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func parseFloat(field, value string, rowNum int) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, fmt.Errorf("row %d: invalid %s %q", rowNum, field, value)
	}
	return v, nil
}

func parseInt(field, value string, rowNum int) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("row %d: invalid %s %q", rowNum, field, value)
	}
	return v, nil
}

func parseDate(field, value string, rowNum int) (time.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("row %d: invalid %s %q (expected YYYY-MM-DD)", rowNum, field, value)
	}
	return t, nil
}
