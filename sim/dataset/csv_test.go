package dataset

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/replensim/replensim/sim"
	"github.com/replensim/replensim/sim/policy"
	"github.com/replensim/replensim/sim/stats"
)

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadSKUMaster_ParsesRows(t *testing.T) {
	path := writeFixture(t, SKUMasterFile,
		"sku_id,unit_cost,abc_class,fulfillment_center,storage_type\n"+
			"SKU-1,12.5,a,PHX3,Standard\n"+
			"SKU-2,3,B,BFI4,Oversized\n")

	skus, err := LoadSKUMaster(path)

	require.NoError(t, err)
	require.Len(t, skus, 2)
	assert.Equal(t, sim.SKU{
		ID:                "SKU-1",
		UnitCost:          12.5,
		ABCClass:          "A",
		FulfillmentCenter: "PHX3",
		StorageType:       "Standard",
	}, skus[0])
	assert.Equal(t, "B", skus[1].ABCClass)
}

func TestLoadSKUMaster_RejectsHeaderMismatch(t *testing.T) {
	path := writeFixture(t, SKUMasterFile,
		"sku,cost,class,fc,storage\nSKU-1,1,A,PHX3,Standard\n")

	_, err := LoadSKUMaster(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "header mismatch")
}

func TestLoadSKUMaster_RowAddressedParseError(t *testing.T) {
	path := writeFixture(t, SKUMasterFile,
		"sku_id,unit_cost,abc_class,fulfillment_center,storage_type\n"+
			"SKU-1,12.5,A,PHX3,Standard\n"+
			"SKU-2,not-a-number,B,BFI4,Oversized\n")

	_, err := LoadSKUMaster(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 3")
	assert.Contains(t, err.Error(), "unit_cost")
}

func TestLoadSKUMaster_EmptyFile(t *testing.T) {
	path := writeFixture(t, SKUMasterFile, "")

	_, err := LoadSKUMaster(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "is empty")
}

func TestLoadDailyDemand_ParsesDates(t *testing.T) {
	path := writeFixture(t, DailyDemandFile,
		"date,sku_id,quantity\n"+
			"2025-01-15,SKU-1,42\n"+
			"2025-01-16,SKU-1,0\n")

	records, err := LoadDailyDemand(path)

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), records[0].Date)
	assert.Equal(t, "SKU-1", records[0].SKUID)
	assert.Equal(t, 42.0, records[0].Quantity)
	assert.Equal(t, 0.0, records[1].Quantity)
}

func TestLoadDailyDemand_RejectsBadDate(t *testing.T) {
	path := writeFixture(t, DailyDemandFile,
		"date,sku_id,quantity\n15/01/2025,SKU-1,42\n")

	_, err := LoadDailyDemand(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected YYYY-MM-DD")
}

func TestLoadPurchaseOrders_ParsesRows(t *testing.T) {
	path := writeFixture(t, PurchaseOrdersFile,
		"po_id,sku_id,order_date,receipt_date,lead_time_days,quantity\n"+
			"PO_SKU-1_0000,SKU-1,2025-02-01,2025-02-12,11,100\n")

	orders, err := LoadPurchaseOrders(path)

	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, sim.PurchaseOrder{
		ID:           "PO_SKU-1_0000",
		SKUID:        "SKU-1",
		OrderDate:    time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		ReceiptDate:  time.Date(2025, 2, 12, 0, 0, 0, 0, time.UTC),
		LeadTimeDays: 11,
		Quantity:     100,
	}, orders[0])
}

func TestLoadPurchaseOrders_RejectsBadLeadTime(t *testing.T) {
	path := writeFixture(t, PurchaseOrdersFile,
		"po_id,sku_id,order_date,receipt_date,lead_time_days,quantity\n"+
			"PO-1,SKU-1,2025-02-01,2025-02-12,eleven,100\n")

	_, err := LoadPurchaseOrders(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
	assert.Contains(t, err.Error(), "lead_time_days")
}

func TestSimulationResults_RoundTrip(t *testing.T) {
	// BDD: written results load back bit-identical, including awkward floats
	results := []sim.SimulationResult{
		{
			SKUID:        "SKU-1",
			Method:       policy.MethodFixed,
			ReorderPoint: 123.456789,
			SafetyStock:  23.4000001,
			AvgInventory: 456.75,
			Stockouts:    3,
			FillRate:     97.77777777777777,
			TotalDemand:  900,
			DemandMet:    880,
		},
		{
			SKUID:    "SKU-2",
			Method:   policy.MethodDynamic,
			FillRate: 100,
		},
	}
	path := filepath.Join(t.TempDir(), ControlResultsFile)

	require.NoError(t, WriteSimulationResults(path, results))
	loaded, err := LoadSimulationResults(path)

	require.NoError(t, err)
	require.Equal(t, results, loaded)
}

func TestLoadSimulationResults_RejectsUnknownMethod(t *testing.T) {
	path := writeFixture(t, TreatmentResultsFile,
		"sku_id,method,reorder_point,safety_stock,fill_rate,avg_inventory,stockout_count,total_demand,demand_met\n"+
			"SKU-1,magic,1,0,100,10,0,5,5\n")

	_, err := LoadSimulationResults(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown method "magic"`)
}

func TestWriteComparisons_OneRowPerMetric(t *testing.T) {
	comparisons := []stats.Comparison{
		{Metric: "Fill Rate (%)", ControlMean: 90, TreatmentMean: 96, ControlN: 5, TreatmentN: 5,
			Difference: 6, PctChange: 6.666666666666667, PctChangeDefined: true, PValue: 0.003,
			Alpha: 0.05, Significant: true},
		{Metric: "Stockout Count", ControlMean: 4, TreatmentMean: 4, ControlN: 5, TreatmentN: 5,
			PValue: 1, Alpha: 0.05},
	}
	path := filepath.Join(t.TempDir(), StatisticalResultsFile)

	require.NoError(t, WriteComparisons(path, comparisons))

	rows, err := readTable(path, comparisonColumns)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Fill Rate (%)", rows[0][0])
	assert.Equal(t, "true", rows[0][7], "pct_change_defined column")
	assert.Equal(t, "true", rows[0][15], "significant column")
	assert.Equal(t, "Stockout Count", rows[1][0])
	assert.Equal(t, "false", rows[1][7])
}

func TestWriteROI_SingleRow(t *testing.T) {
	report := stats.ROIReport{
		InventorySavings:    decimal.NewFromInt(25000),
		CarryingCostSavings: decimal.NewFromInt(6250),
		StockoutSavings:     decimal.NewFromInt(15000),
		TotalAnnualBenefit:  decimal.NewFromInt(6250),
		PaybackMonths:       math.Inf(1),
		NetPresentValue3Y:   decimal.New(-3445718, -2),
		ROIYear1Pct:         -87.5,
	}
	path := filepath.Join(t.TempDir(), ROIAnalysisFile)

	require.NoError(t, WriteROI(path, report))

	rows, err := readTable(path, roiColumns)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "25000", rows[0][0])
	assert.Equal(t, "6250", rows[0][3])
	assert.Equal(t, "+Inf", rows[0][4], "infinite payback must survive serialization")
	assert.Equal(t, "-34457.18", rows[0][5])
	assert.Equal(t, "-87.5", rows[0][6])
}

func TestWriteSummary_Verbatim(t *testing.T) {
	summary := "A/B TEST RESULTS: Dynamic ROP vs Fixed ROP\n✓ IMPLEMENT\n"
	path := filepath.Join(t.TempDir(), ExecutiveSummaryFile)

	require.NoError(t, WriteSummary(path, summary))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, summary, string(data))
}
