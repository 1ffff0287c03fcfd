package sim

import (
	"time"

	"github.com/replensim/replensim/sim/policy"
)

// SKU is one stock-keeping unit from the catalog master.
type SKU struct {
	ID                string
	UnitCost          float64
	ABCClass          string // "A", "B", or "C"
	FulfillmentCenter string
	StorageType       string
}

// DemandRecord is one day's observed demand for a single SKU.
type DemandRecord struct {
	Date     time.Time
	SKUID    string
	Quantity float64
}

// PurchaseOrder is one historical replenishment order for a SKU.
// LeadTimeDays is the observed order-to-receipt delay in whole days.
type PurchaseOrder struct {
	ID           string
	SKUID        string
	OrderDate    time.Time
	ReceiptDate  time.Time
	LeadTimeDays int
	Quantity     float64
}

// SkuStatistics aggregates one SKU's demand and lead-time history into the
// figures the policy models and the simulator consume.
//
// DemandHistory and LeadTimeHistory are retained date-ordered (most recent
// last): the dynamic policy reads its trailing windows from them and the
// demand sampler bootstraps daily demand from DemandHistory.
type SkuStatistics struct {
	SKUID          string
	AvgDailyDemand float64
	DemandStd      float64
	TotalDemand    float64
	AvgLeadTime    float64
	LeadTimeStd    float64

	// LeadTimeFallback marks SKUs with no purchase-order history, whose
	// lead-time figures are the catalog-wide defaults.
	LeadTimeFallback bool

	DemandHistory   []float64
	LeadTimeHistory []float64
}

// Assignment is a stratified control/treatment partition of SKU ids.
// Within each slice, ids appear in shuffled stratum order; the partition is
// deterministic for a fixed seed and input order.
type Assignment struct {
	Control   []string
	Treatment []string
}

// Size returns the total number of assigned SKUs.
func (a Assignment) Size() int {
	return len(a.Control) + len(a.Treatment)
}

// SimulationResult is the per-SKU outcome of one simulated test period.
type SimulationResult struct {
	SKUID        string
	Method       policy.Method
	ReorderPoint float64
	SafetyStock  float64
	AvgInventory float64
	Stockouts    int
	FillRate     float64 // percent of demand met, in [0,100]
	TotalDemand  float64
	DemandMet    float64
}
