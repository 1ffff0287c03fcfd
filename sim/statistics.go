package sim

import (
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/replensim/replensim/sim/stats"
)

// Catalog-wide lead-time defaults, applied when a SKU has no
// purchase-order history to estimate from.
const (
	DefaultLeadTimeMean = 14.0
	DefaultLeadTimeStd  = 3.0
)

// BuildSkuStatistics aggregates demand and purchase-order history per SKU.
//
// Demand rows are grouped by SKU with their quantities kept date-ordered
// (most recent last), so the dynamic policy's trailing windows and the
// demand sampler read from a well-defined sequence regardless of input
// order. Lead times join the same way; SKUs with no order history fall back
// to the catalog defaults and are marked LeadTimeFallback.
//
// A single observation has no measurable dispersion: its standard
// deviation is 0, never NaN.
func BuildSkuStatistics(demand []DemandRecord, orders []PurchaseOrder) map[string]*SkuStatistics {
	demandBySKU := groupDemand(demand)
	leadsBySKU := groupLeadTimes(orders)

	bySKU := make(map[string]*SkuStatistics, len(demandBySKU))
	fallbacks := 0
	for skuID, history := range demandBySKU {
		s := &SkuStatistics{
			SKUID:          skuID,
			AvgDailyDemand: stats.Mean(history),
			DemandStd:      stats.StdDev(history),
			TotalDemand:    stats.Sum(history),
			DemandHistory:  history,
		}
		if leads, ok := leadsBySKU[skuID]; ok {
			s.AvgLeadTime = stats.Mean(leads)
			s.LeadTimeStd = stats.StdDev(leads)
			s.LeadTimeHistory = leads
		} else {
			s.AvgLeadTime = DefaultLeadTimeMean
			s.LeadTimeStd = DefaultLeadTimeStd
			s.LeadTimeFallback = true
			fallbacks++
		}
		bySKU[skuID] = s
	}

	logrus.Infof("Computed statistics for %d SKUs (%d without order history)", len(bySKU), fallbacks)
	return bySKU
}

// FallbackStatistics covers catalog SKUs that never appear in the demand
// table: zero demand figures, empty history, default lead times. The
// simulator treats the empty history as zero daily demand.
func FallbackStatistics(skuID string) *SkuStatistics {
	return &SkuStatistics{
		SKUID:            skuID,
		AvgLeadTime:      DefaultLeadTimeMean,
		LeadTimeStd:      DefaultLeadTimeStd,
		LeadTimeFallback: true,
	}
}

func groupDemand(demand []DemandRecord) map[string][]float64 {
	ordered := make([]DemandRecord, len(demand))
	copy(ordered, demand)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})

	grouped := make(map[string][]float64)
	for _, rec := range ordered {
		grouped[rec.SKUID] = append(grouped[rec.SKUID], rec.Quantity)
	}
	return grouped
}

func groupLeadTimes(orders []PurchaseOrder) map[string][]float64 {
	ordered := make([]PurchaseOrder, len(orders))
	copy(ordered, orders)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].OrderDate.Before(ordered[j].OrderDate)
	})

	grouped := make(map[string][]float64)
	for _, po := range ordered {
		grouped[po.SKUID] = append(grouped[po.SKUID], float64(po.LeadTimeDays))
	}
	return grouped
}
