package dataset

import (
	"sort"

	"github.com/replensim/replensim/sim"
)

// Cumulative revenue-share cutoffs for ABC classification.
const (
	abcClassACutoff = 0.80
	abcClassBCutoff = 0.95
)

// ClassifyABC assigns every SKU an ABC class from its cumulative share of
// catalog revenue, where a SKU's revenue is its total demand quantity times
// its unit cost: SKUs covering the first 80% of revenue are A, up to 95% B,
// the rest C. Classification is relative, so a catalog with any blank
// classes is reclassified as a whole. Zero-revenue catalogs come out all C.
// Returns a new slice; the input is not modified.
func ClassifyABC(skus []sim.SKU, demand []sim.DemandRecord) []sim.SKU {
	totals := make(map[string]float64, len(skus))
	for _, d := range demand {
		totals[d.SKUID] += d.Quantity
	}

	classified := make([]sim.SKU, len(skus))
	copy(classified, skus)

	// Rank by revenue descending, ties broken by id for determinism.
	order := make([]int, len(classified))
	revenue := make([]float64, len(classified))
	total := 0.0
	for i, s := range classified {
		order[i] = i
		revenue[i] = totals[s.ID] * s.UnitCost
		total += revenue[i]
	}
	sort.SliceStable(order, func(a, b int) bool {
		ra, rb := revenue[order[a]], revenue[order[b]]
		if ra != rb {
			return ra > rb
		}
		return classified[order[a]].ID < classified[order[b]].ID
	})

	cumulative := 0.0
	for _, idx := range order {
		cumulative += revenue[idx]
		switch {
		case total <= 0:
			classified[idx].ABCClass = "C"
		case cumulative/total <= abcClassACutoff:
			classified[idx].ABCClass = "A"
		case cumulative/total <= abcClassBCutoff:
			classified[idx].ABCClass = "B"
		default:
			classified[idx].ABCClass = "C"
		}
	}
	return classified
}
