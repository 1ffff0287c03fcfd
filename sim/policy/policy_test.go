package policy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/replensim/replensim/sim/stats"
)

func repeat(value float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = value
	}
	return out
}

func TestFixed_ZeroVarianceCollapsesToDemandTimesLeadTime(t *testing.T) {
	// 90 days of identical demand: no dispersion, no safety stock, and the
	// reorder point is exactly demand x lead time.
	r := Fixed(10, 5, 0, 0.95)

	if r.SafetyStock != 0 {
		t.Errorf("SafetyStock = %v, want 0", r.SafetyStock)
	}
	if r.ReorderPoint != 50 {
		t.Errorf("ReorderPoint = %v, want exactly 50", r.ReorderPoint)
	}
	if r.Method != MethodFixed {
		t.Errorf("Method = %q, want %q", r.Method, MethodFixed)
	}
}

func TestFixed_SafetyStockFormula(t *testing.T) {
	r := Fixed(10, 4, 3, 0.95)

	// z(0.95) ~ 1.645; safety = z * 3 * sqrt(4), rop = 40 + safety.
	z := zScore(0.95)
	wantSafety := z * 3 * 2
	assert.InDelta(t, wantSafety, r.SafetyStock, 1e-9)
	assert.InDelta(t, 40+wantSafety, r.ReorderPoint, 1e-9)
	assert.InDelta(t, 1.645, z, 1e-3)
}

func TestFixed_HigherServiceLevelRaisesReorderPoint(t *testing.T) {
	low := Fixed(10, 4, 3, 0.90)
	high := Fixed(10, 4, 3, 0.99)

	if high.ReorderPoint <= low.ReorderPoint {
		t.Errorf("rop(0.99)=%v <= rop(0.90)=%v, want strictly higher",
			high.ReorderPoint, low.ReorderPoint)
	}
}

func TestFixed_NeverNegative(t *testing.T) {
	tests := []struct {
		name                       string
		demand, lead, std, service float64
	}{
		{"zero demand", 0, 5, 0, 0.95},
		{"zero everything", 0, 0, 0, 0.95},
		{"low service level pulls z negative", 1, 5, 100, 0.01},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Fixed(tt.demand, tt.lead, tt.std, tt.service)
			if r.ReorderPoint < 0 || math.IsNaN(r.ReorderPoint) {
				t.Errorf("ReorderPoint = %v, want non-negative finite", r.ReorderPoint)
			}
			if r.SafetyStock < 0 || math.IsNaN(r.SafetyStock) {
				t.Errorf("SafetyStock = %v, want non-negative finite", r.SafetyStock)
			}
		})
	}
}

func TestDynamic_FewObservationsFallsBackToPlainMean(t *testing.T) {
	// Under 90 observations the forecast is the plain mean. Constant demand
	// of 10 with lead times averaging 5 gives rop = 10*5 exactly.
	demand := repeat(10, 60)
	leads := []float64{4, 6}

	r := Dynamic(demand, leads, 0.95)

	if r.ForecastDemand != 10 {
		t.Errorf("ForecastDemand = %v, want 10", r.ForecastDemand)
	}
	if r.ForecastLeadTime != 5 {
		t.Errorf("ForecastLeadTime = %v, want 5", r.ForecastLeadTime)
	}
	if r.SafetyStock != 0 {
		t.Errorf("SafetyStock = %v, want 0 for constant demand", r.SafetyStock)
	}
	if r.ReorderPoint != 50 {
		t.Errorf("ReorderPoint = %v, want exactly 50", r.ReorderPoint)
	}
	if r.Method != MethodDynamic {
		t.Errorf("Method = %q, want %q", r.Method, MethodDynamic)
	}
}

func TestDynamic_FallbackEqualsMeanTimesLeadTimePlusSafety(t *testing.T) {
	// 45 noisy observations, still under the 90 needed for the weighted
	// path: rop must decompose exactly into mean * forecast + safety.
	demand := make([]float64, 45)
	for i := range demand {
		demand[i] = float64(3 + (i*7)%11)
	}
	leads := []float64{6, 8, 7}

	r := Dynamic(demand, leads, 0.95)

	mean := stats.Mean(demand)
	assert.InDelta(t, mean, r.ForecastDemand, 1e-12)
	assert.InDelta(t, 7.0, r.ForecastLeadTime, 1e-12)
	assert.Greater(t, r.SafetyStock, 0.0, "noisy demand must carry safety stock")
	assert.InDelta(t, mean*7+r.SafetyStock, r.ReorderPoint, 1e-9)

	wantSafety := zScore(0.95) * stats.StdDev(stats.Tail(demand, 30)) * math.Sqrt(7)
	assert.InDelta(t, wantSafety, r.SafetyStock, 1e-9)
}

func TestDynamic_WeightedWindowsFavorRecentDemand(t *testing.T) {
	// 90 observations: two old months at 10/day, latest month at 20/day.
	demand := append(append(repeat(10, 30), repeat(10, 30)...), repeat(20, 30)...)

	r := Dynamic(demand, nil, 0.95)

	// 0.5*20 + 0.3*15 + 0.2*(40/3) = 17.1667; no lead-time history means
	// the 14-day default, and the constant last-30 window adds no safety.
	assert.InDelta(t, 17.1667, r.ForecastDemand, 1e-3)
	assert.Equal(t, DefaultForecastLeadTime, r.ForecastLeadTime)
	assert.Equal(t, 0.0, r.SafetyStock)
	assert.InDelta(t, r.ForecastDemand*14, r.ReorderPoint, 1e-9)
}

func TestDynamic_LeadTimeForecastUsesLastTenOnly(t *testing.T) {
	// Ten recent 4-day lead times after a long 20-day era.
	leads := append(repeat(20, 15), repeat(4, 10)...)

	r := Dynamic(repeat(5, 30), leads, 0.95)

	if r.ForecastLeadTime != 4 {
		t.Errorf("ForecastLeadTime = %v, want 4 (older observations leaked in)", r.ForecastLeadTime)
	}
}

func TestDynamic_SafetyStockReadsLastThirtyWindow(t *testing.T) {
	// Noisy history followed by 30 constant days: dispersion must be 0.
	demand := append([]float64{1, 99, 3, 97, 5, 95}, repeat(12, 30)...)

	r := Dynamic(demand, []float64{7}, 0.95)

	if r.SafetyStock != 0 {
		t.Errorf("SafetyStock = %v, want 0 (old noise leaked into window)", r.SafetyStock)
	}
}

func TestDynamic_EmptyHistory(t *testing.T) {
	r := Dynamic(nil, nil, 0.95)

	if r.ReorderPoint != 0 || r.SafetyStock != 0 {
		t.Errorf("empty history: rop=%v safety=%v, want 0/0", r.ReorderPoint, r.SafetyStock)
	}
	if r.ForecastLeadTime != DefaultForecastLeadTime {
		t.Errorf("ForecastLeadTime = %v, want default %v", r.ForecastLeadTime, DefaultForecastLeadTime)
	}
}

func TestEconomicOrderQuantity(t *testing.T) {
	// 3650 units/year with default costs.
	got := EconomicOrderQuantity(3650, DefaultOrderCost, DefaultEOQUnitCost, DefaultHoldingCostRate)
	want := math.Sqrt(2 * 3650 * 50 / 2.5)
	assert.InDelta(t, want, got, 1e-9)
}

func TestEconomicOrderQuantity_DegenerateInputs(t *testing.T) {
	tests := []struct {
		name                          string
		demand, order, unit, carrying float64
	}{
		{"zero demand", 0, 50, 10, 0.25},
		{"zero order cost", 3650, 0, 10, 0.25},
		{"zero holding cost", 3650, 50, 0, 0.25},
		{"negative demand", -10, 50, 10, 0.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EconomicOrderQuantity(tt.demand, tt.order, tt.unit, tt.carrying); got != 0 {
				t.Errorf("EOQ = %v, want 0", got)
			}
		})
	}
}
