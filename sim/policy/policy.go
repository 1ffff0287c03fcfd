// Package policy implements the reorder-point models under test: the fixed
// (static) formula the control arm runs and the weighted-moving-average
// dynamic formula the treatment arm runs, plus the EOQ sizing helper.
//
// Everything here is a pure function of its inputs. Callers own data
// preparation; the service level is expected to lie in (0,1).
package policy

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/replensim/replensim/sim/stats"
)

// Method identifies which reorder-point model produced a result.
type Method string

const (
	// MethodFixed is the static formula computed once from aggregate history.
	MethodFixed Method = "fixed"

	// MethodDynamic is the weighted-moving-average formula recomputed from
	// trailing demand windows.
	MethodDynamic Method = "dynamic"
)

// Trailing-window sizes and weights for the dynamic model. The weights
// favor the most recent month but keep a quarter of history in view.
const (
	windowShort = 30
	windowMid   = 60
	windowLong  = 90

	weightShort = 0.5
	weightMid   = 0.3
	weightLong  = 0.2

	leadTimeWindow = 10

	// DefaultForecastLeadTime backstops SKUs with no order history, in days.
	DefaultForecastLeadTime = 14.0
)

// Defaults for the EOQ helper.
const (
	DefaultOrderCost       = 50.0
	DefaultEOQUnitCost     = 10.0
	DefaultHoldingCostRate = 0.25
)

// Result is the output of a reorder-point computation. ForecastDemand and
// ForecastLeadTime record the figures the model sized against.
type Result struct {
	Method       Method
	ReorderPoint float64
	SafetyStock  float64

	ForecastDemand   float64
	ForecastLeadTime float64
}

// Fixed computes the classical static reorder point:
//
//	rop = avgDailyDemand·avgLeadTime + z·demandStd·√avgLeadTime
//
// where z is the standard normal quantile of the service level. Zero or
// unmeasurable demand dispersion yields zero safety stock; the reorder
// point and safety stock are clamped non-negative.
func Fixed(avgDailyDemand, avgLeadTime, demandStd, serviceLevel float64) Result {
	safety := clampStock(zScore(serviceLevel) * demandStd * math.Sqrt(avgLeadTime))
	rop := clampStock(avgDailyDemand*avgLeadTime + safety)
	return Result{
		Method:           MethodFixed,
		ReorderPoint:     rop,
		SafetyStock:      safety,
		ForecastDemand:   avgDailyDemand,
		ForecastLeadTime: avgLeadTime,
	}
}

// Dynamic computes the weighted-moving-average reorder point from trailing
// demand and lead-time observations (both ordered most recent last):
//
//	demand forecast = 0.5·mean(last 30) + 0.3·mean(last 60) + 0.2·mean(last 90)
//
// falling back to the plain mean when fewer than 90 observations exist.
// The lead-time forecast is the mean of the last 10 observations (default
// 14 days when none exist); safety stock uses the dispersion of the last
// 30 demand observations.
func Dynamic(recentDemand, recentLeadTimes []float64, serviceLevel float64) Result {
	demandForecast := weightedDemand(recentDemand)
	leadForecast := forecastLeadTime(recentLeadTimes)

	disp := stats.StdDev(stats.Tail(recentDemand, windowShort))
	safety := clampStock(zScore(serviceLevel) * disp * math.Sqrt(leadForecast))
	rop := clampStock(demandForecast*leadForecast + safety)

	return Result{
		Method:           MethodDynamic,
		ReorderPoint:     rop,
		SafetyStock:      safety,
		ForecastDemand:   demandForecast,
		ForecastLeadTime: leadForecast,
	}
}

// EconomicOrderQuantity returns √(2·annualDemand·orderCost / holding) where
// holding is unitCost·holdingCostRate. Non-positive inputs yield 0 rather
// than NaN; EOQ is a sizing hint, not part of the reorder-point policies.
func EconomicOrderQuantity(annualDemand, orderCost, unitCost, holdingCostRate float64) float64 {
	holding := unitCost * holdingCostRate
	if annualDemand <= 0 || orderCost <= 0 || holding <= 0 {
		return 0
	}
	return math.Sqrt(2 * annualDemand * orderCost / holding)
}

func weightedDemand(demand []float64) float64 {
	if len(demand) == 0 {
		return 0
	}
	if len(demand) < windowLong {
		return stats.Mean(demand)
	}
	return weightShort*stats.Mean(stats.Tail(demand, windowShort)) +
		weightMid*stats.Mean(stats.Tail(demand, windowMid)) +
		weightLong*stats.Mean(stats.Tail(demand, windowLong))
}

func forecastLeadTime(leadTimes []float64) float64 {
	if len(leadTimes) == 0 {
		return DefaultForecastLeadTime
	}
	return stats.Mean(stats.Tail(leadTimes, leadTimeWindow))
}

func zScore(serviceLevel float64) float64 {
	return distuv.UnitNormal.Quantile(serviceLevel)
}

// clampStock maps NaN and negative sizing results to 0.
func clampStock(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}
