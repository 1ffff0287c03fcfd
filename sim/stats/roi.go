package stats

import (
	"math"

	"github.com/shopspring/decimal"
)

// ROIInput carries the aggregate arm outcomes and the cost model used to
// monetize them. Monetary parameters are decimals so savings, benefit, and
// NPV stay exact; the aggregates come straight off the simulation results.
type ROIInput struct {
	ControlAvgInventorySum   float64
	TreatmentAvgInventorySum float64
	ControlStockouts         int
	TreatmentStockouts       int

	UnitCost           decimal.Decimal
	StockoutCost       decimal.Decimal
	CarryingCostRate   decimal.Decimal
	ImplementationCost decimal.Decimal
	AnnualMaintenance  decimal.Decimal
	DiscountRate       decimal.Decimal
}

// ROIReport is the monetized case for switching policies. Money is decimal;
// PaybackMonths is a float64 so "never pays back" is representable as +Inf.
type ROIReport struct {
	InventorySavings    decimal.Decimal
	CarryingCostSavings decimal.Decimal
	StockoutSavings     decimal.Decimal
	TotalAnnualBenefit  decimal.Decimal
	PaybackMonths       float64
	NetPresentValue3Y   decimal.Decimal
	ROIYear1Pct         float64
}

// ComputeROI monetizes the two-arm outcome deltas:
//
//	inventory savings = (controlInv − treatmentInv) · unitCost
//	carrying savings  = inventory savings · carryingRate
//	stockout savings  = (controlStockouts − treatmentStockouts) · stockoutCost
//	annual benefit    = carrying + stockout − annualMaintenance
//
// Payback is implementation cost over monthly benefit, +Inf when the benefit
// is not positive. NPV discounts the benefit over three years against the
// up-front implementation cost.
func ComputeROI(in ROIInput) ROIReport {
	invDelta := decimal.NewFromFloat(in.ControlAvgInventorySum - in.TreatmentAvgInventorySum)
	inventorySavings := invDelta.Mul(in.UnitCost)
	carrying := inventorySavings.Mul(in.CarryingCostRate)

	stockoutDelta := decimal.NewFromInt(int64(in.ControlStockouts - in.TreatmentStockouts))
	stockoutSavings := stockoutDelta.Mul(in.StockoutCost)

	benefit := carrying.Add(stockoutSavings).Sub(in.AnnualMaintenance)

	report := ROIReport{
		InventorySavings:    inventorySavings,
		CarryingCostSavings: carrying,
		StockoutSavings:     stockoutSavings,
		TotalAnnualBenefit:  benefit,
	}

	if benefit.IsPositive() {
		monthly := benefit.Div(decimal.NewFromInt(12))
		report.PaybackMonths = in.ImplementationCost.Div(monthly).InexactFloat64()
	} else {
		report.PaybackMonths = math.Inf(1)
	}

	npv := in.ImplementationCost.Neg()
	one := decimal.NewFromInt(1)
	for year := int64(1); year <= 3; year++ {
		discount := one.Add(in.DiscountRate).Pow(decimal.NewFromInt(year))
		npv = npv.Add(benefit.Div(discount))
	}
	report.NetPresentValue3Y = npv

	if !in.ImplementationCost.IsZero() {
		report.ROIYear1Pct = benefit.Sub(in.ImplementationCost).
			Div(in.ImplementationCost).
			Mul(decimal.NewFromInt(100)).
			InexactFloat64()
	}
	return report
}
