package stats

import (
	"fmt"
	"math"
	"strings"
)

// Recommendation is the decision the experiment produces.
type Recommendation string

const (
	// RecommendDynamic means the treatment policy showed a statistically
	// significant fill-rate improvement and should be adopted.
	RecommendDynamic Recommendation = "adopt_dynamic"

	// RecommendInconclusive means the evidence does not support switching.
	RecommendInconclusive Recommendation = "inconclusive"
)

// Recommend applies the adoption rule: adopt the dynamic policy when the
// fill-rate comparison is significant AND its percent change is positive.
// An undefined percent change (zero control baseline) is not positive.
func Recommend(fillRate Comparison) Recommendation {
	if fillRate.Significant && fillRate.PctChangeDefined && fillRate.PctChange > 0 {
		return RecommendDynamic
	}
	return RecommendInconclusive
}

// SummaryInput collects everything the executive summary reports on.
type SummaryInput struct {
	RunID            string
	TestDurationDays int
	Alpha            float64

	FillRate     Comparison
	AvgInventory Comparison
	Stockouts    Comparison

	ROI            ROIReport
	Recommendation Recommendation
}

const summaryRule = "============================================================"
const summarySubRule = "------------------------------------------------------------"

// BuildSummary renders the human-readable executive summary: per-metric
// findings with significance marks, the business-impact block, and the
// recommendation with its supporting bullets.
func BuildSummary(in SummaryInput) string {
	var b strings.Builder

	fmt.Fprintf(&b, "A/B TEST RESULTS: Dynamic ROP vs Fixed ROP\n%s\n", summaryRule)
	fmt.Fprintf(&b, "\nRun ID: %s\n", in.RunID)
	fmt.Fprintf(&b, "Test Duration: %d days\n", in.TestDurationDays)
	fmt.Fprintf(&b, "Significance Level: %g\n", in.Alpha)

	fmt.Fprintf(&b, "\nKEY FINDINGS:\n%s\n", summarySubRule)
	for _, c := range []Comparison{in.FillRate, in.AvgInventory, in.Stockouts} {
		status := "✗ Not Significant"
		if c.Significant {
			status = "✓ SIGNIFICANT"
		}
		fmt.Fprintf(&b, "\n%s:\n", c.Metric)
		fmt.Fprintf(&b, "  Improvement: %s %s\n", formatPctChange(c), status)
		fmt.Fprintf(&b, "  p-value: %.4f\n", c.PValue)
	}

	fmt.Fprintf(&b, "\n%s\nBUSINESS IMPACT:\n%s\n", summaryRule, summarySubRule)
	fmt.Fprintf(&b, "Annual Savings: $%s\n", in.ROI.TotalAnnualBenefit.StringFixed(0))
	fmt.Fprintf(&b, "Payback Period: %s\n", formatPayback(in.ROI.PaybackMonths))
	fmt.Fprintf(&b, "3-Year NPV: $%s\n", in.ROI.NetPresentValue3Y.StringFixed(0))
	fmt.Fprintf(&b, "ROI (Year 1): %.1f%%\n", in.ROI.ROIYear1Pct)

	fmt.Fprintf(&b, "\n%s\nRECOMMENDATION:\n%s\n", summaryRule, summarySubRule)
	if in.Recommendation == RecommendDynamic {
		fmt.Fprintf(&b, "\n✓ IMPLEMENT DYNAMIC REORDER POINTS\n")
		fmt.Fprintf(&b, "\nDynamic ROP shows statistically significant improvements in:\n")
		fmt.Fprintf(&b, "  - Fill rate: +%.1f%%\n", in.FillRate.PctChange)
		if in.AvgInventory.PctChangeDefined && in.AvgInventory.PctChange < 0 {
			fmt.Fprintf(&b, "  - Inventory reduction: %.1f%%\n", in.AvgInventory.PctChange)
		}
		if in.Stockouts.PctChangeDefined && in.Stockouts.PctChange < 0 {
			fmt.Fprintf(&b, "  - Stockout reduction: %.1f%%\n", in.Stockouts.PctChange)
		}
	} else {
		fmt.Fprintf(&b, "\n⚠ RESULTS INCONCLUSIVE - Further testing recommended\n")
	}
	fmt.Fprintf(&b, "\n%s\n", summaryRule)

	return b.String()
}

func formatPctChange(c Comparison) string {
	if !c.PctChangeDefined {
		return "n/a (zero control baseline)"
	}
	return fmt.Sprintf("%+.1f%%", c.PctChange)
}

func formatPayback(months float64) string {
	if math.IsInf(months, 1) {
		return "never (benefit non-positive)"
	}
	return fmt.Sprintf("%.1f months", months)
}
