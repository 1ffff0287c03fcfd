package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// ciZ is the normal critical value behind the fixed 95% confidence interval.
const ciZ = 1.96

// Comparison is the full readout of one metric compared across the control
// and treatment arms: Welch's two-sample t-test, effect size, and a 95%
// confidence interval on the difference of means.
//
// Every field is finite for every input, including single-element and
// zero-variance arms. When the standard error vanishes the t statistic is
// reported as 0 and the p-value alone carries the verdict: 1 for equal
// means, 0 for unequal.
type Comparison struct {
	Metric string

	ControlMean   float64
	TreatmentMean float64
	ControlN      int
	TreatmentN    int

	// Difference is treatment minus control; positive favors treatment.
	Difference float64

	// PctChange is the difference relative to the control mean, in percent.
	// PctChangeDefined is false when the control mean is zero, in which
	// case PctChange holds 0 and must not be interpreted.
	PctChange        float64
	PctChangeDefined bool

	TStat            float64
	DegreesOfFreedom float64
	PValue           float64
	CohensD          float64
	CILow            float64
	CIHigh           float64

	Alpha       float64
	Significant bool
}

// Compare runs Welch's unequal-variance t-test on the two samples and
// packages the result for the named metric. Significance is PValue < alpha.
func Compare(metric string, control, treatment []float64, alpha float64) Comparison {
	nc, nt := len(control), len(treatment)
	mc, mt := Mean(control), Mean(treatment)
	vc, vt := Variance(control), Variance(treatment)
	diff := mt - mc

	c := Comparison{
		Metric:        metric,
		ControlMean:   mc,
		TreatmentMean: mt,
		ControlN:      nc,
		TreatmentN:    nt,
		Difference:    diff,
		Alpha:         alpha,
	}

	if mc != 0 {
		c.PctChange = diff / mc * 100
		c.PctChangeDefined = true
	}

	var seC, seT float64
	if nc > 0 {
		seC = vc / float64(nc)
	}
	if nt > 0 {
		seT = vt / float64(nt)
	}
	se := math.Sqrt(seC + seT)

	switch {
	case se > 0:
		c.TStat = diff / se
		// Welch–Satterthwaite. A nonzero variance implies n >= 2, so the
		// n-1 denominators below never vanish for contributing terms.
		dof := (seC + seT) * (seC + seT) / (welchTerm(seC, nc) + welchTerm(seT, nt))
		c.DegreesOfFreedom = dof
		tdist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: dof}
		c.PValue = 2 * tdist.CDF(-math.Abs(c.TStat))
	case diff == 0:
		c.PValue = 1
	default:
		c.PValue = 0
	}

	// Cohen's d with the pooled standard deviation of the two samples.
	// Zero pooled dispersion means effect size is unmeasurable: d = 0.
	if pooled := math.Sqrt((vc + vt) / 2); pooled > 0 {
		c.CohensD = diff / pooled
	}

	halfWidth := ciZ * se
	c.CILow = diff - halfWidth
	c.CIHigh = diff + halfWidth
	c.Significant = c.PValue < alpha
	return c
}

func welchTerm(sePart float64, n int) float64 {
	if n < 2 || sePart == 0 {
		return 0
	}
	return sePart * sePart / float64(n-1)
}
