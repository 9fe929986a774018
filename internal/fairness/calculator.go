package fairness

import (
	"fmt"
	"math"
	"sort"
)

// Calculator derives the fairness metric vector from group statistics and
// the raw outcome sample. Every ratio and difference is computed only over
// groups whose underlying rate is defined; exclusions are carried on the
// metric instead of being silently absorbed.
type Calculator struct {
	elasticity float64
	zeroPolicy string
}

// Zero-outcome policies for the Atkinson index branches that cannot accept
// zero-valued outcomes.
const (
	ZeroOutcomeExclude = "exclude"
	ZeroOutcomeAbort   = "abort"
)

// NewCalculator creates a metrics calculator with the given Atkinson
// elasticity and zero-outcome policy.
func NewCalculator(elasticity float64, zeroPolicy string) *Calculator {
	return &Calculator{elasticity: elasticity, zeroPolicy: zeroPolicy}
}

// rateOf selects one underlying rate from GroupStats.
type rateOf func(GroupStats) Value

// spread collects the defined rates across groups and returns their min and
// max together with the excluded groups. ok is false when the metric cannot
// be formed; the reason explains why.
func spread(stats map[string]GroupStats, pick rateOf) (minV, maxV float64, excluded []GroupExclusion, ok bool, reason string) {
	groups := make([]string, 0, len(stats))
	for g := range stats {
		groups = append(groups, g)
	}
	sort.Strings(groups)

	defined := 0
	first := true
	for _, g := range groups {
		v := pick(stats[g])
		if !v.Defined {
			excluded = append(excluded, GroupExclusion{Group: g, Reason: v.Reason})
			continue
		}
		defined++
		if first {
			minV, maxV = v.Val, v.Val
			first = false
			continue
		}
		if v.Val < minV {
			minV = v.Val
		}
		if v.Val > maxV {
			maxV = v.Val
		}
	}

	switch {
	case defined == 0:
		if len(excluded) > 0 {
			return 0, 0, excluded, false, excluded[0].Reason
		}
		return 0, 0, excluded, false, ReasonNoRecords
	case defined == 1 && len(stats) > 1:
		// A comparison group dropped out; a gap of zero would be a lie.
		return 0, 0, excluded, false, ReasonInsufficientGroups
	}
	return minV, maxV, excluded, true, ""
}

// diffMetric computes max-min of a rate across comparable groups. With a
// single-group input the disparity is zero by definition.
func diffMetric(stats map[string]GroupStats, pick rateOf) Metric {
	minV, maxV, excluded, ok, reason := spread(stats, pick)
	if !ok {
		return undefMetric(reason, excluded)
	}
	return defMetric(maxV-minV, excluded)
}

// Compute derives the full metric vector. Metrics not in requested are
// reported undefined with a not-requested reason. Warnings describe
// non-fatal degradations.
func (c *Calculator) Compute(stats map[string]GroupStats, records []GroupRecord, requested []string) (MetricSet, []string) {
	want := make(map[string]bool, len(requested))
	for _, name := range requested {
		want[name] = true
	}

	var ms MetricSet
	var warnings []string

	skip := func(name string) bool { return !want[name] }
	notRequested := Metric{Value: Undef(ReasonNotRequested)}

	if skip(MetricDPDiff) {
		ms.DPDiff = notRequested
	} else {
		ms.DPDiff = diffMetric(stats, func(s GroupStats) Value { return s.SelectionRate })
	}

	if skip(MetricDPRatio) {
		ms.DPRatio = notRequested
	} else {
		ms.DPRatio = c.dpRatio(stats)
	}

	if skip(MetricEODiff) {
		ms.EODiff = notRequested
	} else {
		ms.EODiff = diffMetric(stats, func(s GroupStats) Value { return s.TPR })
	}

	if skip(MetricFPRDiff) {
		ms.FPRDiff = notRequested
	} else {
		ms.FPRDiff = diffMetric(stats, func(s GroupStats) Value { return s.FPR })
	}

	if skip(MetricPPDiff) {
		ms.PPDiff = notRequested
	} else {
		ms.PPDiff = diffMetric(stats, func(s GroupStats) Value { return s.Precision })
	}

	if skip(MetricEqualizedOdds) {
		ms.EqualizedOdds = notRequested
	} else {
		ms.EqualizedOdds = equalizedOdds(ms.EODiff, ms.FPRDiff)
	}

	outcomes := make([]float64, len(records))
	for i, r := range records {
		outcomes[i] = float64(r.YPred)
	}

	if skip(MetricTheilIndex) {
		ms.TheilIndex = notRequested
	} else {
		ms.TheilIndex = theilIndex(outcomes)
	}

	if skip(MetricAtkinsonIndex) {
		ms.AtkinsonIndex = notRequested
	} else {
		var w []string
		ms.AtkinsonIndex, w = c.atkinsonIndex(outcomes)
		warnings = append(warnings, w...)
	}

	for _, name := range AllMetrics {
		m, _ := ms.ByName(name)
		if !m.Defined && m.Reason != ReasonNotRequested {
			warnings = append(warnings, fmt.Sprintf("metric %s undefined (%s)", name, m.Reason))
		}
	}
	return ms, warnings
}

// dpRatio is min/max selection rate. A max of zero means no group received a
// single positive prediction; the ratio is reported undefined rather than
// coerced to a passing 1.0.
func (c *Calculator) dpRatio(stats map[string]GroupStats) Metric {
	minV, maxV, excluded, ok, reason := spread(stats, func(s GroupStats) Value { return s.SelectionRate })
	if !ok {
		return undefMetric(reason, excluded)
	}
	if maxV == 0 {
		return undefMetric(ReasonNoPositivePredictions, excluded)
	}
	return defMetric(minV/maxV, excluded)
}

func equalizedOdds(eo, fpr Metric) Metric {
	excluded := append(append([]GroupExclusion(nil), eo.Excluded...), fpr.Excluded...)
	if !eo.Defined {
		return undefMetric(eo.Reason, excluded)
	}
	if !fpr.Defined {
		return undefMetric(fpr.Reason, excluded)
	}
	return defMetric(math.Max(eo.Val, fpr.Val), excluded)
}

// theilIndex computes T = (1/N) sum (y/mu) ln(y/mu) over individual
// outcomes, with the 0*ln0 = 0 convention.
func theilIndex(outcomes []float64) Metric {
	n := len(outcomes)
	if n == 0 {
		return undefMetric(ReasonNoRecords, nil)
	}
	var sum float64
	for _, y := range outcomes {
		sum += y
	}
	mu := sum / float64(n)
	if mu == 0 {
		return undefMetric(ReasonZeroMeanOutcome, nil)
	}

	var t float64
	for _, y := range outcomes {
		if y == 0 {
			continue
		}
		r := y / mu
		t += r * math.Log(r)
	}
	return defMetric(t/float64(n), nil)
}

// atkinsonIndex computes the welfare-inequality index for elasticity eps.
// The eps=1 geometric-mean branch and any branch with a fractional or
// negative exponent cannot take zero outcomes; those are handled per the
// configured zero-outcome policy.
func (c *Calculator) atkinsonIndex(outcomes []float64) (Metric, []string) {
	n := len(outcomes)
	if n == 0 {
		return undefMetric(ReasonNoRecords, nil), nil
	}
	var sum float64
	zeros := 0
	for _, y := range outcomes {
		sum += y
		if y == 0 {
			zeros++
		}
	}
	mu := sum / float64(n)
	if mu == 0 {
		return undefMetric(ReasonZeroMeanOutcome, nil), nil
	}

	eps := c.elasticity
	sample := outcomes
	var warnings []string

	// Exponents in (0,1) accept zero outcomes directly; everything else
	// needs strictly positive values.
	needsPositive := eps >= 1
	if needsPositive && zeros > 0 {
		if c.zeroPolicy == ZeroOutcomeAbort {
			return undefMetric(ReasonZeroOutcomesPresent, nil),
				[]string{fmt.Sprintf("atkinson_index: %d zero outcomes with abort policy", zeros)}
		}
		sample = make([]float64, 0, n-zeros)
		for _, y := range outcomes {
			if y > 0 {
				sample = append(sample, y)
			}
		}
		if len(sample) == 0 {
			return undefMetric(ReasonAllZeroOutcomes, nil), nil
		}
		warnings = append(warnings,
			fmt.Sprintf("atkinson_index: excluded %d zero outcomes (policy %s)", zeros, ZeroOutcomeExclude))
		// The mean is recomputed over the retained sample so both factors
		// describe the same population.
		var s float64
		for _, y := range sample {
			s += y
		}
		mu = s / float64(len(sample))
	}

	if eps == 1 {
		var logSum float64
		for _, y := range sample {
			logSum += math.Log(y)
		}
		geo := math.Exp(logSum / float64(len(sample)))
		return defMetric(1-geo/mu, nil), warnings
	}

	var powSum float64
	for _, y := range sample {
		powSum += math.Pow(y, 1-eps)
	}
	mean := powSum / float64(len(sample))
	a := 1 - math.Pow(mean, 1/(1-eps))/mu
	return defMetric(a, nil), warnings
}
