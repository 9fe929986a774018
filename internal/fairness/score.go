package fairness

import "math"

// Bias levels derived from the composite score.
const (
	BiasLow      = "low"
	BiasModerate = "moderate"
	BiasHigh     = "high"
)

// ComputeScore folds the core disparity metrics into a 0-100 score: each
// metric contributes a clamped penalty, the average penalty is inverted.
// Undefined metrics contribute no penalty but mark the score partial, so a
// missing metric can never improve nor silently pass a model.
func ComputeScore(ms *MetricSet) Score {
	type penalty struct {
		name string
		m    Metric
		f    func(v float64) float64
	}
	identity := func(v float64) float64 { return v }
	penalties := []penalty{
		{MetricDPDiff, ms.DPDiff, identity},
		{MetricDPRatio, ms.DPRatio, func(v float64) float64 { return 1 - v }},
		{MetricEODiff, ms.EODiff, identity},
		{MetricFPRDiff, ms.FPRDiff, identity},
		{MetricPPDiff, ms.PPDiff, identity},
	}

	var sum float64
	counted := 0
	var omitted []string
	for _, p := range penalties {
		if !p.m.Defined {
			omitted = append(omitted, p.name)
			continue
		}
		sum += clamp01(p.f(p.m.Val))
		counted++
	}

	s := Score{Partial: len(omitted) > 0, Omitted: omitted}
	if counted == 0 {
		s.Value = 0
		s.BiasLevel = BiasHigh
		return s
	}

	avg := sum / float64(counted)
	s.Value = round2(math.Max(0, math.Min((1-avg)*100, 100)))
	switch {
	case s.Value >= 85:
		s.BiasLevel = BiasLow
	case s.Value >= 65:
		s.BiasLevel = BiasModerate
	default:
		s.BiasLevel = BiasHigh
	}
	return s
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(v, 1))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
