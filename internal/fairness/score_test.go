package fairness

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func fullyFairSet() MetricSet {
	var ms MetricSet
	ms.DPDiff = defMetric(0, nil)
	ms.DPRatio = defMetric(1, nil)
	ms.EODiff = defMetric(0, nil)
	ms.FPRDiff = defMetric(0, nil)
	ms.PPDiff = defMetric(0, nil)
	return ms
}

func TestScorePerfect(t *testing.T) {
	ms := fullyFairSet()
	s := ComputeScore(&ms)
	assert.InDelta(t, 100.0, s.Value, 1e-9)
	assert.Equal(t, BiasLow, s.BiasLevel)
	assert.False(t, s.Partial)
	assert.Empty(t, s.Omitted)
}

func TestScorePenalties(t *testing.T) {
	ms := fullyFairSet()
	ms.DPDiff = defMetric(0.5, nil)
	ms.DPRatio = defMetric(0.5, nil)

	// Two penalties of 0.5 over five metrics: average 0.2, score 80.
	s := ComputeScore(&ms)
	assert.InDelta(t, 80.0, s.Value, 1e-9)
	assert.Equal(t, BiasModerate, s.BiasLevel)
}

func TestScorePartialOmitsUndefined(t *testing.T) {
	ms := fullyFairSet()
	ms.FPRDiff = undefMetric(ReasonInsufficientGroups, nil)
	ms.PPDiff = undefMetric(ReasonInsufficientGroups, nil)

	s := ComputeScore(&ms)
	assert.True(t, s.Partial)
	assert.ElementsMatch(t, []string{MetricFPRDiff, MetricPPDiff}, s.Omitted)
	assert.InDelta(t, 100.0, s.Value, 1e-9)
}

func TestScoreAllUndefined(t *testing.T) {
	var ms MetricSet
	ms.DPDiff = undefMetric(ReasonNoRecords, nil)
	ms.DPRatio = undefMetric(ReasonNoRecords, nil)
	ms.EODiff = undefMetric(ReasonNoRecords, nil)
	ms.FPRDiff = undefMetric(ReasonNoRecords, nil)
	ms.PPDiff = undefMetric(ReasonNoRecords, nil)

	s := ComputeScore(&ms)
	assert.Zero(t, s.Value)
	assert.Equal(t, BiasHigh, s.BiasLevel)
	assert.True(t, s.Partial)
}

func TestScoreClampsPenalties(t *testing.T) {
	ms := fullyFairSet()
	// Theil-style values above 1 must not push a penalty past 1.
	ms.DPDiff = defMetric(3.0, nil)

	s := ComputeScore(&ms)
	assert.InDelta(t, 80.0, s.Value, 1e-9)
}

func TestScoreBiasLevels(t *testing.T) {
	cases := []struct {
		dpDiff float64
		want   string
	}{
		{0.0, BiasLow},
		{0.74, BiasLow},   // score 85.2
		{0.80, BiasModerate},
		{1.0, BiasModerate}, // score 80
	}
	for _, tc := range cases {
		ms := fullyFairSet()
		ms.DPDiff = defMetric(tc.dpDiff, nil)
		s := ComputeScore(&ms)
		assert.Equal(t, tc.want, s.BiasLevel, "dp_diff %v score %v", tc.dpDiff, s.Value)
	}
}
