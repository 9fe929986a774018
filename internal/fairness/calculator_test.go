package fairness

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func computeAll(t *testing.T, records []GroupRecord) MetricSet {
	t.Helper()
	stats, _, err := NewAggregator().Aggregate(records, AllMetrics)
	require.NoError(t, err)
	ms, _ := NewCalculator(0.5, ZeroOutcomeExclude).Compute(stats, records, AllMetrics)
	return ms
}

// nOf replicates a record n times.
func nOf(n int, r GroupRecord) []GroupRecord {
	out := make([]GroupRecord, n)
	for i := range out {
		out[i] = r
	}
	return out
}

func TestParityMetrics(t *testing.T) {
	// a: 3/4 predicted positive, b: 1/4.
	records := append(
		append(nOf(3, rec("a", 1, 1)), rec("a", 0, 0)),
		append(nOf(1, rec("b", 1, 1)), nOf(3, rec("b", 0, 0))...)...,
	)

	ms := computeAll(t, records)
	require.True(t, ms.DPDiff.Defined)
	assert.InDelta(t, 0.5, ms.DPDiff.Val, 1e-9)
	require.True(t, ms.DPRatio.Defined)
	assert.InDelta(t, 1.0/3.0, ms.DPRatio.Val, 1e-9)
}

func TestDPRatioNoPositivePredictions(t *testing.T) {
	records := []GroupRecord{
		rec("a", 1, 0),
		rec("b", 1, 0),
	}

	ms := computeAll(t, records)
	assert.False(t, ms.DPRatio.Defined)
	assert.Equal(t, ReasonNoPositivePredictions, ms.DPRatio.Reason)
	// The difference is still defined: both rates are zero.
	require.True(t, ms.DPDiff.Defined)
	assert.Zero(t, ms.DPDiff.Val)
}

func TestSingleGroupCollapses(t *testing.T) {
	records := []GroupRecord{
		rec("only", 1, 1),
		rec("only", 0, 0),
	}

	ms := computeAll(t, records)
	require.True(t, ms.DPDiff.Defined)
	assert.Zero(t, ms.DPDiff.Val)
	require.True(t, ms.DPRatio.Defined)
	assert.InDelta(t, 1.0, ms.DPRatio.Val, 1e-9)
}

func TestEODiffInsufficientGroups(t *testing.T) {
	// Group "a" has zero ground-truth positives, so its tpr is undefined
	// and only one comparable group remains.
	records := []GroupRecord{
		rec("a", 0, 0),
		rec("a", 0, 1),
		rec("b", 1, 1),
		rec("b", 0, 0),
	}

	ms := computeAll(t, records)
	assert.False(t, ms.EODiff.Defined)
	assert.Equal(t, ReasonInsufficientGroups, ms.EODiff.Reason)
	require.Len(t, ms.EODiff.Excluded, 1)
	assert.Equal(t, "a", ms.EODiff.Excluded[0].Group)
	assert.Equal(t, ReasonNoPositiveGroundTruth, ms.EODiff.Excluded[0].Reason)
}

func TestEqualizedOddsUndefinedOperand(t *testing.T) {
	records := []GroupRecord{
		rec("a", 0, 0),
		rec("a", 0, 1),
		rec("b", 1, 1),
		rec("b", 0, 0),
	}

	ms := computeAll(t, records)
	require.True(t, ms.FPRDiff.Defined)
	assert.False(t, ms.EqualizedOdds.Defined)
	assert.Equal(t, ReasonInsufficientGroups, ms.EqualizedOdds.Reason)
}

func TestEqualizedOddsMax(t *testing.T) {
	// a: tpr 1, fpr 1/2; b: tpr 1/2, fpr 0.
	records := []GroupRecord{
		rec("a", 1, 1), rec("a", 1, 1), rec("a", 0, 1), rec("a", 0, 0),
		rec("b", 1, 1), rec("b", 1, 0), rec("b", 0, 0), rec("b", 0, 0),
	}

	ms := computeAll(t, records)
	require.True(t, ms.EODiff.Defined)
	require.True(t, ms.FPRDiff.Defined)
	require.True(t, ms.EqualizedOdds.Defined)
	assert.InDelta(t, math.Max(ms.EODiff.Val, ms.FPRDiff.Val), ms.EqualizedOdds.Val, 1e-9)
}

func TestTheilIndexBinary(t *testing.T) {
	// Half the population predicted positive: T = -ln(mu) = ln 2.
	records := append(nOf(5, rec("a", 1, 1)), nOf(5, rec("b", 0, 0))...)

	ms := computeAll(t, records)
	require.True(t, ms.TheilIndex.Defined)
	assert.InDelta(t, math.Log(2), ms.TheilIndex.Val, 1e-9)
}

func TestTheilIndexZeroMean(t *testing.T) {
	records := append(nOf(3, rec("a", 1, 0)), nOf(3, rec("b", 0, 0))...)

	ms := computeAll(t, records)
	assert.False(t, ms.TheilIndex.Defined)
	assert.Equal(t, ReasonZeroMeanOutcome, ms.TheilIndex.Reason)
}

func TestEqualOutcomesZeroInequality(t *testing.T) {
	// Every individual receives the identical outcome: both inequality
	// indices are exactly zero.
	records := append(nOf(4, rec("a", 1, 1)), nOf(4, rec("b", 1, 1))...)

	ms := computeAll(t, records)
	require.True(t, ms.TheilIndex.Defined)
	assert.InDelta(t, 0, ms.TheilIndex.Val, 1e-9)
	require.True(t, ms.AtkinsonIndex.Defined)
	assert.InDelta(t, 0, ms.AtkinsonIndex.Val, 1e-9)
}

func TestAtkinsonHalfElasticityBinary(t *testing.T) {
	// For binary outcomes and eps=0.5 the index reduces to 1 - mu.
	records := append(nOf(3, rec("a", 1, 1)), nOf(1, rec("b", 0, 0))...)

	ms := computeAll(t, records)
	require.True(t, ms.AtkinsonIndex.Defined)
	assert.InDelta(t, 0.25, ms.AtkinsonIndex.Val, 1e-9)
}

func TestAtkinsonUnitElasticityExcludesZeros(t *testing.T) {
	records := append(nOf(3, rec("a", 1, 1)), nOf(2, rec("b", 0, 0))...)

	stats, _, err := NewAggregator().Aggregate(records, AllMetrics)
	require.NoError(t, err)
	ms, warnings := NewCalculator(1.0, ZeroOutcomeExclude).Compute(stats, records, AllMetrics)

	// The retained sample is all ones: geometric mean equals the mean.
	require.True(t, ms.AtkinsonIndex.Defined)
	assert.InDelta(t, 0, ms.AtkinsonIndex.Val, 1e-9)

	found := false
	for _, w := range warnings {
		if w == "atkinson_index: excluded 2 zero outcomes (policy exclude)" {
			found = true
		}
	}
	assert.True(t, found, "expected zero-exclusion warning, got %v", warnings)
}

func TestAtkinsonAbortPolicy(t *testing.T) {
	records := append(nOf(3, rec("a", 1, 1)), nOf(2, rec("b", 0, 0))...)

	stats, _, err := NewAggregator().Aggregate(records, AllMetrics)
	require.NoError(t, err)
	ms, warnings := NewCalculator(1.0, ZeroOutcomeAbort).Compute(stats, records, AllMetrics)
	assert.False(t, ms.AtkinsonIndex.Defined)
	assert.Equal(t, ReasonZeroOutcomesPresent, ms.AtkinsonIndex.Value.Reason)
	assert.Contains(t, warnings, "atkinson_index: 2 zero outcomes with abort policy")
}

func TestRequestedSubsetSkipsOthers(t *testing.T) {
	records := []GroupRecord{rec("a", 1, 1), rec("b", 0, 0)}

	stats, _, err := NewAggregator().Aggregate(records, []string{MetricDPDiff})
	require.NoError(t, err)
	ms, _ := NewCalculator(0.5, ZeroOutcomeExclude).Compute(stats, records, []string{MetricDPDiff})

	require.True(t, ms.DPDiff.Defined)
	assert.False(t, ms.TheilIndex.Defined)
	assert.Equal(t, ReasonNotRequested, ms.TheilIndex.Reason)
}

func TestDiffBoundsProperty(t *testing.T) {
	cases := [][]GroupRecord{
		append(nOf(10, rec("a", 1, 1)), append(nOf(5, rec("b", 1, 1)), nOf(5, rec("b", 0, 0))...)...),
		append(nOf(2, rec("a", 0, 1)), nOf(9, rec("b", 1, 0))...),
		append(nOf(7, rec("a", 1, 0)), nOf(3, rec("b", 0, 1))...),
	}
	for _, records := range cases {
		ms := computeAll(t, records)
		if ms.DPDiff.Defined {
			assert.GreaterOrEqual(t, ms.DPDiff.Val, 0.0)
			assert.LessOrEqual(t, ms.DPDiff.Val, 1.0)
		}
		if ms.DPRatio.Defined {
			assert.GreaterOrEqual(t, ms.DPRatio.Val, 0.0)
			assert.LessOrEqual(t, ms.DPRatio.Val, 1.0)
		}
	}
}

func TestDPRatioOneIffEqualRates(t *testing.T) {
	equal := append(
		append(nOf(5, rec("a", 1, 1)), nOf(5, rec("a", 0, 0))...),
		append(nOf(5, rec("b", 1, 1)), nOf(5, rec("b", 0, 0))...)...,
	)
	ms := computeAll(t, equal)
	require.True(t, ms.DPRatio.Defined)
	assert.InDelta(t, 1.0, ms.DPRatio.Val, 1e-9)

	unequal := append(nOf(10, rec("a", 1, 1)),
		append(nOf(5, rec("b", 1, 1)), nOf(5, rec("b", 0, 0))...)...)
	ms = computeAll(t, unequal)
	require.True(t, ms.DPRatio.Defined)
	assert.Less(t, ms.DPRatio.Val, 1.0)
}
