package fairness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultProfile(t *testing.T) Profile {
	t.Helper()
	p, err := NewRegistry().Get(ProfileDefault)
	require.NoError(t, err)
	return p
}

func TestLegalCompliance(t *testing.T) {
	p := defaultProfile(t)
	a := NewAssessor()

	var ms MetricSet
	ms.DPRatio = defMetric(0.85, nil)
	assert.Equal(t, StatusPass, a.legal(&ms, p).Status)

	ms.DPRatio = defMetric(0.80, nil)
	assert.Equal(t, StatusPass, a.legal(&ms, p).Status)

	ms.DPRatio = defMetric(0.79, nil)
	assert.Equal(t, StatusFail, a.legal(&ms, p).Status)

	ms.DPRatio = undefMetric(ReasonNoPositivePredictions, nil)
	res := a.legal(&ms, p)
	assert.Equal(t, StatusIndeterminate, res.Status)
	assert.Contains(t, res.Rationale, ReasonNoPositivePredictions)
}

func TestIndividualFairnessLevels(t *testing.T) {
	p := defaultProfile(t)
	a := NewAssessor()

	cases := []struct {
		theil float64
		want  string
	}{
		{0.01, LevelExcellent},
		{0.07, LevelGood},
		{0.15, LevelFair},
		{0.30, LevelPoor},
	}
	for _, tc := range cases {
		var ms MetricSet
		ms.TheilIndex = defMetric(tc.theil, nil)
		assert.Equal(t, tc.want, a.individual(&ms, p).Status, "theil %v", tc.theil)
	}

	var ms MetricSet
	ms.TheilIndex = undefMetric(ReasonNoRecords, nil)
	assert.Equal(t, StatusIndeterminate, a.individual(&ms, p).Status)
}

func TestGroupFairnessComposite(t *testing.T) {
	p := defaultProfile(t)
	a := NewAssessor()

	var ms MetricSet
	ms.DPDiff = defMetric(0.02, nil)
	ms.EODiff = defMetric(0.05, nil)
	ms.FPRDiff = defMetric(0.01, nil)
	res := a.group(&ms, nil, p)
	assert.Equal(t, GroupAllLow, res.Status)

	ms.EODiff = defMetric(0.20, nil)
	res = a.group(&ms, nil, p)
	assert.Equal(t, GroupSomeHigh, res.Status)
	assert.Contains(t, res.Rationale, CheckOpportunity)

	checks := []BiasCheckResult{{Check: CheckSystematic, Severity: SeveritySevere}}
	res = a.group(&ms, checks, p)
	assert.Equal(t, GroupMajorDisparities, res.Status)

	var empty MetricSet
	res = a.group(&empty, nil, p)
	assert.Equal(t, StatusIndeterminate, res.Status)
}

func TestCalibrationGap(t *testing.T) {
	p := defaultProfile(t)
	a := NewAssessor()

	stats := map[string]GroupStats{
		"a": {SelectionRate: Def(0.50), ActualRate: Def(0.48)},
		"b": {SelectionRate: Def(0.20), ActualRate: Def(0.45)},
	}
	res := a.calibration(stats, p)
	assert.Equal(t, LevelPoor, res.Status)
	assert.Contains(t, res.Rationale, `"b"`)

	stats = map[string]GroupStats{
		"a": {SelectionRate: Def(0.50), ActualRate: Undef(ReasonGroundTruthMissing)},
	}
	res = a.calibration(stats, p)
	assert.Equal(t, StatusIndeterminate, res.Status)
}

func TestProceduralAlwaysManualReview(t *testing.T) {
	res := NewAssessor().procedural()
	assert.Equal(t, AssessProcedural, res.Assessment)
	assert.Equal(t, StatusManualReview, res.Status)
}

func TestAssessOrderFixed(t *testing.T) {
	p := defaultProfile(t)
	var ms MetricSet
	results := NewAssessor().Assess(nil, &ms, nil, p)
	require.Len(t, results, 5)
	want := []string{AssessLegal, AssessIndividual, AssessGroup, AssessCalibration, AssessProcedural}
	for i, name := range want {
		assert.Equal(t, name, results[i].Assessment)
	}
}
