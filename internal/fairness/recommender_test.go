package fairness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommendCleanAudit(t *testing.T) {
	p := defaultProfile(t)
	checks := []BiasCheckResult{
		{Check: CheckSystematic, Severity: SeverityNone},
		{Check: CheckOpportunity, Severity: SeverityNone},
	}
	pass := []AssessmentResult{{Assessment: AssessLegal, Status: StatusPass}}

	recs := NewRecommender().Recommend(checks, pass, p)
	require.Len(t, recs, 1)
	assert.Equal(t, "no significant bias detected", recs[0].Issue)
	assert.Equal(t, SeverityNone, recs[0].Severity)
}

func TestRecommendOrdering(t *testing.T) {
	p := defaultProfile(t)
	checks := []BiasCheckResult{
		{Check: CheckQuality, Severity: SeverityMinor},
		{Check: CheckError, Severity: SeveritySevere},
		{Check: CheckOpportunity, Severity: SeveritySevere},
		{Check: CheckSystematic, Severity: SeverityModerate},
		{Check: CheckInequality, Severity: SeverityIndeterminate, Value: Undef(ReasonZeroMeanOutcome)},
	}

	recs := NewRecommender().Recommend(checks, nil, p)
	require.Len(t, recs, 5)

	// Severe first, within a severity the profile's check priority decides.
	assert.Equal(t, CheckOpportunity, recs[0].Check)
	assert.Equal(t, CheckError, recs[1].Check)
	assert.Equal(t, CheckSystematic, recs[2].Check)
	assert.Equal(t, CheckQuality, recs[3].Check)

	last := recs[4]
	assert.Equal(t, SeverityIndeterminate, last.Severity)
	assert.Contains(t, last.Note, ReasonZeroMeanOutcome)
}

func TestRecommendLegalFailAddsEscalation(t *testing.T) {
	p := defaultProfile(t)
	fail := []AssessmentResult{{Assessment: AssessLegal, Status: StatusFail}}

	recs := NewRecommender().Recommend(nil, fail, p)
	require.Len(t, recs, 1)
	assert.Equal(t, "selection rates violate the 80% rule", recs[0].Issue)
	assert.Equal(t, SeveritySevere, recs[0].Severity)
	assert.NotEmpty(t, recs[0].Actions)
}

func TestRecommendActionsAreCopies(t *testing.T) {
	p := defaultProfile(t)
	checks := []BiasCheckResult{{Check: CheckSystematic, Severity: SeveritySevere}}

	recs := NewRecommender().Recommend(checks, nil, p)
	require.Len(t, recs, 1)
	require.NotEmpty(t, recs[0].Actions)

	recs[0].Actions[0] = "mutated"
	again := NewRecommender().Recommend(checks, nil, p)
	assert.NotEqual(t, "mutated", again[0].Actions[0])
}
