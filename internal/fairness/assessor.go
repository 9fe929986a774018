package fairness

import (
	"fmt"
	"math"
	"sort"
)

// Assessment names.
const (
	AssessLegal       = "legal_compliance"
	AssessIndividual  = "individual_fairness"
	AssessGroup       = "group_fairness"
	AssessCalibration = "calibration_fairness"
	AssessProcedural  = "procedural_fairness"
)

// Assessor aggregates metrics and check findings into the five named
// fairness assessments.
type Assessor struct{}

// NewAssessor creates a fairness assessor.
func NewAssessor() *Assessor {
	return &Assessor{}
}

// Assess produces the assessment list in fixed order.
func (a *Assessor) Assess(stats map[string]GroupStats, ms *MetricSet, checks []BiasCheckResult, profile Profile) []AssessmentResult {
	return []AssessmentResult{
		a.legal(ms, profile),
		a.individual(ms, profile),
		a.group(ms, checks, profile),
		a.calibration(stats, profile),
		a.procedural(),
	}
}

// legal applies the 80% rule. An undefined ratio must not default to a
// pass: "no positive predictions anywhere" is not evidence of compliance.
func (a *Assessor) legal(ms *MetricSet, profile Profile) AssessmentResult {
	r := ms.DPRatio
	if !r.Defined {
		return AssessmentResult{
			Assessment: AssessLegal,
			Status:     StatusIndeterminate,
			Rationale:  fmt.Sprintf("dp_ratio undefined (%s); compliance cannot be established", r.Reason),
		}
	}
	if r.Val >= profile.LegalRatio {
		return AssessmentResult{
			Assessment: AssessLegal,
			Status:     StatusPass,
			Rationale:  fmt.Sprintf("dp_ratio %.4f meets the %.0f%% rule", r.Val, profile.LegalRatio*100),
		}
	}
	return AssessmentResult{
		Assessment: AssessLegal,
		Status:     StatusFail,
		Rationale:  fmt.Sprintf("dp_ratio %.4f is below the %.0f%% rule threshold", r.Val, profile.LegalRatio*100),
	}
}

func (a *Assessor) individual(ms *MetricSet, profile Profile) AssessmentResult {
	t := ms.TheilIndex
	if !t.Defined {
		return AssessmentResult{
			Assessment: AssessIndividual,
			Status:     StatusIndeterminate,
			Rationale:  fmt.Sprintf("theil_index undefined (%s)", t.Reason),
		}
	}
	level := profile.level(t.Val)
	return AssessmentResult{
		Assessment: AssessIndividual,
		Status:     level,
		Rationale:  fmt.Sprintf("theil_index %.4f", t.Val),
	}
}

// group is the composite over dp_diff, eo_diff and fpr_diff against the
// profile's ideal cut points.
func (a *Assessor) group(ms *MetricSet, checks []BiasCheckResult, profile Profile) AssessmentResult {
	type part struct {
		metric Metric
		ideal  float64
		check  string
	}
	parts := []part{
		{ms.DPDiff, profile.GroupIdealDP, CheckSystematic},
		{ms.EODiff, profile.GroupIdealEO, CheckOpportunity},
		{ms.FPRDiff, profile.GroupIdealFPR, CheckError},
	}

	severe := map[string]bool{}
	for _, c := range checks {
		if c.Severity == SeveritySevere {
			severe[c.Check] = true
		}
	}

	anyDefined := false
	allLow := true
	var high []string
	for _, p := range parts {
		if !p.metric.Defined {
			continue
		}
		anyDefined = true
		if severe[p.check] {
			return AssessmentResult{
				Assessment: AssessGroup,
				Status:     GroupMajorDisparities,
				Rationale:  fmt.Sprintf("%s classified severe", p.check),
			}
		}
		if p.metric.Val >= p.ideal {
			allLow = false
			high = append(high, p.check)
		}
	}

	if !anyDefined {
		return AssessmentResult{
			Assessment: AssessGroup,
			Status:     StatusIndeterminate,
			Rationale:  "no group disparity metric could be computed",
		}
	}
	if allLow {
		return AssessmentResult{
			Assessment: AssessGroup,
			Status:     GroupAllLow,
			Rationale:  "every defined disparity metric is below its ideal cut point",
		}
	}
	return AssessmentResult{
		Assessment: AssessGroup,
		Status:     GroupSomeHigh,
		Rationale:  fmt.Sprintf("elevated disparity in: %v", high),
	}
}

// calibration uses the predicted-vs-actual positive rate gap per group as a
// proxy when only binary predictions exist, taking the maximum across
// groups.
func (a *Assessor) calibration(stats map[string]GroupStats, profile Profile) AssessmentResult {
	groups := make([]string, 0, len(stats))
	for g := range stats {
		groups = append(groups, g)
	}
	sort.Strings(groups)

	maxGap := 0.0
	worst := ""
	comparable := 0
	for _, g := range groups {
		s := stats[g]
		if !s.SelectionRate.Defined || !s.ActualRate.Defined {
			continue
		}
		comparable++
		gap := math.Abs(s.SelectionRate.Val - s.ActualRate.Val)
		if gap >= maxGap {
			if gap > maxGap || worst == "" {
				worst = g
			}
			maxGap = gap
		}
	}

	if comparable == 0 {
		return AssessmentResult{
			Assessment: AssessCalibration,
			Status:     StatusIndeterminate,
			Rationale:  "no group has both predicted and actual positive rates defined",
		}
	}
	return AssessmentResult{
		Assessment: AssessCalibration,
		Status:     profile.level(maxGap),
		Rationale:  fmt.Sprintf("max predicted-vs-actual positive rate gap %.4f (group %q)", maxGap, worst),
	}
}

// procedural fairness is not computable from outcome data and is never
// faked as a numeric result.
func (a *Assessor) procedural() AssessmentResult {
	return AssessmentResult{
		Assessment: AssessProcedural,
		Status:     StatusManualReview,
		Rationale:  "transparency, contestability and process consistency require human review",
	}
}

// level maps a value to the profile's qualitative cut points.
func (p Profile) level(v float64) string {
	switch {
	case v < p.LevelExcellent:
		return LevelExcellent
	case v < p.LevelGood:
		return LevelGood
	case v < p.LevelFair:
		return LevelFair
	}
	return LevelPoor
}
