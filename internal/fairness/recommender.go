package fairness

import (
	"fmt"
	"sort"
)

// Recommender maps check findings to prioritized remediation actions via a
// fixed rule table keyed by (check, severity). The output ordering is
// deterministic: severity rank first, then the profile's check priority.
type Recommender struct{}

// NewRecommender creates a recommendation generator.
func NewRecommender() *Recommender {
	return &Recommender{}
}

type ruleKey struct {
	check    string
	severity Severity
}

type rule struct {
	issue   string
	actions []string
}

// The action lists are ordered by expected effort: data-level fixes first,
// then threshold adjustments, then escalation.
var ruleTable = map[ruleKey]rule{
	{CheckSystematic, SeveritySevere}: {
		issue: "severe demographic parity disparity",
		actions: []string{
			"re-weight or re-sample training data to balance outcomes across groups",
			"adjust decision thresholds per group",
			"remove proxy features that encode the sensitive attribute",
			"escalate to legal review",
		},
	},
	{CheckSystematic, SeverityModerate}: {
		issue: "moderate demographic parity disparity",
		actions: []string{
			"review feature set for proxies of the sensitive attribute",
			"consider re-weighting training data",
		},
	},
	{CheckSystematic, SeverityMinor}: {
		issue: "minor demographic parity disparity",
		actions: []string{
			"monitor selection rates per group during retraining",
		},
	},
	{CheckOpportunity, SeveritySevere}: {
		issue: "severe equal opportunity gap",
		actions: []string{
			"retrain with fairness-constrained optimization",
			"train group-aware thresholds so qualified individuals see similar acceptance rates",
			"escalate to model governance review",
		},
	},
	{CheckOpportunity, SeverityModerate}: {
		issue: "moderate equal opportunity gap",
		actions: []string{
			"inspect per-group true positive rates for the affected groups",
			"consider fairness-aware retraining",
		},
	},
	{CheckOpportunity, SeverityMinor}: {
		issue: "minor equal opportunity gap",
		actions: []string{
			"track tpr spread across releases",
		},
	},
	{CheckError, SeveritySevere}: {
		issue: "severe false positive rate disparity",
		actions: []string{
			"tune classification thresholds separately per group",
			"apply post-processing calibration",
			"audit labeling quality for the affected groups",
		},
	},
	{CheckError, SeverityModerate}: {
		issue: "moderate false positive rate disparity",
		actions: []string{
			"tune classification thresholds separately per group",
			"apply post-processing calibration",
		},
	},
	{CheckError, SeverityMinor}: {
		issue: "minor false positive rate disparity",
		actions: []string{
			"track fpr spread across releases",
		},
	},
	{CheckQuality, SeveritySevere}: {
		issue: "severe precision disparity",
		actions: []string{
			"collect additional training data for the low-precision groups",
			"calibrate scores per group",
		},
	},
	{CheckQuality, SeverityModerate}: {
		issue: "moderate precision disparity",
		actions: []string{
			"inspect per-group precision and label quality",
		},
	},
	{CheckQuality, SeverityMinor}: {
		issue: "minor precision disparity",
		actions: []string{
			"track precision spread across releases",
		},
	},
	{CheckInequality, SeveritySevere}: {
		issue: "severe outcome inequality",
		actions: []string{
			"apply stratified fairness constraints",
			"review whether outcomes concentrate in specific groups",
		},
	},
	{CheckInequality, SeverityModerate}: {
		issue: "moderate outcome inequality",
		actions: []string{
			"review outcome distribution across groups",
		},
	},
	{CheckInequality, SeverityMinor}: {
		issue: "minor outcome inequality",
		actions: []string{
			"monitor inequality indices during deployment",
		},
	},
}

// Recommend builds the ordered remediation list. Indeterminate checks sort
// last with a data-insufficiency note; a legal-compliance failure adds a
// severe escalation item regardless of check severities.
func (r *Recommender) Recommend(checks []BiasCheckResult, assessments []AssessmentResult, profile Profile) []Recommendation {
	prio := make(map[string]int, len(profile.CheckPriority))
	for i, name := range profile.CheckPriority {
		prio[name] = i
	}
	rankOf := func(check string) int {
		if i, ok := prio[check]; ok {
			return i
		}
		return len(prio)
	}

	var recs []Recommendation
	for _, c := range checks {
		switch c.Severity {
		case SeverityNone:
			continue
		case SeverityIndeterminate:
			recs = append(recs, Recommendation{
				Issue:    fmt.Sprintf("%s check could not be evaluated", c.Check),
				Check:    c.Check,
				Severity: SeverityIndeterminate,
				Actions: []string{
					"supply the missing data (see reason) and re-run the audit",
				},
				Note: fmt.Sprintf("data insufficient: %s", c.Value.Reason),
			})
		default:
			rl, ok := ruleTable[ruleKey{c.Check, c.Severity}]
			if !ok {
				continue
			}
			recs = append(recs, Recommendation{
				Issue:    rl.issue,
				Check:    c.Check,
				Severity: c.Severity,
				Actions:  append([]string(nil), rl.actions...),
			})
		}
	}

	for _, a := range assessments {
		if a.Assessment == AssessLegal && a.Status == StatusFail {
			recs = append(recs, Recommendation{
				Issue:    "selection rates violate the 80% rule",
				Severity: SeveritySevere,
				Actions: []string{
					"investigate disproportionate selection immediately",
					"escalate to legal review",
				},
			})
		}
	}

	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Severity.Rank() != recs[j].Severity.Rank() {
			return recs[i].Severity.Rank() < recs[j].Severity.Rank()
		}
		return rankOf(recs[i].Check) < rankOf(recs[j].Check)
	})

	if len(recs) == 0 {
		recs = append(recs, Recommendation{
			Issue:    "no significant bias detected",
			Severity: SeverityNone,
			Actions: []string{
				"continue monitoring fairness during retraining and deployment",
			},
		})
	}
	return recs
}
