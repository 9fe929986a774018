package fairness

import "fmt"

// Classifier maps metric values to severity levels through the profile's
// threshold table. It is purely table-driven: adding a check or moving a
// cut point is a profile change, not a code change.
type Classifier struct{}

// NewClassifier creates a bias check classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify runs every check in the profile against the metric set. An
// undefined metric classifies as indeterminate carrying the underlying
// reason; it is never mapped to none.
func (c *Classifier) Classify(ms *MetricSet, profile Profile) []BiasCheckResult {
	results := make([]BiasCheckResult, 0, len(profile.Checks))
	for _, spec := range profile.Checks {
		m, ok := ms.ByName(spec.Metric)
		if !ok {
			// Unknown metrics are rejected at profile validation; this is a
			// guard against a hand-built profile bypassing it.
			results = append(results, BiasCheckResult{
				Check:       spec.Name,
				Metric:      spec.Metric,
				Value:       Undef("unknown-metric"),
				Severity:    SeverityIndeterminate,
				Description: fmt.Sprintf("check %s reads unknown metric %s", spec.Name, spec.Metric),
			})
			continue
		}

		if !m.Defined {
			results = append(results, BiasCheckResult{
				Check:       spec.Name,
				Metric:      spec.Metric,
				Value:       m.Value,
				Severity:    SeverityIndeterminate,
				Description: fmt.Sprintf("%s could not be computed (%s)", spec.Metric, m.Reason),
			})
			continue
		}

		sev := spec.Band.classify(m.Val)
		results = append(results, BiasCheckResult{
			Check:       spec.Name,
			Metric:      spec.Metric,
			Value:       m.Value,
			Severity:    sev,
			Description: describeCheck(spec.Name, sev),
		})
	}
	return results
}

// classify places v into its half-open severity band.
func (b Band) classify(v float64) Severity {
	switch {
	case v >= b.Severe:
		return SeveritySevere
	case v >= b.Moderate:
		return SeverityModerate
	case v >= b.Minor:
		return SeverityMinor
	}
	return SeverityNone
}

var checkDescriptions = map[string]map[Severity]string{
	CheckSystematic: {
		SeverityNone:     "no systematic preference between groups detected",
		SeverityMinor:    "minor systematic preference in selection rates",
		SeverityModerate: "moderate systematic preference in selection rates",
		SeveritySevere:   "severe systematic preference for some groups",
	},
	CheckOpportunity: {
		SeverityNone:     "qualified individuals have equal opportunity across groups",
		SeverityMinor:    "slight opportunity disparity between groups",
		SeverityModerate: "moderate opportunity gap between groups",
		SeveritySevere:   "severe opportunity disparity between groups",
	},
	CheckError: {
		SeverityNone:     "false positive rates balanced across groups",
		SeverityMinor:    "minor false positive disparity",
		SeverityModerate: "moderate false positive gap",
		SeveritySevere:   "severe false positive disparity",
	},
	CheckQuality: {
		SeverityNone:     "predictions equally reliable for all groups",
		SeverityMinor:    "minor precision disparity",
		SeverityModerate: "moderate precision gap",
		SeveritySevere:   "severe precision disparity",
	},
	CheckInequality: {
		SeverityNone:     "low inequality in outcome distribution",
		SeverityMinor:    "minor outcome inequality",
		SeverityModerate: "moderate outcome inequality",
		SeveritySevere:   "severe outcome inequality",
	},
}

func describeCheck(check string, sev Severity) string {
	if byCheck, ok := checkDescriptions[check]; ok {
		if d, ok := byCheck[sev]; ok {
			return d
		}
	}
	return fmt.Sprintf("%s: %s", check, sev)
}
