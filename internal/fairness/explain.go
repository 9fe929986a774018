package fairness

// Explanation is a static, renderable description of one metric, served so
// report consumers can show interpretable context next to the numbers.
type Explanation struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Range       string `json:"range"`
	Formula     string `json:"formula"`
	Impact      string `json:"impact"`
}

var explanations = map[string]Explanation{
	MetricDPDiff: {
		Name:        "Demographic Parity Difference",
		Description: "Difference in positive prediction rates between demographic groups.",
		Range:       "0 to 1 (0 is ideal)",
		Formula:     "max(selection_rate) - min(selection_rate)",
		Impact:      "Shows whether one group is systematically preferred in decisions.",
	},
	MetricDPRatio: {
		Name:        "Demographic Parity Ratio (80% Rule)",
		Description: "Ratio of the lowest to the highest group selection rate.",
		Range:       "0 to 1 (0.8-1.0 is the legal threshold in employment)",
		Formula:     "min(selection_rate) / max(selection_rate)",
		Impact:      "Common legal standard in employment discrimination cases.",
	},
	MetricEODiff: {
		Name:        "Equal Opportunity Difference",
		Description: "Difference in true positive rates across groups.",
		Range:       "0 to 1 (0 is ideal)",
		Formula:     "max(tpr) - min(tpr)",
		Impact:      "Ensures qualified individuals get equal chances regardless of group.",
	},
	MetricFPRDiff: {
		Name:        "False Positive Rate Difference",
		Description: "Difference in false positive rates across groups.",
		Range:       "0 to 1 (0 is ideal)",
		Formula:     "max(fpr) - min(fpr)",
		Impact:      "Ensures no group is disproportionately hit by false alarms.",
	},
	MetricPPDiff: {
		Name:        "Predictive Parity Difference",
		Description: "Difference in precision across groups.",
		Range:       "0 to 1 (0 is ideal)",
		Formula:     "max(precision) - min(precision)",
		Impact:      "Ensures predictions are equally trustworthy for all groups.",
	},
	MetricEqualizedOdds: {
		Name:        "Equalized Odds",
		Description: "Worst of the true positive and false positive rate gaps.",
		Range:       "0 to 1 (0 is ideal)",
		Formula:     "max(eo_diff, fpr_diff)",
		Impact:      "Single number summarizing both error-rate disparities.",
	},
	MetricTheilIndex: {
		Name:        "Theil Index",
		Description: "Entropy-based inequality of the individual outcome distribution.",
		Range:       "0 upward (0 is perfect equality)",
		Formula:     "(1/N) sum (y_i/mu) ln(y_i/mu)",
		Impact:      "Captures whether outcomes concentrate on part of the population.",
	},
	MetricAtkinsonIndex: {
		Name:        "Atkinson Index",
		Description: "Welfare loss attributable to inequality, tunable via elasticity.",
		Range:       "0 to 1 (0 is perfect equality)",
		Formula:     "1 - ((1/N) sum y_i^(1-eps))^(1/(1-eps)) / mu",
		Impact:      "Reflects how much aggregate welfare inequality destroys.",
	},
}

// Explain returns the explanation catalog entry for a metric name.
func Explain(metric string) (Explanation, bool) {
	e, ok := explanations[metric]
	return e, ok
}

// Explanations returns the full catalog keyed by metric name.
func Explanations() map[string]Explanation {
	out := make(map[string]Explanation, len(explanations))
	for k, v := range explanations {
		out[k] = v
	}
	return out
}
