package fairness

// GroupRecord is the unit of raw audit input: one labeled outcome attributed
// to a demographic group. YTrue is nil when ground truth is absent.
type GroupRecord struct {
	Group string `json:"group"`
	YTrue *int   `json:"y_true"`
	YPred int    `json:"y_pred"`
}

// GroupStats holds the per-group counts and rates derived in a single
// aggregation pass. Rates are tagged values so a zero denominator stays
// legible downstream.
type GroupStats struct {
	N             int `json:"n"`
	PositivesTrue int `json:"positives_true"`
	PositivesPred int `json:"positives_pred"`
	TruePositives int `json:"true_positives"`
	FalsePositive int `json:"false_positives"`
	NegativesTrue int `json:"negatives_true"`
	TruthN        int `json:"truth_n"`

	SelectionRate Value `json:"selection_rate"`
	ActualRate    Value `json:"actual_rate"`
	TPR           Value `json:"tpr"`
	FPR           Value `json:"fpr"`
	Precision     Value `json:"precision"`
}

// MetricSet is the full derived-metric vector of one audit.
type MetricSet struct {
	DPDiff        Metric `json:"dp_diff"`
	DPRatio       Metric `json:"dp_ratio"`
	EODiff        Metric `json:"eo_diff"`
	FPRDiff       Metric `json:"fpr_diff"`
	PPDiff        Metric `json:"pp_diff"`
	EqualizedOdds Metric `json:"equalized_odds"`
	TheilIndex    Metric `json:"theil_index"`
	AtkinsonIndex Metric `json:"atkinson_index"`
}

// Canonical metric names accepted in requested_metrics.
const (
	MetricDPDiff        = "dp_diff"
	MetricDPRatio       = "dp_ratio"
	MetricEODiff        = "eo_diff"
	MetricFPRDiff       = "fpr_diff"
	MetricPPDiff        = "pp_diff"
	MetricEqualizedOdds = "equalized_odds"
	MetricTheilIndex    = "theil_index"
	MetricAtkinsonIndex = "atkinson_index"
)

// AllMetrics lists every computable metric in report order.
var AllMetrics = []string{
	MetricDPDiff, MetricDPRatio, MetricEODiff, MetricFPRDiff,
	MetricPPDiff, MetricEqualizedOdds, MetricTheilIndex, MetricAtkinsonIndex,
}

// truthDependent reports whether a metric needs ground-truth labels.
func truthDependent(name string) bool {
	switch name {
	case MetricEODiff, MetricFPRDiff, MetricPPDiff, MetricEqualizedOdds:
		return true
	}
	return false
}

// ByName returns the metric with the given canonical name.
func (m *MetricSet) ByName(name string) (Metric, bool) {
	switch name {
	case MetricDPDiff:
		return m.DPDiff, true
	case MetricDPRatio:
		return m.DPRatio, true
	case MetricEODiff:
		return m.EODiff, true
	case MetricFPRDiff:
		return m.FPRDiff, true
	case MetricPPDiff:
		return m.PPDiff, true
	case MetricEqualizedOdds:
		return m.EqualizedOdds, true
	case MetricTheilIndex:
		return m.TheilIndex, true
	case MetricAtkinsonIndex:
		return m.AtkinsonIndex, true
	}
	return Metric{}, false
}

// Severity classifies a bias check finding.
type Severity int

const (
	SeverityNone Severity = iota
	SeverityMinor
	SeverityModerate
	SeveritySevere
	SeverityIndeterminate
)

func (s Severity) String() string {
	switch s {
	case SeverityNone:
		return "none"
	case SeverityMinor:
		return "minor"
	case SeverityModerate:
		return "moderate"
	case SeveritySevere:
		return "severe"
	case SeverityIndeterminate:
		return "indeterminate"
	}
	return "unknown"
}

// MarshalText makes severities render as their names in JSON reports.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Rank orders severities for recommendation sorting: severe first,
// indeterminate always last.
func (s Severity) Rank() int {
	switch s {
	case SeveritySevere:
		return 0
	case SeverityModerate:
		return 1
	case SeverityMinor:
		return 2
	case SeverityNone:
		return 3
	}
	return 4
}

// BiasCheckResult is one severity-classified check finding.
type BiasCheckResult struct {
	Check       string   `json:"check"`
	Metric      string   `json:"metric"`
	Value       Value    `json:"value"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
}

// Assessment statuses.
const (
	StatusPass          = "PASS"
	StatusFail          = "FAIL"
	StatusIndeterminate = "indeterminate"
	StatusManualReview  = "manual-review-required"

	LevelExcellent = "excellent"
	LevelGood      = "good"
	LevelFair      = "fair"
	LevelPoor      = "poor"

	GroupAllLow           = "all-low"
	GroupSomeHigh         = "some-high"
	GroupMajorDisparities = "major-disparities"
)

// AssessmentResult is one of the five named fairness assessments.
type AssessmentResult struct {
	Assessment string `json:"assessment"`
	Status     string `json:"status"`
	Rationale  string `json:"rationale"`
}

// Recommendation is a prioritized remediation finding.
type Recommendation struct {
	Issue    string   `json:"issue"`
	Check    string   `json:"check,omitempty"`
	Severity Severity `json:"severity"`
	Actions  []string `json:"actions"`
	Note     string   `json:"note,omitempty"`
}

// PairShift is a two-sample distribution comparison between two groups.
type PairShift struct {
	Groups    [2]string `json:"groups"`
	KSStat    float64   `json:"ks_stat"`
	PValue    float64   `json:"p_value"`
	SamplesA  int       `json:"samples_a"`
	SamplesB  int       `json:"samples_b"`
	Shifted   bool      `json:"shifted"`
	Threshold float64   `json:"threshold"`
}

// Score is the 0-100 composite fairness score derived from the core
// disparity metrics, with its qualitative bias level.
type Score struct {
	Value     float64  `json:"value"`
	BiasLevel string   `json:"bias_level"`
	Partial   bool     `json:"partial"`
	Omitted   []string `json:"omitted_metrics,omitempty"`
}

// Report is the complete audit output. It is freshly built per audit call
// and owned by the caller; the engine keeps nothing.
type Report struct {
	DatasetSize     int                   `json:"dataset_size"`
	GroupStats      map[string]GroupStats `json:"group_stats"`
	Metrics         MetricSet             `json:"metrics"`
	BiasChecks      []BiasCheckResult     `json:"bias_checks"`
	Assessments     []AssessmentResult    `json:"assessments"`
	Recommendations []Recommendation      `json:"recommendations"`
	Shift           []PairShift           `json:"distribution_shift,omitempty"`
	Score           Score                 `json:"fairness_score"`
	Profile         string                `json:"profile"`
	Warnings        []string              `json:"warnings"`
}
