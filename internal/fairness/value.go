package fairness

import "fmt"

// Undefined-value reasons surfaced in reports. These travel with every
// derived quantity instead of letting a zero denominator decay to NaN.
const (
	ReasonNoRecords             = "no-records"
	ReasonNoPositiveGroundTruth = "no-positive-ground-truth"
	ReasonNoNegativeGroundTruth = "no-negative-ground-truth"
	ReasonNoPositivePredictions = "no-positive-predictions"
	ReasonInsufficientGroups    = "insufficient-groups"
	ReasonZeroMeanOutcome       = "zero-mean-outcome"
	ReasonAllZeroOutcomes       = "all-zero-outcomes"
	ReasonZeroOutcomesPresent   = "zero-outcomes-present"
	ReasonGroundTruthMissing    = "ground-truth-missing"
	ReasonNotRequested          = "not-requested"
)

// Value is a rational quantity that is either defined or carries the reason
// it could not be computed.
type Value struct {
	Defined bool    `json:"defined"`
	Val     float64 `json:"value"`
	Reason  string  `json:"reason,omitempty"`
}

// Def returns a defined value.
func Def(v float64) Value {
	return Value{Defined: true, Val: v}
}

// Undef returns an undefined value with a reason.
func Undef(reason string) Value {
	return Value{Defined: false, Reason: reason}
}

// Ratio divides num by den, returning an undefined value with the given
// reason when den is zero.
func Ratio(num, den float64, zeroReason string) Value {
	if den == 0 {
		return Undef(zeroReason)
	}
	return Def(num / den)
}

func (v Value) String() string {
	if !v.Defined {
		return "undefined: " + v.Reason
	}
	return fmt.Sprintf("%.4f", v.Val)
}

// GroupExclusion records a group left out of a metric computation.
type GroupExclusion struct {
	Group  string `json:"group"`
	Reason string `json:"reason"`
}

// Metric is a derived fairness quantity together with the groups excluded
// from its computation.
type Metric struct {
	Value
	Excluded []GroupExclusion `json:"excluded_groups,omitempty"`
}

func defMetric(v float64, excluded []GroupExclusion) Metric {
	return Metric{Value: Def(v), Excluded: excluded}
}

func undefMetric(reason string, excluded []GroupExclusion) Metric {
	return Metric{Value: Undef(reason), Excluded: excluded}
}
