package fairness

import "fmt"

// Aggregator reduces raw labeled records into per-group statistics in a
// single pass. It holds no state between calls.
type Aggregator struct{}

// NewAggregator creates a group statistics aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// groupAcc accumulates raw counts for one group during the pass.
type groupAcc struct {
	n             int
	positivesTrue int
	positivesPred int
	truePositives int
	falsePositive int
	negativesTrue int
	truthN        int
}

// Aggregate builds GroupStats for every group seen in records. When ground
// truth is entirely absent but a truth-dependent metric is requested it
// fails with a ValidationError; otherwise missing labels degrade to
// undefined rates plus warnings.
func (a *Aggregator) Aggregate(records []GroupRecord, requested []string) (map[string]GroupStats, []string, error) {
	if len(records) == 0 {
		return nil, nil, NewValidationError("records", "at least one record is required")
	}

	accs := make(map[string]*groupAcc)
	order := make([]string, 0, 8)
	anyTruth := false

	for i, r := range records {
		if r.Group == "" {
			return nil, nil, NewValidationError("records", fmt.Sprintf("record %d has empty group label", i))
		}
		if r.YPred != 0 && r.YPred != 1 {
			return nil, nil, NewValidationError("records", fmt.Sprintf("record %d has non-binary y_pred %d", i, r.YPred))
		}
		acc, ok := accs[r.Group]
		if !ok {
			acc = &groupAcc{}
			accs[r.Group] = acc
			order = append(order, r.Group)
		}

		acc.n++
		if r.YPred == 1 {
			acc.positivesPred++
		}
		if r.YTrue == nil {
			continue
		}
		if *r.YTrue != 0 && *r.YTrue != 1 {
			return nil, nil, NewValidationError("records", fmt.Sprintf("record %d has non-binary y_true %d", i, *r.YTrue))
		}
		anyTruth = true
		acc.truthN++
		if *r.YTrue == 1 {
			acc.positivesTrue++
			if r.YPred == 1 {
				acc.truePositives++
			}
		} else {
			acc.negativesTrue++
			if r.YPred == 1 {
				acc.falsePositive++
			}
		}
	}

	if !anyTruth {
		for _, name := range requested {
			if truthDependent(name) {
				return nil, nil, NewValidationError("y_true",
					fmt.Sprintf("ground truth absent from every record but %s was requested", name))
			}
		}
	}

	stats := make(map[string]GroupStats, len(accs))
	var warnings []string
	for _, g := range order {
		acc := accs[g]
		s := GroupStats{
			N:             acc.n,
			PositivesTrue: acc.positivesTrue,
			PositivesPred: acc.positivesPred,
			TruePositives: acc.truePositives,
			FalsePositive: acc.falsePositive,
			NegativesTrue: acc.negativesTrue,
			TruthN:        acc.truthN,
		}

		// n = 0 cannot happen for a group created from a record, but the
		// tagged division keeps the guarantee explicit.
		s.SelectionRate = Ratio(float64(acc.positivesPred), float64(acc.n), ReasonNoRecords)

		if acc.truthN == 0 {
			s.ActualRate = Undef(ReasonGroundTruthMissing)
			s.TPR = Undef(ReasonGroundTruthMissing)
			s.FPR = Undef(ReasonGroundTruthMissing)
			s.Precision = Undef(ReasonGroundTruthMissing)
			if anyTruth {
				warnings = append(warnings, fmt.Sprintf("group %q has no ground-truth labels", g))
			}
			stats[g] = s
			continue
		}

		s.ActualRate = Ratio(float64(acc.positivesTrue), float64(acc.truthN), ReasonNoRecords)
		s.TPR = Ratio(float64(acc.truePositives), float64(acc.positivesTrue), ReasonNoPositiveGroundTruth)
		s.FPR = Ratio(float64(acc.falsePositive), float64(acc.negativesTrue), ReasonNoNegativeGroundTruth)
		s.Precision = Ratio(float64(acc.truePositives), float64(acc.positivesPred), ReasonNoPositivePredictions)

		if !s.TPR.Defined {
			warnings = append(warnings, fmt.Sprintf("group %q: tpr undefined (%s)", g, s.TPR.Reason))
		}
		if !s.FPR.Defined {
			warnings = append(warnings, fmt.Sprintf("group %q: fpr undefined (%s)", g, s.FPR.Reason))
		}
		if !s.Precision.Defined {
			warnings = append(warnings, fmt.Sprintf("group %q: precision undefined (%s)", g, s.Precision.Reason))
		}
		stats[g] = s
	}

	return stats, warnings, nil
}
