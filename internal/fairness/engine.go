package fairness

import (
	"context"
	"fmt"
)

// Config is the injected per-audit configuration. The zero value is not
// usable; start from DefaultConfig.
type Config struct {
	// Elasticity parameterizes the Atkinson index.
	Elasticity float64 `json:"elasticity" yaml:"elasticity" default:"0.5"`
	// Profile selects the threshold table (default, hiring, lending,
	// criminal_justice, healthcare, education, or a custom table name).
	Profile string `json:"thresholds_profile" yaml:"thresholds_profile" default:"default"`
	// RequestedMetrics restricts computation; empty means all.
	RequestedMetrics []string `json:"requested_metrics,omitempty" yaml:"requested_metrics"`
	// ZeroOutcomePolicy governs zero outcomes under Atkinson branches that
	// require positive values: exclude or abort.
	ZeroOutcomePolicy string `json:"zero_outcome_policy" yaml:"zero_outcome_policy" default:"exclude"`
	// DistributionShift toggles the pairwise K-S comparison.
	DistributionShift bool `json:"distribution_shift" yaml:"distribution_shift" default:"true"`
}

// DefaultConfig returns the standard audit configuration.
func DefaultConfig() Config {
	return Config{
		Elasticity:        0.5,
		Profile:           ProfileDefault,
		ZeroOutcomePolicy: ZeroOutcomeExclude,
		DistributionShift: true,
	}
}

// Validate surfaces every ConfigurationError before any computation starts.
func (c Config) Validate(registry *Registry) error {
	if c.Elasticity < 0 {
		return NewConfigurationError("elasticity", fmt.Sprintf("must be >= 0, got %v", c.Elasticity))
	}
	if c.ZeroOutcomePolicy != ZeroOutcomeExclude && c.ZeroOutcomePolicy != ZeroOutcomeAbort {
		return NewConfigurationError("zero_outcome_policy",
			fmt.Sprintf("must be %q or %q, got %q", ZeroOutcomeExclude, ZeroOutcomeAbort, c.ZeroOutcomePolicy))
	}
	if _, err := registry.Get(c.Profile); err != nil {
		return err
	}
	for _, name := range c.RequestedMetrics {
		if _, ok := (&MetricSet{}).ByName(name); !ok {
			return NewConfigurationError("requested_metrics", fmt.Sprintf("unknown metric %q", name))
		}
	}
	return nil
}

// metrics returns the effective requested-metric list.
func (c Config) metrics() []string {
	if len(c.RequestedMetrics) == 0 {
		return AllMetrics
	}
	return c.RequestedMetrics
}

// Engine runs the full audit pipeline: records -> group stats -> metrics ->
// bias checks -> assessments -> recommendations. It is stateless and safe
// for arbitrary concurrent use; each call owns its report exclusively.
type Engine struct {
	registry    *Registry
	aggregator  *Aggregator
	classifier  *Classifier
	assessor    *Assessor
	recommender *Recommender
}

// NewEngine creates an audit engine using the given profile registry.
func NewEngine(registry *Registry) *Engine {
	return &Engine{
		registry:    registry,
		aggregator:  NewAggregator(),
		classifier:  NewClassifier(),
		assessor:    NewAssessor(),
		recommender: NewRecommender(),
	}
}

// Registry exposes the profile registry for serving-layer introspection.
func (e *Engine) Registry() *Registry { return e.registry }

// Audit evaluates one record set under the given configuration. Fatal
// errors (ValidationError, ConfigurationError) abort with no partial
// report; every other degradation is an undefined marker plus a warning.
// Cancellation is checked between stages: the single O(records) pass is the
// aggregation, everything downstream is O(groups).
func (e *Engine) Audit(ctx context.Context, records []GroupRecord, cfg Config) (*Report, error) {
	if err := cfg.Validate(e.registry); err != nil {
		return nil, err
	}
	profile, err := e.registry.Get(cfg.Profile)
	if err != nil {
		return nil, err
	}
	requested := cfg.metrics()

	stats, warnings, err := e.aggregator.Aggregate(records, requested)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	calc := NewCalculator(cfg.Elasticity, cfg.ZeroOutcomePolicy)
	ms, calcWarnings := calc.Compute(stats, records, requested)
	warnings = append(warnings, calcWarnings...)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	checks := e.classifier.Classify(&ms, profile)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	assessments := e.assessor.Assess(stats, &ms, checks, profile)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	recs := e.recommender.Recommend(checks, assessments, profile)

	report := &Report{
		DatasetSize:     len(records),
		GroupStats:      stats,
		Metrics:         ms,
		BiasChecks:      checks,
		Assessments:     assessments,
		Recommendations: recs,
		Score:           ComputeScore(&ms),
		Profile:         profile.Name,
		Warnings:        warnings,
	}
	if cfg.DistributionShift {
		report.Shift = DistributionShift(records)
	}
	if report.Warnings == nil {
		report.Warnings = []string{}
	}
	return report, nil
}
