package models

// RecordInput is one labeled outcome in an audit request.
type RecordInput struct {
	Group string `json:"group" validate:"required,max=256"`
	YTrue *int   `json:"y_true" validate:"omitempty,oneof=0 1"`
	YPred *int   `json:"y_pred" validate:"required,oneof=0 1"`
}

// AuditOptions override the server's engine defaults for one request.
type AuditOptions struct {
	Elasticity        *float64 `json:"elasticity" validate:"omitempty,gte=0"`
	Profile           string   `json:"thresholds_profile" validate:"omitempty,max=64"`
	RequestedMetrics  []string `json:"requested_metrics" validate:"omitempty,dive,oneof=dp_diff dp_ratio eo_diff fpr_diff pp_diff equalized_odds theil_index atkinson_index"`
	ZeroOutcomePolicy string   `json:"zero_outcome_policy" validate:"omitempty,oneof=exclude abort"`
	DistributionShift *bool    `json:"distribution_shift"`
}

// AuditRequest is the body of POST /api/audits.
type AuditRequest struct {
	Records []RecordInput `json:"records" validate:"required,min=1,max=1000000,dive"`
	Options AuditOptions  `json:"options"`
}

// DatasetAuditRequest audits an inline CSV dataset in one call.
type DatasetAuditRequest struct {
	Dataset     string       `json:"dataset" validate:"required"`
	GroupColumn string       `json:"group_column" validate:"required,max=256"`
	YTrueColumn string       `json:"y_true_column" validate:"omitempty,max=256"`
	YPredColumn string       `json:"y_pred_column" validate:"required,max=256"`
	Options     AuditOptions `json:"options"`
}
