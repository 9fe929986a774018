package models

// ReportSummary is the flattened audit outcome delivered to a report sink.
// The full report stays with the caller; the sink row is what dashboards
// and retention queries work from.
type ReportSummary struct {
	AuditID     string  `json:"audit_id"`
	Timestamp   int64   `json:"ts"`
	Profile     string  `json:"profile"`
	DatasetSize int     `json:"dataset_size"`
	Groups      int     `json:"groups"`
	Score       float64 `json:"score"`
	BiasLevel   string  `json:"bias_level"`
	LegalStatus string  `json:"legal_status"`
	SevereCount int     `json:"severe_count"`
	Warnings    int     `json:"warnings"`
}
