package repository

import (
	"context"

	"FairLens/internal/domain/models"
	"FairLens/internal/fairness"
)

// RecordSource turns an external dataset representation into audit records.
type RecordSource interface {
	Read(ctx context.Context) ([]fairness.GroupRecord, error)
}

// ReportPublisher delivers completed report summaries to a message broker.
type ReportPublisher interface {
	Publish(ctx context.Context, r *models.ReportSummary) error
	Close() error
}

// ReportStorage persists completed report summaries.
type ReportStorage interface {
	Init(ctx context.Context) error
	Store(ctx context.Context, r *models.ReportSummary) error
	Health(ctx context.Context) error
	Close() error
}

// Metrics records operational counters for the audit pipeline.
type Metrics interface {
	RecordAudit(profile, outcome string)
	RecordError(kind string)
	RecordReportSent(sink string)
	RecordCacheEvent(event string)
	RecordFairnessScore(profile string, score float64)
	RecordLatency(op string, seconds float64)
	RecordDatasetSize(n int)
}
