package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"FairLens/internal/domain/models"
	"FairLens/internal/domain/repository"
	pkgkafka "FairLens/pkg/kafka"
)

// ClickHouseReportStore implements ReportStorage for ClickHouse.
type ClickHouseReportStore struct {
	db    *sql.DB
	table string
}

// NewClickHouseReportStore creates ClickHouse report storage.
func NewClickHouseReportStore(db *sql.DB, table string) repository.ReportStorage {
	return &ClickHouseReportStore{db: db, table: table}
}

func (s *ClickHouseReportStore) Init(ctx context.Context) error {
	return nil // Schema init in pkg
}

func (s *ClickHouseReportStore) Store(ctx context.Context, r *models.ReportSummary) error {
	q := fmt.Sprintf("INSERT INTO %s (audit_id, ts, profile, dataset_size, groups, score, bias_level, legal_status, severe_count, warnings) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)", s.table)
	_, err := s.db.ExecContext(ctx, q,
		r.AuditID,
		time.Unix(r.Timestamp, 0),
		r.Profile,
		r.DatasetSize,
		r.Groups,
		r.Score,
		r.BiasLevel,
		r.LegalStatus,
		r.SevereCount,
		r.Warnings,
	)
	return err
}

func (s *ClickHouseReportStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseReportStore) Close() error {
	return nil // Managed by pkg
}

// KafkaReportPublisher implements ReportPublisher for Kafka.
type KafkaReportPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaReportPublisher creates Kafka report publisher.
func NewKafkaReportPublisher(producer *pkgkafka.Producer, topic string) repository.ReportPublisher {
	return &KafkaReportPublisher{producer: producer, topic: topic}
}

func (p *KafkaReportPublisher) Publish(ctx context.Context, r *models.ReportSummary) error {
	// Keyed by profile so one consumer partition sees a profile's reports
	// in order.
	return p.producer.Publish(ctx, p.topic, []byte(r.Profile), r)
}

func (p *KafkaReportPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
