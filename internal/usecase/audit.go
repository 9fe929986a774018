package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"FairLens/internal/domain/models"
	drepo "FairLens/internal/domain/repository"
	"FairLens/internal/fairness"
	"FairLens/pkg/cache"
	applogger "FairLens/pkg/logger"
)

// AuditService runs the audit pipeline and routes completed report
// summaries to the configured sink. The engine is deterministic, so reports
// can be cached under a digest of the records and the effective config.
type AuditService struct {
	engine   *fairness.Engine
	defaults fairness.Config
	cache    cache.Service
	cacheTTL time.Duration
	pub      drepo.ReportPublisher
	store    drepo.ReportStorage
	metrics  drepo.Metrics
	sink     string
	logger   *applogger.Logger
}

// NewAuditService creates the audit use case. cache, pub and store may be
// nil when the corresponding backend is disabled.
func NewAuditService(
	engine *fairness.Engine,
	defaults fairness.Config,
	c cache.Service,
	cacheTTL time.Duration,
	pub drepo.ReportPublisher,
	store drepo.ReportStorage,
	metrics drepo.Metrics,
	sink string,
	logger *applogger.Logger,
) *AuditService {
	return &AuditService{
		engine:   engine,
		defaults: defaults,
		cache:    c,
		cacheTTL: cacheTTL,
		pub:      pub,
		store:    store,
		metrics:  metrics,
		sink:     sink,
		logger:   logger,
	}
}

// DefaultConfig returns the server-level engine defaults.
func (s *AuditService) DefaultConfig() fairness.Config {
	return s.defaults
}

// Registry exposes the profile registry.
func (s *AuditService) Registry() *fairness.Registry {
	return s.engine.Registry()
}

// Audit runs one audit, serving from the report cache when possible.
func (s *AuditService) Audit(ctx context.Context, records []fairness.GroupRecord, cfg fairness.Config) (*fairness.Report, error) {
	digest, err := auditDigest(records, cfg)
	if err != nil {
		return nil, fmt.Errorf("audit digest: %w", err)
	}
	key := cache.GenerateKey("report", digest)

	if s.cache != nil {
		var cached fairness.Report
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			s.metrics.RecordCacheEvent("hit")
			return &cached, nil
		}
		s.metrics.RecordCacheEvent("miss")
	}

	start := time.Now()
	report, err := s.engine.Audit(ctx, records, cfg)
	if err != nil {
		s.metrics.RecordError("audit")
		s.metrics.RecordAudit(cfg.Profile, "error")
		return nil, err
	}

	s.metrics.RecordAudit(report.Profile, "ok")
	s.metrics.RecordFairnessScore(report.Profile, report.Score.Value)
	s.metrics.RecordDatasetSize(report.DatasetSize)
	s.metrics.RecordLatency("audit", time.Since(start).Seconds())

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, report, s.cacheTTL); err != nil {
			s.logger.Warn("report cache set failed", applogger.Error(err))
		}
	}

	s.deliver(ctx, digest, report)
	return report, nil
}

// deliver sends the report summary to the configured sink. Sink failures
// are logged and counted but never fail the audit itself.
func (s *AuditService) deliver(ctx context.Context, digest string, report *fairness.Report) {
	if s.sink == "" || s.sink == "none" {
		return
	}

	summary := summarize(digest, report)
	var err error
	switch s.sink {
	case "kafka":
		err = s.pub.Publish(ctx, summary)
	case "clickhouse":
		err = s.store.Store(ctx, summary)
	default:
		err = fmt.Errorf("unknown sink: %s", s.sink)
	}

	if err != nil {
		s.metrics.RecordError("deliver")
		s.logger.Error("report delivery failed",
			applogger.String("sink", s.sink),
			applogger.String("audit_id", summary.AuditID),
			applogger.Error(err),
		)
		return
	}
	s.metrics.RecordReportSent(s.sink)
}

// Close closes sink resources if available.
func (s *AuditService) Close() {
	if s.pub != nil {
		_ = s.pub.Close()
	}
	if s.store != nil {
		_ = s.store.Close()
	}
}

func summarize(digest string, report *fairness.Report) *models.ReportSummary {
	severe := 0
	for _, c := range report.BiasChecks {
		if c.Severity == fairness.SeveritySevere {
			severe++
		}
	}
	legal := ""
	for _, a := range report.Assessments {
		if a.Assessment == fairness.AssessLegal {
			legal = a.Status
		}
	}
	return &models.ReportSummary{
		AuditID:     digest[:16],
		Timestamp:   time.Now().Unix(),
		Profile:     report.Profile,
		DatasetSize: report.DatasetSize,
		Groups:      len(report.GroupStats),
		Score:       report.Score.Value,
		BiasLevel:   report.Score.BiasLevel,
		LegalStatus: legal,
		SevereCount: severe,
		Warnings:    len(report.Warnings),
	}
}

// auditDigest hashes the records and the effective config. Record order is
// part of the digest; callers sending the same dataset in the same order
// get the cached report.
func auditDigest(records []fairness.GroupRecord, cfg fairness.Config) (string, error) {
	h := sha256.New()
	enc := json.NewEncoder(h)
	if err := enc.Encode(cfg); err != nil {
		return "", err
	}
	if err := enc.Encode(records); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
