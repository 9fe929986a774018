package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FairLens/internal/domain/models"
	"FairLens/internal/fairness"
	"FairLens/pkg/cache"
	applogger "FairLens/pkg/logger"
)

type fakeMetrics struct {
	audits      map[string]int
	errs        map[string]int
	sent        map[string]int
	cacheEvents map[string]int
	lastScore   float64
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{
		audits:      make(map[string]int),
		errs:        make(map[string]int),
		sent:        make(map[string]int),
		cacheEvents: make(map[string]int),
	}
}

func (m *fakeMetrics) RecordAudit(profile, outcome string)    { m.audits[profile+"/"+outcome]++ }
func (m *fakeMetrics) RecordError(kind string)                { m.errs[kind]++ }
func (m *fakeMetrics) RecordReportSent(sink string)           { m.sent[sink]++ }
func (m *fakeMetrics) RecordCacheEvent(event string)          { m.cacheEvents[event]++ }
func (m *fakeMetrics) RecordFairnessScore(_ string, s float64) { m.lastScore = s }
func (m *fakeMetrics) RecordLatency(string, float64)          {}
func (m *fakeMetrics) RecordDatasetSize(int)                  {}

type fakePublisher struct {
	published []*models.ReportSummary
	err       error
	closed    bool
}

func (p *fakePublisher) Publish(_ context.Context, r *models.ReportSummary) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, r)
	return nil
}

func (p *fakePublisher) Close() error {
	p.closed = true
	return nil
}

type fakeStorage struct {
	stored []*models.ReportSummary
	err    error
	closed bool
}

func (s *fakeStorage) Init(context.Context) error   { return nil }
func (s *fakeStorage) Health(context.Context) error { return nil }

func (s *fakeStorage) Store(_ context.Context, r *models.ReportSummary) error {
	if s.err != nil {
		return s.err
	}
	s.stored = append(s.stored, r)
	return nil
}

func (s *fakeStorage) Close() error {
	s.closed = true
	return nil
}

func testLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "json", Output: "stderr"})
	require.NoError(t, err)
	return l
}

func newService(t *testing.T, c cache.Service, pub *fakePublisher, store *fakeStorage, m *fakeMetrics, sink string) *AuditService {
	t.Helper()
	engine := fairness.NewEngine(fairness.NewRegistry())
	return NewAuditService(engine, fairness.DefaultConfig(), c, time.Minute, pub, store, m, sink, testLogger(t))
}

func skewedRecords() []fairness.GroupRecord {
	one, zero := 1, 0
	var records []fairness.GroupRecord
	for i := 0; i < 10; i++ {
		records = append(records, fairness.GroupRecord{Group: "a", YTrue: &one, YPred: 1})
	}
	for i := 0; i < 5; i++ {
		records = append(records, fairness.GroupRecord{Group: "b", YTrue: &one, YPred: 1})
		records = append(records, fairness.GroupRecord{Group: "b", YTrue: &zero, YPred: 0})
	}
	return records
}

func TestAuditCachesByDigest(t *testing.T) {
	m := newFakeMetrics()
	svc := newService(t, cache.NewMemoryCache(), nil, nil, m, "none")

	ctx := context.Background()
	cfg := svc.DefaultConfig()

	first, err := svc.Audit(ctx, skewedRecords(), cfg)
	require.NoError(t, err)

	second, err := svc.Audit(ctx, skewedRecords(), cfg)
	require.NoError(t, err)

	assert.Equal(t, 1, m.cacheEvents["miss"])
	assert.Equal(t, 1, m.cacheEvents["hit"])
	assert.Equal(t, 1, m.audits["default/ok"])
	assert.Equal(t, first.Score.Value, second.Score.Value)
	assert.Equal(t, first.DatasetSize, second.DatasetSize)
}

func TestAuditDigestChangesWithConfig(t *testing.T) {
	records := skewedRecords()
	cfg := fairness.DefaultConfig()

	base, err := auditDigest(records, cfg)
	require.NoError(t, err)

	same, err := auditDigest(records, cfg)
	require.NoError(t, err)
	assert.Equal(t, base, same)

	cfg.Profile = fairness.ProfileHiring
	other, err := auditDigest(records, cfg)
	require.NoError(t, err)
	assert.NotEqual(t, base, other)
}

func TestAuditPublishesSummaryToKafkaSink(t *testing.T) {
	m := newFakeMetrics()
	pub := &fakePublisher{}
	svc := newService(t, nil, pub, nil, m, "kafka")

	report, err := svc.Audit(context.Background(), skewedRecords(), svc.DefaultConfig())
	require.NoError(t, err)

	require.Len(t, pub.published, 1)
	summary := pub.published[0]
	assert.Len(t, summary.AuditID, 16)
	assert.Equal(t, "default", summary.Profile)
	assert.Equal(t, 20, summary.DatasetSize)
	assert.Equal(t, 2, summary.Groups)
	assert.Equal(t, report.Score.Value, summary.Score)
	assert.Equal(t, "FAIL", summary.LegalStatus)
	assert.GreaterOrEqual(t, summary.SevereCount, 1)
	assert.Equal(t, 1, m.sent["kafka"])
}

func TestAuditStoresSummaryInClickHouseSink(t *testing.T) {
	m := newFakeMetrics()
	store := &fakeStorage{}
	svc := newService(t, nil, nil, store, m, "clickhouse")

	_, err := svc.Audit(context.Background(), skewedRecords(), svc.DefaultConfig())
	require.NoError(t, err)

	require.Len(t, store.stored, 1)
	assert.Equal(t, 1, m.sent["clickhouse"])
}

func TestAuditSinkFailureDoesNotFailAudit(t *testing.T) {
	m := newFakeMetrics()
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := newService(t, nil, pub, nil, m, "kafka")

	report, err := svc.Audit(context.Background(), skewedRecords(), svc.DefaultConfig())
	require.NoError(t, err)
	require.NotNil(t, report)

	assert.Empty(t, pub.published)
	assert.Equal(t, 0, m.sent["kafka"])
	assert.Equal(t, 1, m.errs["deliver"])
}

func TestAuditEngineErrorCountsAndSkipsSink(t *testing.T) {
	m := newFakeMetrics()
	pub := &fakePublisher{}
	svc := newService(t, nil, pub, nil, m, "kafka")

	_, err := svc.Audit(context.Background(), nil, svc.DefaultConfig())
	require.Error(t, err)

	assert.Equal(t, 1, m.errs["audit"])
	assert.Equal(t, 1, m.audits["default/error"])
	assert.Empty(t, pub.published)
}

func TestAuditWithoutCacheRecordsNoCacheEvents(t *testing.T) {
	m := newFakeMetrics()
	svc := newService(t, nil, nil, nil, m, "none")

	_, err := svc.Audit(context.Background(), skewedRecords(), svc.DefaultConfig())
	require.NoError(t, err)
	assert.Empty(t, m.cacheEvents)
}

func TestCloseClosesSinkResources(t *testing.T) {
	pub := &fakePublisher{}
	store := &fakeStorage{}
	svc := newService(t, nil, pub, store, newFakeMetrics(), "kafka")

	svc.Close()
	assert.True(t, pub.closed)
	assert.True(t, store.closed)
}
