package storage

import (
	"sort"
	"time"
)

// MockRepository is an in-memory implementation of Repository for testing.
type MockRepository struct {
	runs           map[int64]*AuditRun
	subscriptions  map[int64][]*SubscriptionRecord // keyed by run_id
	refundRequests []RefundRequest
	nextRunID      int64

	// Hooks for test assertions
	StartAuditRunCalled     bool
	SaveSnapshotCalled      bool
	LastSavedSnapshot       []*SubscriptionRecord
	SaveRefundRequestCalled bool
	LastSavedRefundRequest  *RefundRequest

	// Error injection for testing error paths
	StartAuditRunErr     error
	CompleteAuditRunErr  error
	SaveSnapshotErr      error
	SaveRefundRequestErr error
	ListSubscriptionsErr error
	GetStatsErr          error
}

// NewMockRepository creates a new mock repository for testing
func NewMockRepository() *MockRepository {
	return &MockRepository{
		runs:          make(map[int64]*AuditRun),
		subscriptions: make(map[int64][]*SubscriptionRecord),
		nextRunID:     1,
	}
}

// Compile-time check that MockRepository implements Repository
var _ Repository = (*MockRepository)(nil)

// Close does nothing for mock
func (m *MockRepository) Close() error {
	return nil
}

// StartAuditRun records a new run in memory
func (m *MockRepository) StartAuditRun(emailSignals, bankCharges int) (int64, error) {
	m.StartAuditRunCalled = true
	if m.StartAuditRunErr != nil {
		return 0, m.StartAuditRunErr
	}

	id := m.nextRunID
	m.nextRunID++
	m.runs[id] = &AuditRun{
		ID:           id,
		StartedAt:    time.Now().UTC().Format(time.RFC3339),
		Status:       "running",
		EmailSignals: emailSignals,
		BankCharges:  bankCharges,
	}
	return id, nil
}

// CompleteAuditRun marks a run completed
func (m *MockRepository) CompleteAuditRun(runID int64, summary RunSummary) error {
	if m.CompleteAuditRunErr != nil {
		return m.CompleteAuditRunErr
	}

	run, ok := m.runs[runID]
	if !ok {
		return nil
	}
	run.CompletedAt = time.Now().UTC().Format(time.RFC3339)
	run.Status = "completed"
	run.SubscriptionsFound = summary.SubscriptionsFound
	run.RefundCandidates = summary.RefundCandidates
	run.TotalMonthlyCost = summary.TotalMonthlyCost
	run.PotentialRefundAmount = summary.PotentialRefundAmount
	return nil
}

// ListAuditRuns returns runs newest first
func (m *MockRepository) ListAuditRuns(limit int) ([]AuditRun, error) {
	if limit <= 0 {
		limit = 20
	}

	runs := make([]AuditRun, 0, len(m.runs))
	for _, run := range m.runs {
		runs = append(runs, *run)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].ID > runs[j].ID })

	if len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

// GetAuditRun retrieves a run by ID
func (m *MockRepository) GetAuditRun(runID int64) (*AuditRun, error) {
	run, ok := m.runs[runID]
	if !ok {
		return nil, nil
	}
	copied := *run
	return &copied, nil
}

// LatestAuditRun returns the newest completed run
func (m *MockRepository) LatestAuditRun() (*AuditRun, error) {
	var latest *AuditRun
	for _, run := range m.runs {
		if run.Status != "completed" {
			continue
		}
		if latest == nil || run.ID > latest.ID {
			latest = run
		}
	}
	if latest == nil {
		return nil, nil
	}
	copied := *latest
	return &copied, nil
}

// SaveSnapshot stores the snapshot for a run
func (m *MockRepository) SaveSnapshot(runID int64, records []*SubscriptionRecord) error {
	m.SaveSnapshotCalled = true
	m.LastSavedSnapshot = records
	if m.SaveSnapshotErr != nil {
		return m.SaveSnapshotErr
	}

	copied := make([]*SubscriptionRecord, len(records))
	for i, rec := range records {
		r := *rec
		r.RunID = runID
		copied[i] = &r
	}
	m.subscriptions[runID] = copied
	return nil
}

// ListSubscriptions filters the stored snapshot
func (m *MockRepository) ListSubscriptions(filters SubscriptionFilters) ([]*SubscriptionRecord, error) {
	if m.ListSubscriptionsErr != nil {
		return nil, m.ListSubscriptionsErr
	}

	runID := filters.RunID
	if runID == 0 {
		latest, _ := m.LatestAuditRun()
		if latest == nil {
			return []*SubscriptionRecord{}, nil
		}
		runID = latest.ID
	}

	result := []*SubscriptionRecord{}
	for _, rec := range m.subscriptions[runID] {
		if filters.Category != "" && rec.Category != filters.Category {
			continue
		}
		if filters.RefundEligible != nil && rec.RefundEligible != *filters.RefundEligible {
			continue
		}
		copied := *rec
		result = append(result, &copied)
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// GetStats aggregates over the latest completed run
func (m *MockRepository) GetStats() (*Stats, error) {
	if m.GetStatsErr != nil {
		return nil, m.GetStatsErr
	}

	stats := &Stats{
		TotalRuns:       len(m.runs),
		SpendByCategory: make(map[string]float64),
	}

	latest, _ := m.LatestAuditRun()
	if latest == nil {
		return stats, nil
	}

	stats.LatestRunID = latest.ID
	stats.Subscriptions = latest.SubscriptionsFound
	stats.TotalMonthlyCost = latest.TotalMonthlyCost
	stats.RefundCandidates = latest.RefundCandidates
	stats.PotentialRefundAmount = latest.PotentialRefundAmount

	for _, rec := range m.subscriptions[latest.ID] {
		stats.SpendByCategory[rec.Category] += rec.Cost
	}

	return stats, nil
}

// SaveRefundRequest appends a request outcome
func (m *MockRepository) SaveRefundRequest(req *RefundRequest) error {
	m.SaveRefundRequestCalled = true
	m.LastSavedRefundRequest = req
	if m.SaveRefundRequestErr != nil {
		return m.SaveRefundRequestErr
	}

	copied := *req
	if copied.CreatedAt.IsZero() {
		copied.CreatedAt = time.Now()
	}
	m.refundRequests = append(m.refundRequests, copied)
	return nil
}

// ListRefundRequests returns requests for a run (0 = all), newest first
func (m *MockRepository) ListRefundRequests(runID int64) ([]RefundRequest, error) {
	result := []RefundRequest{}
	for _, req := range m.refundRequests {
		if runID > 0 && req.RunID != runID {
			continue
		}
		result = append(result, req)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}
