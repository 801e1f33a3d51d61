package storage

// Repository defines the complete storage interface.
// The audit trail is write-only from the pipeline's point of view: a run
// never reads prior runs back into its own reconciliation.
type Repository interface {
	AuditRunRepository
	SubscriptionRepository
	RefundRequestRepository
	Close() error
}

// AuditRunRepository tracks audit runs.
type AuditRunRepository interface {
	// StartAuditRun records the start of a run and returns the run ID
	StartAuditRun(emailSignals, bankCharges int) (int64, error)

	// CompleteAuditRun records the completion of a run
	CompleteAuditRun(runID int64, summary RunSummary) error

	// ListAuditRuns returns recent runs, newest first
	ListAuditRuns(limit int) ([]AuditRun, error)

	// GetAuditRun retrieves a run by ID
	GetAuditRun(runID int64) (*AuditRun, error)

	// LatestAuditRun returns the most recent completed run, nil if none
	LatestAuditRun() (*AuditRun, error)
}

// SubscriptionRepository stores per-run subscription snapshots.
type SubscriptionRepository interface {
	// SaveSnapshot persists the reconciled set for a run
	SaveSnapshot(runID int64, records []*SubscriptionRecord) error

	// ListSubscriptions returns the snapshot rows matching the filters
	ListSubscriptions(filters SubscriptionFilters) ([]*SubscriptionRecord, error)

	// GetStats returns aggregate statistics over the latest run
	GetStats() (*Stats, error)
}

// SubscriptionFilters narrows snapshot queries.
type SubscriptionFilters struct {
	RunID          int64  // 0 = latest completed run
	Category       string // empty = all
	RefundEligible *bool  // nil = all
}

// RefundRequestRepository logs generated refund requests.
type RefundRequestRepository interface {
	// SaveRefundRequest saves a request outcome
	SaveRefundRequest(req *RefundRequest) error

	// ListRefundRequests returns requests for a run (0 = all), newest first
	ListRefundRequests(runID int64) ([]RefundRequest, error)
}
