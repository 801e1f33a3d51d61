package storage

import (
	"time"

	"github.com/eshaffer321/subscription-auditor/internal/domain/subscription"
)

// AuditRun represents one discover/merge/enrich run.
type AuditRun struct {
	ID                    int64   `json:"id"`
	StartedAt             string  `json:"started_at"`
	CompletedAt           string  `json:"completed_at,omitempty"`
	Status                string  `json:"status"`
	EmailSignals          int     `json:"email_signals"`
	BankCharges           int     `json:"bank_charges"`
	SubscriptionsFound    int     `json:"subscriptions_found"`
	RefundCandidates      int     `json:"refund_candidates"`
	TotalMonthlyCost      float64 `json:"total_monthly_cost"`
	PotentialRefundAmount float64 `json:"potential_refund_amount"`
}

// RunSummary carries completion figures for an audit run.
type RunSummary struct {
	SubscriptionsFound    int
	RefundCandidates      int
	TotalMonthlyCost      float64
	PotentialRefundAmount float64
}

// SubscriptionRecord is one reconciled subscription as persisted in a
// run snapshot.
type SubscriptionRecord struct {
	ID              int64     `json:"id"`
	RunID           int64     `json:"run_id"`
	Key             string    `json:"key"`
	Name            string    `json:"name"`
	Cost            float64   `json:"cost"`
	BillingCycle    string    `json:"billing_cycle"`
	LastCharged     time.Time `json:"last_charged"`
	VendorEmail     string    `json:"vendor_email"`
	CancellationURL string    `json:"cancellation_url,omitempty"`
	PhoneNumber     string    `json:"phone_number,omitempty"`
	UsageScore      float64   `json:"usage_score"`
	RefundEligible  bool      `json:"refund_eligible"`
	DaysSinceSignup int       `json:"days_since_signup"`
	SignupKnown     bool      `json:"signup_known"`
	Category        string    `json:"category"`
}

// NewSubscriptionRecord converts a domain subscription into its snapshot
// row for the given run.
func NewSubscriptionRecord(runID int64, key string, s subscription.Subscription) *SubscriptionRecord {
	return &SubscriptionRecord{
		RunID:           runID,
		Key:             key,
		Name:            s.Name,
		Cost:            s.Cost,
		BillingCycle:    string(s.BillingCycle),
		LastCharged:     s.LastCharged,
		VendorEmail:     s.VendorEmail,
		CancellationURL: s.CancellationURL,
		PhoneNumber:     s.PhoneNumber,
		UsageScore:      s.UsageScore,
		RefundEligible:  s.RefundEligible,
		DaysSinceSignup: s.DaysSinceSignup,
		SignupKnown:     s.SignupKnown,
		Category:        string(s.Category),
	}
}

// RefundRequest records one generated refund request and its outcome.
type RefundRequest struct {
	ID               string    `json:"id"` // uuid
	RunID            int64     `json:"run_id"`
	SubscriptionName string    `json:"subscription_name"`
	Amount           float64   `json:"amount"`
	VendorEmail      string    `json:"vendor_email"`
	Status           string    `json:"status"` // success, failed, dry-run
	ErrorMessage     string    `json:"error_message,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// Stats aggregates figures across the latest run and all-time history.
type Stats struct {
	TotalRuns             int                `json:"total_runs"`
	LatestRunID           int64              `json:"latest_run_id"`
	Subscriptions         int                `json:"subscriptions"`
	TotalMonthlyCost      float64            `json:"total_monthly_cost"`
	RefundCandidates      int                `json:"refund_candidates"`
	PotentialRefundAmount float64            `json:"potential_refund_amount"`
	SpendByCategory       map[string]float64 `json:"spend_by_category"`
}
