package dto

import "time"

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// NewHealthResponse creates a health response with current timestamp.
func NewHealthResponse() HealthResponse {
	return HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// SubscriptionResponse represents one reconciled subscription.
type SubscriptionResponse struct {
	Key             string  `json:"key"`
	Name            string  `json:"name"`
	Cost            float64 `json:"cost"`
	BillingCycle    string  `json:"billing_cycle"`
	LastCharged     string  `json:"last_charged"`
	VendorEmail     string  `json:"vendor_email,omitempty"`
	CancellationURL string  `json:"cancellation_url,omitempty"`
	PhoneNumber     string  `json:"phone_number,omitempty"`
	UsageScore      float64 `json:"usage_score"`
	RefundEligible  bool    `json:"refund_eligible"`
	DaysSinceSignup int     `json:"days_since_signup"`
	SignupKnown     bool    `json:"signup_known"`
	Category        string  `json:"category"`
}

// SubscriptionListResponse is returned when listing subscriptions.
type SubscriptionListResponse struct {
	Subscriptions []SubscriptionResponse `json:"subscriptions"`
	Count         int                    `json:"count"`
}

// AuditRunResponse represents an audit run in API responses.
type AuditRunResponse struct {
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

// AuditRunListResponse is returned when listing audit runs.
type AuditRunListResponse struct {
	Runs  []AuditRunResponse `json:"runs"`
	Count int                `json:"count"`
}

// StatsResponse is returned by the stats endpoint.
type StatsResponse struct {
	TotalRuns             int                     `json:"total_runs"`
	LatestRunID           int64                   `json:"latest_run_id"`
	Subscriptions         int                     `json:"subscriptions"`
	TotalMonthlyCost      float64                 `json:"total_monthly_cost"`
	RefundCandidates      int                     `json:"refund_candidates"`
	PotentialRefundAmount float64                 `json:"potential_refund_amount"`
	SpendByCategory       []CategorySpendResponse `json:"spend_by_category"`
}

// CategorySpendResponse is monthly spend for one category.
type CategorySpendResponse struct {
	Category string  `json:"category"`
	Monthly  float64 `json:"monthly"`
}

// RefundRequestResponse represents one generated refund request.
type RefundRequestResponse struct {
	ID               string  `json:"id"`
	RunID            int64   `json:"run_id"`
	SubscriptionName string  `json:"subscription_name"`
	Amount           float64 `json:"amount"`
	VendorEmail      string  `json:"vendor_email"`
	Status           string  `json:"status"`
	ErrorMessage     string  `json:"error_message,omitempty"`
	CreatedAt        string  `json:"created_at"`
}

// RefundRequestListResponse is returned when listing refund requests.
type RefundRequestListResponse struct {
	Requests []RefundRequestResponse `json:"requests"`
	Count    int                     `json:"count"`
}

// StartAuditResponse is returned after a triggered audit completes.
type StartAuditResponse struct {
	RunID            int64  `json:"run_id"`
	Subscriptions    int    `json:"subscriptions"`
	RefundCandidates int    `json:"refund_candidates"`
	DurationMS       int64  `json:"duration_ms"`
	Status           string `json:"status"`
}

// MessageResponse carries a plain informational message.
type MessageResponse struct {
	Message string `json:"message"`
}
