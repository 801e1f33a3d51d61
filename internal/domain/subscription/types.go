// Package subscription defines the core subscription data model shared by
// the source adapters, the merger, and the enrichment engine.
package subscription

import "time"

// BillingCycle is how often a subscription charges.
type BillingCycle string

const (
	CycleMonthly BillingCycle = "monthly"
	CycleYearly  BillingCycle = "yearly"
)

// Category classifies a subscription by what it is for.
type Category string

const (
	CategoryEntertainment Category = "entertainment"
	CategoryDesignTools   Category = "design_tools"
	CategoryDevelopment   Category = "development"
	CategoryHealthFitness Category = "health_fitness"
	CategoryOther         Category = "other"
)

// Subscription is one reconciled recurring payment.
// UsageScore, RefundEligible and Category are derived by the enrichment
// engine; everything else comes from the merged source records.
type Subscription struct {
	Name            string       `json:"name"`
	Cost            float64      `json:"cost"` // per billing cycle
	BillingCycle    BillingCycle `json:"billing_cycle"`
	LastCharged     time.Time    `json:"last_charged"`
	VendorEmail     string       `json:"vendor_email"`
	CancellationURL string       `json:"cancellation_url,omitempty"`
	PhoneNumber     string       `json:"phone_number,omitempty"`
	UsageScore      float64      `json:"usage_score"` // 0-10 scale
	RefundEligible  bool         `json:"refund_eligible"`
	DaysSinceSignup int          `json:"days_since_signup"`
	SignupKnown     bool         `json:"signup_known"`
	Category        Category     `json:"category"`
}

// Partial is a subscription as seen by a single source, before merging.
// It has the same field shape as Subscription minus the derived fields.
// DaysSinceSignup is a pointer so that "source did not say" stays
// distinguishable from "signed up today".
type Partial struct {
	Name            string
	Cost            float64
	BillingCycle    BillingCycle
	LastCharged     time.Time
	VendorEmail     string
	CancellationURL string
	PhoneNumber     string
	DaysSinceSignup *int
}
