// Package sources adapts raw records from the two discovery connectors
// (inbox signals and bank-statement recurring charges) into partial
// subscription entities.
//
// Adapters only default missing fields; they never validate. A zero or
// negative cost passes through unchanged — rejecting junk is the
// connectors' responsibility.
package sources

import (
	"context"
	"time"
)

// EmailSignal is a raw subscription candidate derived from the inbox.
// Only Name is guaranteed; everything else is optional.
type EmailSignal struct {
	Name            string     `json:"name"`
	Cost            *float64   `json:"cost,omitempty"`
	BillingCycle    string     `json:"billing_cycle,omitempty"`
	LastCharged     *time.Time `json:"last_charged,omitempty"`
	VendorEmail     string     `json:"vendor_email,omitempty"`
	CancellationURL string     `json:"cancellation_url,omitempty"`
	PhoneNumber     string     `json:"phone_number,omitempty"`
	DaysSinceSignup *int       `json:"days_since_signup,omitempty"`
}

// StatementCharge is a raw recurring charge derived from bank statements.
// All three fields are required by the connector contract.
type StatementCharge struct {
	Name        string    `json:"name"`
	Cost        float64   `json:"cost"`
	LastCharged time.Time `json:"last_charged"`
}

// EmailSource supplies subscription candidates discovered in an inbox.
type EmailSource interface {
	FindSubscriptionSignals(ctx context.Context) ([]EmailSignal, error)
}

// StatementSource supplies recurring charges discovered in bank statements.
type StatementSource interface {
	FindRecurringCharges(ctx context.Context) ([]StatementCharge, error)
}
