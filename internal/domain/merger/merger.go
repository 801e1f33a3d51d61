// Package merger folds partial subscription records from both sources into
// one deduplicated entity set, keyed by canonical identity.
//
// Source precedence:
//   - Email signals establish identity and metadata (name, cycle, vendor
//     contact, cancellation URL, signup age). A later email signal for the
//     same key overwrites an earlier one wholesale.
//   - Bank charges are trusted only for monetary and recency facts: for an
//     already-known key they overwrite cost and last-charged and nothing
//     else. A bank-only key creates a fresh entity with no metadata.
//
// The fold is sequential on purpose: later records overwrite earlier ones
// by key, so order is part of the contract.
package merger

import (
	"github.com/eshaffer321/subscription-auditor/internal/domain/identity"
	"github.com/eshaffer321/subscription-auditor/internal/domain/subscription"
)

// Source identifies which connector a partial came from.
type Source string

const (
	SourceEmail Source = "email"
	SourceBank  Source = "bank"
)

// Action describes what a single partial did to the entity set.
type Action string

const (
	ActionCreated           Action = "created"
	ActionReplaced          Action = "replaced"
	ActionUpdatedFinancials Action = "updated_financials"
)

// Decision records which source won which fields for one merge step.
// Kept for auditability and for testing precedence rules.
type Decision struct {
	Key    string
	Name   string
	Source Source
	Action Action
	Fields []string
}

var (
	allFields       = []string{"name", "cost", "billing_cycle", "last_charged", "vendor_email", "cancellation_url", "phone_number", "days_since_signup"}
	financialFields = []string{"cost", "last_charged"}
)

// Merge folds email partials then bank partials into a map keyed by
// canonical name. The returned decisions list one entry per input partial,
// in processing order.
func Merge(emailPartials, bankPartials []subscription.Partial) (map[string]*subscription.Subscription, []Decision) {
	merged := make(map[string]*subscription.Subscription, len(emailPartials)+len(bankPartials))
	decisions := make([]Decision, 0, len(emailPartials)+len(bankPartials))

	for _, p := range emailPartials {
		key := identity.Normalize(p.Name)
		action := ActionCreated
		if _, exists := merged[key]; exists {
			// Duplicate email signal: last write wins wholesale.
			action = ActionReplaced
		}
		merged[key] = fromPartial(p)
		decisions = append(decisions, Decision{
			Key:    key,
			Name:   p.Name,
			Source: SourceEmail,
			Action: action,
			Fields: allFields,
		})
	}

	for _, p := range bankPartials {
		key := identity.Normalize(p.Name)
		if existing, ok := merged[key]; ok {
			existing.Cost = p.Cost
			existing.LastCharged = p.LastCharged
			decisions = append(decisions, Decision{
				Key:    key,
				Name:   p.Name,
				Source: SourceBank,
				Action: ActionUpdatedFinancials,
				Fields: financialFields,
			})
			continue
		}
		merged[key] = fromPartial(p)
		decisions = append(decisions, Decision{
			Key:    key,
			Name:   p.Name,
			Source: SourceBank,
			Action: ActionCreated,
			Fields: allFields,
		})
	}

	return merged, decisions
}

// fromPartial builds a full entity from a single source's view.
// Derived fields stay zero until enrichment.
func fromPartial(p subscription.Partial) *subscription.Subscription {
	s := &subscription.Subscription{
		Name:            p.Name,
		Cost:            p.Cost,
		BillingCycle:    p.BillingCycle,
		LastCharged:     p.LastCharged,
		VendorEmail:     p.VendorEmail,
		CancellationURL: p.CancellationURL,
		PhoneNumber:     p.PhoneNumber,
	}
	if p.DaysSinceSignup != nil {
		s.DaysSinceSignup = *p.DaysSinceSignup
		s.SignupKnown = true
	}
	return s
}
