package sources

import (
	"time"

	"github.com/eshaffer321/subscription-auditor/internal/domain/subscription"
)

// Adapter converts raw connector records into partial entities. The clock
// is injectable because the email adapter defaults a missing last-charged
// timestamp to "now".
type Adapter struct {
	now func() time.Time
}

// NewAdapter creates an adapter. A nil clock uses time.Now.
func NewAdapter(now func() time.Time) *Adapter {
	if now == nil {
		now = time.Now
	}
	return &Adapter{now: now}
}

// FromEmailSignal converts an inbox-derived record.
// Defaults: billing cycle monthly, last charged now, vendor email empty,
// signup age left unknown when the signal does not carry one.
func (a *Adapter) FromEmailSignal(sig EmailSignal) subscription.Partial {
	p := subscription.Partial{
		Name:            sig.Name,
		BillingCycle:    parseCycle(sig.BillingCycle),
		VendorEmail:     sig.VendorEmail,
		CancellationURL: sig.CancellationURL,
		PhoneNumber:     sig.PhoneNumber,
		DaysSinceSignup: sig.DaysSinceSignup,
	}
	if sig.Cost != nil {
		p.Cost = *sig.Cost
	}
	if sig.LastCharged != nil {
		p.LastCharged = *sig.LastCharged
	} else {
		p.LastCharged = a.now()
	}
	return p
}

// FromStatementCharge converts a bank-derived record. Statement data
// carries no cycle signal, so the cycle is always forced to monthly, and
// no metadata fields are populated.
func (a *Adapter) FromStatementCharge(charge StatementCharge) subscription.Partial {
	return subscription.Partial{
		Name:         charge.Name,
		Cost:         charge.Cost,
		BillingCycle: subscription.CycleMonthly,
		LastCharged:  charge.LastCharged,
	}
}

// parseCycle maps a free-text cycle to the enum, defaulting to monthly.
func parseCycle(cycle string) subscription.BillingCycle {
	switch cycle {
	case string(subscription.CycleYearly):
		return subscription.CycleYearly
	default:
		return subscription.CycleMonthly
	}
}
