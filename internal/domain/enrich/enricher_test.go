package enrich

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eshaffer321/subscription-auditor/internal/domain/subscription"
)

func known(days int) subscription.Subscription {
	return subscription.Subscription{DaysSinceSignup: days, SignupKnown: true}
}

func TestHeuristicScore_Buckets(t *testing.T) {
	tests := []struct {
		name     string
		sub      subscription.Subscription
		expected float64
	}{
		{"brand new", known(0), 1.0},
		{"six days", known(6), 1.0},
		{"seven days", known(7), 3.0},
		{"twenty-nine days", known(29), 3.0},
		{"thirty days", known(30), 5.0},
		{"a year", known(365), 5.0},
		{"unknown signup age", subscription.Subscription{}, 5.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HeuristicScore(tt.sub))
		})
	}
}

func TestEnrich_RefundEligibilityBoundaries(t *testing.T) {
	tests := []struct {
		name     string
		days     int
		cost     float64
		eligible bool
	}{
		{"all conjuncts hold", 5, 15.99, true},
		{"middle bucket score of three fails the strict bound", 29, 10.01, false},
		{"cost at ten exactly not eligible", 5, 10.0, false},
		{"cost just over ten eligible", 5, 10.01, true},
		{"thirty-one days not eligible", 31, 50.0, false},
		{"zero cost not eligible", 2, 0.0, false},
	}

	e := New(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := known(tt.days)
			sub.Cost = tt.cost
			e.Enrich(&sub)
			assert.Equal(t, tt.eligible, sub.RefundEligible)
		})
	}
}

func TestEnrich_DayThirtyScoreBlocksRefund(t *testing.T) {
	// days_since_signup == 30 satisfies the age conjunct (<= 30) but lands
	// in the 5.0 usage bucket, so the score conjunct fails.
	sub := known(30)
	sub.Cost = 100.0

	New(nil).Enrich(&sub)

	assert.Equal(t, 5.0, sub.UsageScore)
	assert.False(t, sub.RefundEligible)
}

func TestEnrich_UnknownSignupNeverEligible(t *testing.T) {
	sub := subscription.Subscription{Name: "Mystery Box", Cost: 99.0}

	New(nil).Enrich(&sub)

	assert.Equal(t, 5.0, sub.UsageScore)
	assert.False(t, sub.RefundEligible)
}

func TestEnrich_InjectedScorer(t *testing.T) {
	// A custom scorer (e.g. real usage telemetry) feeds straight into the
	// eligibility predicate: day 30 with a sub-3.0 score and cost just over
	// ten is eligible.
	lowUsage := func(subscription.Subscription) float64 { return 2.9 }

	sub := known(30)
	sub.Cost = 10.01
	New(lowUsage).Enrich(&sub)

	assert.Equal(t, 2.9, sub.UsageScore)
	assert.True(t, sub.RefundEligible)
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		name     string
		expected subscription.Category
	}{
		{"Netflix", subscription.CategoryEntertainment},
		{"Disney+ Bundle", subscription.CategoryEntertainment},
		{"Adobe Creative Cloud", subscription.CategoryDesignTools},
		{"Figma Professional", subscription.CategoryDesignTools},
		{"GitHub Copilot", subscription.CategoryDevelopment},
		{"AWS Lightsail", subscription.CategoryDevelopment},
		{"Gold's Gym", subscription.CategoryHealthFitness},
		{"The Economist", subscription.CategoryOther},
		{"", subscription.CategoryOther},
		{"NETFLIX PREMIUM", subscription.CategoryEntertainment},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Categorize(tt.name))
		})
	}
}

func TestCategorize_PriorityOrderBreaksTies(t *testing.T) {
	// "GitHub Design Pro" matches both design_tools ("design") and
	// development ("github"). Rule order is entertainment, design_tools,
	// development: the design_tools rule is evaluated first, so it wins.
	assert.Equal(t, subscription.CategoryDesignTools, Categorize("GitHub Design Pro"))

	// "Netflix Design Studio" hits entertainment before design_tools.
	assert.Equal(t, subscription.CategoryEntertainment, Categorize("Netflix Design Studio"))
}
