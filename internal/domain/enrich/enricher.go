// Package enrich derives usage score, refund eligibility and category for
// merged subscriptions.
//
// The usage score is a heuristic placeholder, not a measured metric: it is
// bucketed on subscription age because no real usage telemetry exists yet.
// It is injectable so a real usage-signal source can replace it without
// touching merge or categorization logic.
package enrich

import (
	"strings"

	"github.com/eshaffer321/subscription-auditor/internal/domain/subscription"
)

// Scorer computes a usage score (0-10) from subscription attributes.
type Scorer func(s subscription.Subscription) float64

// HeuristicScore is the default scorer. Four discrete buckets, no
// interpolation: unknown signup age assumes moderate usage so that missing
// data never biases a subscription toward a refund.
func HeuristicScore(s subscription.Subscription) float64 {
	if !s.SignupKnown {
		return 5.0
	}
	switch {
	case s.DaysSinceSignup < 7:
		return 1.0 // likely unused if very new
	case s.DaysSinceSignup < 30:
		return 3.0 // possibly unused
	default:
		return 5.0 // assume moderate usage for older subscriptions
	}
}

// refundEligible reports whether the refund heuristic holds: recent signup,
// low usage, and a cost worth pursuing. Requires a known signup age.
func refundEligible(s subscription.Subscription) bool {
	return s.SignupKnown &&
		s.DaysSinceSignup <= 30 &&
		s.UsageScore < 3.0 &&
		s.Cost > 10.0
}

// categoryRule pairs a category with its trigger keywords. Rules are
// evaluated in order; the first matching rule wins.
type categoryRule struct {
	category subscription.Category
	keywords []string
}

var categoryRules = []categoryRule{
	{subscription.CategoryEntertainment, []string{"netflix", "hulu", "disney", "streaming"}},
	{subscription.CategoryDesignTools, []string{"adobe", "canva", "figma", "design"}},
	{subscription.CategoryDevelopment, []string{"github", "aws", "hosting", "domain"}},
	{subscription.CategoryHealthFitness, []string{"gym", "fitness", "health"}},
}

// Categorize classifies a subscription name by case-insensitive substring
// match against the ordered keyword rules.
func Categorize(name string) subscription.Category {
	lower := strings.ToLower(name)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.category
			}
		}
	}
	return subscription.CategoryOther
}

// Enricher applies all derivations to a subscription.
type Enricher struct {
	score Scorer
}

// New creates an enricher with the given scorer. A nil scorer falls back
// to the age-bucket heuristic.
func New(score Scorer) *Enricher {
	if score == nil {
		score = HeuristicScore
	}
	return &Enricher{score: score}
}

// Enrich fills in the derived fields in place. Every input always receives
// a complete enrichment; there are no failure conditions.
func (e *Enricher) Enrich(s *subscription.Subscription) {
	s.UsageScore = e.score(*s)
	s.RefundEligible = refundEligible(*s)
	s.Category = Categorize(s.Name)
}
