package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/subscription-auditor/internal/adapters/sources"
	"github.com/eshaffer321/subscription-auditor/internal/domain/subscription"
	"github.com/eshaffer321/subscription-auditor/internal/infrastructure/storage"
)

type fakeEmailSource struct {
	signals []sources.EmailSignal
	err     error
}

func (f *fakeEmailSource) FindSubscriptionSignals(_ context.Context) ([]sources.EmailSignal, error) {
	return f.signals, f.err
}

type fakeStatementSource struct {
	charges []sources.StatementCharge
	err     error
}

func (f *fakeStatementSource) FindRecurringCharges(_ context.Context) ([]sources.StatementCharge, error) {
	return f.charges, f.err
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestRun_MergesBothSources(t *testing.T) {
	charged := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	email := &fakeEmailSource{signals: []sources.EmailSignal{
		{
			Name:            "Netflix",
			Cost:            floatPtr(15.99),
			BillingCycle:    "monthly",
			LastCharged:     &charged,
			VendorEmail:     "billing@netflix.com",
			DaysSinceSignup: intPtr(5),
		},
		{
			Name:            "Adobe Creative Cloud",
			Cost:            floatPtr(54.99),
			VendorEmail:     "billing@adobe.com",
			DaysSinceSignup: intPtr(400),
		},
	}}
	bank := &fakeStatementSource{charges: []sources.StatementCharge{
		{Name: "NET FLIX", Cost: 17.99, LastCharged: charged.AddDate(0, 0, 10)},
		{Name: "Planet Fitness", Cost: 24.99, LastCharged: charged},
	}}
	repo := storage.NewMockRepository()

	auditor := NewAuditor(email, bank, repo, nil, nil)
	result, err := auditor.Run(context.Background(), Options{})
	require.NoError(t, err)

	assert.Equal(t, 2, result.EmailSignals)
	assert.Equal(t, 2, result.BankCharges)
	require.Len(t, result.Subscriptions, 3)

	// sorted by name
	assert.Equal(t, "Adobe Creative Cloud", result.Subscriptions[0].Name)
	assert.Equal(t, "Netflix", result.Subscriptions[1].Name)
	assert.Equal(t, "Planet Fitness", result.Subscriptions[2].Name)

	// the bank record replaced netflix's cost but kept the email metadata
	netflix := result.Subscriptions[1]
	assert.Equal(t, 17.99, netflix.Cost)
	assert.Equal(t, "billing@netflix.com", netflix.VendorEmail)
	assert.True(t, netflix.SignupKnown)
	assert.Equal(t, 5, netflix.DaysSinceSignup)
}

func TestRun_EnrichesAndFindsRefundCandidates(t *testing.T) {
	email := &fakeEmailSource{signals: []sources.EmailSignal{
		{Name: "Figma", Cost: floatPtr(12.00), VendorEmail: "billing@figma.com", DaysSinceSignup: intPtr(3)},
		{Name: "Hulu", Cost: floatPtr(9.99), VendorEmail: "billing@hulu.com", DaysSinceSignup: intPtr(3)},
	}}
	bank := &fakeStatementSource{}
	repo := storage.NewMockRepository()

	auditor := NewAuditor(email, bank, repo, nil, nil)
	result, err := auditor.Run(context.Background(), Options{})
	require.NoError(t, err)

	require.Len(t, result.RefundCandidates, 1)
	figma := result.RefundCandidates[0]
	assert.Equal(t, "Figma", figma.Name)
	assert.Equal(t, subscription.CategoryDesignTools, figma.Category)
	assert.Equal(t, 1.0, figma.UsageScore)

	// hulu is under the cost threshold
	for _, s := range result.Subscriptions {
		if s.Name == "Hulu" {
			assert.False(t, s.RefundEligible)
			assert.Equal(t, subscription.CategoryEntertainment, s.Category)
		}
	}
}

func TestRun_RecordsRunInStorage(t *testing.T) {
	email := &fakeEmailSource{signals: []sources.EmailSignal{
		{Name: "GitHub", Cost: floatPtr(4.00), DaysSinceSignup: intPtr(90)},
	}}
	bank := &fakeStatementSource{}
	repo := storage.NewMockRepository()

	auditor := NewAuditor(email, bank, repo, nil, nil)
	result, err := auditor.Run(context.Background(), Options{})
	require.NoError(t, err)
	require.NotZero(t, result.RunID)

	assert.True(t, repo.StartAuditRunCalled)
	assert.True(t, repo.SaveSnapshotCalled)
	require.Len(t, repo.LastSavedSnapshot, 1)
	assert.Equal(t, "github", repo.LastSavedSnapshot[0].Key)

	run, err := repo.GetAuditRun(result.RunID)
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, "completed", run.Status)
	assert.Equal(t, 1, run.SubscriptionsFound)
	assert.InDelta(t, 4.00, run.TotalMonthlyCost, 0.001)
}

func TestRun_EmailSourceFailureAbortsRun(t *testing.T) {
	email := &fakeEmailSource{err: errors.New("imap timeout")}
	bank := &fakeStatementSource{}

	auditor := NewAuditor(email, bank, storage.NewMockRepository(), nil, nil)
	_, err := auditor.Run(context.Background(), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email signals")
}

func TestRun_StatementSourceFailureAbortsRun(t *testing.T) {
	email := &fakeEmailSource{}
	bank := &fakeStatementSource{err: errors.New("csv truncated")}

	auditor := NewAuditor(email, bank, storage.NewMockRepository(), nil, nil)
	_, err := auditor.Run(context.Background(), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "statement charges")
}

func TestRun_StorageFailureIsNotFatal(t *testing.T) {
	email := &fakeEmailSource{signals: []sources.EmailSignal{
		{Name: "Hulu", Cost: floatPtr(7.99)},
	}}
	bank := &fakeStatementSource{}
	repo := storage.NewMockRepository()
	repo.StartAuditRunErr = errors.New("disk full")

	auditor := NewAuditor(email, bank, repo, nil, nil)
	result, err := auditor.Run(context.Background(), Options{})
	require.NoError(t, err)
	assert.Zero(t, result.RunID)
	require.Len(t, result.Subscriptions, 1)
}

func TestRun_NilRepositorySkipsTracking(t *testing.T) {
	email := &fakeEmailSource{signals: []sources.EmailSignal{
		{Name: "Hulu", Cost: floatPtr(7.99)},
	}}
	bank := &fakeStatementSource{}

	auditor := NewAuditor(email, bank, nil, nil, nil)
	result, err := auditor.Run(context.Background(), Options{})
	require.NoError(t, err)
	assert.Zero(t, result.RunID)
	require.Len(t, result.Subscriptions, 1)
}

func TestRun_CustomScorer(t *testing.T) {
	email := &fakeEmailSource{signals: []sources.EmailSignal{
		{Name: "Peloton", Cost: floatPtr(44.00), VendorEmail: "billing@onepeloton.com", DaysSinceSignup: intPtr(20)},
	}}
	bank := &fakeStatementSource{}

	low := func(subscription.Subscription) float64 { return 0.5 }
	auditor := NewAuditor(email, bank, nil, low, nil)
	result, err := auditor.Run(context.Background(), Options{})
	require.NoError(t, err)
	require.Len(t, result.RefundCandidates, 1)
	assert.Equal(t, 0.5, result.RefundCandidates[0].UsageScore)
}

func TestService_SerializesRuns(t *testing.T) {
	email := &fakeEmailSource{}
	bank := &fakeStatementSource{}
	svc := NewService(NewAuditor(email, bank, nil, nil, nil))

	result, err := svc.Run(context.Background(), Options{})
	require.NoError(t, err)
	require.NotNil(t, result)

	last, at := svc.LastResult()
	assert.Equal(t, result, last)
	assert.False(t, at.IsZero())
	assert.False(t, svc.Running())
}
