package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/subscription-auditor/internal/api/dto"
	"github.com/eshaffer321/subscription-auditor/internal/api/handlers"
	"github.com/eshaffer321/subscription-auditor/internal/infrastructure/storage"
)

func seedRun(t *testing.T, repo *storage.MockRepository, records []*storage.SubscriptionRecord) int64 {
	t.Helper()

	runID, err := repo.StartAuditRun(len(records), 0)
	require.NoError(t, err)
	require.NoError(t, repo.SaveSnapshot(runID, records))

	var monthly, refund float64
	candidates := 0
	for _, rec := range records {
		monthly += rec.Cost
		if rec.RefundEligible {
			candidates++
			refund += rec.Cost
		}
	}
	require.NoError(t, repo.CompleteAuditRun(runID, storage.RunSummary{
		SubscriptionsFound:    len(records),
		RefundCandidates:      candidates,
		TotalMonthlyCost:      monthly,
		PotentialRefundAmount: refund,
	}))
	return runID
}

func sampleRecords() []*storage.SubscriptionRecord {
	charged := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	return []*storage.SubscriptionRecord{
		{
			Key: "netflix", Name: "Netflix", Cost: 15.99, BillingCycle: "monthly",
			LastCharged: charged, VendorEmail: "billing@netflix.com",
			UsageScore: 1.0, RefundEligible: true, DaysSinceSignup: 5,
			SignupKnown: true, Category: "entertainment",
		},
		{
			Key: "github", Name: "GitHub", Cost: 4.00, BillingCycle: "monthly",
			LastCharged: charged, VendorEmail: "billing@github.com",
			UsageScore: 5.0, DaysSinceSignup: 200, SignupKnown: true,
			Category: "development",
		},
	}
}

func TestSubscriptionsHandler_List(t *testing.T) {
	t.Run("returns empty list when no runs", func(t *testing.T) {
		repo := storage.NewMockRepository()
		handler := handlers.NewSubscriptionsHandler(repo)

		req := httptest.NewRequest(http.MethodGet, "/api/subscriptions", nil)
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var response dto.SubscriptionListResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Empty(t, response.Subscriptions)
		assert.Equal(t, 0, response.Count)
	})

	t.Run("returns latest run sorted by name", func(t *testing.T) {
		repo := storage.NewMockRepository()
		seedRun(t, repo, sampleRecords())
		handler := handlers.NewSubscriptionsHandler(repo)

		req := httptest.NewRequest(http.MethodGet, "/api/subscriptions", nil)
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var response dto.SubscriptionListResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		require.Equal(t, 2, response.Count)
		assert.Equal(t, "GitHub", response.Subscriptions[0].Name)
		assert.Equal(t, "Netflix", response.Subscriptions[1].Name)
		assert.Equal(t, "2026-08-01", response.Subscriptions[0].LastCharged)
	})

	t.Run("filters by category", func(t *testing.T) {
		repo := storage.NewMockRepository()
		seedRun(t, repo, sampleRecords())
		handler := handlers.NewSubscriptionsHandler(repo)

		req := httptest.NewRequest(http.MethodGet, "/api/subscriptions?category=entertainment", nil)
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		var response dto.SubscriptionListResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		require.Equal(t, 1, response.Count)
		assert.Equal(t, "Netflix", response.Subscriptions[0].Name)
	})

	t.Run("filters by refund eligibility", func(t *testing.T) {
		repo := storage.NewMockRepository()
		seedRun(t, repo, sampleRecords())
		handler := handlers.NewSubscriptionsHandler(repo)

		req := httptest.NewRequest(http.MethodGet, "/api/subscriptions?refund_eligible=false", nil)
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		var response dto.SubscriptionListResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		require.Equal(t, 1, response.Count)
		assert.Equal(t, "GitHub", response.Subscriptions[0].Name)
	})

	t.Run("returns 500 on repository error", func(t *testing.T) {
		repo := storage.NewMockRepository()
		repo.ListSubscriptionsErr = assert.AnError
		handler := handlers.NewSubscriptionsHandler(repo)

		req := httptest.NewRequest(http.MethodGet, "/api/subscriptions", nil)
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)

		var apiErr dto.APIError
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&apiErr))
		assert.Equal(t, dto.ErrCodeInternalError, apiErr.Code)
	})
}

func TestSubscriptionsHandler_RefundCandidates(t *testing.T) {
	repo := storage.NewMockRepository()
	seedRun(t, repo, sampleRecords())
	handler := handlers.NewSubscriptionsHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/subscriptions/refund-candidates", nil)
	rec := httptest.NewRecorder()

	handler.RefundCandidates(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response dto.SubscriptionListResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	require.Equal(t, 1, response.Count)
	assert.Equal(t, "Netflix", response.Subscriptions[0].Name)
	assert.True(t, response.Subscriptions[0].RefundEligible)
}
