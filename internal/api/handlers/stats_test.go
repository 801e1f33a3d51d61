package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/subscription-auditor/internal/api/dto"
	"github.com/eshaffer321/subscription-auditor/internal/api/handlers"
	"github.com/eshaffer321/subscription-auditor/internal/infrastructure/storage"
)

func TestStatsHandler_Get(t *testing.T) {
	t.Run("returns zero stats for empty repository", func(t *testing.T) {
		repo := storage.NewMockRepository()
		handler := handlers.NewStatsHandler(repo)

		req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
		rec := httptest.NewRecorder()

		handler.Get(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var response dto.StatsResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Equal(t, 0, response.TotalRuns)
		assert.Empty(t, response.SpendByCategory)
	})

	t.Run("aggregates latest run with sorted categories", func(t *testing.T) {
		repo := storage.NewMockRepository()
		seedRun(t, repo, sampleRecords())
		handler := handlers.NewStatsHandler(repo)

		req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
		rec := httptest.NewRecorder()

		handler.Get(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var response dto.StatsResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Equal(t, 1, response.TotalRuns)
		assert.Equal(t, 2, response.Subscriptions)
		assert.Equal(t, 1, response.RefundCandidates)
		assert.InDelta(t, 19.99, response.TotalMonthlyCost, 0.001)

		require.Len(t, response.SpendByCategory, 2)
		assert.Equal(t, "development", response.SpendByCategory[0].Category)
		assert.Equal(t, "entertainment", response.SpendByCategory[1].Category)
		assert.InDelta(t, 15.99, response.SpendByCategory[1].Monthly, 0.001)
	})

	t.Run("returns 500 on repository error", func(t *testing.T) {
		repo := storage.NewMockRepository()
		repo.GetStatsErr = assert.AnError
		handler := handlers.NewStatsHandler(repo)

		req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
		rec := httptest.NewRecorder()

		handler.Get(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
