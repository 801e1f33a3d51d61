package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/subscription-auditor/internal/adapters/sources"
	"github.com/eshaffer321/subscription-auditor/internal/api/dto"
	"github.com/eshaffer321/subscription-auditor/internal/api/handlers"
	"github.com/eshaffer321/subscription-auditor/internal/application/audit"
	"github.com/eshaffer321/subscription-auditor/internal/infrastructure/storage"
)

type stubEmailSource struct {
	signals []sources.EmailSignal
	err     error
}

func (s *stubEmailSource) FindSubscriptionSignals(_ context.Context) ([]sources.EmailSignal, error) {
	return s.signals, s.err
}

type stubStatementSource struct {
	charges []sources.StatementCharge
	err     error
}

func (s *stubStatementSource) FindRecurringCharges(_ context.Context) ([]sources.StatementCharge, error) {
	return s.charges, s.err
}

func TestAuditHandler_Start(t *testing.T) {
	t.Run("runs an audit and returns its summary", func(t *testing.T) {
		cost := 15.99
		days := 5
		email := &stubEmailSource{signals: []sources.EmailSignal{
			{Name: "Netflix", Cost: &cost, VendorEmail: "billing@netflix.com", DaysSinceSignup: &days},
		}}
		repo := storage.NewMockRepository()
		svc := audit.NewService(audit.NewAuditor(email, &stubStatementSource{}, repo, nil, nil))
		handler := handlers.NewAuditHandler(svc)

		req := httptest.NewRequest(http.MethodPost, "/api/audit", nil)
		rec := httptest.NewRecorder()

		handler.Start(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var response dto.StartAuditResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Equal(t, int64(1), response.RunID)
		assert.Equal(t, 1, response.Subscriptions)
		assert.Equal(t, 1, response.RefundCandidates)
		assert.Equal(t, "completed", response.Status)

		assert.True(t, repo.SaveSnapshotCalled)
	})

	t.Run("returns 500 when a source fails", func(t *testing.T) {
		email := &stubEmailSource{err: assert.AnError}
		svc := audit.NewService(audit.NewAuditor(email, &stubStatementSource{}, nil, nil, nil))
		handler := handlers.NewAuditHandler(svc)

		req := httptest.NewRequest(http.MethodPost, "/api/audit", nil)
		rec := httptest.NewRecorder()

		handler.Start(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
