package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/eshaffer321/subscription-auditor/internal/api/dto"
	"github.com/eshaffer321/subscription-auditor/internal/infrastructure/storage"
)

// RunsHandler handles audit run-related HTTP requests.
type RunsHandler struct {
	*Base
}

// NewRunsHandler creates a new runs handler.
func NewRunsHandler(repo storage.Repository) *RunsHandler {
	return &RunsHandler{
		Base: NewBase(repo),
	}
}

// List handles GET /api/runs - returns audit runs newest first.
func (h *RunsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := ParseIntParam(r, "limit", 20)

	runs, err := h.repo.ListAuditRuns(limit)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	response := dto.AuditRunListResponse{
		Runs:  make([]dto.AuditRunResponse, 0, len(runs)),
		Count: len(runs),
	}
	for _, run := range runs {
		response.Runs = append(response.Runs, toAuditRunResponse(run))
	}

	h.WriteJSON(w, http.StatusOK, response)
}

// Get handles GET /api/runs/{id} - returns a single audit run by ID.
func (h *RunsHandler) Get(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	if idStr == "" {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("run ID is required"))
		return
	}

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("invalid run ID"))
		return
	}

	run, err := h.repo.GetAuditRun(id)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}
	if run == nil {
		h.WriteError(w, http.StatusNotFound, dto.NotFoundError("audit run"))
		return
	}

	h.WriteJSON(w, http.StatusOK, toAuditRunResponse(*run))
}

// toAuditRunResponse converts a storage AuditRun to an API response.
func toAuditRunResponse(run storage.AuditRun) dto.AuditRunResponse {
	return dto.AuditRunResponse{
		ID:                    run.ID,
		StartedAt:             run.StartedAt,
		CompletedAt:           run.CompletedAt,
		Status:                run.Status,
		EmailSignals:          run.EmailSignals,
		BankCharges:           run.BankCharges,
		SubscriptionsFound:    run.SubscriptionsFound,
		RefundCandidates:      run.RefundCandidates,
		TotalMonthlyCost:      run.TotalMonthlyCost,
		PotentialRefundAmount: run.PotentialRefundAmount,
	}
}
