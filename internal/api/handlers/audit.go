package handlers

import (
	"errors"
	"net/http"

	"github.com/eshaffer321/subscription-auditor/internal/api/dto"
	"github.com/eshaffer321/subscription-auditor/internal/application/audit"
)

// AuditHandler handles on-demand audit triggers.
type AuditHandler struct {
	*Base
	service *audit.Service
}

// NewAuditHandler creates a new audit handler.
func NewAuditHandler(service *audit.Service) *AuditHandler {
	return &AuditHandler{
		Base:    &Base{},
		service: service,
	}
}

// Start handles POST /api/audit - runs a full audit synchronously and
// returns its summary. Returns 409 while another run is in flight.
func (h *AuditHandler) Start(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Run(r.Context(), audit.Options{})
	if err != nil {
		if errors.Is(err, audit.ErrRunInProgress) {
			h.WriteError(w, http.StatusConflict, dto.ConflictError(err.Error()))
			return
		}
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	response := dto.StartAuditResponse{
		RunID:            result.RunID,
		Subscriptions:    len(result.Subscriptions),
		RefundCandidates: len(result.RefundCandidates),
		DurationMS:       result.Duration.Milliseconds(),
		Status:           "completed",
	}

	h.WriteJSON(w, http.StatusOK, response)
}
