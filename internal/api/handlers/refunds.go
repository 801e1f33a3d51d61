package handlers

import (
	"net/http"
	"time"

	"github.com/eshaffer321/subscription-auditor/internal/api/dto"
	"github.com/eshaffer321/subscription-auditor/internal/infrastructure/storage"
)

// RefundsHandler handles refund request history HTTP requests.
type RefundsHandler struct {
	*Base
}

// NewRefundsHandler creates a new refunds handler.
func NewRefundsHandler(repo storage.Repository) *RefundsHandler {
	return &RefundsHandler{
		Base: NewBase(repo),
	}
}

// List handles GET /api/refunds - returns generated refund requests,
// newest first. ?run_id=N restricts to one run.
func (h *RefundsHandler) List(w http.ResponseWriter, r *http.Request) {
	runID := int64(ParseIntParam(r, "run_id", 0))

	requests, err := h.repo.ListRefundRequests(runID)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	response := dto.RefundRequestListResponse{
		Requests: make([]dto.RefundRequestResponse, 0, len(requests)),
		Count:    len(requests),
	}
	for _, req := range requests {
		response.Requests = append(response.Requests, dto.RefundRequestResponse{
			ID:               req.ID,
			RunID:            req.RunID,
			SubscriptionName: req.SubscriptionName,
			Amount:           req.Amount,
			VendorEmail:      req.VendorEmail,
			Status:           req.Status,
			ErrorMessage:     req.ErrorMessage,
			CreatedAt:        req.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	h.WriteJSON(w, http.StatusOK, response)
}
