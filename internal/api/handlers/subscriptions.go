package handlers

import (
	"net/http"

	"github.com/eshaffer321/subscription-auditor/internal/api/dto"
	"github.com/eshaffer321/subscription-auditor/internal/infrastructure/storage"
)

// SubscriptionsHandler handles subscription-related HTTP requests.
type SubscriptionsHandler struct {
	*Base
}

// NewSubscriptionsHandler creates a new subscriptions handler.
func NewSubscriptionsHandler(repo storage.Repository) *SubscriptionsHandler {
	return &SubscriptionsHandler{
		Base: NewBase(repo),
	}
}

// List handles GET /api/subscriptions - returns the reconciled
// subscriptions from the latest run, or from ?run_id=N. Supports
// ?category= and ?refund_eligible= filters.
func (h *SubscriptionsHandler) List(w http.ResponseWriter, r *http.Request) {
	filters := storage.SubscriptionFilters{
		RunID:          int64(ParseIntParam(r, "run_id", 0)),
		Category:       r.URL.Query().Get("category"),
		RefundEligible: ParseBoolParam(r, "refund_eligible"),
	}

	records, err := h.repo.ListSubscriptions(filters)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	h.WriteJSON(w, http.StatusOK, toSubscriptionListResponse(records))
}

// RefundCandidates handles GET /api/subscriptions/refund-candidates -
// returns only the refund-eligible subset of the latest run.
func (h *SubscriptionsHandler) RefundCandidates(w http.ResponseWriter, r *http.Request) {
	eligible := true
	filters := storage.SubscriptionFilters{
		RunID:          int64(ParseIntParam(r, "run_id", 0)),
		RefundEligible: &eligible,
	}

	records, err := h.repo.ListSubscriptions(filters)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	h.WriteJSON(w, http.StatusOK, toSubscriptionListResponse(records))
}

func toSubscriptionListResponse(records []*storage.SubscriptionRecord) dto.SubscriptionListResponse {
	response := dto.SubscriptionListResponse{
		Subscriptions: make([]dto.SubscriptionResponse, 0, len(records)),
		Count:         len(records),
	}
	for _, rec := range records {
		response.Subscriptions = append(response.Subscriptions, dto.SubscriptionResponse{
			Key:             rec.Key,
			Name:            rec.Name,
			Cost:            rec.Cost,
			BillingCycle:    rec.BillingCycle,
			LastCharged:     rec.LastCharged.Format("2006-01-02"),
			VendorEmail:     rec.VendorEmail,
			CancellationURL: rec.CancellationURL,
			PhoneNumber:     rec.PhoneNumber,
			UsageScore:      rec.UsageScore,
			RefundEligible:  rec.RefundEligible,
			DaysSinceSignup: rec.DaysSinceSignup,
			SignupKnown:     rec.SignupKnown,
			Category:        rec.Category,
		})
	}
	return response
}
