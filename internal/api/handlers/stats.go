package handlers

import (
	"net/http"
	"sort"

	"github.com/eshaffer321/subscription-auditor/internal/api/dto"
	"github.com/eshaffer321/subscription-auditor/internal/infrastructure/storage"
)

// StatsHandler handles stats-related HTTP requests.
type StatsHandler struct {
	*Base
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(repo storage.Repository) *StatsHandler {
	return &StatsHandler{
		Base: NewBase(repo),
	}
}

// Get handles GET /api/stats - returns aggregate statistics over the
// latest completed run.
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	stats, err := h.repo.GetStats()
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	// Category map to sorted slice for stable frontend consumption
	categories := make([]dto.CategorySpendResponse, 0, len(stats.SpendByCategory))
	for category, monthly := range stats.SpendByCategory {
		categories = append(categories, dto.CategorySpendResponse{
			Category: category,
			Monthly:  monthly,
		})
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Category < categories[j].Category
	})

	response := dto.StatsResponse{
		TotalRuns:             stats.TotalRuns,
		LatestRunID:           stats.LatestRunID,
		Subscriptions:         stats.Subscriptions,
		TotalMonthlyCost:      stats.TotalMonthlyCost,
		RefundCandidates:      stats.RefundCandidates,
		PotentialRefundAmount: stats.PotentialRefundAmount,
		SpendByCategory:       categories,
	}

	h.WriteJSON(w, http.StatusOK, response)
}
