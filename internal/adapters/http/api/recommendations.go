package api

import (
	"net/http"

	"github.com/okian/ott/internal/adapters/repository"
)

// RecommendationsHandler handles per-user recommendations.
type RecommendationsHandler struct {
	deps ProcedureCaller
}

// NewRecommendationsHandler creates a new recommendations handler.
func NewRecommendationsHandler(deps ProcedureCaller) *RecommendationsHandler {
	return &RecommendationsHandler{deps: deps}
}

// HandleRecommendations handles GET /api/recommendations/{user_id} requests.
func (h *RecommendationsHandler) HandleRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathInt(w, r, "user_id")
	if !ok {
		return
	}
	writeResult(w, h.deps.CallProcedure(r.Context(), repository.ProcUserRecommendations, userID))
}
