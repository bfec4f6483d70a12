package api

import (
	"net/http"

	"github.com/okian/ott/internal/adapters/repository"
)

// WatchlistHandler handles profile watchlists.
type WatchlistHandler struct {
	deps ProcedureCaller
}

// NewWatchlistHandler creates a new watchlist handler.
func NewWatchlistHandler(deps ProcedureCaller) *WatchlistHandler {
	return &WatchlistHandler{deps: deps}
}

// HandleList handles GET /api/watchlist/{profile_id} requests.
func (h *WatchlistHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	profileID, ok := pathInt(w, r, "profile_id")
	if !ok {
		return
	}
	writeResult(w, h.deps.CallProcedure(r.Context(), repository.ProcProfileWatchlist, profileID))
}

// HandleAdd handles POST /api/watchlist/add requests.
func (h *WatchlistHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	var req watchlistAddRequest
	if !bindJSON(w, r, &req, "Missing required fields") {
		return
	}
	res := h.deps.CallProcedure(r.Context(), repository.ProcAddToWatchlist, req.ProfileID, req.ContentID)
	writeOutcome(w, res, "Added to watchlist")
}

// HandleRemove handles DELETE /api/watchlist/remove/{watchlist_id} requests.
func (h *WatchlistHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	watchlistID, ok := pathInt(w, r, "watchlist_id")
	if !ok {
		return
	}
	res := h.deps.CallProcedure(r.Context(), repository.ProcRemoveFromWatchlist, watchlistID)
	writeOutcome(w, res, "Removed from watchlist")
}
