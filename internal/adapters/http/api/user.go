package api

import (
	"net/http"

	"github.com/okian/ott/internal/adapters/repository"
)

// UserHandler handles watch history requests.
type UserHandler struct {
	deps ProcedureCaller
}

// NewUserHandler creates a new user handler.
func NewUserHandler(deps ProcedureCaller) *UserHandler {
	return &UserHandler{deps: deps}
}

// HandleSummary handles GET /api/user/summary/{user_id} requests.
func (h *UserHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathInt(w, r, "user_id")
	if !ok {
		return
	}
	writeResult(w, h.deps.CallProcedure(r.Context(), repository.ProcUserWatchSummary, userID))
}

// HandleWatchProgress handles POST /api/user/watch-progress requests.
func (h *UserHandler) HandleWatchProgress(w http.ResponseWriter, r *http.Request) {
	var req watchProgressRequest
	if !bindJSON(w, r, &req, "Missing required fields") {
		return
	}
	res := h.deps.CallProcedure(r.Context(), repository.ProcRecordWatchProgress, req.ProfileID, req.ContentID, *req.Progress)
	writeOutcome(w, res, "Watch progress recorded")
}
