package api

import (
	"net/http"

	"github.com/okian/ott/internal/adapters/repository"
)

// DirectoryHandler handles the user, actor and genre listings.
type DirectoryHandler struct {
	deps ContentDependencies
}

// NewDirectoryHandler creates a new directory handler.
func NewDirectoryHandler(deps ContentDependencies) *DirectoryHandler {
	return &DirectoryHandler{deps: deps}
}

// HandleAllUsers handles GET /api/users/all requests.
func (h *DirectoryHandler) HandleAllUsers(w http.ResponseWriter, r *http.Request) {
	writeResult(w, h.deps.CallProcedure(r.Context(), repository.ProcAllUsersStatus))
}

// HandleActor handles GET /api/actor/{actor_id} requests.
func (h *DirectoryHandler) HandleActor(w http.ResponseWriter, r *http.Request) {
	actorID, ok := pathInt(w, r, "actor_id")
	if !ok {
		return
	}
	writeResult(w, h.deps.CallProcedure(r.Context(), repository.ProcActorFilmography, actorID))
}

// HandleGenres handles GET /api/genres requests.
func (h *DirectoryHandler) HandleGenres(w http.ResponseWriter, r *http.Request) {
	writeResult(w, h.deps.Query(r.Context(), repository.QueryGenres))
}
