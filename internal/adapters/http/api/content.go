package api

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/okian/ott/internal/adapters/repository"
	"github.com/okian/ott/internal/domain/model"
)

// ContentDependencies defines the interface for catalogue reads.
type ContentDependencies interface {
	CallProcedure(ctx context.Context, name string, args ...any) model.Result
	Query(ctx context.Context, query string, args ...any) model.Result
}

// ContentHandler handles catalogue browsing and search.
type ContentHandler struct {
	deps ContentDependencies
}

// NewContentHandler creates a new content handler.
func NewContentHandler(deps ContentDependencies) *ContentHandler {
	return &ContentHandler{deps: deps}
}

// HandleAll handles GET /api/content/all requests.
func (h *ContentHandler) HandleAll(w http.ResponseWriter, r *http.Request) {
	writeResult(w, h.deps.Query(r.Context(), repository.QueryAllContent))
}

// HandleDetails handles GET /api/content/details/{content_id} requests.
func (h *ContentHandler) HandleDetails(w http.ResponseWriter, r *http.Request) {
	contentID, ok := pathInt(w, r, "content_id")
	if !ok {
		return
	}
	writeResult(w, h.deps.CallProcedure(r.Context(), repository.ProcContentDetails, contentID))
}

// HandleTopRated handles GET /api/content/top-rated?limit=N requests.
func (h *ContentHandler) HandleTopRated(w http.ResponseWriter, r *http.Request) {
	writeResult(w, h.deps.CallProcedure(r.Context(), repository.ProcTopRatedContent, queryLimit(r)))
}

// HandlePopular handles GET /api/content/popular?limit=N requests.
func (h *ContentHandler) HandlePopular(w http.ResponseWriter, r *http.Request) {
	writeResult(w, h.deps.CallProcedure(r.Context(), repository.ProcPopularContent, queryLimit(r)))
}

// HandleByGenre handles GET /api/content/by-genre/{genre} requests.
func (h *ContentHandler) HandleByGenre(w http.ResponseWriter, r *http.Request) {
	writeResult(w, h.deps.CallProcedure(r.Context(), repository.ProcContentByGenre, mux.Vars(r)["genre"]))
}

// HandleSearch handles GET /api/content/search?q=term requests.
func (h *ContentHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	if term == "" {
		writeError(w, http.StatusBadRequest, "Search term required")
		return
	}
	writeResult(w, h.deps.CallProcedure(r.Context(), repository.ProcSearchContent, term))
}
