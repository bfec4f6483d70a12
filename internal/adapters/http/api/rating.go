package api

import (
	"net/http"

	"github.com/okian/ott/internal/domain/model"
)

// RatingHandler handles new ratings.
type RatingHandler struct {
	deps RatingWriter
}

// NewRatingHandler creates a new rating handler.
func NewRatingHandler(deps RatingWriter) *RatingHandler {
	return &RatingHandler{deps: deps}
}

// HandleRate handles POST /api/content/rate requests.
func (h *RatingHandler) HandleRate(w http.ResponseWriter, r *http.Request) {
	var req rateRequest
	if !bindJSON(w, r, &req, "Missing rating data.") {
		return
	}
	res := h.deps.AddRating(r.Context(), model.Rating{
		ProfileID: req.ProfileID,
		ContentID: req.ContentID,
		Rating:    req.Rating,
		Review:    req.Review,
	})
	writeOutcome(w, res, "Rating added successfully")
}
