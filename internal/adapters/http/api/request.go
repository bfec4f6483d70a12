package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
)

const defaultLimit = 10

// maxBodyBytes caps request bodies; every payload here is a handful of fields.
const maxBodyBytes = 1 << 20

var validate = validator.New(validator.WithRequiredStructEnabled()) //nolint:gochecknoglobals // validator caches struct metadata

// renewRequest is the body of POST /api/subscription/renew.
type renewRequest struct {
	UserID        int64  `json:"user_id" validate:"required"`
	PaymentMethod string `json:"payment_method" validate:"required"`
}

// watchProgressRequest is the body of POST /api/user/watch-progress.
// Progress is a pointer because validator's required tag only checks a
// pointer for nil, so an explicit 0 passes while an absent field fails.
type watchProgressRequest struct {
	ProfileID int64    `json:"profile_id" validate:"required"`
	ContentID int64    `json:"content_id" validate:"required"`
	Progress  *float64 `json:"progress" validate:"required"`
}

// rateRequest is the body of POST /api/content/rate.
type rateRequest struct {
	ProfileID int64   `json:"profile_id" validate:"required"`
	ContentID int64   `json:"content_id" validate:"required"`
	Rating    float64 `json:"rating" validate:"required"`
	Review    string  `json:"review"`
}

// watchlistAddRequest is the body of POST /api/watchlist/add.
type watchlistAddRequest struct {
	ProfileID int64 `json:"profile_id" validate:"required"`
	ContentID int64 `json:"content_id" validate:"required"`
}

// decodeRequest decodes the body into dst and checks its required fields.
// Decoding failures wrap ErrInvalidBody, missing fields wrap ErrBadRequest.
func decodeRequest(w http.ResponseWriter, r *http.Request, dst any) error {
	const op = "api.decode_request"

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return Wrap(op, fmt.Errorf("%w: %w", ErrInvalidBody, err))
	}
	if err := validate.Struct(dst); err != nil {
		return Wrap(op, fmt.Errorf("%w: %w", ErrBadRequest, err))
	}
	return nil
}

// bindJSON runs decodeRequest and on failure writes the 400 reply itself:
// a body that does not decode answers "Invalid JSON body", a missing field
// answers missingMsg.
func bindJSON(w http.ResponseWriter, r *http.Request, dst any, missingMsg string) bool {
	err := decodeRequest(w, r, dst)
	switch {
	case err == nil:
		return true
	case errors.Is(err, ErrInvalidBody):
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
	default:
		writeError(w, http.StatusBadRequest, missingMsg)
	}
	return false
}

// parsePathInt reads an integer route variable.
func parsePathInt(r *http.Request, name string) (int64, error) {
	const op = "api.parse_path_int"

	v, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil {
		return 0, Wrap(op, fmt.Errorf("%w: %s: %w", ErrInvalidPath, name, err))
	}
	return v, nil
}

// pathInt answers 404 when parsePathInt fails. Routes constrain these
// variables to digits, so the only failure left is overflow.
func pathInt(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	v, err := parsePathInt(r, name)
	if err != nil {
		http.NotFound(w, r)
		return 0, false
	}
	return v, true
}

// queryLimit reads ?limit=N, falling back to the default when it is absent
// or not an integer.
func queryLimit(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil {
		return defaultLimit
	}
	return n
}
