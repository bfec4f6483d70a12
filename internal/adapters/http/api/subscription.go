package api

import (
	"net/http"
	"strconv"

	"github.com/okian/ott/internal/adapters/repository"
)

// SubscriptionHandler handles subscription renewal and lookup.
type SubscriptionHandler struct {
	deps ProcedureCaller
}

// NewSubscriptionHandler creates a new subscription handler.
func NewSubscriptionHandler(deps ProcedureCaller) *SubscriptionHandler {
	return &SubscriptionHandler{deps: deps}
}

// HandleRenew handles POST /api/subscription/renew requests.
func (h *SubscriptionHandler) HandleRenew(w http.ResponseWriter, r *http.Request) {
	var req renewRequest
	if !bindJSON(w, r, &req, "Missing user ID or payment method.") {
		return
	}
	res := h.deps.CallProcedure(r.Context(), repository.ProcRenewSubscription, req.UserID, req.PaymentMethod)
	writeOutcome(w, res, "Subscription renewed for User "+strconv.FormatInt(req.UserID, 10))
}

// HandleInfo handles GET /api/subscription/info/{user_id} requests.
func (h *SubscriptionHandler) HandleInfo(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathInt(w, r, "user_id")
	if !ok {
		return
	}
	writeResult(w, h.deps.CallProcedure(r.Context(), repository.ProcUserSubscription, userID))
}
