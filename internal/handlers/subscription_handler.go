package handlers

import (
	"encoding/json"
	"net/http"

	"gorm.io/datatypes"

	"github.com/DekuWorks/241RunnersAwareness-sub005/internal/middlewares"
	"github.com/DekuWorks/241RunnersAwareness-sub005/internal/services"
)

// SubscriptionHandler manages the caller's own topic preferences.
type SubscriptionHandler struct {
	Service *services.SubscriptionService
}

func NewSubscriptionHandler(svc *services.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{Service: svc}
}

// GET /api/v1/subscriptions
func (h *SubscriptionHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := middlewares.GetClaims(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	subs, err := h.Service.ListForUser(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	writeJSON(w, http.StatusOK, subs)
}

type putSubscriptionRequest struct {
	Topic      string          `json:"topic"`
	Subscribed bool            `json:"subscribed"`
	Filters    json.RawMessage `json:"filters,omitempty"`
}

// PUT /api/v1/subscriptions
func (h *SubscriptionHandler) Put(w http.ResponseWriter, r *http.Request) {
	claims := middlewares.GetClaims(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req putSubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Topic == "" {
		writeError(w, http.StatusBadRequest, "topic is required")
		return
	}

	if err := h.Service.SetSubscription(r.Context(), claims.UserID, req.Topic, req.Subscribed, datatypes.JSON(req.Filters)); err != nil {
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"topic":      req.Topic,
		"subscribed": req.Subscribed,
	})
}
