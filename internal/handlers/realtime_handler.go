package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/DekuWorks/241RunnersAwareness-sub005/internal/middlewares"
	"github.com/DekuWorks/241RunnersAwareness-sub005/internal/services"
	"github.com/DekuWorks/241RunnersAwareness-sub005/pkg/log"
)

// RealtimeHandler exposes the notification facade and the broadcast
// archive over REST, for the admin dashboard and for write-path
// services that publish over HTTP instead of linking the facade.
type RealtimeHandler struct {
	Notify  *services.RealtimeNotificationService
	Archive *services.ArchiveService
}

func NewRealtimeHandler(notify *services.RealtimeNotificationService, archive *services.ArchiveService) *RealtimeHandler {
	return &RealtimeHandler{Notify: notify, Archive: archive}
}

// GET /api/v1/realtime/online-admins
func (h *RealtimeHandler) GetOnlineAdmins(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"count":  h.Notify.GetConnectionCount(),
		"admins": h.Notify.GetAdminConnections(),
	})
}

// GET /api/v1/realtime/stats
func (h *RealtimeHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Notify.Stats())
}

type broadcastRequest struct {
	Kind      string          `json:"kind"` // user|runner|admin|case|system|dataversion|emergency
	Operation string          `json:"operation"`
	UserID    string          `json:"userId,omitempty"` // required for kind=case
	Data      json.RawMessage `json:"data"`
}

// POST /api/v1/realtime/broadcast
//
// The write-path entry point: a handler that just committed a change
// calls this (or the facade directly) to push the event to subscribed
// dashboards.
func (h *RealtimeHandler) Broadcast(w http.ResponseWriter, r *http.Request) {
	claims := middlewares.GetClaims(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req broadcastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Operation == "" {
		writeError(w, http.StatusBadRequest, "operation is required")
		return
	}

	changedBy := strings.TrimSpace(claims.FirstName + " " + claims.LastName)
	if changedBy == "" {
		changedBy = claims.Email
	}
	ctx := r.Context()

	var changeID string
	switch req.Kind {
	case "user":
		changeID = h.Notify.BroadcastUserChange(ctx, req.Operation, req.Data, changedBy).ChangeID
	case "runner":
		changeID = h.Notify.BroadcastRunnerChange(ctx, req.Operation, req.Data, changedBy).ChangeID
	case "admin":
		changeID = h.Notify.BroadcastAdminChange(ctx, req.Operation, req.Data, changedBy).ChangeID
	case "case":
		if req.UserID == "" {
			writeError(w, http.StatusBadRequest, "userId is required for case updates")
			return
		}
		changeID = h.Notify.SendCaseUpdate(ctx, req.UserID, req.Operation, req.Data, changedBy).ChangeID
	case "system":
		changeID = h.Notify.BroadcastSystemStatusChange(ctx, req.Operation, req.Data, changedBy).ChangeID
	case "dataversion":
		changeID = h.Notify.BroadcastDataVersionChange(ctx, req.Operation, req.Data, changedBy).ChangeID
	case "emergency":
		changeID = h.Notify.RaiseEmergencyAlert(ctx, req.Operation, req.Data, changedBy).ChangeID
	default:
		writeError(w, http.StatusBadRequest, "unknown broadcast kind")
		return
	}

	log.Logger.Info().Str("kind", req.Kind).Str("operation", req.Operation).
		Str("changed_by", changedBy).Str("change_id", changeID).
		Msg("Broadcast published via REST")
	writeJSON(w, http.StatusAccepted, map[string]string{"changeId": changeID})
}

// GET /api/v1/realtime/archive?limit=50
func (h *RealtimeHandler) GetArchive(w http.ResponseWriter, r *http.Request) {
	records, err := h.Archive.Recent(r.Context(), r.URL.Query().Get("limit"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	writeJSON(w, http.StatusOK, records)
}
