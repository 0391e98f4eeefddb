package realtime

import (
	"time"

	"github.com/rs/zerolog/log"
)

// AdminHub serves the admin dashboards. Only admin-role tokens may
// connect. Its change operations broadcast to the full Admins group,
// caller included — the dashboards reconcile their own echo — while
// the connect/disconnect peer notices exclude the caller. That
// asymmetry is deliberate and relied on by the front-ends.
type AdminHub struct {
	*Hub
}

func NewAdminHub(subs SubscriptionSource, window time.Duration) *AdminHub {
	return &AdminHub{NewHub(HubConfig{
		Name:             "admin",
		RequireAdmin:     true,
		WelcomeEvent:     "Welcome",
		SnapshotEvent:    "CurrentAdmins",
		PeerConnected:    "AdminConnected",
		PeerDisconnected: "AdminDisconnected",
	}, subs, window)}
}

// UserChanged announces a user record mutation to every admin session.
// An empty changedBy falls back to the caller's own display name.
func (h *AdminHub) UserChanged(connID, operation string, data any, changedBy string) error {
	return h.callerBroadcast(connID, "UserChanged", operation, data, changedBy)
}

// RunnerChanged announces a runner (missing-person) record mutation.
func (h *AdminHub) RunnerChanged(connID, operation string, data any, changedBy string) error {
	return h.callerBroadcast(connID, "RunnerChanged", operation, data, changedBy)
}

// AdminProfileChanged announces changes to an admin's own profile.
func (h *AdminHub) AdminProfileChanged(connID, operation string, data any, changedBy string) error {
	return h.callerBroadcast(connID, "AdminProfileChanged", operation, data, changedBy)
}

// DataVersionChanged tells dashboards a dataset version moved so they
// re-fetch through the REST API.
func (h *AdminHub) DataVersionChanged(connID, operation string, data any, changedBy string) error {
	return h.callerBroadcast(connID, "DataVersionChanged", operation, data, changedBy)
}

// NewUserRegistration announces a fresh signup to the admin audience.
func (h *AdminHub) NewUserRegistration(connID string, data any) error {
	return h.callerBroadcast(connID, "NewUserRegistration", "created", data, "")
}

// AdminActivity relays a lightweight activity marker (page views,
// bulk-edit sessions) to the other dashboards.
func (h *AdminHub) AdminActivity(connID, activity string, data any) error {
	return h.callerBroadcast(connID, "AdminActivity", activity, data, "")
}

// GetOnlineAdmins replies directly to the caller with the current
// snapshot rather than broadcasting it.
func (h *AdminHub) GetOnlineAdmins(connID string) error {
	if _, ok := h.registry.Get(connID); !ok {
		return ErrUnknownConnection
	}
	h.Reply(connID, "OnlineAdmins", h.Online())
	return nil
}

// callerBroadcast stamps the event with the caller's identity and fans
// it out to the Admins group, including the caller's own session.
// Errors surface to the invoking client; these are explicit commands,
// not lifecycle hooks.
func (h *AdminHub) callerBroadcast(connID, event, operation string, data any, changedBy string) error {
	ident, err := h.Caller(connID)
	if err != nil {
		log.Error().Str("hub", h.cfg.Name).Str("conn_id", connID).
			Str("event", event).Err(err).
			Msg("Broadcast operation from unknown connection")
		return err
	}
	if changedBy == "" {
		changedBy = ident.DisplayName()
	}
	ev := NewChangeEvent(operation, data, changedBy, ident.Email)
	h.Broadcast(GroupAdmins, event, ev)
	return nil
}
