package realtime

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

var (
	// ErrForbidden rejects a connect attempt on a hub the caller's
	// role is not allowed on.
	ErrForbidden = errors.New("role not permitted on this hub")
	// ErrUnknownConnection covers operations invoked for a connection
	// the registry no longer holds.
	ErrUnknownConnection = errors.New("unknown connection")
)

var connectionsGauge = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "realtime_connections",
		Help: "Currently registered websocket connections per hub",
	},
	[]string{"hub"},
)

func init() {
	prometheus.MustRegister(connectionsGauge)
}

// SubscriptionSource supplies a user's topic preferences at connect
// time. Implemented by the subscription service; hubs never fetch
// preferences themselves.
type SubscriptionSource interface {
	TopicsForUser(ctx context.Context, userID string) ([]TopicPreference, error)
}

// HubConfig fixes an audience's name and event vocabulary. Empty event
// names disable the corresponding notice.
type HubConfig struct {
	Name             string
	RequireAdmin     bool
	WelcomeEvent     string
	SnapshotEvent    string
	PeerConnected    string
	PeerDisconnected string
}

// Hub owns the connection lifecycle for one audience. It wires the
// transport callbacks to the registry, router and dispatcher; audience
// types embed it and add their broadcast operations.
type Hub struct {
	cfg      HubConfig
	registry *Registry
	router   *Router
	dispatch *Dispatcher
	subs     SubscriptionSource
	window   time.Duration
}

func NewHub(cfg HubConfig, subs SubscriptionSource, window time.Duration) *Hub {
	registry := NewRegistry()
	router := NewRouter()
	return &Hub{
		cfg:      cfg,
		registry: registry,
		router:   router,
		dispatch: NewDispatcher(cfg.Name, registry, router),
		subs:     subs,
		window:   window,
	}
}

// Connect performs the Connecting→Connected transition: validate the
// identity, register, join initial groups, greet the caller, announce
// to peers. Any error leaves nothing registered.
func (h *Hub) Connect(ctx context.Context, connID string, ident Identity, sender Sender) error {
	if ident.UserID == "" || ident.Role == "" {
		return ErrMissingClaims
	}
	if h.cfg.RequireAdmin && !ident.IsAdmin() {
		return ErrForbidden
	}

	var prefs []TopicPreference
	if h.subs != nil {
		p, err := h.subs.TopicsForUser(ctx, ident.UserID)
		if err != nil {
			// A preferences outage must not block connects; the
			// client just gets no topic groups this session.
			log.Warn().Str("hub", h.cfg.Name).Str("user_id", ident.UserID).Err(err).
				Msg("Topic subscription lookup failed")
		} else {
			prefs = p
		}
	}

	h.registry.Register(connID, ident, sender)
	for _, group := range InitialGroups(ident, prefs) {
		h.router.Join(connID, group)
	}
	connectionsGauge.WithLabelValues(h.cfg.Name).Inc()

	conn, _ := h.registry.Get(connID)
	if h.cfg.WelcomeEvent != "" {
		h.dispatch.SendToConnection(connID, h.cfg.WelcomeEvent, map[string]any{
			"connectionId": connID,
			"userId":       ident.UserID,
			"email":        ident.Email,
			"displayName":  ident.DisplayName(),
			"role":         ident.Role,
			"connectedAt":  conn.ConnectedAt,
		})
	}
	if h.cfg.SnapshotEvent != "" {
		h.dispatch.SendToConnection(connID, h.cfg.SnapshotEvent, h.registry.Snapshot(h.window))
	}
	if h.cfg.PeerConnected != "" {
		h.dispatch.SendToGroupExcept(h.roleGroup(ident), connID, h.cfg.PeerConnected, map[string]any{
			"userId":      ident.UserID,
			"email":       ident.Email,
			"displayName": ident.DisplayName(),
			"connectedAt": conn.ConnectedAt,
		})
	}

	log.Info().Str("hub", h.cfg.Name).Str("conn_id", connID).
		Str("user_id", ident.UserID).Str("role", ident.Role).
		Msg("Realtime client connected")
	return nil
}

// Disconnect performs the Connected→Disconnected transition. Graceful
// close and transport drop arrive here identically. A disconnect for a
// connection that never registered is a silent no-op; teardown must
// always complete, so nothing here returns an error.
func (h *Hub) Disconnect(connID string) {
	record, found := h.registry.Unregister(connID)
	h.router.LeaveAll(connID)
	if !found {
		return
	}
	connectionsGauge.WithLabelValues(h.cfg.Name).Dec()

	if h.cfg.PeerDisconnected != "" {
		h.dispatch.SendToGroupExcept(h.roleGroup(record.Identity), connID, h.cfg.PeerDisconnected, map[string]any{
			"userId":      record.Identity.UserID,
			"email":       record.Identity.Email,
			"displayName": record.Identity.DisplayName(),
		})
	}
	log.Info().Str("hub", h.cfg.Name).Str("conn_id", connID).
		Str("user_id", record.Identity.UserID).
		Msg("Realtime client disconnected")
}

// Ping is the keep-alive operation: bump activity, reply directly.
func (h *Hub) Ping(connID string) {
	h.registry.Touch(connID)
	h.dispatch.SendToConnection(connID, "Pong", map[string]any{
		"timestamp": time.Now().UTC(),
	})
}

// JoinGroup subscribes a live connection to an ad hoc group; the group
// is created implicitly if it did not exist.
func (h *Hub) JoinGroup(connID, group string) error {
	if _, ok := h.registry.Get(connID); !ok {
		return ErrUnknownConnection
	}
	h.router.Join(connID, group)
	return nil
}

// LeaveGroup is a no-op when the connection was not a member.
func (h *Hub) LeaveGroup(connID, group string) {
	h.router.Leave(connID, group)
}

// Broadcast delivers an event to every current member of a group.
func (h *Hub) Broadcast(group, event string, payload any) {
	h.dispatch.SendToGroup(group, event, payload)
}

// Reply delivers directly to one connection.
func (h *Hub) Reply(connID, event string, payload any) bool {
	return h.dispatch.SendToConnection(connID, event, payload)
}

func (h *Hub) ConnectionCount() int { return h.registry.Count() }

// Online returns the snapshot of connections active inside the
// configured liveness window.
func (h *Hub) Online() []ConnectionView { return h.registry.Snapshot(h.window) }

// Caller resolves the identity behind a live connection, for
// operations that stamp events with the acting identity.
func (h *Hub) Caller(connID string) (Identity, error) {
	record, ok := h.registry.Get(connID)
	if !ok {
		return Identity{}, ErrUnknownConnection
	}
	return record.Identity, nil
}

func (h *Hub) roleGroup(ident Identity) string {
	if ident.IsAdmin() {
		return GroupAdmins
	}
	return GroupUsers
}
