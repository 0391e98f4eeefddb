package realtime

import (
	"crypto/rsa"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/DekuWorks/241RunnersAwareness-sub005/internal/auth"
)

// HandlerOptions configures the websocket endpoints.
type HandlerOptions struct {
	PublicKey      *rsa.PublicKey
	AllowedOrigins []string
	SendBufferSize int
}

func (o HandlerOptions) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			if len(o.AllowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true // non-browser client
			}
			for _, allowed := range o.AllowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}
}

// authenticate resolves the verified identity for a handshake. Tokens
// arrive as a bearer header or, for browser WebSocket clients that
// cannot set headers, a "token" query parameter.
func (o HandlerOptions) authenticate(r *http.Request) (Identity, error) {
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		const prefix = "Bearer "
		authz := r.Header.Get("Authorization")
		if len(authz) > len(prefix) && authz[:len(prefix)] == prefix {
			tokenStr = authz[len(prefix):]
		}
	}
	if tokenStr == "" {
		return Identity{}, fmt.Errorf("missing token")
	}
	claims, err := auth.ParseToken(tokenStr, o.PublicKey)
	if err != nil {
		return Identity{}, err
	}
	return IdentityFromClaims(claims)
}

// serve runs the shared handshake: authenticate, upgrade, register
// with the hub, then start the pumps. A failed connect closes the
// socket before any frame is exchanged.
func (o HandlerOptions) serve(w http.ResponseWriter, r *http.Request, hub *Hub,
	ops func(connID string, conn *Conn) func(ClientFrame)) {

	ident, err := o.authenticate(r)
	if err != nil {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	up := o.upgrader()
	ws, err := up.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Str("hub", hub.cfg.Name).Err(err).Msg("ws upgrade failed")
		return
	}

	connID := uuid.NewString()
	var conn *Conn
	conn = NewConn(connID, ws, o.SendBufferSize,
		func(frame ClientFrame) { ops(connID, conn)(frame) },
		func() { hub.Disconnect(connID) },
	)

	if err := hub.Connect(r.Context(), connID, ident, conn); err != nil {
		log.Warn().Str("hub", hub.cfg.Name).Str("user_id", ident.UserID).Err(err).
			Msg("Realtime connect rejected")
		_ = ws.Close()
		return
	}
	conn.Start()
}

// AdminHandler upgrades HTTP→WS for the admin dashboard audience and
// routes its client-invokable operations.
func AdminHandler(hub *AdminHub, opts HandlerOptions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts.serve(w, r, hub.Hub, func(connID string, conn *Conn) func(ClientFrame) {
			return func(frame ClientFrame) {
				var err error
				switch frame.Type {
				case "ping":
					hub.Ping(connID)
				case "join":
					err = hub.JoinGroup(connID, frame.Group)
				case "leave":
					hub.LeaveGroup(connID, frame.Group)
				case "getOnlineAdmins":
					err = hub.GetOnlineAdmins(connID)
				case "userChanged":
					err = hub.UserChanged(connID, frame.Operation, frame.Data, frame.ChangedBy)
				case "runnerChanged":
					err = hub.RunnerChanged(connID, frame.Operation, frame.Data, frame.ChangedBy)
				case "adminProfileChanged":
					err = hub.AdminProfileChanged(connID, frame.Operation, frame.Data, frame.ChangedBy)
				case "dataVersionChanged":
					err = hub.DataVersionChanged(connID, frame.Operation, frame.Data, frame.ChangedBy)
				case "newUserRegistration":
					err = hub.NewUserRegistration(connID, frame.Data)
				case "adminActivity":
					err = hub.AdminActivity(connID, frame.Activity, frame.Data)
				default:
					err = fmt.Errorf("unknown operation %q", frame.Type)
				}
				if err != nil {
					// Explicit commands surface their failure to the
					// invoking client; lifecycle errors never reach here.
					log.Error().Str("hub", "admin").Str("conn_id", connID).
						Str("op", frame.Type).Err(err).
						Msg("Realtime operation failed")
					_ = conn.Send("Error", map[string]any{
						"op":      frame.Type,
						"message": err.Error(),
					})
				}
			}
		})
	}
}

// UserHandler serves the end-user audience: keep-alive plus ad hoc
// topic subscribe/unsubscribe.
func UserHandler(hub *UserHub, opts HandlerOptions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts.serve(w, r, hub.Hub, userOps(hub.Hub))
	}
}

// AlertsHandler serves the alert audience with the same op set.
func AlertsHandler(hub *AlertHub, opts HandlerOptions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts.serve(w, r, hub.Hub, userOps(hub.Hub))
	}
}

func userOps(hub *Hub) func(connID string, conn *Conn) func(ClientFrame) {
	return func(connID string, conn *Conn) func(ClientFrame) {
		return func(frame ClientFrame) {
			var err error
			switch frame.Type {
			case "ping":
				hub.Ping(connID)
			case "join":
				err = hub.JoinGroup(connID, frame.Group)
			case "leave":
				hub.LeaveGroup(connID, frame.Group)
			default:
				err = fmt.Errorf("unknown operation %q", frame.Type)
			}
			if err != nil {
				log.Error().Str("hub", hub.cfg.Name).Str("conn_id", connID).
					Str("op", frame.Type).Err(err).
					Msg("Realtime operation failed")
				_ = conn.Send("Error", map[string]any{
					"op":      frame.Type,
					"message": err.Error(),
				})
			}
		}
	}
}
