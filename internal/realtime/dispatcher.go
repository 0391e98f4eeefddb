package realtime

import (
	"github.com/rs/zerolog/log"
)

// Dispatcher fans events out to group members. Delivery is strictly
// best-effort: membership is resolved at send time, one dead recipient
// never aborts the rest, and nothing is retried or persisted.
type Dispatcher struct {
	hub      string
	registry *Registry
	router   *Router
}

func NewDispatcher(hub string, registry *Registry, router *Router) *Dispatcher {
	return &Dispatcher{hub: hub, registry: registry, router: router}
}

// SendToGroup delivers to every current member of the group, caller
// included if it is a member.
func (d *Dispatcher) SendToGroup(group, event string, payload any) {
	d.fanOut(group, "", event, payload)
}

// SendToGroupExcept delivers to every member except the excluded
// connection. Used for peer notices so the triggering connection does
// not receive an echo of its own join or leave.
func (d *Dispatcher) SendToGroupExcept(group, excluded, event string, payload any) {
	d.fanOut(group, excluded, event, payload)
}

// SendToConnection delivers directly to one connection. A lookup miss
// after disconnect is expected and reported as false, not an error.
func (d *Dispatcher) SendToConnection(connID, event string, payload any) bool {
	sender, ok := d.registry.getSender(connID)
	if !ok {
		return false
	}
	d.deliver(sender, connID, event, payload)
	return true
}

func (d *Dispatcher) fanOut(group, excluded, event string, payload any) {
	// Membership is copied under the router lock; all sends happen
	// after release so slow transports never hold it.
	members := d.router.Members(group)
	for _, connID := range members {
		if connID == excluded {
			continue
		}
		sender, ok := d.registry.getSender(connID)
		if !ok {
			// Raced a disconnect between membership copy and send.
			continue
		}
		d.deliver(sender, connID, event, payload)
	}
}

func (d *Dispatcher) deliver(sender Sender, connID, event string, payload any) {
	if err := sender.Send(event, payload); err != nil {
		log.Warn().
			Str("hub", d.hub).
			Str("conn_id", connID).
			Str("event", event).
			Err(err).
			Msg("Dropped realtime event for recipient")
	}
}
