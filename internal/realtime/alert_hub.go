package realtime

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Escalator forwards an emergency alert off-channel (email to the
// on-call rotation). Best effort; a failing escalation never blocks
// the websocket broadcast.
type Escalator interface {
	EscalateAlert(subject, body string) error
}

// AlertHub carries emergency and weather alerts. Topic groups
// (topic:{name}) computed from subscription preferences drive regional
// targeting; emergency alerts go to everyone connected.
type AlertHub struct {
	*Hub
	escalator Escalator
}

func NewAlertHub(subs SubscriptionSource, window time.Duration, escalator Escalator) *AlertHub {
	return &AlertHub{
		Hub: NewHub(HubConfig{
			Name:         "alerts",
			WelcomeEvent: "Welcome",
		}, subs, window),
		escalator: escalator,
	}
}

// BroadcastEmergencyAlert fans the alert out to every connected
// session and escalates it by email.
func (h *AlertHub) BroadcastEmergencyAlert(ev ChangeEvent) {
	h.Broadcast(GroupUsers, "EmergencyAlert", ev)
	h.Broadcast(GroupAdmins, "EmergencyAlert", ev)
	if h.escalator != nil {
		subject := fmt.Sprintf("Emergency alert (%s)", ev.Operation)
		body := fmt.Sprintf("Alert %s raised by %s at %s", ev.ChangeID, ev.ChangedBy, ev.Timestamp.Format(time.RFC3339))
		if err := h.escalator.EscalateAlert(subject, body); err != nil {
			log.Error().Str("change_id", ev.ChangeID).Err(err).
				Msg("Emergency alert email escalation failed")
		}
	}
}

// BroadcastWeatherAlert targets subscribers of one weather topic.
func (h *AlertHub) BroadcastWeatherAlert(topic string, ev ChangeEvent) {
	h.Broadcast(TopicGroup(topic), "WeatherAlert", ev)
}
