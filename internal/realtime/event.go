package realtime

import (
	"time"

	"github.com/google/uuid"
)

// Envelope is the wire frame sent to clients.
type Envelope struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

// ChangeEvent is the structured payload carried by every change
// broadcast. The dispatcher never interprets it; only the front-ends
// and the archive do.
type ChangeEvent struct {
	Operation      string    `json:"operation"`
	Data           any       `json:"data"`
	ChangedBy      string    `json:"changedBy"`
	ChangedByEmail string    `json:"changedByEmail,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
	ChangeID       string    `json:"changeId"`
}

func NewChangeEvent(operation string, data any, changedBy, changedByEmail string) ChangeEvent {
	return ChangeEvent{
		Operation:      operation,
		Data:           data,
		ChangedBy:      changedBy,
		ChangedByEmail: changedByEmail,
		Timestamp:      time.Now().UTC(),
		ChangeID:       uuid.NewString(),
	}
}
