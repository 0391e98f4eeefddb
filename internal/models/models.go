package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// TopicSubscription is one user's preference for one alert topic
// (e.g. "weather:houston", "case-updates"). The realtime layer reads
// these at connect time to compute topic groups.
type TopicSubscription struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     string         `gorm:"index:idx_user_topic,unique" json:"userId"`
	Topic      string         `gorm:"index:idx_user_topic,unique" json:"topic"`
	Subscribed bool           `json:"subscribed"`
	Filters    datatypes.JSON `json:"filters,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

// BroadcastArchive records every event published through the
// notification facade: what was published, not who received it.
type BroadcastArchive struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Event     string         `gorm:"index" json:"event"`
	Operation string         `json:"operation"`
	Payload   datatypes.JSON `json:"payload"`
	ChangedBy string         `json:"changedBy"`
	ChangeID  string         `gorm:"index" json:"changeId"`
	CreatedAt time.Time      `json:"createdAt"`
}
