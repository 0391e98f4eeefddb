package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/DekuWorks/241RunnersAwareness-sub005/internal/models"
	"github.com/DekuWorks/241RunnersAwareness-sub005/internal/realtime"
	"github.com/DekuWorks/241RunnersAwareness-sub005/internal/repository"
)

// RealtimeNotificationService lets application code that just
// committed a write publish a change event without holding a live
// connection. It is stateless: every method builds the structured
// event, fans it out to the admin audience, and archives the publish.
// Broadcast failures never propagate — delivery is best effort.
type RealtimeNotificationService struct {
	admin   *realtime.AdminHub
	users   *realtime.UserHub
	alerts  *realtime.AlertHub
	archive *repository.BroadcastArchiveRepo // nil disables archiving
}

func NewRealtimeNotificationService(
	admin *realtime.AdminHub,
	users *realtime.UserHub,
	alerts *realtime.AlertHub,
	archive *repository.BroadcastArchiveRepo,
) *RealtimeNotificationService {
	return &RealtimeNotificationService{admin: admin, users: users, alerts: alerts, archive: archive}
}

func (s *RealtimeNotificationService) BroadcastUserChange(ctx context.Context, operation string, data any, changedBy string) realtime.ChangeEvent {
	return s.publish(ctx, "UserChanged", operation, data, changedBy)
}

func (s *RealtimeNotificationService) BroadcastRunnerChange(ctx context.Context, operation string, data any, changedBy string) realtime.ChangeEvent {
	return s.publish(ctx, "RunnerChanged", operation, data, changedBy)
}

func (s *RealtimeNotificationService) BroadcastAdminChange(ctx context.Context, operation string, data any, changedBy string) realtime.ChangeEvent {
	return s.publish(ctx, "AdminProfileChanged", operation, data, changedBy)
}

func (s *RealtimeNotificationService) BroadcastPublicCaseChange(ctx context.Context, operation string, data any, changedBy string) realtime.ChangeEvent {
	return s.publish(ctx, "PublicCaseChanged", operation, data, changedBy)
}

func (s *RealtimeNotificationService) BroadcastSystemStatusChange(ctx context.Context, operation string, data any, changedBy string) realtime.ChangeEvent {
	return s.publish(ctx, "SystemStatusChanged", operation, data, changedBy)
}

func (s *RealtimeNotificationService) BroadcastDataVersionChange(ctx context.Context, operation string, data any, changedBy string) realtime.ChangeEvent {
	return s.publish(ctx, "DataVersionChanged", operation, data, changedBy)
}

// SendCaseUpdate targets one user's sessions on the user hub, used by
// the case write-path after a status change on a followed case.
func (s *RealtimeNotificationService) SendCaseUpdate(ctx context.Context, userID, operation string, data any, changedBy string) realtime.ChangeEvent {
	ev := realtime.NewChangeEvent(operation, data, changedBy, "")
	s.users.SendCaseUpdate(userID, ev)
	s.archiveEvent(ctx, "CaseUpdate", ev)
	return ev
}

// RaiseEmergencyAlert broadcasts on the alert hub (and escalates by
// email inside the hub) and mirrors the event to admins.
func (s *RealtimeNotificationService) RaiseEmergencyAlert(ctx context.Context, operation string, data any, changedBy string) realtime.ChangeEvent {
	ev := realtime.NewChangeEvent(operation, data, changedBy, "")
	s.alerts.BroadcastEmergencyAlert(ev)
	s.admin.Broadcast(realtime.GroupAdmins, "EmergencyAlert", ev)
	s.archiveEvent(ctx, "EmergencyAlert", ev)
	return ev
}

func (s *RealtimeNotificationService) GetConnectionCount() int {
	return s.admin.ConnectionCount()
}

func (s *RealtimeNotificationService) GetAdminConnections() []realtime.ConnectionView {
	return s.admin.Online()
}

// Stats reports per-hub connection counts.
func (s *RealtimeNotificationService) Stats() map[string]int {
	return map[string]int{
		"admin":  s.admin.ConnectionCount(),
		"user":   s.users.ConnectionCount(),
		"alerts": s.alerts.ConnectionCount(),
	}
}

func (s *RealtimeNotificationService) publish(ctx context.Context, event, operation string, data any, changedBy string) realtime.ChangeEvent {
	ev := realtime.NewChangeEvent(operation, data, changedBy, "")
	s.admin.Broadcast(realtime.GroupAdmins, event, ev)
	s.archiveEvent(ctx, event, ev)
	return ev
}

// archiveEvent records what was published. Best effort: an archive
// failure is logged, never surfaced to the write-path caller.
func (s *RealtimeNotificationService) archiveEvent(ctx context.Context, event string, ev realtime.ChangeEvent) {
	if s.archive == nil {
		return
	}
	payload, err := json.Marshal(ev.Data)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("event", event).Msg("Failed to marshal broadcast payload for archive")
		payload = []byte("null")
	}
	rec := &models.BroadcastArchive{
		ID:        uuid.New(),
		Event:     event,
		Operation: ev.Operation,
		Payload:   payload,
		ChangedBy: ev.ChangedBy,
		ChangeID:  ev.ChangeID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.archive.Create(rec); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("event", event).Str("change_id", ev.ChangeID).
			Msg("Failed to archive broadcast")
	}
}
