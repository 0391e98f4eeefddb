package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DekuWorks/241RunnersAwareness-sub005/internal/models"
	"github.com/DekuWorks/241RunnersAwareness-sub005/internal/realtime"
	"github.com/DekuWorks/241RunnersAwareness-sub005/internal/repository"
)

type recordingSender struct {
	mu    sync.Mutex
	fail  bool
	sends []struct {
		Event   string
		Payload any
	}
}

func (r *recordingSender) Send(event string, payload any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("transport dead")
	}
	r.sends = append(r.sends, struct {
		Event   string
		Payload any
	}{event, payload})
	return nil
}

func (r *recordingSender) find(event string) (any, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sends {
		if s.Event == event {
			return s.Payload, true
		}
	}
	return nil, false
}

type facadeFixture struct {
	svc     *RealtimeNotificationService
	admin   *realtime.AdminHub
	users   *realtime.UserHub
	alerts  *realtime.AlertHub
	archive *repository.BroadcastArchiveRepo
}

func newFacadeFixture(t *testing.T) *facadeFixture {
	t.Helper()
	archive := repository.NewBroadcastArchiveRepo(testDB(t))
	admin := realtime.NewAdminHub(nil, 5*time.Minute)
	users := realtime.NewUserHub(nil, 5*time.Minute)
	alerts := realtime.NewAlertHub(nil, 5*time.Minute, nil)
	return &facadeFixture{
		svc:     NewRealtimeNotificationService(admin, users, alerts, archive),
		admin:   admin,
		users:   users,
		alerts:  alerts,
		archive: archive,
	}
}

func connectAdmin(t *testing.T, hub *realtime.AdminHub, connID, userID string) *recordingSender {
	t.Helper()
	sender := &recordingSender{}
	err := hub.Connect(context.Background(), connID, realtime.Identity{
		UserID: userID, Email: userID + "@example.com", FirstName: "Admin", Role: "admin",
	}, sender)
	require.NoError(t, err)
	return sender
}

func TestBroadcastRunnerChangeReachesAdmins(t *testing.T) {
	f := newFacadeFixture(t)
	dashboard := connectAdmin(t, f.admin, "c1", "1")

	ev := f.svc.BroadcastRunnerChange(context.Background(), "updated", map[string]any{"id": 7}, "Alice")

	payload, ok := dashboard.find("RunnerChanged")
	require.True(t, ok)
	received := payload.(realtime.ChangeEvent)
	assert.Equal(t, "updated", received.Operation)
	assert.Equal(t, "Alice", received.ChangedBy)
	assert.Equal(t, ev.ChangeID, received.ChangeID)
}

func TestBroadcastArchivesPublish(t *testing.T) {
	f := newFacadeFixture(t)

	// No connections at all: publish still succeeds and is archived.
	ev := f.svc.BroadcastUserChange(context.Background(), "created", map[string]any{"id": 3}, "Bob")

	records, err := f.archive.Recent(10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "UserChanged", records[0].Event)
	assert.Equal(t, "created", records[0].Operation)
	assert.Equal(t, "Bob", records[0].ChangedBy)
	assert.Equal(t, ev.ChangeID, records[0].ChangeID)
}

func TestSendCaseUpdateTargetsOneUser(t *testing.T) {
	f := newFacadeFixture(t)

	target := &recordingSender{}
	bystander := &recordingSender{}
	require.NoError(t, f.users.Connect(context.Background(), "c1", realtime.Identity{UserID: "7", Role: "user"}, target))
	require.NoError(t, f.users.Connect(context.Background(), "c2", realtime.Identity{UserID: "8", Role: "user"}, bystander))

	f.svc.SendCaseUpdate(context.Background(), "7", "status", map[string]any{"caseId": 12}, "Dispatcher")

	_, ok := target.find("CaseUpdate")
	assert.True(t, ok)
	_, ok = bystander.find("CaseUpdate")
	assert.False(t, ok)
}

func TestRaiseEmergencyAlertFansOutEverywhere(t *testing.T) {
	f := newFacadeFixture(t)
	alertClient := &recordingSender{}
	adminClient := connectAdmin(t, f.admin, "a1", "1")
	require.NoError(t, f.alerts.Connect(context.Background(), "c1", realtime.Identity{UserID: "7", Role: "user"}, alertClient))

	f.svc.RaiseEmergencyAlert(context.Background(), "raised", map[string]any{"region": "houston"}, "Dispatch")

	_, ok := alertClient.find("EmergencyAlert")
	assert.True(t, ok)
	_, ok = adminClient.find("EmergencyAlert")
	assert.True(t, ok)
}

func TestFacadeAccessors(t *testing.T) {
	f := newFacadeFixture(t)
	connectAdmin(t, f.admin, "c1", "1")
	connectAdmin(t, f.admin, "c2", "2")

	assert.Equal(t, 2, f.svc.GetConnectionCount())
	assert.Len(t, f.svc.GetAdminConnections(), 2)
	assert.Equal(t, map[string]int{"admin": 2, "user": 0, "alerts": 0}, f.svc.Stats())
}

func TestArchiveServiceRecentClampsLimit(t *testing.T) {
	archive := repository.NewBroadcastArchiveRepo(testDB(t))
	svc := NewArchiveService(archive)
	require.NoError(t, archive.Create(&models.BroadcastArchive{ID: uuid.New(), Event: "UserChanged", ChangeID: "x"}))

	records, err := svc.Recent(context.Background(), "not-a-number")
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
