package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/DekuWorks/241RunnersAwareness-sub005/internal/models"
	"github.com/DekuWorks/241RunnersAwareness-sub005/internal/repository"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	// One named in-memory database per test; a bare ":memory:" hands
	// each pooled connection its own empty database.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.TopicSubscription{}, &models.BroadcastArchive{}))
	return db
}

func TestSetSubscriptionUpserts(t *testing.T) {
	svc := NewSubscriptionService(repository.NewSubscriptionRepo(testDB(t)))
	ctx := context.Background()

	require.NoError(t, svc.SetSubscription(ctx, "u1", "weather:houston", true, nil))
	require.NoError(t, svc.SetSubscription(ctx, "u1", "case-updates", true, nil))

	subs, err := svc.ListForUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, subs, 2)

	// Flipping an existing preference updates in place, no duplicate row.
	require.NoError(t, svc.SetSubscription(ctx, "u1", "weather:houston", false, nil))
	subs, err = svc.ListForUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, subs, 2)
	for _, sub := range subs {
		if sub.Topic == "weather:houston" {
			assert.False(t, sub.Subscribed)
		}
	}
}

func TestTopicsForUserMapsPreferences(t *testing.T) {
	svc := NewSubscriptionService(repository.NewSubscriptionRepo(testDB(t)))
	ctx := context.Background()

	require.NoError(t, svc.SetSubscription(ctx, "u1", "weather:houston", true, nil))
	require.NoError(t, svc.SetSubscription(ctx, "u1", "safety", false, nil))
	require.NoError(t, svc.SetSubscription(ctx, "u2", "safety", true, nil))

	prefs, err := svc.TopicsForUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, prefs, 2)

	byTopic := map[string]bool{}
	for _, p := range prefs {
		byTopic[p.Topic] = p.Subscribed
	}
	assert.True(t, byTopic["weather:houston"])
	assert.False(t, byTopic["safety"])
}

func TestTopicsForUserEmpty(t *testing.T) {
	svc := NewSubscriptionService(repository.NewSubscriptionRepo(testDB(t)))

	prefs, err := svc.TopicsForUser(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, prefs)
}
