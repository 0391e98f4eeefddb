package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"

	"github.com/DekuWorks/241RunnersAwareness-sub005/internal/models"
	"github.com/DekuWorks/241RunnersAwareness-sub005/internal/realtime"
	"github.com/DekuWorks/241RunnersAwareness-sub005/internal/repository"
)

// SubscriptionService is the topic-preference store the hubs consult
// at connect time. It also backs the subscription REST endpoints.
type SubscriptionService struct {
	repo *repository.SubscriptionRepo
}

func NewSubscriptionService(repo *repository.SubscriptionRepo) *SubscriptionService {
	return &SubscriptionService{repo: repo}
}

// TopicsForUser implements realtime.SubscriptionSource.
func (s *SubscriptionService) TopicsForUser(ctx context.Context, userID string) ([]realtime.TopicPreference, error) {
	subs, err := s.repo.ListForUser(userID)
	if err != nil {
		return nil, fmt.Errorf("list topic subscriptions: %w", err)
	}
	prefs := make([]realtime.TopicPreference, 0, len(subs))
	for _, sub := range subs {
		prefs = append(prefs, realtime.TopicPreference{
			Topic:      sub.Topic,
			Subscribed: sub.Subscribed,
		})
	}
	return prefs, nil
}

// ListForUser returns the raw subscription rows for the REST surface.
func (s *SubscriptionService) ListForUser(ctx context.Context, userID string) ([]models.TopicSubscription, error) {
	subs, err := s.repo.ListForUser(userID)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("user_id", userID).Msg("Failed to list subscriptions")
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	return subs, nil
}

// SetSubscription upserts one (user, topic) preference. The change
// takes effect on the user's next connect; live sessions adjust via
// the hub's join/leave operations.
func (s *SubscriptionService) SetSubscription(ctx context.Context, userID, topic string, subscribed bool, filters datatypes.JSON) error {
	sub := &models.TopicSubscription{
		UserID:     userID,
		Topic:      topic,
		Subscribed: subscribed,
		Filters:    filters,
	}
	if err := s.repo.Upsert(sub); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("user_id", userID).Str("topic", topic).
			Msg("Failed to upsert subscription")
		return fmt.Errorf("set subscription: %w", err)
	}
	return nil
}
