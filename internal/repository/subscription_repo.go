package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/DekuWorks/241RunnersAwareness-sub005/internal/models"
)

type SubscriptionRepo struct {
	db *gorm.DB
}

func NewSubscriptionRepo(db *gorm.DB) *SubscriptionRepo {
	return &SubscriptionRepo{db: db}
}

// ListForUser returns every subscription row for a user, active or not.
func (r *SubscriptionRepo) ListForUser(userID string) ([]models.TopicSubscription, error) {
	var subs []models.TopicSubscription
	err := r.db.Where("user_id = ?", userID).Order("topic").Find(&subs).Error
	return subs, err
}

// Upsert creates or updates the (user, topic) preference row.
func (r *SubscriptionRepo) Upsert(sub *models.TopicSubscription) error {
	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "topic"}},
		DoUpdates: clause.AssignmentColumns([]string{"subscribed", "filters", "updated_at"}),
	}).Create(sub).Error
}
