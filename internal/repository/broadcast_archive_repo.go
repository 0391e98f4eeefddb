package repository

import (
	"gorm.io/gorm"

	"github.com/DekuWorks/241RunnersAwareness-sub005/internal/models"
)

type BroadcastArchiveRepo struct {
	db *gorm.DB
}

func NewBroadcastArchiveRepo(db *gorm.DB) *BroadcastArchiveRepo {
	return &BroadcastArchiveRepo{db: db}
}

// Create inserts one archive record.
func (r *BroadcastArchiveRepo) Create(rec *models.BroadcastArchive) error {
	return r.db.Create(rec).Error
}

// Recent returns the newest archive records, for the admin audit view.
func (r *BroadcastArchiveRepo) Recent(limit int) ([]models.BroadcastArchive, error) {
	var records []models.BroadcastArchive
	err := r.db.Order("created_at DESC").Limit(limit).Find(&records).Error
	return records, err
}
