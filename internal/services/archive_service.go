package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/DekuWorks/241RunnersAwareness-sub005/internal/models"
	"github.com/DekuWorks/241RunnersAwareness-sub005/internal/repository"
)

// ArchiveService serves the broadcast audit trail.
type ArchiveService struct {
	repo *repository.BroadcastArchiveRepo
}

func NewArchiveService(repo *repository.BroadcastArchiveRepo) *ArchiveService {
	return &ArchiveService{repo: repo}
}

// Recent returns the newest archive records; limitStr comes straight
// from the query string and is clamped to a sane range.
func (s *ArchiveService) Recent(ctx context.Context, limitStr string) ([]models.BroadcastArchive, error) {
	limit, _ := strconv.Atoi(limitStr)
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	records, err := s.repo.Recent(limit)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("Failed to read broadcast archive")
		return nil, fmt.Errorf("read broadcast archive: %w", err)
	}
	return records, nil
}
