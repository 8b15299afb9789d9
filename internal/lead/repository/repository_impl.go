package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/househelp/househelp/internal/lead/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) ListByWorker(ctx context.Context, db *gorm.DB, workerID snowflake.ID) ([]domain.Lead, error) {
	var leads []domain.Lead
	err := db.WithContext(ctx).
		Table("unlocks").
		Select(`unlocks.id AS unlock_id, unlocks.requester_id, unlocks.created_at,
			users.name AS requester_name, users.city AS requester_city`).
		Joins("JOIN users ON users.id = unlocks.requester_id").
		Where("unlocks.worker_id = ?", workerID).
		Order("unlocks.created_at desc, unlocks.id desc").
		Find(&leads).Error
	if err != nil {
		return nil, err
	}
	return leads, nil
}
