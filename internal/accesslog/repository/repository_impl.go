package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/househelp/househelp/internal/accesslog/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, entry *domain.ContactAccessLog) error {
	return db.WithContext(ctx).Create(entry).Error
}

func (r *repo) FindByPair(ctx context.Context, db *gorm.DB, requesterID, workerID snowflake.ID) ([]domain.ContactAccessLog, error) {
	var entries []domain.ContactAccessLog
	err := db.WithContext(ctx).
		Model(&domain.ContactAccessLog{}).
		Where("requester_id = ? AND worker_id = ?", requesterID, workerID).
		Order("created_at desc, id desc").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
