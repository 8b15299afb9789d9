package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/househelp/househelp/internal/unlock/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, unlock *domain.Unlock) error {
	return db.WithContext(ctx).Create(unlock).Error
}

func (r *repo) FindByPair(ctx context.Context, db *gorm.DB, requesterID, workerID snowflake.ID) (*domain.Unlock, error) {
	var unlock domain.Unlock
	err := db.WithContext(ctx).Raw(
		`SELECT id, requester_id, worker_id, payment_reference, amount, created_at
		 FROM unlocks WHERE requester_id = ? AND worker_id = ?`,
		requesterID,
		workerID,
	).Scan(&unlock).Error
	if err != nil {
		return nil, err
	}
	if unlock.ID == 0 {
		return nil, nil
	}
	return &unlock, nil
}

func (r *repo) ListByRequester(ctx context.Context, db *gorm.DB, requesterID snowflake.ID, cursor *domain.ListCursor, limit int) ([]*domain.LedgerEntry, error) {
	var entries []*domain.LedgerEntry
	stmt := db.WithContext(ctx).
		Table("unlocks").
		Select(`unlocks.id, unlocks.requester_id, unlocks.worker_id,
			unlocks.payment_reference, unlocks.amount, unlocks.created_at,
			workers.name AS worker_name, workers.category AS worker_category,
			workers.city AS worker_city, workers.phone AS worker_phone`).
		Joins("JOIN workers ON workers.id = unlocks.worker_id").
		Where("unlocks.requester_id = ?", requesterID)

	if cursor != nil {
		stmt = stmt.Where(
			"unlocks.created_at < ? OR (unlocks.created_at = ? AND unlocks.id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	err := stmt.
		Order("unlocks.created_at desc, unlocks.id desc").
		Limit(limit + 1).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
