package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/househelp/househelp/internal/review/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, review *domain.Review) error {
	return db.WithContext(ctx).Create(review).Error
}

func (r *repo) FindByPair(ctx context.Context, db *gorm.DB, requesterID, workerID snowflake.ID) (*domain.Review, error) {
	var review domain.Review
	err := db.WithContext(ctx).Raw(
		`SELECT id, requester_id, worker_id, rating, comment, tags, created_at
		 FROM reviews WHERE requester_id = ? AND worker_id = ?`,
		requesterID,
		workerID,
	).Scan(&review).Error
	if err != nil {
		return nil, err
	}
	if review.ID == 0 {
		return nil, nil
	}
	return &review, nil
}

func (r *repo) ListByWorker(ctx context.Context, db *gorm.DB, workerID snowflake.ID) ([]domain.WorkerReview, error) {
	var reviews []domain.WorkerReview
	err := db.WithContext(ctx).
		Table("reviews").
		Select(`reviews.id, reviews.requester_id, reviews.worker_id, reviews.rating,
			reviews.comment, reviews.tags, reviews.created_at,
			users.name AS reviewer_name, users.city AS reviewer_city`).
		Joins("JOIN users ON users.id = reviews.requester_id").
		Where("reviews.worker_id = ?", workerID).
		Order("reviews.created_at desc, reviews.id desc").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}
