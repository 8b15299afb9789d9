package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type SubmitReviewRequest struct {
	RequesterID string
	WorkerID    string
	Rating      int
	Comment     string
	Tags        string
}

type ListReviewsRequest struct {
	WorkerID string
}

type ListReviewsResponse struct {
	Reviews     []WorkerReview `json:"reviews"`
	RatingAvg   float64        `json:"rating_avg"`
	RatingCount int            `json:"rating_count"`
}

type Service interface {
	Submit(context.Context, SubmitReviewRequest) (Review, error)
	ListByWorker(context.Context, ListReviewsRequest) (ListReviewsResponse, error)
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, review *Review) error
	FindByPair(ctx context.Context, db *gorm.DB, requesterID, workerID snowflake.ID) (*Review, error)
	ListByWorker(ctx context.Context, db *gorm.DB, workerID snowflake.ID) ([]WorkerReview, error)
}

var (
	ErrInvalidID       = errors.New("invalid_id")
	ErrInvalidRating   = errors.New("invalid_rating")
	ErrForbidden       = errors.New("forbidden")
	ErrAlreadyReviewed = errors.New("already_reviewed")
)
