package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Lead is a paying customer who unlocked the worker's contact.
type Lead struct {
	UnlockID      snowflake.ID `json:"unlock_id"`
	RequesterID   snowflake.ID `json:"requester_id"`
	RequesterName string       `json:"requester_name"`
	RequesterCity string       `json:"requester_city,omitempty"`
	UnlockedAt    time.Time    `gorm:"column:created_at" json:"unlocked_at"`
}

type ListLeadsRequest struct {
	WorkerID string
}

type ListLeadsResponse struct {
	Leads []Lead `json:"leads"`
}

type Service interface {
	ListForWorker(context.Context, ListLeadsRequest) (ListLeadsResponse, error)
}

type Repository interface {
	ListByWorker(ctx context.Context, db *gorm.DB, workerID snowflake.ID) ([]Lead, error)
}

var ErrInvalidID = errors.New("invalid_id")
