package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type RecordRequest struct {
	RequesterID      snowflake.ID
	WorkerID         snowflake.ID
	Outcome          string
	PaymentReference string
	ClientIP         string
	UserAgent        string
}

// Recorder appends contact access entries. Callers treat failures as
// non-fatal; the unlock itself must not depend on the audit write.
type Recorder interface {
	Record(ctx context.Context, req RecordRequest) error
	ListByPair(ctx context.Context, requesterID, workerID snowflake.ID) ([]ContactAccessLog, error)
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, entry *ContactAccessLog) error
	FindByPair(ctx context.Context, db *gorm.DB, requesterID, workerID snowflake.ID) ([]ContactAccessLog, error)
}
