package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// ListCursor points at the last entry of the previous page.
type ListCursor struct {
	ID        snowflake.ID
	CreatedAt time.Time
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, unlock *Unlock) error
	FindByPair(ctx context.Context, db *gorm.DB, requesterID, workerID snowflake.ID) (*Unlock, error)
	ListByRequester(ctx context.Context, db *gorm.DB, requesterID snowflake.ID, cursor *ListCursor, limit int) ([]*LedgerEntry, error)
}
