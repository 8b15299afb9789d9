package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Unlock records a paid contact reveal. The unique pair index is the
// source of truth for dedup: one row per (requester, worker), ever.
type Unlock struct {
	ID               snowflake.ID `gorm:"primaryKey" json:"id"`
	RequesterID      snowflake.ID `gorm:"not null;uniqueIndex:ux_unlocks_requester_worker,priority:1" json:"requester_id"`
	WorkerID         snowflake.ID `gorm:"not null;uniqueIndex:ux_unlocks_requester_worker,priority:2;index:ix_unlocks_worker" json:"worker_id"`
	PaymentReference string       `gorm:"not null" json:"payment_reference"`
	Amount           int64        `gorm:"not null" json:"amount"`
	CreatedAt        time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Unlock) TableName() string { return "unlocks" }

// LedgerEntry is an unlock row joined with worker display attributes.
type LedgerEntry struct {
	Unlock
	WorkerName     string `json:"worker_name"`
	WorkerCategory string `json:"worker_category"`
	WorkerCity     string `json:"worker_city"`
	WorkerPhone    string `json:"worker_phone"`
}
