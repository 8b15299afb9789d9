package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

type BGVRequest struct {
	ID               snowflake.ID `gorm:"primaryKey" json:"id"`
	RequesterID      snowflake.ID `gorm:"not null;index:ix_bgv_requests_requester" json:"requester_id"`
	WorkerID         snowflake.ID `gorm:"not null" json:"worker_id"`
	Status           string       `gorm:"not null;default:pending" json:"status"`
	ReportURL        string       `json:"report_url,omitempty"`
	Amount           int64        `gorm:"not null" json:"amount"`
	PaymentReference string       `gorm:"not null" json:"payment_reference"`
	CreatedAt        time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (BGVRequest) TableName() string { return "bgv_requests" }

// CanTransition reports whether a status change is allowed. Requests
// move from pending to in_progress to completed or failed, and nothing
// leaves a terminal state.
func CanTransition(from, to string) bool {
	switch from {
	case StatusPending:
		return to == StatusInProgress || to == StatusFailed
	case StatusInProgress:
		return to == StatusCompleted || to == StatusFailed
	default:
		return false
	}
}
