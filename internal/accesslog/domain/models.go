package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

const (
	OutcomeCreated = "created"
	OutcomeRepeat  = "repeat"
)

// ContactAccessLog is append only. Rows are never updated or deleted,
// so repeated unlock attempts stay visible for audit.
type ContactAccessLog struct {
	ID               snowflake.ID      `gorm:"primaryKey" json:"id"`
	RequesterID      snowflake.ID      `gorm:"not null;index:ix_contact_access_log_pair,priority:1" json:"requester_id"`
	WorkerID         snowflake.ID      `gorm:"not null;index:ix_contact_access_log_pair,priority:2" json:"worker_id"`
	Outcome          string            `gorm:"not null" json:"outcome"`
	PaymentReference string            `json:"payment_reference,omitempty"`
	Metadata         datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt        time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (ContactAccessLog) TableName() string { return "contact_access_log" }
