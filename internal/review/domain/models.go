package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Review struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	RequesterID snowflake.ID `gorm:"not null;uniqueIndex:ux_reviews_requester_worker,priority:1" json:"requester_id"`
	WorkerID    snowflake.ID `gorm:"not null;uniqueIndex:ux_reviews_requester_worker,priority:2;index:ix_reviews_worker" json:"worker_id"`
	Rating      int          `gorm:"not null" json:"rating"`
	Comment     string       `json:"comment,omitempty"`
	Tags        string       `json:"tags,omitempty"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Review) TableName() string { return "reviews" }

// WorkerReview is a review row joined with the reviewer's display name.
type WorkerReview struct {
	Review
	ReviewerName string `json:"reviewer_name"`
	ReviewerCity string `json:"reviewer_city,omitempty"`
}
