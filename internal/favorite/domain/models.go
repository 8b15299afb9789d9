package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Favorite struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID    snowflake.ID `gorm:"not null;uniqueIndex:ux_favorites_user_worker,priority:1" json:"user_id"`
	WorkerID  snowflake.ID `gorm:"not null;uniqueIndex:ux_favorites_user_worker,priority:2" json:"worker_id"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Favorite) TableName() string { return "favorites" }
