package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type User struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Phone     string       `gorm:"not null;uniqueIndex:ux_users_phone" json:"phone"`
	Name      string       `gorm:"not null" json:"name"`
	City      string       `json:"city,omitempty"`
	Role      string       `gorm:"not null;default:customer" json:"role"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (User) TableName() string { return "users" }

// Worker holds the directory profile. Phone is the real contact number
// and is never serialized; responses carry a masked or unlocked copy.
type Worker struct {
	ID              snowflake.ID `gorm:"primaryKey" json:"id"`
	Name            string       `gorm:"not null" json:"name"`
	Phone           string       `gorm:"not null;uniqueIndex:ux_workers_phone" json:"-"`
	Category        string       `gorm:"index:ix_workers_city_category,priority:2" json:"category"`
	City            string       `gorm:"index:ix_workers_city_category,priority:1" json:"city"`
	Locality        string       `json:"locality,omitempty"`
	ExpectedSalary  int64        `json:"expected_salary"`
	ExperienceYears int          `json:"experience_years"`
	Languages       string       `json:"languages,omitempty"`
	Verified        bool         `gorm:"not null;default:false" json:"verified"`
	RatingAvg       float64      `gorm:"column:rating_avg;not null;default:0" json:"rating_avg"`
	RatingCount     int          `gorm:"not null;default:0" json:"rating_count"`
	Active          bool         `gorm:"not null;default:true" json:"active"`
	CreatedAt       time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Worker) TableName() string { return "workers" }
