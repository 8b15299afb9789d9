package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	InsertUser(ctx context.Context, db *gorm.DB, user *User) error
	FindUserByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*User, error)
	FindUserByPhone(ctx context.Context, db *gorm.DB, phone string) (*User, error)
	InsertWorker(ctx context.Context, db *gorm.DB, worker *Worker) error
	FindWorkerByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Worker, error)
	ApplyWorkerRating(ctx context.Context, db *gorm.DB, id snowflake.ID, rating int) error
}
