package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository is a thin generic gorm store used by the simpler domains
// (favorites, access log) whose queries never go beyond filter + order.
type Repository[T any] interface {
	WithTrx(tx *gorm.DB) Repository[T]
	Find(ctx context.Context, query *T, order string) ([]*T, error)
	FindOne(ctx context.Context, query *T) (*T, error)
	Create(ctx context.Context, resource *T) error
	Delete(ctx context.Context, query *T) (int64, error)
	Count(ctx context.Context, query *T) (int64, error)
}
