package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type CreateBGVRequest struct {
	RequesterID      string
	WorkerID         string
	PaymentReference string
	Amount           int64
}

type GetBGVRequest struct {
	ID          string
	RequesterID string
}

type UpdateBGVStatusRequest struct {
	ID        string
	Status    string
	ReportURL string
}

type Service interface {
	Create(context.Context, CreateBGVRequest) (BGVRequest, error)
	Get(context.Context, GetBGVRequest) (BGVRequest, error)
	UpdateStatus(context.Context, UpdateBGVStatusRequest) (BGVRequest, error)
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, request *BGVRequest) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*BGVRequest, error)
	UpdateFromStatus(ctx context.Context, db *gorm.DB, request *BGVRequest, fromStatus string) (int64, error)
}

var (
	ErrInvalidID         = errors.New("invalid_id")
	ErrNotFound          = errors.New("not_found")
	ErrInvalidPayment    = errors.New("invalid_payment")
	ErrInvalidStatus     = errors.New("invalid_status")
	ErrInvalidTransition = errors.New("invalid_transition")
	ErrReportURLRequired = errors.New("report_url_required")
)
