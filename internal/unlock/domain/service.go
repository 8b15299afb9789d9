package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/househelp/househelp/pkg/db/pagination"
)

type RequestUnlockRequest struct {
	RequesterID      string
	WorkerID         string
	PaymentReference string
	Amount           int64
}

type UnlockResponse struct {
	WorkerID        snowflake.ID `json:"worker_id"`
	WorkerName      string       `json:"worker_name"`
	Phone           string       `json:"phone"`
	Disclaimer      string       `json:"disclaimer"`
	Amount          int64        `json:"amount"`
	UnlockedAt      time.Time    `json:"unlocked_at"`
	AlreadyUnlocked bool         `json:"already_unlocked"`
}

type ListUnlocksRequest struct {
	RequesterID string
	PageToken   string
	PageSize    int32
}

type ListUnlocksResponse struct {
	pagination.PageInfo
	Unlocks []LedgerEntry `json:"unlocks"`
}

type Service interface {
	RequestUnlock(context.Context, RequestUnlockRequest) (UnlockResponse, error)
	ListByRequester(context.Context, ListUnlocksRequest) (ListUnlocksResponse, error)
	IsUnlocked(ctx context.Context, requesterID, workerID snowflake.ID) (bool, error)
}

var (
	ErrInvalidID        = errors.New("invalid_id")
	ErrInvalidPayment   = errors.New("invalid_payment")
	ErrInvalidPageToken = errors.New("invalid_page_token")
	ErrNotFound         = errors.New("not_found")
)
