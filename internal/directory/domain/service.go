package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

// WorkerProfile is the outward-facing worker view. Phone is the masked
// constant unless the caller has unlocked this worker.
type WorkerProfile struct {
	Worker
	Phone      string `json:"phone"`
	Unlocked   bool   `json:"unlocked"`
	Disclaimer string `json:"disclaimer,omitempty"`
}

type GetWorkerProfileRequest struct {
	CallerID string
	WorkerID string
}

// UnlockChecker reports whether a requester already paid for a
// worker's contact.
type UnlockChecker interface {
	IsUnlocked(ctx context.Context, requesterID, workerID snowflake.ID) (bool, error)
}

type Service interface {
	ResolveUser(ctx context.Context, id snowflake.ID) (*User, error)
	ResolveWorker(ctx context.Context, id snowflake.ID) (*Worker, error)
	GetWorkerProfile(ctx context.Context, req GetWorkerProfileRequest) (WorkerProfile, error)
}

var (
	ErrUserNotFound   = errors.New("user_not_found")
	ErrWorkerNotFound = errors.New("worker_not_found")
	ErrInvalidID      = errors.New("invalid_id")
)
