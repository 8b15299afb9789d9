package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/househelp/househelp/internal/accesslog/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Recorder {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("accesslog.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Record(ctx context.Context, req domain.RecordRequest) error {
	metadata := datatypes.JSONMap{}
	if ip := strings.TrimSpace(req.ClientIP); ip != "" {
		metadata["client_ip"] = ip
	}
	if ua := strings.TrimSpace(req.UserAgent); ua != "" {
		metadata["user_agent"] = ua
	}

	entry := domain.ContactAccessLog{
		ID:               s.genID.Generate(),
		RequesterID:      req.RequesterID,
		WorkerID:         req.WorkerID,
		Outcome:          req.Outcome,
		PaymentReference: strings.TrimSpace(req.PaymentReference),
		Metadata:         metadata,
		CreatedAt:        time.Now().UTC(),
	}

	if err := s.repo.Insert(ctx, s.db, &entry); err != nil {
		s.log.Warn("contact access log write failed",
			zap.String("requester_id", req.RequesterID.String()),
			zap.String("worker_id", req.WorkerID.String()),
			zap.String("outcome", req.Outcome),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *Service) ListByPair(ctx context.Context, requesterID, workerID snowflake.ID) ([]domain.ContactAccessLog, error) {
	return s.repo.FindByPair(ctx, s.db, requesterID, workerID)
}
