package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	directorydomain "github.com/househelp/househelp/internal/directory/domain"
	"github.com/househelp/househelp/internal/lead/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	Repo      domain.Repository
	Directory directorydomain.Service
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	repo      domain.Repository
	directory directorydomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("lead.service"),
		repo:      p.Repo,
		directory: p.Directory,
	}
}

func (s *Service) ListForWorker(ctx context.Context, req domain.ListLeadsRequest) (domain.ListLeadsResponse, error) {
	workerID, err := parseID(req.WorkerID)
	if err != nil {
		return domain.ListLeadsResponse{}, err
	}

	if _, err := s.directory.ResolveWorker(ctx, workerID); err != nil {
		return domain.ListLeadsResponse{}, err
	}

	leads, err := s.repo.ListByWorker(ctx, s.db, workerID)
	if err != nil {
		return domain.ListLeadsResponse{}, err
	}
	return domain.ListLeadsResponse{Leads: leads}, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
