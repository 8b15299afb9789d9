package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/househelp/househelp/internal/cache"
	"github.com/househelp/househelp/internal/config"
	"github.com/househelp/househelp/internal/directory/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	Repo    domain.Repository
	Pricing *config.PricingHolder
	Unlocks domain.UnlockChecker
	Cache   cache.WorkerCache `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	repo    domain.Repository
	pricing *config.PricingHolder
	unlocks domain.UnlockChecker
	cache   cache.WorkerCache
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("directory.service"),
		repo:    p.Repo,
		pricing: p.Pricing,
		unlocks: p.Unlocks,
		cache:   p.Cache,
	}
}

func (s *Service) ResolveUser(ctx context.Context, id snowflake.ID) (*domain.User, error) {
	if id == 0 {
		return nil, domain.ErrUserNotFound
	}
	user, err := s.repo.FindUserByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (s *Service) ResolveWorker(ctx context.Context, id snowflake.ID) (*domain.Worker, error) {
	if id == 0 {
		return nil, domain.ErrWorkerNotFound
	}
	if s.cache != nil {
		if worker, ok := s.cache.Get(id); ok {
			return worker, nil
		}
	}
	worker, err := s.repo.FindWorkerByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if worker == nil || !worker.Active {
		return nil, domain.ErrWorkerNotFound
	}
	if s.cache != nil {
		s.cache.Set(id, worker)
	}
	return worker, nil
}

func (s *Service) GetWorkerProfile(ctx context.Context, req domain.GetWorkerProfileRequest) (domain.WorkerProfile, error) {
	callerID, err := parseID(req.CallerID)
	if err != nil {
		return domain.WorkerProfile{}, err
	}
	workerID, err := parseID(req.WorkerID)
	if err != nil {
		return domain.WorkerProfile{}, err
	}

	worker, err := s.ResolveWorker(ctx, workerID)
	if err != nil {
		return domain.WorkerProfile{}, err
	}

	unlocked, err := s.unlocks.IsUnlocked(ctx, callerID, workerID)
	if err != nil {
		return domain.WorkerProfile{}, err
	}

	cfg := s.pricing.Get()
	profile := domain.WorkerProfile{
		Worker:   *worker,
		Phone:    cfg.MaskedPhone,
		Unlocked: unlocked,
	}
	if unlocked {
		profile.Phone = worker.Phone
		profile.Disclaimer = cfg.Disclaimer
	}
	return profile, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
