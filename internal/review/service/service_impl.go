package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/househelp/househelp/internal/cache"
	directorydomain "github.com/househelp/househelp/internal/directory/domain"
	"github.com/househelp/househelp/internal/observability/metrics"
	"github.com/househelp/househelp/internal/review/domain"
	"github.com/househelp/househelp/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB            *gorm.DB
	Log           *zap.Logger
	GenID         *snowflake.Node
	Repo          domain.Repository
	Directory     directorydomain.Service
	DirectoryRepo directorydomain.Repository
	Unlocks       directorydomain.UnlockChecker
	Metrics       *metrics.Metrics  `optional:"true"`
	Cache         cache.WorkerCache `optional:"true"`
}

type Service struct {
	db            *gorm.DB
	log           *zap.Logger
	genID         *snowflake.Node
	repo          domain.Repository
	directory     directorydomain.Service
	directoryRepo directorydomain.Repository
	unlocks       directorydomain.UnlockChecker
	metrics       *metrics.Metrics
	cache         cache.WorkerCache
}

func New(p Params) domain.Service {
	return &Service{
		db:            p.DB,
		log:           p.Log.Named("review.service"),
		genID:         p.GenID,
		repo:          p.Repo,
		directory:     p.Directory,
		directoryRepo: p.DirectoryRepo,
		unlocks:       p.Unlocks,
		metrics:       p.Metrics,
		cache:         p.Cache,
	}
}

func (s *Service) Submit(ctx context.Context, req domain.SubmitReviewRequest) (domain.Review, error) {
	requesterID, err := parseID(req.RequesterID)
	if err != nil {
		return domain.Review{}, err
	}
	workerID, err := parseID(req.WorkerID)
	if err != nil {
		return domain.Review{}, err
	}

	if req.Rating < 1 || req.Rating > 5 {
		return domain.Review{}, domain.ErrInvalidRating
	}

	if _, err := s.directory.ResolveUser(ctx, requesterID); err != nil {
		return domain.Review{}, err
	}
	if _, err := s.directory.ResolveWorker(ctx, workerID); err != nil {
		return domain.Review{}, err
	}

	unlocked, err := s.unlocks.IsUnlocked(ctx, requesterID, workerID)
	if err != nil {
		return domain.Review{}, err
	}
	if !unlocked {
		return domain.Review{}, domain.ErrForbidden
	}

	existing, err := s.repo.FindByPair(ctx, s.db, requesterID, workerID)
	if err != nil {
		return domain.Review{}, err
	}
	if existing != nil {
		return domain.Review{}, domain.ErrAlreadyReviewed
	}

	review := domain.Review{
		ID:          s.genID.Generate(),
		RequesterID: requesterID,
		WorkerID:    workerID,
		Rating:      req.Rating,
		Comment:     strings.TrimSpace(req.Comment),
		Tags:        strings.TrimSpace(req.Tags),
		CreatedAt:   time.Now().UTC(),
	}

	// Insert and aggregate update commit together or not at all, so the
	// stored avg/count can never drift from the review rows.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if insertErr := s.repo.Insert(ctx, tx, &review); insertErr != nil {
			if db.IsDuplicateKeyErr(insertErr) {
				return domain.ErrAlreadyReviewed
			}
			return insertErr
		}

		return s.directoryRepo.ApplyWorkerRating(ctx, tx, workerID, req.Rating)
	})
	if err != nil {
		return domain.Review{}, err
	}

	if s.cache != nil {
		s.cache.Invalidate(workerID)
	}
	s.metrics.RecordReviewSubmitted(ctx, req.Rating)
	return review, nil
}

func (s *Service) ListByWorker(ctx context.Context, req domain.ListReviewsRequest) (domain.ListReviewsResponse, error) {
	workerID, err := parseID(req.WorkerID)
	if err != nil {
		return domain.ListReviewsResponse{}, err
	}

	worker, err := s.directory.ResolveWorker(ctx, workerID)
	if err != nil {
		return domain.ListReviewsResponse{}, err
	}

	reviews, err := s.repo.ListByWorker(ctx, s.db, workerID)
	if err != nil {
		return domain.ListReviewsResponse{}, err
	}

	return domain.ListReviewsResponse{
		Reviews:     reviews,
		RatingAvg:   worker.RatingAvg,
		RatingCount: worker.RatingCount,
	}, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
