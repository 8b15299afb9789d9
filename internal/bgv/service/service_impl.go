package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/househelp/househelp/internal/bgv/domain"
	"github.com/househelp/househelp/internal/config"
	directorydomain "github.com/househelp/househelp/internal/directory/domain"
	"github.com/househelp/househelp/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Repo      domain.Repository
	Directory directorydomain.Service
	Pricing   *config.PricingHolder
	Metrics   *metrics.Metrics `optional:"true"`
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	repo      domain.Repository
	directory directorydomain.Service
	pricing   *config.PricingHolder
	metrics   *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("bgv.service"),
		genID:     p.GenID,
		repo:      p.Repo,
		directory: p.Directory,
		pricing:   p.Pricing,
		metrics:   p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateBGVRequest) (domain.BGVRequest, error) {
	requesterID, err := parseID(req.RequesterID)
	if err != nil {
		return domain.BGVRequest{}, err
	}
	workerID, err := parseID(req.WorkerID)
	if err != nil {
		return domain.BGVRequest{}, err
	}

	if _, err := s.directory.ResolveUser(ctx, requesterID); err != nil {
		return domain.BGVRequest{}, err
	}
	if _, err := s.directory.ResolveWorker(ctx, workerID); err != nil {
		return domain.BGVRequest{}, err
	}

	paymentRef := strings.TrimSpace(req.PaymentReference)
	cfg := s.pricing.Get()
	if paymentRef == "" || req.Amount <= 0 || req.Amount != cfg.BGVPrice {
		return domain.BGVRequest{}, domain.ErrInvalidPayment
	}

	now := time.Now().UTC()
	request := domain.BGVRequest{
		ID:               s.genID.Generate(),
		RequesterID:      requesterID,
		WorkerID:         workerID,
		Status:           domain.StatusPending,
		Amount:           req.Amount,
		PaymentReference: paymentRef,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.repo.Insert(ctx, s.db, &request); err != nil {
		return domain.BGVRequest{}, err
	}

	s.metrics.RecordBGVRequest(ctx, request.Status)
	return request, nil
}

func (s *Service) Get(ctx context.Context, req domain.GetBGVRequest) (domain.BGVRequest, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return domain.BGVRequest{}, err
	}

	request, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.BGVRequest{}, err
	}
	if request == nil {
		return domain.BGVRequest{}, domain.ErrNotFound
	}

	// Requesters only see their own verification requests.
	if requesterID := strings.TrimSpace(req.RequesterID); requesterID != "" {
		id, parseErr := parseID(requesterID)
		if parseErr != nil {
			return domain.BGVRequest{}, parseErr
		}
		if request.RequesterID != id {
			return domain.BGVRequest{}, domain.ErrNotFound
		}
	}
	return *request, nil
}

func (s *Service) UpdateStatus(ctx context.Context, req domain.UpdateBGVStatusRequest) (domain.BGVRequest, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return domain.BGVRequest{}, err
	}

	status := strings.ToLower(strings.TrimSpace(req.Status))
	switch status {
	case domain.StatusInProgress, domain.StatusCompleted, domain.StatusFailed:
	default:
		return domain.BGVRequest{}, domain.ErrInvalidStatus
	}
	if status == domain.StatusCompleted && strings.TrimSpace(req.ReportURL) == "" {
		return domain.BGVRequest{}, domain.ErrReportURLRequired
	}

	var updated domain.BGVRequest
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		request, findErr := s.repo.FindByID(ctx, tx, id)
		if findErr != nil {
			return findErr
		}
		if request == nil {
			return domain.ErrNotFound
		}
		fromStatus := request.Status
		if !domain.CanTransition(fromStatus, status) {
			return domain.ErrInvalidTransition
		}

		request.Status = status
		if status == domain.StatusCompleted {
			request.ReportURL = strings.TrimSpace(req.ReportURL)
		}
		request.UpdatedAt = time.Now().UTC()
		rows, updateErr := s.repo.UpdateFromStatus(ctx, tx, request, fromStatus)
		if updateErr != nil {
			return updateErr
		}
		// A concurrent writer moved the request between the read and
		// the write; the transition was checked against a stale status.
		if rows == 0 {
			return domain.ErrInvalidTransition
		}
		updated = *request
		return nil
	})
	if err != nil {
		return domain.BGVRequest{}, err
	}

	s.metrics.RecordBGVRequest(ctx, updated.Status)
	return updated, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
