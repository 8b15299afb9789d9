package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	accesslogdomain "github.com/househelp/househelp/internal/accesslog/domain"
	"github.com/househelp/househelp/internal/config"
	directorydomain "github.com/househelp/househelp/internal/directory/domain"
	obscontext "github.com/househelp/househelp/internal/observability/context"
	"github.com/househelp/househelp/internal/observability/metrics"
	"github.com/househelp/househelp/internal/ratelimit"
	"github.com/househelp/househelp/internal/unlock/domain"
	"github.com/househelp/househelp/pkg/db"
	"github.com/househelp/househelp/pkg/db/pagination"
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
	Recorder  accesslogdomain.Recorder
	Pricing   *config.PricingHolder
	Metrics   *metrics.Metrics         `optional:"true"`
	Limiter   *ratelimit.UnlockLimiter `optional:"true"`
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	repo      domain.Repository
	directory directorydomain.Service
	recorder  accesslogdomain.Recorder
	pricing   *config.PricingHolder
	metrics   *metrics.Metrics
	limiter   *ratelimit.UnlockLimiter
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("unlock.service"),
		genID:     p.GenID,
		repo:      p.Repo,
		directory: p.Directory,
		recorder:  p.Recorder,
		pricing:   p.Pricing,
		metrics:   p.Metrics,
		limiter:   p.Limiter,
	}
}

func (s *Service) RequestUnlock(ctx context.Context, req domain.RequestUnlockRequest) (domain.UnlockResponse, error) {
	requesterID, err := parseID(req.RequesterID)
	if err != nil {
		return domain.UnlockResponse{}, err
	}
	workerID, err := parseID(req.WorkerID)
	if err != nil {
		return domain.UnlockResponse{}, err
	}

	if _, err := s.directory.ResolveUser(ctx, requesterID); err != nil {
		return domain.UnlockResponse{}, err
	}
	worker, err := s.directory.ResolveWorker(ctx, workerID)
	if err != nil {
		return domain.UnlockResponse{}, err
	}

	paymentRef := strings.TrimSpace(req.PaymentReference)
	cfg := s.pricing.Get()
	if paymentRef == "" || req.Amount <= 0 || req.Amount != cfg.UnlockPrice {
		return domain.UnlockResponse{}, domain.ErrInvalidPayment
	}

	// Best-effort serialization of concurrent attempts on one pair.
	// The unique index remains the source of truth either way.
	release, _ := s.limiter.LockPair(ctx, req.RequesterID, req.WorkerID)
	defer release()

	existing, err := s.repo.FindByPair(ctx, s.db, requesterID, workerID)
	if err != nil {
		return domain.UnlockResponse{}, err
	}
	if existing != nil {
		s.appendAccessLog(ctx, requesterID, workerID, accesslogdomain.OutcomeRepeat, paymentRef)
		return s.response(ctx, worker, existing, cfg.Disclaimer, true), nil
	}

	unlock := domain.Unlock{
		ID:               s.genID.Generate(),
		RequesterID:      requesterID,
		WorkerID:         workerID,
		PaymentReference: paymentRef,
		Amount:           req.Amount,
		CreatedAt:        time.Now().UTC(),
	}

	if insertErr := s.repo.Insert(ctx, s.db, &unlock); insertErr != nil {
		if !db.IsDuplicateKeyErr(insertErr) {
			return domain.UnlockResponse{}, insertErr
		}
		// Lost the insert race; the winner's row is authoritative.
		winner, findErr := s.repo.FindByPair(ctx, s.db, requesterID, workerID)
		if findErr != nil {
			return domain.UnlockResponse{}, findErr
		}
		if winner == nil {
			return domain.UnlockResponse{}, insertErr
		}
		s.appendAccessLog(ctx, requesterID, workerID, accesslogdomain.OutcomeRepeat, paymentRef)
		return s.response(ctx, worker, winner, cfg.Disclaimer, true), nil
	}

	s.appendAccessLog(ctx, requesterID, workerID, accesslogdomain.OutcomeCreated, paymentRef)
	return s.response(ctx, worker, &unlock, cfg.Disclaimer, false), nil
}

func (s *Service) ListByRequester(ctx context.Context, req domain.ListUnlocksRequest) (domain.ListUnlocksResponse, error) {
	requesterID, err := parseID(req.RequesterID)
	if err != nil {
		return domain.ListUnlocksResponse{}, err
	}

	var cursor *domain.ListCursor
	if strings.TrimSpace(req.PageToken) != "" {
		decoded, decodeErr := pagination.DecodeCursor(req.PageToken)
		if decodeErr != nil {
			return domain.ListUnlocksResponse{}, domain.ErrInvalidPageToken
		}
		createdAt, parseErr := time.Parse(time.RFC3339, decoded.CreatedAt)
		if parseErr != nil {
			return domain.ListUnlocksResponse{}, domain.ErrInvalidPageToken
		}
		id, idErr := snowflake.ParseString(strings.TrimSpace(decoded.ID))
		if idErr != nil || id == 0 {
			return domain.ListUnlocksResponse{}, domain.ErrInvalidPageToken
		}
		cursor = &domain.ListCursor{ID: id, CreatedAt: createdAt}
	}

	pageSize := int(req.PageSize)
	if pageSize <= 0 {
		pageSize = 20
	}

	limit := pagination.Pagination{PageSize: pageSize}.Limit()
	items, err := s.repo.ListByRequester(ctx, s.db, requesterID, cursor, limit)
	if err != nil {
		return domain.ListUnlocksResponse{}, err
	}
	pageInfo := pagination.BuildCursorPageInfo(items, limit, func(entry *domain.LedgerEntry) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        entry.ID.String(),
			CreatedAt: entry.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > limit {
		items = items[:limit]
	}

	entries := make([]domain.LedgerEntry, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		entries = append(entries, *item)
	}

	resp := domain.ListUnlocksResponse{Unlocks: entries}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

func (s *Service) IsUnlocked(ctx context.Context, requesterID, workerID snowflake.ID) (bool, error) {
	if requesterID == 0 || workerID == 0 {
		return false, nil
	}
	existing, err := s.repo.FindByPair(ctx, s.db, requesterID, workerID)
	if err != nil {
		return false, err
	}
	return existing != nil, nil
}

func (s *Service) response(ctx context.Context, worker *directorydomain.Worker, unlock *domain.Unlock, disclaimer string, already bool) domain.UnlockResponse {
	outcome := accesslogdomain.OutcomeCreated
	if already {
		outcome = accesslogdomain.OutcomeRepeat
	}
	s.metrics.RecordUnlockRequest(ctx, outcome)

	return domain.UnlockResponse{
		WorkerID:        worker.ID,
		WorkerName:      worker.Name,
		Phone:           worker.Phone,
		Disclaimer:      disclaimer,
		Amount:          unlock.Amount,
		UnlockedAt:      unlock.CreatedAt,
		AlreadyUnlocked: already,
	}
}

func (s *Service) appendAccessLog(ctx context.Context, requesterID, workerID snowflake.ID, outcome, paymentRef string) {
	// Audit trail only; an unlock never fails because of it.
	_ = s.recorder.Record(ctx, accesslogdomain.RecordRequest{
		RequesterID:      requesterID,
		WorkerID:         workerID,
		Outcome:          outcome,
		PaymentReference: paymentRef,
		ClientIP:         obscontext.ClientIPFromContext(ctx),
		UserAgent:        obscontext.UserAgentFromContext(ctx),
	})
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
