package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	directorydomain "github.com/househelp/househelp/internal/directory/domain"
	"github.com/househelp/househelp/internal/favorite/domain"
	"github.com/househelp/househelp/pkg/db"
	"github.com/househelp/househelp/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log       *zap.Logger
	GenID     *snowflake.Node
	Store     repository.Repository[domain.Favorite]
	Directory directorydomain.Service
}

type Service struct {
	log       *zap.Logger
	genID     *snowflake.Node
	store     repository.Repository[domain.Favorite]
	directory directorydomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		log:       p.Log.Named("favorite.service"),
		genID:     p.GenID,
		store:     p.Store,
		directory: p.Directory,
	}
}

func (s *Service) Add(ctx context.Context, req domain.AddFavoriteRequest) (domain.AddFavoriteResponse, error) {
	userID, err := parseID(req.UserID)
	if err != nil {
		return domain.AddFavoriteResponse{}, err
	}
	workerID, err := parseID(req.WorkerID)
	if err != nil {
		return domain.AddFavoriteResponse{}, err
	}

	if _, err := s.directory.ResolveUser(ctx, userID); err != nil {
		return domain.AddFavoriteResponse{}, err
	}
	if _, err := s.directory.ResolveWorker(ctx, workerID); err != nil {
		return domain.AddFavoriteResponse{}, err
	}

	existing, err := s.store.FindOne(ctx, &domain.Favorite{UserID: userID, WorkerID: workerID})
	if err != nil {
		return domain.AddFavoriteResponse{}, err
	}
	if existing != nil {
		return domain.AddFavoriteResponse{Favorite: *existing, AlreadySaved: true}, nil
	}

	favorite := domain.Favorite{
		ID:        s.genID.Generate(),
		UserID:    userID,
		WorkerID:  workerID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.Create(ctx, &favorite); err != nil {
		if db.IsDuplicateKeyErr(err) {
			winner, findErr := s.store.FindOne(ctx, &domain.Favorite{UserID: userID, WorkerID: workerID})
			if findErr == nil && winner != nil {
				return domain.AddFavoriteResponse{Favorite: *winner, AlreadySaved: true}, nil
			}
		}
		return domain.AddFavoriteResponse{}, err
	}
	return domain.AddFavoriteResponse{Favorite: favorite}, nil
}

func (s *Service) Remove(ctx context.Context, req domain.RemoveFavoriteRequest) error {
	userID, err := parseID(req.UserID)
	if err != nil {
		return err
	}
	workerID, err := parseID(req.WorkerID)
	if err != nil {
		return err
	}

	affected, err := s.store.Delete(ctx, &domain.Favorite{UserID: userID, WorkerID: workerID})
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Service) List(ctx context.Context, req domain.ListFavoritesRequest) (domain.ListFavoritesResponse, error) {
	userID, err := parseID(req.UserID)
	if err != nil {
		return domain.ListFavoritesResponse{}, err
	}

	items, err := s.store.Find(ctx, &domain.Favorite{UserID: userID}, "created_at desc")
	if err != nil {
		return domain.ListFavoritesResponse{}, err
	}

	favorites := make([]domain.Favorite, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		favorites = append(favorites, *item)
	}
	return domain.ListFavoritesResponse{Favorites: favorites}, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
