package unlock

import (
	"context"

	"github.com/bwmarrin/snowflake"
	directorydomain "github.com/househelp/househelp/internal/directory/domain"
	"github.com/househelp/househelp/internal/unlock/domain"
	"github.com/househelp/househelp/internal/unlock/repository"
	"github.com/househelp/househelp/internal/unlock/service"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("unlock.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
	fx.Provide(provideChecker),
)

// provideChecker exposes unlock membership to the directory without a
// dependency cycle through the services.
func provideChecker(conn *gorm.DB, repo domain.Repository) directorydomain.UnlockChecker {
	return &checker{db: conn, repo: repo}
}

type checker struct {
	db   *gorm.DB
	repo domain.Repository
}

func (c *checker) IsUnlocked(ctx context.Context, requesterID, workerID snowflake.ID) (bool, error) {
	if requesterID == 0 || workerID == 0 {
		return false, nil
	}
	unlock, err := c.repo.FindByPair(ctx, c.db, requesterID, workerID)
	if err != nil {
		return false, err
	}
	return unlock != nil, nil
}
