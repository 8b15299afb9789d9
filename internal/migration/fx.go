package migration

import (
	"strings"

	accesslogdomain "github.com/househelp/househelp/internal/accesslog/domain"
	bgvdomain "github.com/househelp/househelp/internal/bgv/domain"
	"github.com/househelp/househelp/internal/config"
	directorydomain "github.com/househelp/househelp/internal/directory/domain"
	favoritedomain "github.com/househelp/househelp/internal/favorite/domain"
	reviewdomain "github.com/househelp/househelp/internal/review/domain"
	"github.com/househelp/househelp/internal/seed"
	unlockdomain "github.com/househelp/househelp/internal/unlock/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if strings.EqualFold(cfg.DBType, "postgres") {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// SQLite and MySQL run from the model definitions directly;
			// versioned SQL migrations target the postgres deployment.
			if err := conn.AutoMigrate(
				&directorydomain.User{},
				&directorydomain.Worker{},
				&unlockdomain.Unlock{},
				&accesslogdomain.ContactAccessLog{},
				&reviewdomain.Review{},
				&favoritedomain.Favorite{},
				&bgvdomain.BGVRequest{},
			); err != nil {
				return err
			}
		}

		if isDevEnv(cfg.Environment) {
			return seed.EnsureDemoData(conn)
		}
		return nil
	}),
)

func isDevEnv(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "development", "local":
		return true
	default:
		return false
	}
}
