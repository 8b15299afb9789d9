package favorite

import (
	"github.com/househelp/househelp/internal/favorite/domain"
	"github.com/househelp/househelp/internal/favorite/service"
	"github.com/househelp/househelp/pkg/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("favorite.service",
	fx.Provide(repository.ProvideStore[domain.Favorite]),
	fx.Provide(service.New),
)
