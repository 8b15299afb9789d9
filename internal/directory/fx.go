package directory

import (
	"github.com/househelp/househelp/internal/cache"
	"github.com/househelp/househelp/internal/directory/repository"
	"github.com/househelp/househelp/internal/directory/service"
	"go.uber.org/fx"
)

var Module = fx.Module("directory.service",
	fx.Provide(repository.Provide),
	fx.Provide(cache.NewWorkerCache),
	fx.Provide(service.New),
)
