package accesslog

import (
	"github.com/househelp/househelp/internal/accesslog/repository"
	"github.com/househelp/househelp/internal/accesslog/service"
	"go.uber.org/fx"
)

var Module = fx.Module("accesslog.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
