package bgv

import (
	"github.com/househelp/househelp/internal/bgv/repository"
	"github.com/househelp/househelp/internal/bgv/service"
	"go.uber.org/fx"
)

var Module = fx.Module("bgv.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
