package lead

import (
	"github.com/househelp/househelp/internal/lead/repository"
	"github.com/househelp/househelp/internal/lead/service"
	"go.uber.org/fx"
)

var Module = fx.Module("lead.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
