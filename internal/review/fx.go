package review

import (
	"github.com/househelp/househelp/internal/review/repository"
	"github.com/househelp/househelp/internal/review/service"
	"go.uber.org/fx"
)

var Module = fx.Module("review.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
