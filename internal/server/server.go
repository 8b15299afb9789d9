package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/househelp/househelp/internal/accesslog"
	accesslogdomain "github.com/househelp/househelp/internal/accesslog/domain"
	"github.com/househelp/househelp/internal/bgv"
	bgvdomain "github.com/househelp/househelp/internal/bgv/domain"
	"github.com/househelp/househelp/internal/config"
	"github.com/househelp/househelp/internal/directory"
	directorydomain "github.com/househelp/househelp/internal/directory/domain"
	"github.com/househelp/househelp/internal/favorite"
	favoritedomain "github.com/househelp/househelp/internal/favorite/domain"
	"github.com/househelp/househelp/internal/lead"
	leaddomain "github.com/househelp/househelp/internal/lead/domain"
	"github.com/househelp/househelp/internal/observability"
	obsmiddleware "github.com/househelp/househelp/internal/observability/logger"
	obsmetrics "github.com/househelp/househelp/internal/observability/metrics"
	obstracing "github.com/househelp/househelp/internal/observability/tracing"
	"github.com/househelp/househelp/internal/ratelimit"
	"github.com/househelp/househelp/internal/review"
	reviewdomain "github.com/househelp/househelp/internal/review/domain"
	"github.com/househelp/househelp/internal/unlock"
	unlockdomain "github.com/househelp/househelp/internal/unlock/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	config.Module,
	fx.Provide(registerGin),
	directory.Module,
	accesslog.Module,
	unlock.Module,
	review.Module,
	lead.Module,
	favorite.Module,
	bgv.Module,
	ratelimit.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(httpMetrics.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", httpMetrics.Handler())

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine        *gin.Engine
	cfg           config.Config
	db            *gorm.DB
	genID         *snowflake.Node
	directorySvc  directorydomain.Service
	unlockSvc     unlockdomain.Service
	accessLog     accesslogdomain.Recorder
	reviewSvc     reviewdomain.Service
	leadSvc       leaddomain.Service
	favoriteSvc   favoritedomain.Service
	bgvSvc        bgvdomain.Service
	unlockLimiter *ratelimit.UnlockLimiter
	localLimiter  *rateLimiter
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	Cfg           config.Config
	DB            *gorm.DB
	GenID         *snowflake.Node
	DirectorySvc  directorydomain.Service
	UnlockSvc     unlockdomain.Service
	AccessLog     accesslogdomain.Recorder
	ReviewSvc     reviewdomain.Service
	LeadSvc       leaddomain.Service
	FavoriteSvc   favoritedomain.Service
	BGVSvc        bgvdomain.Service
	UnlockLimiter *ratelimit.UnlockLimiter `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		db:            p.DB,
		genID:         p.GenID,
		directorySvc:  p.DirectorySvc,
		unlockSvc:     p.UnlockSvc,
		accessLog:     p.AccessLog,
		reviewSvc:     p.ReviewSvc,
		leadSvc:       p.LeadSvc,
		favoriteSvc:   p.FavoriteSvc,
		bgvSvc:        p.BGVSvc,
		unlockLimiter: p.UnlockLimiter,
		localLimiter:  newRateLimiter(30, time.Minute),
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")
	api.Use(s.AuthRequired())

	api.POST("/unlocks", s.RateLimitUnlock(), s.RequestUnlock)
	api.GET("/unlocks", s.ListUnlocks)

	api.GET("/workers/:id", s.GetWorker)
	api.GET("/workers/:id/reviews", s.ListWorkerReviews)
	api.POST("/workers/:id/reviews", s.SubmitReview)
	api.GET("/workers/:id/leads", s.ListWorkerLeads)
	api.GET("/workers/:id/access-log", s.ListContactAccessLog)

	api.POST("/favorites", s.AddFavorite)
	api.GET("/favorites", s.ListFavorites)
	api.DELETE("/favorites/:workerId", s.RemoveFavorite)

	api.POST("/bgv", s.CreateBGV)
	api.GET("/bgv/:id", s.GetBGV)
	api.PATCH("/bgv/:id/status", s.UpdateBGVStatus)
}
