package httpapi

import (
	"admissions-backoffice/pkg/accesscontrol"
	"admissions-backoffice/pkg/config"
	"admissions-backoffice/pkg/health"
	"admissions-backoffice/pkg/middleware"

	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
)

// Routes is implemented by every service handler mounted under /api/v1.
type Routes interface {
	Register(rg *gin.RouterGroup)
}

// AsRoutes annotates a handler constructor so its result joins the route group.
func AsRoutes(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(Routes)),
		fx.ResultTags(`group:"routes"`),
	)
}

var Module = fx.Module("httpapi",
	fx.Provide(NewEngine),
)

type Params struct {
	fx.In
	Config   *config.Config
	Health   health.HealthService
	Enforcer *casbin.Enforcer
	Routes   []Routes `group:"routes"`
}

func NewEngine(p Params) *gin.Engine {
	if p.Config.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", p.Health.Liveness)
	r.GET("/readyz", p.Health.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1",
		middleware.Error(),
		middleware.ActorMiddleware(),
		accesscontrol.Authorize(p.Enforcer),
	)
	for _, routes := range p.Routes {
		routes.Register(api)
	}

	return r
}
