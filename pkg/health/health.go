package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("health", fx.Provide(ProvideHealth))

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

type Dependency struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

type Health struct {
	Status  string       `json:"status"`
	Message string       `json:"message"`
	Deps    []Dependency `json:"deps,omitempty"`
}

type HealthService interface {
	Liveness(c *gin.Context)
	Readiness(c *gin.Context)
}

type health struct {
	db    *gorm.DB
	redis *redis.Client
}

type HealthParams struct {
	fx.In
	DB    *gorm.DB      `optional:"true"`
	Redis *redis.Client `optional:"true"`
}

func ProvideHealth(p HealthParams) HealthService {
	return &health{
		db:    p.DB,
		redis: p.Redis,
	}
}

func (h *health) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, &Health{
		Status:  StatusHealthy,
		Message: "OK",
	})
}

func (h *health) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	this := &Health{
		Status:  StatusHealthy,
		Message: "OK",
	}

	if h.db != nil {
		this.Deps = append(this.Deps, checkDB(ctx, h.db))
	}
	if h.redis != nil {
		this.Deps = append(this.Deps, checkRedis(ctx, h.redis))
	}

	code := http.StatusOK
	for _, dep := range this.Deps {
		if dep.Status != StatusHealthy {
			this.Status = StatusUnhealthy
			this.Message = "one or more dependencies are unavailable"
			code = http.StatusServiceUnavailable
			break
		}
	}

	c.JSON(code, this)
}

func checkDB(ctx context.Context, db *gorm.DB) Dependency {
	dep := Dependency{Name: db.Name(), Status: StatusHealthy, Message: "OK"}

	sql, err := db.DB()
	if err != nil {
		dep.Status = StatusUnhealthy
		dep.Message = err.Error()
		return dep
	}
	if err := sql.PingContext(ctx); err != nil {
		dep.Status = StatusUnhealthy
		dep.Message = err.Error()
	}
	return dep
}

func checkRedis(ctx context.Context, rdb *redis.Client) Dependency {
	dep := Dependency{Name: "redis", Status: StatusHealthy, Message: "OK"}
	if err := rdb.Ping(ctx).Err(); err != nil {
		dep.Status = StatusUnhealthy
		dep.Message = err.Error()
	}
	return dep
}
