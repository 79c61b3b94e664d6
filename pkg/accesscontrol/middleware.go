package accesscontrol

import (
	"admissions-backoffice/pkg/errutil"
	"admissions-backoffice/pkg/middleware"

	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Authorize rejects requests whose actor role is not allowed to call the
// route. It must run after middleware.ActorMiddleware.
func Authorize(e *casbin.Enforcer) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := middleware.ActorFromContext(c.Request.Context())

		ok, err := e.Enforce(actor.Role, c.Request.URL.Path, c.Request.Method)
		if err != nil {
			zap.L().Error("failed to enforce policy", zap.String("role", actor.Role), zap.Error(err))
			_ = c.Error(errutil.Internal("failed to check permission", err))
			c.Abort()
			return
		}
		if !ok {
			_ = c.Error(errutil.Forbidden("role is not allowed to perform this action", nil))
			c.Abort()
			return
		}

		c.Next()
	}
}
