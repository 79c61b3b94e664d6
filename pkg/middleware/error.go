package middleware

import (
	"errors"
	"net/http"

	"admissions-backoffice/pkg/errutil"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Error renders the last error attached with c.Error. Business errors keep
// their code and reason, everything else becomes a generic 500.
func Error() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		last := c.Errors.Last()
		if last == nil || c.Writer.Written() {
			return
		}

		var be errutil.BaseError
		if errors.As(last.Err, &be) {
			c.JSON(be.Code.HTTPStatus(), be.JSON())
			return
		}

		span := trace.SpanFromContext(c.Request.Context())
		zap.L().Error("unhandled error",
			zap.String("trace_id", span.SpanContext().TraceID().String()),
			zap.String("span_id", span.SpanContext().SpanID().String()),
			zap.String("path", c.FullPath()),
			zap.Error(last.Err),
		)
		c.JSON(http.StatusInternalServerError, errutil.BaseError{
			Code:    errutil.StatusInternal,
			Message: "internal server error",
		}.JSON())
	}
}
