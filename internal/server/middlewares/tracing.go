package middlewares

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/cylin-tw/line-daily-push/pkg/telemetry"
)

func Tracing(tele *telemetry.Telemetry) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !tele.IsEnabled() {
			c.Next()
			return
		}

		spanName := c.Request.Method + " " + c.FullPath()
		ctx, span := tele.GetTracer().Start(c.Request.Context(), spanName,
			trace.WithAttributes(
				attribute.String("request.id", c.GetString(RequestIDKey)),
				attribute.String("http.method", c.Request.Method),
				attribute.String("http.route", c.FullPath()),
				attribute.String("remote_addr", c.ClientIP()),
			),
		)
		c.Request = c.Request.WithContext(ctx)

		defer func() {
			span.SetAttributes(attribute.Int("http.status_code", c.Writer.Status()))
			if c.Writer.Status() >= 400 {
				span.SetAttributes(attribute.Bool("error", true))
			}
			span.End()
		}()

		c.Next()
	}
}
