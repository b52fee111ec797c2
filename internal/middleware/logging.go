package middleware

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/streampulse/account-service/internal/constants"
	"github.com/streampulse/account-service/pkg/ctxutil"
	"github.com/streampulse/account-service/pkg/logger"
)

// RequestContextMiddleware seeds the request context with the request ID,
// client IP and user agent so every downstream log line carries them. The
// request ID is echoed back to the client.
func RequestContextMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "http", c.FullPath())
		c.Request = c.Request.WithContext(ctx)

		if requestID := ctxutil.GetRequestID(ctx); requestID != "" {
			c.Header(constants.HeaderXRequestID, requestID)
		}

		c.Next()
	}
}

// LoggingMiddleware logs each request through zap instead of gin's default
// writer.
func LoggingMiddleware() gin.HandlerFunc {
	return gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			logger.LogRequest(
				param.Method,
				param.Path,
				param.StatusCode,
				param.Latency.Milliseconds(),
				param.ClientIP,
				param.Request.UserAgent(),
			)

			if param.ErrorMessage != "" {
				logger.GetLogger().Error("Request error",
					zap.String("error", param.ErrorMessage),
					zap.String("method", param.Method),
					zap.String("path", param.Path),
					zap.String("client_ip", param.ClientIP),
					zap.Int("status_code", param.StatusCode),
					zap.Duration("latency", param.Latency),
				)
			}

			if param.Latency > 2*time.Second {
				logger.GetLogger().Warn("Slow request detected",
					zap.String("method", param.Method),
					zap.String("path", param.Path),
					zap.Duration("latency", param.Latency),
					zap.String("client_ip", param.ClientIP),
				)
			}

			return ""
		},
		Output: io.Discard,
	})
}

// RecoveryMiddleware turns panics into logged 500 responses.
func RecoveryMiddleware() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.LogPanic(recovered)

		c.JSON(http.StatusInternalServerError, constants.BuildErrorResponse(
			http.StatusInternalServerError, constants.MsgInternalError, nil,
		))
	})
}
