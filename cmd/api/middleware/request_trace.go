package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"blog-catalog/cmd/api/trace"
	"blog-catalog/cmd/internal/logger"
)

const (
	headerRequestID = "X-Request-Id"
	headerSpanID    = "X-Span-Id"
)

// RequestTrace는 모든 inbound 요청에 Request ID를 보장하고 컨텍스트/응답 헤더에 저장한 뒤
// 요청 완료 로그를 남긴다. upstream 호출은 같은 request_id 에 span 1,2,3... 을 붙인다.
func RequestTrace() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(headerRequestID)
		if requestID == "" {
			requestID = trace.GenerateID()
		}

		ctx := trace.WithRequestAndSpan(c.Request.Context(), requestID, 0)
		c.Request = c.Request.WithContext(ctx)

		span := trace.CurrentSpanID(ctx)
		c.Writer.Header().Set(headerRequestID, requestID)
		c.Writer.Header().Set(headerSpanID, span)

		c.Next()

		fields := logger.Fields{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"query":       c.Request.URL.RawQuery,
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
			"request_id":  requestID,
			"span_id":     trace.CurrentSpanID(c.Request.Context()),
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}
		logger.InfoWithFields("completed request", fields)
	}
}
