package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"blog-catalog/cmd/api/auth"
	"blog-catalog/cmd/internal/logger"
)

// AdminTokenMiddleware 는 Authorization 헤더의 bearer 토큰을 설정된 관리자 토큰과 비교한다.
// 토큰이 설정되지 않았으면 관리자 엔드포인트는 항상 403 이다.
func AdminTokenMiddleware(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin_disabled"})
			return
		}

		presented, err := auth.ExtractBearerToken(c)
		if err != nil {
			auth.AbortWithUnauthorized(c, err)
			return
		}

		if err := auth.MatchToken(presented, token); err != nil {
			logger.WarnWithFields("admin token rejected", logger.Fields{
				"path":      c.Request.URL.Path,
				"client_ip": c.ClientIP(),
			})
			auth.AbortWithUnauthorized(c, err)
			return
		}

		c.Next()
	}
}
