package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/question-bank/internal/domain/auth"
)

const apiKeyHeader = "X-API-Key"

// authMiddleware accepts either an X-API-Key header or a bearer token.
func authMiddleware(svc auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key := c.GetHeader(apiKeyHeader); key != "" {
			claims, err := svc.VerifyAPIKey(c.Request.Context(), key)
			if err != nil {
				abortWithError(c, fromAppError(err))
				return
			}
			setClaims(c, claims)
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if header == "" {
			abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing credentials", nil))
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "invalid authorization header", nil))
			return
		}
		claims, err := svc.ValidateToken(c.Request.Context(), strings.TrimSpace(parts[1]))
		if err != nil {
			abortWithError(c, fromAppError(err))
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}
