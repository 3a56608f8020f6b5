package handlers

import (
	"net/http"
	"strings"

	"task_tracker/internal/service"

	"github.com/gin-gonic/gin"
)

const claimsCtxKey = "claims"

func (h *Handler) claimsMiddleware(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"message": "missing Authorization header",
		})
		return
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"message": "invalid Authorization header format",
		})
		return
	}

	claims, err := h.services.ParseToken(parts[1])
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"message": "invalid or expired token",
		})
		return
	}

	// store in Gin context
	c.Set(claimsCtxKey, claims)
	c.Next()
}

// claimsFromContext retrieves the verified claims set by the middleware.
func claimsFromContext(c *gin.Context) (*service.Claims, bool) {
	v, ok := c.Get(claimsCtxKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*service.Claims)
	return claims, ok
}
