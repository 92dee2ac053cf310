package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/imaps/backend/internal/infrastructure/auth"
	"github.com/imaps/backend/internal/interfaces/http/dto"
)

// AdminSecretHeader carries the shared secret that guards destructive
// endpoints
const AdminSecretHeader = "X-Admin-Secret"

// AdminGuard requires a valid admin secret on the request. A missing
// secret yields 401, a wrong one 403.
func AdminGuard(authorizer auth.Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := authorizer.Authorize(c.GetHeader(AdminSecretHeader))
		switch {
		case err == nil:
			c.Next()
		case errors.Is(err, auth.ErrMissingSecret):
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
				dto.ErrCodeUnauthorized,
				"Admin secret required",
			))
		default:
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(
				dto.ErrCodeForbidden,
				"Admin secret rejected",
			))
		}
	}
}
