package middleware

import (
	"net/http"

	"flightsurety/internal/domain"

	"github.com/gin-gonic/gin"
)

// RequireOwner rejects administrative calls from anyone but the owner
// before they reach the engine. It must run after Auth.
//
//	secured.PUT("/operational", RequireOwner(owner), handler)
func RequireOwner(owner domain.Principal) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := GetPrincipal(c)
		if p.IsZero() {
			abort(c, http.StatusUnauthorized, "no principal on request")
			return
		}
		if p != owner || !GetRelay(c).IsZero() {
			abort(c, http.StatusForbidden, "owner only")
			return
		}
		c.Next()
	}
}
