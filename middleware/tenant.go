package middleware

import (
	"errors"
	"net/http"

	"trimly/models"
	"trimly/services/tenant"
	"trimly/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const tenantContextKey = "tenant"

// TenantMiddleware resolves the calling shop from the X-API-Key header and
// stores it on the request context. Requests that cannot be resolved to a
// tenant are rejected here; no downstream code ever assumes a default shop.
func TenantMiddleware(resolver tenant.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader("X-API-Key")
		if apiKey == "" {
			utils.JSONError(c, http.StatusUnauthorized, "Missing API key", "provide the shop API key in the X-API-Key header")
			c.Abort()
			return
		}

		t, err := resolver.ResolveAPIKey(c.Request.Context(), apiKey)
		if err != nil {
			if errors.Is(err, tenant.ErrUnknownTenant) {
				utils.JSONError(c, http.StatusUnauthorized, "Unknown API key", "")
				c.Abort()
				return
			}
			utils.GetLogger().Error("tenant resolution failed", zap.Error(err))
			utils.JSONError(c, http.StatusServiceUnavailable, "Service unavailable", "tenant resolution failed")
			c.Abort()
			return
		}

		c.Set(tenantContextKey, t)
		c.Next()
	}
}

// TenantFromContext returns the tenant resolved for this request. The second
// return is false when the middleware did not run.
func TenantFromContext(c *gin.Context) (*models.Tenant, bool) {
	v, ok := c.Get(tenantContextKey)
	if !ok {
		return nil, false
	}
	t, ok := v.(*models.Tenant)
	return t, ok
}
