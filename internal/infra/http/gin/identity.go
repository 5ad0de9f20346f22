package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	domainrental "tahtam/internal/domain/rental"
)

const principalContextKey = "tahtam.principal"

// principal is the caller identity forwarded by the authenticating gateway.
type principal struct {
	ID   string
	Name string
	Role domainrental.Role
}

// IdentityMiddleware trusts the gateway-set identity headers. Requests
// without them pass through anonymous; handlers that need a principal
// reject those themselves.
type IdentityMiddleware struct{}

func (m IdentityMiddleware) Handle(c *gin.Context) {
	id := c.GetHeader("X-User-ID")
	rawRole := c.GetHeader("X-User-Role")
	if id == "" || rawRole == "" {
		c.Next()
		return
	}
	role, err := domainrental.ParseRole(rawRole)
	if err != nil {
		c.Next()
		return
	}
	c.Set(principalContextKey, principal{
		ID:   id,
		Name: c.GetHeader("X-User-Name"),
		Role: role,
	})
	c.Next()
}

func currentPrincipal(c *gin.Context) (principal, bool) {
	v, ok := c.Get(principalContextKey)
	if !ok {
		return principal{}, false
	}
	p, ok := v.(principal)
	return p, ok
}

func requirePrincipal(c *gin.Context) (principal, bool) {
	p, ok := currentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return principal{}, false
	}
	return p, true
}

func requireRole(c *gin.Context, roles ...domainrental.Role) (principal, bool) {
	p, ok := requirePrincipal(c)
	if !ok {
		return principal{}, false
	}
	if len(roles) == 0 {
		return p, true
	}
	for _, r := range roles {
		if p.Role == r || p.Role == domainrental.RoleAdmin {
			return p, true
		}
	}
	c.JSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
	return principal{}, false
}
