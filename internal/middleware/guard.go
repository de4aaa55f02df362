package middleware

import (
	"net/http"
	"strings"

	"github.com/lamdv/socialverse/backend/internal/models"
	"github.com/lamdv/socialverse/backend/internal/token"
	"github.com/labstack/echo/v4"
)

const authUserKey = "authUser"

// Guard authenticates bearer tokens and optionally enforces a role. The
// token service is injected at construction; there is no process-wide
// verification registry.
type Guard struct {
	tokens *token.Service
}

// NewGuard creates a Guard around the given token service.
func NewGuard(tokens *token.Service) *Guard {
	return &Guard{tokens: tokens}
}

// Require returns middleware that authenticates the request's bearer token
// and, when role is non-empty, rejects identities of any other role. On
// success the identity snapshot is attached to the request context.
func (g *Guard) Require(role models.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return unauthorized(c)
			}

			// Expecting "Bearer <token>"
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return unauthorized(c)
			}

			claims, err := g.tokens.Parse(parts[1])
			if err != nil {
				return unauthorized(c)
			}

			if role != "" && claims.User.Role != role {
				return unauthorized(c)
			}

			c.Set(authUserKey, claims.User)
			return next(c)
		}
	}
}

// RequireUser authenticates any valid bearer token.
func (g *Guard) RequireUser() echo.MiddlewareFunc {
	return g.Require("")
}

// RequireAdmin authenticates and additionally requires the admin role.
func (g *Guard) RequireAdmin() echo.MiddlewareFunc {
	return g.Require(models.RoleAdmin)
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Not authorized."})
}

// AuthUserFrom returns the identity snapshot a Guard attached to the
// request, if any.
func AuthUserFrom(c echo.Context) (models.AuthUser, bool) {
	user, ok := c.Get(authUserKey).(models.AuthUser)
	return user, ok
}

// SetAuthUser attaches an identity snapshot to the context the way Require
// does. Intended for wiring requests outside the normal middleware chain.
func SetAuthUser(c echo.Context, user models.AuthUser) {
	c.Set(authUserKey, user)
}
