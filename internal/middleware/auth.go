package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rkapoor/telecare-api/internal/handler"
	"github.com/rkapoor/telecare-api/internal/model"
	"github.com/rkapoor/telecare-api/pkg/auth"
)

const contextPrincipal = "principal"

type AuthMiddleware struct {
	jwtSvc *auth.JWTService
}

func NewAuthMiddleware(jwtSvc *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwtSvc: jwtSvc}
}

// Authenticate decodes the bearer token and threads the resulting
// principal through the request context. Identity itself is external;
// this layer only decodes what it is handed.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing authorization header"))
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid authorization format"))
			c.Abort()
			return
		}

		claims, err := m.jwtSvc.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid token"))
			c.Abort()
			return
		}

		role := model.Role(claims.Role)
		switch role {
		case model.RolePatient, model.RoleDoctor, model.RoleAdmin:
		default:
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unknown role"))
			c.Abort()
			return
		}

		c.Set(contextPrincipal, model.Principal{UserID: claims.UserID, Role: role})
		c.Next()
	}
}

// RequireRole gates a route to the given roles.
func (m *AuthMiddleware) RequireRole(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := GetPrincipal(c)
		for _, role := range roles {
			if p.Role == role {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, handler.NewErrorResponse("insufficient role"))
		c.Abort()
	}
}

// GetPrincipal returns the authenticated principal set by Authenticate.
func GetPrincipal(c *gin.Context) model.Principal {
	if v, ok := c.Get(contextPrincipal); ok {
		if p, ok := v.(model.Principal); ok {
			return p
		}
	}
	return model.Principal{}
}
