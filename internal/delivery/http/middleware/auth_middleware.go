package middleware

import (
	"strings"

	deliverycontext "devicerelay/internal/delivery/context"
	domainerrors "devicerelay/internal/domain/errors"
	"devicerelay/internal/domain/service"

	"github.com/labstack/echo/v4"
)

// AccessTokenCookie carries the access token for clients that cannot set
// headers, such as browser WebSocket upgrades.
const AccessTokenCookie = "access_token"

// AuthMiddleware provides middleware for JWT authentication.
type AuthMiddleware struct {
	tokenSvc service.TokenService
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc}
}

// Authenticate validates the access token and stores the user on the context.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		tokenString, ok := accessToken(c)
		if !ok {
			return domainerrors.ErrUnauthorized.WithDetails("access token is missing")
		}

		claims, err := m.tokenSvc.ValidateAccessToken(tokenString)
		if err != nil {
			return domainerrors.ErrUnauthorized.WithDetails("invalid or expired access token")
		}

		deliverycontext.SetUserID(c, claims.UserID)

		return next(c)
	}
}

// accessToken reads a Bearer Authorization header, falling back to the cookie.
func accessToken(c echo.Context) (string, bool) {
	if authHeader := c.Request().Header.Get(echo.HeaderAuthorization); authHeader != "" {
		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found || tokenString == "" {
			return "", false
		}

		return tokenString, true
	}

	cookie, err := c.Cookie(AccessTokenCookie)
	if err != nil || cookie.Value == "" {
		return "", false
	}

	return cookie.Value, true
}
