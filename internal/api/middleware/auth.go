package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/accountsvc/user-service/internal/core/token"
)

// claimsKey is where Authenticate stores the verified identity claims.
const claimsKey = "auth_claims"

// Authenticate verifies the bearer token and injects the identity claims into
// the request context. It proves identity only; guards re-resolve the actor's
// current record before deciding anything.
func Authenticate(codec *token.Codec) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := token.ExtractFromHeader(c.Request().Header.Get("Authorization"))
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Access denied. No token provided.")
			}

			claims, err := codec.Verify(raw)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token.")
			}

			c.Set(claimsKey, claims)
			return next(c)
		}
	}
}

// ClaimsFrom returns the claims stored by Authenticate, or nil when the
// request is anonymous.
func ClaimsFrom(c echo.Context) *token.Claims {
	claims, _ := c.Get(claimsKey).(*token.Claims)
	return claims
}
