package middleware

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/accountsvc/user-service/internal/api/metrics"
	"github.com/accountsvc/user-service/internal/core/access"
	"github.com/accountsvc/user-service/internal/core/domain"
)

// Guard evaluates an access rule against the authenticated actor before the
// handler runs. The rule is built per request so ownership guards can read
// route parameters.
func Guard(engine *access.Engine, build func(c echo.Context) (access.Guard, error)) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			g, err := build(c)
			if err != nil {
				return err
			}

			if _, err := engine.Authorize(c.Request().Context(), ClaimsFrom(c), g); err != nil {
				return Denial(err)
			}
			return next(c)
		}
	}
}

// RequireMinRole gates a route on "at least this privileged".
func RequireMinRole(engine *access.Engine, required domain.Role) echo.MiddlewareFunc {
	return Guard(engine, func(echo.Context) (access.Guard, error) {
		return access.MinRole(required), nil
	})
}

// RequireAdmin gates administrative listing and mutation routes.
func RequireAdmin(engine *access.Engine) echo.MiddlewareFunc {
	return Guard(engine, func(echo.Context) (access.Guard, error) {
		return access.AdminOnly(), nil
	})
}

// OwnershipOrMinRole allows the owner of the :id resource or a sufficiently
// privileged actor.
func OwnershipOrMinRole(engine *access.Engine, required domain.Role) echo.MiddlewareFunc {
	return Guard(engine, func(c echo.Context) (access.Guard, error) {
		id, err := TargetID(c)
		if err != nil {
			return access.Guard{}, err
		}
		return access.OwnershipOrMinRole(id, required), nil
	})
}

// TargetID parses the :id route parameter.
func TargetID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}
	return id, nil
}

// Denial translates engine failures into HTTP errors: authentication
// problems are 401, authorization problems are 403.
func Denial(err error) error {
	var denied *domain.DeniedError
	switch {
	case errors.Is(err, domain.ErrAuthRequired):
		metrics.AuthDenialsTotal.WithLabelValues("unauthenticated").Inc()
		return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
	case errors.Is(err, domain.ErrUserNotFound):
		metrics.AuthDenialsTotal.WithLabelValues("user_not_found").Inc()
		return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
	case errors.Is(err, domain.ErrAccountInactive):
		metrics.AuthDenialsTotal.WithLabelValues("inactive").Inc()
		return echo.NewHTTPError(http.StatusUnauthorized, "Account is inactive")
	case errors.As(err, &denied):
		metrics.AuthDenialsTotal.WithLabelValues("forbidden").Inc()
		return echo.NewHTTPError(http.StatusForbidden, denied.Reason)
	default:
		return err
	}
}
