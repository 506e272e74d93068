package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/hirelane/jobboard/internal/api/guard"
	"github.com/hirelane/jobboard/internal/core/domain"
)

// RequireRole lets through only sessions whose role is one of allowed.
// It runs after the route guard, which attaches the session claim.
func RequireRole(allowed ...domain.Role) echo.MiddlewareFunc {
	set := make(map[domain.Role]struct{}, len(allowed))
	for _, r := range allowed {
		set[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claim, ok := guard.ClaimFrom(c)
			if !ok {
				return domain.ErrNotAuthenticated
			}
			if _, ok := set[claim.Role]; !ok {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
