package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/hirelane/jobboard/internal/api/guard"
	"github.com/hirelane/jobboard/internal/core/domain"
)

// sessionClaim returns the claim the route guard attached to the request.
// Routes behind the guard always carry one; a missing claim means the route
// was registered without it and is answered with 401.
func sessionClaim(c echo.Context) (domain.SessionClaim, error) {
	claim, ok := guard.ClaimFrom(c)
	if !ok {
		return domain.SessionClaim{}, domain.ErrNotAuthenticated
	}
	return *claim, nil
}

// optionalClaim returns the claim of an authenticated visitor on a public route.
func optionalClaim(c echo.Context) *domain.SessionClaim {
	claim, _ := guard.ClaimFrom(c)
	return claim
}
