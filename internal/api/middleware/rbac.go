package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/sprintdesk/tracker-api/internal/core/domain"
)

// RBAC rejects requests whose authenticated role is not in allowedRoles.
// The rejection is a domain error so the central error handler renders it
// like every other authorization failure.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if _, ok := allowed[role]; !ok {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
