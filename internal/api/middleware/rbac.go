package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RBAC gates a route to the given roles. The service layer re-checks
// authorization on every use case; this middleware exists to reject obviously
// unauthorized requests before they bind payloads.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			for _, allowed := range allowedRoles {
				if role == allowed {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "insufficient role")
		}
	}
}
