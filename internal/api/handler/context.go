package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/accounthub/user-service/internal/core/ports"
)

// ctxRequester extracts the auth claims injected by the Auth middleware and
// performs a fast-fail check before any service call: both user id and role
// must be present, their presence proving the middleware ran.
func ctxRequester(c echo.Context) (ports.Requester, error) {
	userID, _ := c.Get("user_id").(string)
	role, _ := c.Get("role").(string)
	if userID == "" || role == "" {
		return ports.Requester{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return ports.Requester{UserID: userID, Role: role}, nil
}
