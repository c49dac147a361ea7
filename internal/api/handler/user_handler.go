package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/accounthub/user-service/internal/api/metrics"
	"github.com/accounthub/user-service/internal/core/ports"
	"github.com/accounthub/user-service/internal/core/service"
)

// UserHandler handles HTTP requests for authenticated user operations.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Get handles GET /v1/users/:id.
//
// @Summary      Get a user profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  userResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	requester, err := ctxRequester(c)
	if err != nil {
		return err
	}

	user, err := h.service.GetUser(c.Request().Context(), requester, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, userResponse{User: service.ViewFor(user, requester)})
}

// Me handles GET /v1/users/me, resolving the id from the access token.
//
// @Summary      Get the authenticated user's profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	requester, err := ctxRequester(c)
	if err != nil {
		return err
	}

	user, err := h.service.GetUser(c.Request().Context(), requester, requester.UserID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, userResponse{User: service.ViewFor(user, requester)})
}

// Update handles PATCH /v1/users/:id.
//
// @Summary      Update profile and/or preferences
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User ID"
// @Param        body  body      updateUserRequest  true  "Partial update"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/users/{id} [patch]
func (h *UserHandler) Update(c echo.Context) error {
	requester, err := ctxRequester(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.service.UpdateUser(c.Request().Context(), ports.UpdateUserInput{
		Requester:   requester,
		UserID:      c.Param("id"),
		Profile:     toProfilePatch(req.Profile),
		Preferences: toPreferencesPatch(req.Preferences),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, userResponse{User: service.ViewFor(user, requester)})
}

// Delete handles DELETE /v1/users/:id (soft delete).
//
// @Summary      Delete an account
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	requester, err := ctxRequester(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteUser(c.Request().Context(), requester, c.Param("id")); err != nil {
		return err
	}

	by := "self"
	if requester.IsAdmin() && requester.UserID != c.Param("id") {
		by = "admin"
	}
	metrics.SoftDeletesTotal.WithLabelValues(by).Inc()

	return c.JSON(http.StatusOK, messageResponse{Message: "account deleted"})
}

// List handles GET /v1/users (admin only).
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        role            query     string  false  "Filter by role"
// @Param        is_active       query     bool    false  "Filter by active flag"
// @Param        email_verified  query     bool    false  "Filter by email verification"
// @Param        is_suspended    query     bool    false  "Filter by suspension"
// @Param        created_from    query     string  false  "Created at or after (RFC 3339)"
// @Param        created_to      query     string  false  "Created at or before (RFC 3339)"
// @Param        sort_by         query     string  false  "Sort field (default created_at)"
// @Param        order           query     string  false  "asc or desc (default desc)"
// @Param        page            query     int     false  "Page number (1-based)"
// @Param        limit           query     int     false  "Page size (default 20, max 100)"
// @Success      200             {object}  listUsersResponse
// @Failure      403             {object}  errorResponse
// @Router       /v1/users [get]
func (h *UserHandler) List(c echo.Context) error {
	requester, err := ctxRequester(c)
	if err != nil {
		return err
	}

	result, err := h.service.ListUsers(c.Request().Context(), ports.ListUsersInput{
		Requester: requester,
		Filter:    toListFilter(c),
	})
	if err != nil {
		return err
	}

	items := make([]service.UserView, len(result.Items))
	for i, u := range result.Items {
		items[i] = service.SearchViewFor(u, requester)
	}

	return c.JSON(http.StatusOK, listUsersResponse{
		Data: items,
		Pagination: paginationResponse{
			Total:      result.Total,
			Page:       result.Page,
			Limit:      result.Limit,
			TotalPages: result.TotalPages,
		},
	})
}

// Search handles GET /v1/users/search.
//
// @Summary      Search users by name, username, or email
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        q                 query     string  true   "Search term (min 2 characters)"
// @Param        limit             query     int     false  "Max results (default 20, max 50)"
// @Param        include_inactive  query     bool    false  "Include inactive accounts (admin only)"
// @Success      200               {object}  searchUsersResponse
// @Failure      400               {object}  errorResponse
// @Router       /v1/users/search [get]
func (h *UserHandler) Search(c echo.Context) error {
	requester, err := ctxRequester(c)
	if err != nil {
		return err
	}

	includeInactive := false
	if v := queryBool(c, "include_inactive"); v != nil {
		includeInactive = *v
	}

	users, err := h.service.SearchUsers(c.Request().Context(), ports.SearchUsersInput{
		Requester:       requester,
		Query:           c.QueryParam("q"),
		Limit:           queryInt(c, "limit"),
		IncludeInactive: includeInactive,
	})
	if err != nil {
		return err
	}

	items := make([]service.UserView, len(users))
	for i, u := range users {
		items[i] = service.SearchViewFor(u, requester)
	}

	return c.JSON(http.StatusOK, searchUsersResponse{Data: items, Count: len(items)})
}

// LinkSocial handles POST /v1/users/:id/social-accounts.
//
// @Summary      Link a social account
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                    true  "User ID"
// @Param        body  body      linkSocialAccountRequest  true  "External identity"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/users/{id}/social-accounts [post]
func (h *UserHandler) LinkSocial(c echo.Context) error {
	requester, err := ctxRequester(c)
	if err != nil {
		return err
	}

	var req linkSocialAccountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.service.LinkSocialAccount(c.Request().Context(), ports.LinkSocialAccountInput{
		Requester:    requester,
		UserID:       c.Param("id"),
		Provider:     req.Provider,
		ProviderID:   req.ProviderID,
		Email:        req.Email,
		ProviderData: req.ProviderData,
	})
	if err != nil {
		return err
	}

	metrics.SocialLinksTotal.WithLabelValues(req.Provider).Inc()

	return c.JSON(http.StatusOK, userResponse{User: service.ViewFor(user, requester)})
}

// VerifyEmail handles POST /v1/users/:id/verify-email (admin only).
//
// @Summary      Verify a user's email
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  userResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/users/{id}/verify-email [post]
func (h *UserHandler) VerifyEmail(c echo.Context) error {
	requester, err := ctxRequester(c)
	if err != nil {
		return err
	}

	user, err := h.service.VerifyEmail(c.Request().Context(), requester, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, userResponse{User: service.ViewFor(user, requester)})
}

// AddAddress handles POST /v1/users/:id/addresses.
//
// @Summary      Add a postal address
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "User ID"
// @Param        body  body      addAddressRequest true  "Address"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/users/{id}/addresses [post]
func (h *UserHandler) AddAddress(c echo.Context) error {
	requester, err := ctxRequester(c)
	if err != nil {
		return err
	}

	var req addAddressRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.service.AddAddress(c.Request().Context(), requester, c.Param("id"), toAddress(req))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, userResponse{User: service.ViewFor(user, requester)})
}

// SetDefaultAddress handles PUT /v1/users/:id/addresses/:addressID/default.
//
// @Summary      Mark an address as the default
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id         path      string  true  "User ID"
// @Param        addressID  path      string  true  "Address ID"
// @Success      200        {object}  userResponse
// @Failure      403        {object}  errorResponse
// @Failure      404        {object}  errorResponse
// @Router       /v1/users/{id}/addresses/{addressID}/default [put]
func (h *UserHandler) SetDefaultAddress(c echo.Context) error {
	requester, err := ctxRequester(c)
	if err != nil {
		return err
	}

	user, err := h.service.SetDefaultAddress(c.Request().Context(), requester, c.Param("id"), c.Param("addressID"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, userResponse{User: service.ViewFor(user, requester)})
}

// RemoveAddress handles DELETE /v1/users/:id/addresses/:addressID.
//
// @Summary      Remove a postal address
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id         path      string  true  "User ID"
// @Param        addressID  path      string  true  "Address ID"
// @Success      200        {object}  userResponse
// @Failure      403        {object}  errorResponse
// @Failure      404        {object}  errorResponse
// @Router       /v1/users/{id}/addresses/{addressID} [delete]
func (h *UserHandler) RemoveAddress(c echo.Context) error {
	requester, err := ctxRequester(c)
	if err != nil {
		return err
	}

	user, err := h.service.RemoveAddress(c.Request().Context(), requester, c.Param("id"), c.Param("addressID"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, userResponse{User: service.ViewFor(user, requester)})
}

// UnlinkSocial handles DELETE /v1/users/:id/social-accounts/:provider.
//
// @Summary      Unlink a social account
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id        path      string  true  "User ID"
// @Param        provider  path      string  true  "Provider name"
// @Success      200       {object}  userResponse
// @Failure      403       {object}  errorResponse
// @Failure      404       {object}  errorResponse
// @Router       /v1/users/{id}/social-accounts/{provider} [delete]
func (h *UserHandler) UnlinkSocial(c echo.Context) error {
	requester, err := ctxRequester(c)
	if err != nil {
		return err
	}

	user, err := h.service.UnlinkSocialAccount(c.Request().Context(), requester, c.Param("id"), c.Param("provider"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, userResponse{User: service.ViewFor(user, requester)})
}
