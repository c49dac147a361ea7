package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/accounthub/user-service/internal/api/metrics"
	"github.com/accounthub/user-service/internal/core/domain"
	"github.com/accounthub/user-service/internal/core/ports"
	"github.com/accounthub/user-service/internal/core/service"
)

// AuthHandler handles registration, login, and token refresh.
type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Role:        domain.RoleUser,
		Gender:      req.Gender,
		Phone:       req.Phone,
		DateOfBirth: req.DateOfBirth,
		Bio:         req.Bio,
	})
	if err != nil {
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues(result.User.Role).Inc()

	owner := ports.Requester{UserID: result.User.ID, Role: result.User.Role}
	return c.JSON(http.StatusCreated, registerResponse{
		User:                      service.ViewFor(result.User, owner),
		EmailVerificationRequired: result.EmailVerificationRequired,
	})
}

// CreateUser provisions an account on behalf of an administrator. Unlike the
// public registration route it may assign a role, and the created account is
// pre-verified.
//
// @Summary      Create a user account (admin)
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "Account details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/users [post]
func (h *AuthHandler) CreateUser(c echo.Context) error {
	requester, err := ctxRequester(c)
	if err != nil {
		return err
	}

	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Role:        req.Role,
		Gender:      req.Gender,
		Phone:       req.Phone,
		DateOfBirth: req.DateOfBirth,
		Bio:         req.Bio,
		CreatedBy:   requester.UserID,
	})
	if err != nil {
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues(result.User.Role).Inc()

	return c.JSON(http.StatusCreated, registerResponse{
		User:                      service.ViewFor(result.User, requester),
		EmailVerificationRequired: result.EmailVerificationRequired,
	})
}

// Login authenticates a user and returns an access/refresh token pair.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.authService.Login(c.Request().Context(), ports.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(loginOutcome(err)).Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()

	owner := ports.Requester{UserID: result.User.ID, Role: result.User.Role}
	return c.JSON(http.StatusOK, loginResponse{
		User: service.ViewFor(result.User, owner),
		Tokens: tokensResponse{
			AccessToken:  result.Tokens.AccessToken,
			RefreshToken: result.Tokens.RefreshToken,
		},
	})
}

// Refresh exchanges a refresh token for a new token pair.
//
// @Summary      Refresh tokens
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  true  "Refresh token"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.authService.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return err
	}

	owner := ports.Requester{UserID: result.User.ID, Role: result.User.Role}
	return c.JSON(http.StatusOK, loginResponse{
		User: service.ViewFor(result.User, owner),
		Tokens: tokensResponse{
			AccessToken:  result.Tokens.AccessToken,
			RefreshToken: result.Tokens.RefreshToken,
		},
	})
}

func loginOutcome(err error) string {
	var unauthorized *domain.UnauthorizedError
	if !errors.As(err, &unauthorized) {
		return "error"
	}
	if unauthorized.Message == "invalid email or password" {
		return "invalid_credentials"
	}
	return "blocked"
}
