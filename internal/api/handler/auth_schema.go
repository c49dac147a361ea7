package handler

import (
	"time"

	"github.com/accounthub/user-service/internal/core/service"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields,omitempty"`
}

// registerRequest is the public self-registration payload. It deliberately
// carries no role field; accounts created here are always plain users.
type registerRequest struct {
	Username    string     `json:"username"      validate:"required,min=3,max=50"`
	Email       string     `json:"email"         validate:"required,email"`
	Password    string     `json:"password"      validate:"required,min=8"`
	FirstName   string     `json:"first_name"    validate:"required"`
	LastName    string     `json:"last_name"     validate:"required"`
	Gender      string     `json:"gender"`
	Phone       string     `json:"phone"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	Bio         string     `json:"bio"`
}

// createUserRequest is the admin-only creation payload; unlike public
// registration it may assign a role.
type createUserRequest struct {
	Username    string     `json:"username"      validate:"required,min=3,max=50"`
	Email       string     `json:"email"         validate:"required,email"`
	Password    string     `json:"password"      validate:"required,min=8"`
	FirstName   string     `json:"first_name"    validate:"required"`
	LastName    string     `json:"last_name"     validate:"required"`
	Role        string     `json:"role"          validate:"omitempty,oneof=user admin"`
	Gender      string     `json:"gender"`
	Phone       string     `json:"phone"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	Bio         string     `json:"bio"`
}

type registerResponse struct {
	User                      service.UserView `json:"user"`
	EmailVerificationRequired bool             `json:"email_verification_required"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type tokensResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type loginResponse struct {
	User   service.UserView `json:"user"`
	Tokens tokensResponse   `json:"tokens"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}
