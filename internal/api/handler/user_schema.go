package handler

import (
	"time"

	"github.com/accounthub/user-service/internal/core/service"
)

// --- Request / Response types ---

// profilePatchRequest mirrors domain.ProfilePatch: nil fields are not touched.
type profilePatchRequest struct {
	FirstName   *string    `json:"first_name"`
	LastName    *string    `json:"last_name"`
	DisplayName *string    `json:"display_name"`
	Gender      *string    `json:"gender"`
	AvatarURL   *string    `json:"avatar_url"`
	Phone       *string    `json:"phone"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	Bio         *string    `json:"bio"`
}

type preferencesPatchRequest struct {
	Language           *string `json:"language"`
	Timezone           *string `json:"timezone"`
	EmailNotifications *bool   `json:"email_notifications"`
	PushNotifications  *bool   `json:"push_notifications"`
	SMSNotifications   *bool   `json:"sms_notifications"`
	ProfileVisibility  *string `json:"profile_visibility" validate:"omitempty,oneof=public friends private"`
	ShowEmail          *bool   `json:"show_email"`
	ShowPhone          *bool   `json:"show_phone"`
}

type updateUserRequest struct {
	Profile     *profilePatchRequest     `json:"profile"`
	Preferences *preferencesPatchRequest `json:"preferences"`
}

type addAddressRequest struct {
	Type       string `json:"type"        validate:"required,oneof=home work billing shipping other"`
	Street     string `json:"street"      validate:"required"`
	City       string `json:"city"        validate:"required"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code" validate:"required"`
	Country    string `json:"country"     validate:"required"`
	IsDefault  bool   `json:"is_default"`
}

type linkSocialAccountRequest struct {
	Provider     string         `json:"provider"      validate:"required,min=2,max=50"`
	ProviderID   string         `json:"provider_id"   validate:"required"`
	Email        string         `json:"email"         validate:"omitempty,email"`
	ProviderData map[string]any `json:"provider_data"`
}

type userResponse struct {
	User service.UserView `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type listUsersResponse struct {
	Data       []service.UserView `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

type searchUsersResponse struct {
	Data  []service.UserView `json:"data"`
	Count int                `json:"count"`
}
