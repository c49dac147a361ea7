package handler

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/accounthub/user-service/internal/core/domain"
	"github.com/accounthub/user-service/internal/core/ports"
)

// --- Request → Service input ---

func toProfilePatch(req *profilePatchRequest) *domain.ProfilePatch {
	if req == nil {
		return nil
	}
	return &domain.ProfilePatch{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DisplayName: req.DisplayName,
		Gender:      req.Gender,
		AvatarURL:   req.AvatarURL,
		Phone:       req.Phone,
		DateOfBirth: req.DateOfBirth,
		Bio:         req.Bio,
	}
}

func toPreferencesPatch(req *preferencesPatchRequest) *domain.PreferencesPatch {
	if req == nil {
		return nil
	}
	return &domain.PreferencesPatch{
		Language:           req.Language,
		Timezone:           req.Timezone,
		EmailNotifications: req.EmailNotifications,
		PushNotifications:  req.PushNotifications,
		SMSNotifications:   req.SMSNotifications,
		ProfileVisibility:  req.ProfileVisibility,
		ShowEmail:          req.ShowEmail,
		ShowPhone:          req.ShowPhone,
	}
}

func toAddress(req addAddressRequest) domain.Address {
	return domain.Address{
		Type:       req.Type,
		Street:     req.Street,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		Country:    req.Country,
		IsDefault:  req.IsDefault,
	}
}

// toListFilter parses the admin listing query parameters. Unparseable values
// are ignored rather than rejected; the service applies defaults and caps.
func toListFilter(c echo.Context) ports.ListUsersFilter {
	filter := ports.ListUsersFilter{
		Role:   c.QueryParam("role"),
		SortBy: c.QueryParam("sort_by"),
	}
	filter.SortDesc = c.QueryParam("order") != "asc"
	filter.IsActive = queryBool(c, "is_active")
	filter.EmailVerified = queryBool(c, "email_verified")
	filter.IsSuspended = queryBool(c, "is_suspended")
	if t, err := time.Parse(time.RFC3339, c.QueryParam("created_from")); err == nil {
		filter.CreatedFrom = t
	}
	if t, err := time.Parse(time.RFC3339, c.QueryParam("created_to")); err == nil {
		filter.CreatedTo = t
	}
	filter.Page = queryInt(c, "page")
	filter.Limit = queryInt(c, "limit")
	return filter
}

func queryBool(c echo.Context, name string) *bool {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &v
}

func queryInt(c echo.Context, name string) int {
	v, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return 0
	}
	return v
}
