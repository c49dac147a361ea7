package service

import (
	"time"

	"github.com/accounthub/user-service/internal/core/domain"
	"github.com/accounthub/user-service/internal/core/ports"
)

// UserView is the role/ownership-aware projection of a User. Fields absent
// from the selected tier stay at their zero value and are omitted from JSON.
// The presenter is a soft filter for read contexts (get/list/search); it never
// errors. The hard private-profile rejection in GetUser is a separate,
// deliberate enforcement point.
type UserView struct {
	ID            string              `json:"id"`
	Username      string              `json:"username,omitempty"`
	Email         string              `json:"email,omitempty"`
	Role          string              `json:"role,omitempty"`
	FirstName     string              `json:"first_name,omitempty"`
	LastName      string              `json:"last_name,omitempty"`
	DisplayName   string              `json:"display_name,omitempty"`
	Bio           string              `json:"bio,omitempty"`
	AvatarURL     string              `json:"avatar_url,omitempty"`
	Phone         string              `json:"phone,omitempty"`
	EmailVerified bool                `json:"email_verified"`
	IsActive      *bool               `json:"is_active,omitempty"`
	Preferences   *domain.Preferences `json:"preferences,omitempty"`
	Addresses     []domain.Address    `json:"addresses,omitempty"`
	Social        []socialView        `json:"social_accounts,omitempty"`
	LoginCount    *int64              `json:"login_count,omitempty"`
	LastLoginAt   *time.Time          `json:"last_login_at,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     *time.Time          `json:"updated_at,omitempty"`
}

type socialView struct {
	Provider string    `json:"provider"`
	IsActive bool      `json:"is_active"`
	LinkedAt time.Time `json:"linked_at"`
}

// ViewFor selects the projection tier: admin or owner get the full view, a
// private target collapses to a minimal fixed subset, everyone else gets the
// public view. The target's show-email/show-phone preferences gate those two
// fields on the public tier.
func ViewFor(u *domain.User, requester ports.Requester) UserView {
	switch {
	case requester.IsAdmin() || requester.UserID == u.ID:
		return fullView(u)
	case u.Preferences.ProfileVisibility == domain.VisibilityPrivate:
		return minimalView(u)
	default:
		return publicView(u)
	}
}

// SearchViewFor is the list/search projection: the public tiers apply as in
// ViewFor, and admin requesters additionally see email, role, and the active
// flag on every result.
func SearchViewFor(u *domain.User, requester ports.Requester) UserView {
	if requester.IsAdmin() {
		v := publicView(u)
		v.Email = u.Email
		v.Role = u.Role
		active := u.IsActive
		v.IsActive = &active
		return v
	}
	if u.Preferences.ProfileVisibility == domain.VisibilityPrivate {
		return minimalView(u)
	}
	return publicView(u)
}

func fullView(u *domain.User) UserView {
	active := u.IsActive
	count := u.LoginCount
	updated := u.UpdatedAt
	prefs := u.Preferences
	socials := make([]socialView, 0, len(u.SocialAccounts))
	for _, sa := range u.SocialAccounts {
		socials = append(socials, socialView{Provider: sa.Provider, IsActive: sa.IsActive, LinkedAt: sa.LinkedAt})
	}
	return UserView{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		Role:          u.Role,
		FirstName:     u.Profile.FirstName,
		LastName:      u.Profile.LastName,
		DisplayName:   u.Profile.DisplayName,
		Bio:           u.Profile.Bio,
		AvatarURL:     u.Profile.AvatarURL,
		Phone:         u.Profile.Phone,
		EmailVerified: u.EmailVerified,
		IsActive:      &active,
		Preferences:   &prefs,
		Addresses:     u.Addresses,
		Social:        socials,
		LoginCount:    &count,
		LastLoginAt:   u.LastLoginAt,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     &updated,
	}
}

func publicView(u *domain.User) UserView {
	v := UserView{
		ID:            u.ID,
		Username:      u.Username,
		DisplayName:   u.Profile.DisplayName,
		Bio:           u.Profile.Bio,
		AvatarURL:     u.Profile.AvatarURL,
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
	}
	if u.Preferences.ShowEmail {
		v.Email = u.Email
	}
	if u.Preferences.ShowPhone {
		v.Phone = u.Profile.Phone
	}
	return v
}

// minimalView is the fixed subset served for private profiles in soft-filter
// contexts: names and verification only, never email.
func minimalView(u *domain.User) UserView {
	return UserView{
		ID:            u.ID,
		FirstName:     u.Profile.FirstName,
		LastName:      u.Profile.LastName,
		DisplayName:   u.Profile.DisplayName,
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
	}
}
