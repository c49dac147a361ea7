package domain

import (
	"strings"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Profile visibility levels.
const (
	VisibilityPublic  = "public"
	VisibilityFriends = "friends"
	VisibilityPrivate = "private"
)

// Profile holds personal details. FirstName and LastName are required at
// registration; everything else is optional.
type Profile struct {
	FirstName   string     `json:"first_name" bson:"first_name"`
	LastName    string     `json:"last_name" bson:"last_name"`
	DisplayName string     `json:"display_name,omitempty" bson:"display_name,omitempty"`
	Gender      string     `json:"gender,omitempty" bson:"gender,omitempty"`
	AvatarURL   string     `json:"avatar_url,omitempty" bson:"avatar_url,omitempty"`
	Phone       string     `json:"phone,omitempty" bson:"phone,omitempty"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty" bson:"date_of_birth,omitempty"`
	Bio         string     `json:"bio,omitempty" bson:"bio,omitempty"`
}

// Preferences holds per-user settings.
type Preferences struct {
	Language           string `json:"language" bson:"language"`
	Timezone           string `json:"timezone" bson:"timezone"`
	EmailNotifications bool   `json:"email_notifications" bson:"email_notifications"`
	PushNotifications  bool   `json:"push_notifications" bson:"push_notifications"`
	SMSNotifications   bool   `json:"sms_notifications" bson:"sms_notifications"`
	ProfileVisibility  string `json:"profile_visibility" bson:"profile_visibility"`
	ShowEmail          bool   `json:"show_email" bson:"show_email"`
	ShowPhone          bool   `json:"show_phone" bson:"show_phone"`
}

// DefaultPreferences are applied at registration.
func DefaultPreferences() Preferences {
	return Preferences{
		Language:           "en",
		Timezone:           "UTC",
		EmailNotifications: true,
		PushNotifications:  true,
		SMSNotifications:   false,
		ProfileVisibility:  VisibilityPublic,
	}
}

// Address is a postal address owned by a user. At most one address per user
// carries IsDefault = true.
type Address struct {
	ID         string    `json:"id" bson:"id"`
	Type       string    `json:"type" bson:"type"`
	Street     string    `json:"street" bson:"street"`
	City       string    `json:"city" bson:"city"`
	State      string    `json:"state,omitempty" bson:"state,omitempty"`
	PostalCode string    `json:"postal_code" bson:"postal_code"`
	Country    string    `json:"country" bson:"country"`
	IsDefault  bool      `json:"is_default" bson:"is_default"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" bson:"updated_at"`
}

// SocialAccount is a linked external identity, keyed by (provider, provider_id).
// At most one *active* account per provider per user; cross-user uniqueness of
// (provider, provider_id) is enforced at the persistence boundary.
type SocialAccount struct {
	Provider     string         `json:"provider" bson:"provider"`
	ProviderID   string         `json:"provider_id" bson:"provider_id"`
	Email        string         `json:"email,omitempty" bson:"email,omitempty"`
	ProviderData map[string]any `json:"provider_data,omitempty" bson:"provider_data,omitempty"`
	IsActive     bool           `json:"is_active" bson:"is_active"`
	LinkedAt     time.Time      `json:"linked_at" bson:"linked_at"`
}

// ProfilePatch carries a partial profile update. Nil fields are left unchanged.
type ProfilePatch struct {
	FirstName   *string
	LastName    *string
	DisplayName *string
	Gender      *string
	AvatarURL   *string
	Phone       *string
	DateOfBirth *time.Time
	Bio         *string
}

// PreferencesPatch carries a partial preferences update. Nil fields are left
// unchanged.
type PreferencesPatch struct {
	Language           *string
	Timezone           *string
	EmailNotifications *bool
	PushNotifications  *bool
	SMSNotifications   *bool
	ProfileVisibility  *string
	ShowEmail          *bool
	ShowPhone          *bool
}

// User is the aggregate root for an account. It is created only through the
// registration use case and mutated only through its own methods; every
// mutator refreshes UpdatedAt.
type User struct {
	ID              string          `json:"id" bson:"_id,omitempty"`
	Username        string          `json:"username" bson:"username"`
	Email           string          `json:"email" bson:"email"`
	PasswordHash    string          `json:"-" bson:"password_hash,omitempty"`
	Role            string          `json:"role" bson:"role"`
	Profile         Profile         `json:"profile" bson:"profile"`
	Preferences     Preferences     `json:"preferences" bson:"preferences"`
	Addresses       []Address       `json:"addresses" bson:"addresses"`
	SocialAccounts  []SocialAccount `json:"social_accounts" bson:"social_accounts"`
	EmailVerified   bool            `json:"email_verified" bson:"email_verified"`
	PhoneVerified   bool            `json:"phone_verified" bson:"phone_verified"`
	IsActive        bool            `json:"is_active" bson:"is_active"`
	IsSuspended     bool            `json:"is_suspended" bson:"is_suspended"`
	SuspendedReason string          `json:"suspended_reason,omitempty" bson:"suspended_reason,omitempty"`
	SuspendedAt     *time.Time      `json:"suspended_at,omitempty" bson:"suspended_at,omitempty"`
	LoginCount      int64           `json:"login_count" bson:"login_count"`
	LastLoginAt     *time.Time      `json:"last_login_at,omitempty" bson:"last_login_at,omitempty"`
	LastActiveAt    *time.Time      `json:"last_active_at,omitempty" bson:"last_active_at,omitempty"`
	CustomFields    map[string]any  `json:"custom_fields,omitempty" bson:"custom_fields,omitempty"`
	CreatedAt       time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" bson:"updated_at"`
	CreatedBy       string          `json:"created_by,omitempty" bson:"created_by,omitempty"`
	UpdatedBy       string          `json:"updated_by,omitempty" bson:"updated_by,omitempty"`
}

// CanLogin reports whether the account may authenticate: active, not
// suspended, and email verified.
func (u *User) CanLogin() bool {
	return u.IsActive && !u.IsSuspended && u.EmailVerified
}

// CanAccessAdminFeatures reports whether the account is a login-capable admin.
func (u *User) CanAccessAdminFeatures() bool {
	return u.Role == RoleAdmin && u.CanLogin()
}

// FullName returns "First Last" trimmed, falling back to the username when
// both name parts are blank.
func (u *User) FullName() string {
	name := strings.TrimSpace(strings.TrimSpace(u.Profile.FirstName) + " " + strings.TrimSpace(u.Profile.LastName))
	if name == "" {
		return u.Username
	}
	return name
}

func (u *User) touch() {
	u.UpdatedAt = time.Now().UTC()
}

// UpdateProfile shallow-merges the patch into the profile. Nil fields mean
// "leave unchanged"; the DTO layer has already validated shapes.
func (u *User) UpdateProfile(p ProfilePatch) {
	if p.FirstName != nil {
		u.Profile.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.Profile.LastName = *p.LastName
	}
	if p.DisplayName != nil {
		u.Profile.DisplayName = *p.DisplayName
	}
	if p.Gender != nil {
		u.Profile.Gender = *p.Gender
	}
	if p.AvatarURL != nil {
		u.Profile.AvatarURL = *p.AvatarURL
	}
	if p.Phone != nil {
		u.Profile.Phone = *p.Phone
	}
	if p.DateOfBirth != nil {
		u.Profile.DateOfBirth = p.DateOfBirth
	}
	if p.Bio != nil {
		u.Profile.Bio = *p.Bio
	}
	u.touch()
}

// UpdatePreferences shallow-merges the patch into the preferences.
func (u *User) UpdatePreferences(p PreferencesPatch) {
	if p.Language != nil {
		u.Preferences.Language = *p.Language
	}
	if p.Timezone != nil {
		u.Preferences.Timezone = *p.Timezone
	}
	if p.EmailNotifications != nil {
		u.Preferences.EmailNotifications = *p.EmailNotifications
	}
	if p.PushNotifications != nil {
		u.Preferences.PushNotifications = *p.PushNotifications
	}
	if p.SMSNotifications != nil {
		u.Preferences.SMSNotifications = *p.SMSNotifications
	}
	if p.ProfileVisibility != nil {
		u.Preferences.ProfileVisibility = *p.ProfileVisibility
	}
	if p.ShowEmail != nil {
		u.Preferences.ShowEmail = *p.ShowEmail
	}
	if p.ShowPhone != nil {
		u.Preferences.ShowPhone = *p.ShowPhone
	}
	u.touch()
}

func (u *User) Activate() {
	u.IsActive = true
	u.touch()
}

func (u *User) Deactivate() {
	u.IsActive = false
	u.touch()
}

// Suspend blocks the account and records why. A suspended account never
// passes CanLogin regardless of its other flags.
func (u *User) Suspend(reason string) {
	now := time.Now().UTC()
	u.IsSuspended = true
	u.SuspendedReason = reason
	u.SuspendedAt = &now
	u.touch()
}

func (u *User) Unsuspend() {
	u.IsSuspended = false
	u.SuspendedReason = ""
	u.SuspendedAt = nil
	u.touch()
}

func (u *User) VerifyEmail() {
	u.EmailVerified = true
	u.touch()
}

func (u *User) VerifyPhone() {
	u.PhoneVerified = true
	u.touch()
}

// RecordLogin bumps the login counter and stamps the activity timestamps.
func (u *User) RecordLogin() {
	now := time.Now().UTC()
	u.LoginCount++
	u.LastLoginAt = &now
	u.LastActiveAt = &now
	u.touch()
}

// Touch stamps LastActiveAt without counting a login.
func (u *User) Touch() {
	now := time.Now().UTC()
	u.LastActiveAt = &now
	u.touch()
}

func (u *User) ChangePassword(hash string) {
	u.PasswordHash = hash
	u.touch()
}

// SoftDelete deactivates and suspends the account with the given reason. The
// record is never removed by normal application flow.
func (u *User) SoftDelete(reason string) {
	u.IsActive = false
	u.Suspend(reason)
}

// AddAddress assigns the given identifier and timestamps to addr and appends
// it. The first address, or one arriving with IsDefault set, becomes the sole
// default.
func (u *User) AddAddress(addr Address, id string) Address {
	now := time.Now().UTC()
	addr.ID = id
	addr.CreatedAt = now
	addr.UpdatedAt = now
	if len(u.Addresses) == 0 {
		addr.IsDefault = true
	}
	if addr.IsDefault {
		for i := range u.Addresses {
			u.Addresses[i].IsDefault = false
		}
	}
	u.Addresses = append(u.Addresses, addr)
	u.touch()
	return addr
}

// SetDefaultAddress marks the address with the given id as the sole default.
// Returns false when no address matches.
func (u *User) SetDefaultAddress(id string) bool {
	found := false
	for i := range u.Addresses {
		if u.Addresses[i].ID == id {
			found = true
			break
		}
	}
	if !found {
		return false
	}
	now := time.Now().UTC()
	for i := range u.Addresses {
		isTarget := u.Addresses[i].ID == id
		if u.Addresses[i].IsDefault != isTarget {
			u.Addresses[i].IsDefault = isTarget
			u.Addresses[i].UpdatedAt = now
		}
	}
	u.touch()
	return true
}

// RemoveAddress deletes the address with the given id. Returns false when no
// address matches.
func (u *User) RemoveAddress(id string) bool {
	for i := range u.Addresses {
		if u.Addresses[i].ID == id {
			u.Addresses = append(u.Addresses[:i], u.Addresses[i+1:]...)
			u.touch()
			return true
		}
	}
	return false
}

// LinkSocialAccount links an external identity. When an active account for the
// provider already exists on this user, its provider data is merged and
// LinkedAt refreshed; otherwise a new active record is appended. Cross-user
// uniqueness of (provider, providerID) is the use case's responsibility.
func (u *User) LinkSocialAccount(provider, providerID, email string, data map[string]any) {
	now := time.Now().UTC()
	for i := range u.SocialAccounts {
		sa := &u.SocialAccounts[i]
		if sa.Provider == provider && sa.IsActive {
			sa.ProviderID = providerID
			if email != "" {
				sa.Email = email
			}
			if sa.ProviderData == nil {
				sa.ProviderData = make(map[string]any, len(data))
			}
			for k, v := range data {
				sa.ProviderData[k] = v
			}
			sa.LinkedAt = now
			u.touch()
			return
		}
	}
	u.SocialAccounts = append(u.SocialAccounts, SocialAccount{
		Provider:     provider,
		ProviderID:   providerID,
		Email:        email,
		ProviderData: data,
		IsActive:     true,
		LinkedAt:     now,
	})
	u.touch()
}

// UnlinkSocialAccount deactivates the active record for the provider. Returns
// false when the provider is not actively linked.
func (u *User) UnlinkSocialAccount(provider string) bool {
	for i := range u.SocialAccounts {
		sa := &u.SocialAccounts[i]
		if sa.Provider == provider && sa.IsActive {
			sa.IsActive = false
			u.touch()
			return true
		}
	}
	return false
}

// SetCustomField stores an arbitrary key/value on the account.
func (u *User) SetCustomField(key string, value any) {
	if u.CustomFields == nil {
		u.CustomFields = make(map[string]any)
	}
	u.CustomFields[key] = value
	u.touch()
}
