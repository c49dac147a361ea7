package domain

import (
	"testing"
	"time"
)

func verifiedActiveUser() *User {
	return &User{
		ID:            "user_1",
		Username:      "alice",
		Email:         "alice@example.com",
		Role:          RoleUser,
		Preferences:   DefaultPreferences(),
		EmailVerified: true,
		IsActive:      true,
		CreatedAt:     time.Now().UTC(),
		UpdatedAt:     time.Now().UTC(),
	}
}

// ---------------------------------------------------------------------------
// CanLogin / CanAccessAdminFeatures
// ---------------------------------------------------------------------------

func TestUser_CanLogin_AllFlagCombinations(t *testing.T) {
	cases := []struct {
		active, suspended, verified bool
		want                        bool
	}{
		{true, false, true, true},
		{true, false, false, false},
		{true, true, true, false},
		{true, true, false, false},
		{false, false, true, false},
		{false, false, false, false},
		{false, true, true, false},
		{false, true, false, false},
	}
	for _, tc := range cases {
		u := &User{IsActive: tc.active, IsSuspended: tc.suspended, EmailVerified: tc.verified}
		if got := u.CanLogin(); got != tc.want {
			t.Errorf("active=%v suspended=%v verified=%v: CanLogin()=%v, want %v",
				tc.active, tc.suspended, tc.verified, got, tc.want)
		}
	}
}

func TestUser_CanAccessAdminFeatures(t *testing.T) {
	u := verifiedActiveUser()
	if u.CanAccessAdminFeatures() {
		t.Error("plain user must not access admin features")
	}
	u.Role = RoleAdmin
	if !u.CanAccessAdminFeatures() {
		t.Error("login-capable admin must access admin features")
	}
	u.Suspend("abuse")
	if u.CanAccessAdminFeatures() {
		t.Error("suspended admin must not access admin features")
	}
}

// ---------------------------------------------------------------------------
// FullName
// ---------------------------------------------------------------------------

func TestUser_FullName_FallsBackToUsername(t *testing.T) {
	u := verifiedActiveUser()
	if got := u.FullName(); got != "alice" {
		t.Errorf("expected username fallback, got %q", got)
	}

	u.Profile.FirstName = "Alice"
	if got := u.FullName(); got != "Alice" {
		t.Errorf("single name part: expected %q, got %q", "Alice", got)
	}

	u.Profile.LastName = "Smith"
	if got := u.FullName(); got != "Alice Smith" {
		t.Errorf("expected %q, got %q", "Alice Smith", got)
	}
}

// ---------------------------------------------------------------------------
// Mutators refresh UpdatedAt
// ---------------------------------------------------------------------------

func TestUser_MutatorsRefreshUpdatedAt(t *testing.T) {
	u := verifiedActiveUser()
	stale := time.Now().UTC().Add(-time.Hour)
	u.UpdatedAt = stale

	name := "Alice"
	u.UpdateProfile(ProfilePatch{FirstName: &name})
	if !u.UpdatedAt.After(stale) {
		t.Error("UpdateProfile must refresh UpdatedAt")
	}

	u.UpdatedAt = stale
	lang := "es"
	u.UpdatePreferences(PreferencesPatch{Language: &lang})
	if !u.UpdatedAt.After(stale) {
		t.Error("UpdatePreferences must refresh UpdatedAt")
	}

	u.UpdatedAt = stale
	u.RecordLogin()
	if !u.UpdatedAt.After(stale) {
		t.Error("RecordLogin must refresh UpdatedAt")
	}
}

func TestUser_UpdateProfile_NilFieldsUntouched(t *testing.T) {
	u := verifiedActiveUser()
	u.Profile.FirstName = "Alice"
	u.Profile.Bio = "original bio"

	newBio := "new bio"
	u.UpdateProfile(ProfilePatch{Bio: &newBio})

	if u.Profile.FirstName != "Alice" {
		t.Errorf("FirstName must be untouched, got %q", u.Profile.FirstName)
	}
	if u.Profile.Bio != "new bio" {
		t.Errorf("Bio must be updated, got %q", u.Profile.Bio)
	}
}

func TestUser_UpdatePreferences_PartialMerge(t *testing.T) {
	u := verifiedActiveUser()

	off := false
	visibility := VisibilityPrivate
	u.UpdatePreferences(PreferencesPatch{
		EmailNotifications: &off,
		ProfileVisibility:  &visibility,
	})

	if u.Preferences.EmailNotifications {
		t.Error("EmailNotifications must be off")
	}
	if u.Preferences.ProfileVisibility != VisibilityPrivate {
		t.Errorf("ProfileVisibility: got %q", u.Preferences.ProfileVisibility)
	}
	// Defaults not named in the patch survive.
	if !u.Preferences.PushNotifications {
		t.Error("PushNotifications must keep its default")
	}
	if u.Preferences.Language != "en" {
		t.Errorf("Language must keep its default, got %q", u.Preferences.Language)
	}
}

// ---------------------------------------------------------------------------
// Suspension and soft delete
// ---------------------------------------------------------------------------

func TestUser_SuspendAndUnsuspend(t *testing.T) {
	u := verifiedActiveUser()
	u.Suspend("policy violation")

	if !u.IsSuspended || u.SuspendedReason != "policy violation" || u.SuspendedAt == nil {
		t.Errorf("suspend state wrong: %+v", u)
	}
	if u.CanLogin() {
		t.Error("suspended account must not log in")
	}

	u.Unsuspend()
	if u.IsSuspended || u.SuspendedReason != "" || u.SuspendedAt != nil {
		t.Error("unsuspend must clear all suspension state")
	}
	if !u.CanLogin() {
		t.Error("unsuspended account must log in again")
	}
}

func TestUser_SoftDelete(t *testing.T) {
	u := verifiedActiveUser()
	u.SoftDelete("Account deleted by user")

	if u.IsActive {
		t.Error("soft delete must deactivate")
	}
	if !u.IsSuspended || u.SuspendedReason != "Account deleted by user" {
		t.Errorf("soft delete must suspend with reason, got %q", u.SuspendedReason)
	}
	if u.CanLogin() {
		t.Error("soft-deleted account must not log in")
	}
}

// ---------------------------------------------------------------------------
// RecordLogin
// ---------------------------------------------------------------------------

func TestUser_RecordLogin(t *testing.T) {
	u := verifiedActiveUser()
	u.RecordLogin()
	u.RecordLogin()

	if u.LoginCount != 2 {
		t.Errorf("expected 2 logins, got %d", u.LoginCount)
	}
	if u.LastLoginAt == nil || u.LastActiveAt == nil {
		t.Error("login timestamps must be set")
	}
}

// ---------------------------------------------------------------------------
// Addresses
// ---------------------------------------------------------------------------

func countDefaults(addrs []Address) int {
	n := 0
	for _, a := range addrs {
		if a.IsDefault {
			n++
		}
	}
	return n
}

func TestUser_AddAddress_FirstBecomesDefault(t *testing.T) {
	u := verifiedActiveUser()
	added := u.AddAddress(Address{Type: "home", Street: "1 Main St", City: "Metropolis", Country: "US"}, "addr_1")

	if !added.IsDefault {
		t.Error("first address must become the default")
	}
	if added.ID != "addr_1" {
		t.Errorf("expected assigned id, got %q", added.ID)
	}
	if added.CreatedAt.IsZero() || added.UpdatedAt.IsZero() {
		t.Error("address timestamps must be set")
	}
}

func TestUser_AddAddress_AtMostOneDefault(t *testing.T) {
	u := verifiedActiveUser()
	u.AddAddress(Address{Type: "home"}, "addr_1")
	u.AddAddress(Address{Type: "work"}, "addr_2")
	u.AddAddress(Address{Type: "other", IsDefault: true}, "addr_3")

	if got := countDefaults(u.Addresses); got != 1 {
		t.Fatalf("expected exactly 1 default address, got %d", got)
	}
	if !u.Addresses[2].IsDefault {
		t.Error("the address marked default on arrival must be the default")
	}
}

func TestUser_SetDefaultAddress(t *testing.T) {
	u := verifiedActiveUser()
	u.AddAddress(Address{Type: "home"}, "addr_1")
	u.AddAddress(Address{Type: "work"}, "addr_2")

	if !u.SetDefaultAddress("addr_2") {
		t.Fatal("expected SetDefaultAddress to find addr_2")
	}
	if got := countDefaults(u.Addresses); got != 1 {
		t.Errorf("expected exactly 1 default, got %d", got)
	}
	if !u.Addresses[1].IsDefault {
		t.Error("addr_2 must be the default")
	}

	if u.SetDefaultAddress("addr_missing") {
		t.Error("unknown id must return false")
	}
}

func TestUser_RemoveAddress(t *testing.T) {
	u := verifiedActiveUser()
	u.AddAddress(Address{Type: "home"}, "addr_1")
	u.AddAddress(Address{Type: "work"}, "addr_2")

	if !u.RemoveAddress("addr_1") {
		t.Fatal("expected RemoveAddress to find addr_1")
	}
	if len(u.Addresses) != 1 || u.Addresses[0].ID != "addr_2" {
		t.Errorf("unexpected addresses after removal: %+v", u.Addresses)
	}
	if u.RemoveAddress("addr_1") {
		t.Error("removing twice must return false")
	}
}

// ---------------------------------------------------------------------------
// Social accounts
// ---------------------------------------------------------------------------

func TestUser_LinkSocialAccount_MergesActiveSameProvider(t *testing.T) {
	u := verifiedActiveUser()
	u.LinkSocialAccount("google", "g-1", "alice@gmail.com", map[string]any{"name": "Alice"})
	u.LinkSocialAccount("google", "g-2", "", map[string]any{"picture": "http://x/y.png"})

	if len(u.SocialAccounts) != 1 {
		t.Fatalf("re-linking the same provider must merge, got %d records", len(u.SocialAccounts))
	}
	sa := u.SocialAccounts[0]
	if sa.ProviderID != "g-2" {
		t.Errorf("ProviderID must be replaced, got %q", sa.ProviderID)
	}
	if sa.Email != "alice@gmail.com" {
		t.Errorf("empty email on re-link must not clear, got %q", sa.Email)
	}
	if sa.ProviderData["name"] != "Alice" || sa.ProviderData["picture"] != "http://x/y.png" {
		t.Errorf("provider data must merge, got %+v", sa.ProviderData)
	}
}

func TestUser_LinkSocialAccount_DifferentProvidersCoexist(t *testing.T) {
	u := verifiedActiveUser()
	u.LinkSocialAccount("google", "g-1", "", nil)
	u.LinkSocialAccount("github", "gh-1", "", nil)

	if len(u.SocialAccounts) != 2 {
		t.Fatalf("expected 2 linked providers, got %d", len(u.SocialAccounts))
	}
}

func TestUser_UnlinkSocialAccount(t *testing.T) {
	u := verifiedActiveUser()
	u.LinkSocialAccount("google", "g-1", "", nil)

	if !u.UnlinkSocialAccount("google") {
		t.Fatal("expected unlink to succeed")
	}
	if u.SocialAccounts[0].IsActive {
		t.Error("unlink must deactivate, not delete")
	}
	if u.UnlinkSocialAccount("google") {
		t.Error("unlinking an inactive provider must return false")
	}
}

func TestUser_LinkAfterUnlink_AppendsNewActiveRecord(t *testing.T) {
	u := verifiedActiveUser()
	u.LinkSocialAccount("google", "g-1", "", nil)
	u.UnlinkSocialAccount("google")
	u.LinkSocialAccount("google", "g-2", "", nil)

	if len(u.SocialAccounts) != 2 {
		t.Fatalf("expected inactive history plus new active record, got %d", len(u.SocialAccounts))
	}
	active := 0
	for _, sa := range u.SocialAccounts {
		if sa.IsActive {
			active++
		}
	}
	if active != 1 {
		t.Errorf("expected exactly 1 active google link, got %d", active)
	}
}
