package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/accounthub/user-service/internal/core/domain"
	"github.com/accounthub/user-service/internal/core/ports"
)

type stubUserService struct {
	getFn    func(ctx context.Context, requester ports.Requester, userID string) (*domain.User, error)
	updateFn func(ctx context.Context, in ports.UpdateUserInput) (*domain.User, error)
	deleteFn func(ctx context.Context, requester ports.Requester, userID string) error
	listFn   func(ctx context.Context, in ports.ListUsersInput) (*ports.ListUsersResult, error)
	searchFn func(ctx context.Context, in ports.SearchUsersInput) ([]*domain.User, error)
	linkFn   func(ctx context.Context, in ports.LinkSocialAccountInput) (*domain.User, error)
	unlinkFn func(ctx context.Context, requester ports.Requester, userID, provider string) (*domain.User, error)

	verifyEmailFn       func(ctx context.Context, requester ports.Requester, userID string) (*domain.User, error)
	addAddressFn        func(ctx context.Context, requester ports.Requester, userID string, addr domain.Address) (*domain.User, error)
	setDefaultAddressFn func(ctx context.Context, requester ports.Requester, userID, addressID string) (*domain.User, error)
	removeAddressFn     func(ctx context.Context, requester ports.Requester, userID, addressID string) (*domain.User, error)
}

func (s *stubUserService) GetUser(ctx context.Context, requester ports.Requester, userID string) (*domain.User, error) {
	return s.getFn(ctx, requester, userID)
}

func (s *stubUserService) UpdateUser(ctx context.Context, in ports.UpdateUserInput) (*domain.User, error) {
	return s.updateFn(ctx, in)
}

func (s *stubUserService) DeleteUser(ctx context.Context, requester ports.Requester, userID string) error {
	return s.deleteFn(ctx, requester, userID)
}

func (s *stubUserService) ListUsers(ctx context.Context, in ports.ListUsersInput) (*ports.ListUsersResult, error) {
	return s.listFn(ctx, in)
}

func (s *stubUserService) SearchUsers(ctx context.Context, in ports.SearchUsersInput) ([]*domain.User, error) {
	return s.searchFn(ctx, in)
}

func (s *stubUserService) LinkSocialAccount(ctx context.Context, in ports.LinkSocialAccountInput) (*domain.User, error) {
	return s.linkFn(ctx, in)
}

func (s *stubUserService) UnlinkSocialAccount(ctx context.Context, requester ports.Requester, userID, provider string) (*domain.User, error) {
	return s.unlinkFn(ctx, requester, userID, provider)
}

func (s *stubUserService) VerifyEmail(ctx context.Context, requester ports.Requester, userID string) (*domain.User, error) {
	return s.verifyEmailFn(ctx, requester, userID)
}

func (s *stubUserService) AddAddress(ctx context.Context, requester ports.Requester, userID string, addr domain.Address) (*domain.User, error) {
	return s.addAddressFn(ctx, requester, userID, addr)
}

func (s *stubUserService) SetDefaultAddress(ctx context.Context, requester ports.Requester, userID, addressID string) (*domain.User, error) {
	return s.setDefaultAddressFn(ctx, requester, userID, addressID)
}

func (s *stubUserService) RemoveAddress(ctx context.Context, requester ports.Requester, userID, addressID string) (*domain.User, error) {
	return s.removeAddressFn(ctx, requester, userID, addressID)
}

// authedContext builds a request context carrying the claims the Auth
// middleware would have injected.
func authedContext(t *testing.T, method, path, body, userID, role string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", userID)
	c.Set("role", role)
	return c, rec
}

func TestUserHandler_Get_Success(t *testing.T) {
	stub := &stubUserService{
		getFn: func(_ context.Context, requester ports.Requester, userID string) (*domain.User, error) {
			if requester.UserID != "user_2" || userID != "user_1" {
				t.Fatalf("unexpected args: %+v %q", requester, userID)
			}
			return sampleUser(), nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := authedContext(t, http.MethodGet, "/v1/users/user_1", "", "user_2", domain.RoleUser)
	c.SetParamNames("id")
	c.SetParamValues("user_1")

	if err := h.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok {
		t.Fatalf("expected user envelope, got %v", resp)
	}
	// Third party on a public profile with default preferences: no email.
	if _, present := user["email"]; present {
		t.Errorf("public view must omit email, got %v", user["email"])
	}
	if user["username"] != "alice" {
		t.Errorf("expected public username, got %v", user["username"])
	}
}

func TestUserHandler_Get_OwnerSeesEmail(t *testing.T) {
	stub := &stubUserService{
		getFn: func(_ context.Context, requester ports.Requester, userID string) (*domain.User, error) {
			return sampleUser(), nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := authedContext(t, http.MethodGet, "/v1/users/user_1", "", "user_1", domain.RoleUser)
	c.SetParamNames("id")
	c.SetParamValues("user_1")

	if err := h.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	user := resp["user"].(map[string]any)
	if user["email"] != "alice@example.com" {
		t.Errorf("owner must see email, got %v", user["email"])
	}
}

func TestUserHandler_Get_MissingClaims(t *testing.T) {
	h := NewUserHandler(&stubUserService{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/users/user_1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Get(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without claims, got %v", err)
	}
}

func TestUserHandler_Me_UsesTokenSubject(t *testing.T) {
	stub := &stubUserService{
		getFn: func(_ context.Context, requester ports.Requester, userID string) (*domain.User, error) {
			if userID != "user_1" || requester.UserID != "user_1" {
				t.Fatalf("me must resolve the token subject, got %q", userID)
			}
			return sampleUser(), nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := authedContext(t, http.MethodGet, "/v1/users/me", "", "user_1", domain.RoleUser)
	if err := h.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUserHandler_Update_MapsPatches(t *testing.T) {
	stub := &stubUserService{
		updateFn: func(_ context.Context, in ports.UpdateUserInput) (*domain.User, error) {
			if in.Profile == nil || in.Profile.Bio == nil || *in.Profile.Bio != "new bio" {
				t.Fatalf("profile patch not mapped: %+v", in.Profile)
			}
			if in.Profile.FirstName != nil {
				t.Fatal("absent fields must map to nil")
			}
			if in.Preferences == nil || in.Preferences.ProfileVisibility == nil || *in.Preferences.ProfileVisibility != "private" {
				t.Fatalf("preferences patch not mapped: %+v", in.Preferences)
			}
			u := sampleUser()
			u.Profile.Bio = "new bio"
			return u, nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := authedContext(t, http.MethodPatch, "/v1/users/user_1",
		`{"profile":{"bio":"new bio"},"preferences":{"profile_visibility":"private"}}`,
		"user_1", domain.RoleUser)
	c.SetParamNames("id")
	c.SetParamValues("user_1")

	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUserHandler_Update_RejectsBadVisibility(t *testing.T) {
	stub := &stubUserService{
		updateFn: func(_ context.Context, in ports.UpdateUserInput) (*domain.User, error) {
			t.Fatalf("service must not be called")
			return nil, nil
		},
	}
	h := NewUserHandler(stub)

	c, _ := authedContext(t, http.MethodPatch, "/v1/users/user_1",
		`{"preferences":{"profile_visibility":"invisible"}}`, "user_1", domain.RoleUser)
	c.SetParamNames("id")
	c.SetParamValues("user_1")

	if err := h.Update(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUserHandler_Delete_Success(t *testing.T) {
	stub := &stubUserService{
		deleteFn: func(_ context.Context, requester ports.Requester, userID string) error {
			if userID != "user_1" {
				t.Fatalf("unexpected target: %q", userID)
			}
			return nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := authedContext(t, http.MethodDelete, "/v1/users/user_1", "", "user_1", domain.RoleUser)
	c.SetParamNames("id")
	c.SetParamValues("user_1")

	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUserHandler_Delete_PropagatesForbidden(t *testing.T) {
	stub := &stubUserService{
		deleteFn: func(_ context.Context, requester ports.Requester, userID string) error {
			return &domain.ForbiddenError{Message: "admins cannot delete their own account"}
		},
	}
	h := NewUserHandler(stub)

	c, _ := authedContext(t, http.MethodDelete, "/v1/users/admin_1", "", "admin_1", domain.RoleAdmin)
	c.SetParamNames("id")
	c.SetParamValues("admin_1")

	if err := h.Delete(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden to propagate, got %v", err)
	}
}

func TestUserHandler_List_ParsesQueryParams(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	stub := &stubUserService{
		listFn: func(_ context.Context, in ports.ListUsersInput) (*ports.ListUsersResult, error) {
			f := in.Filter
			if f.Role != "user" {
				t.Errorf("role: got %q", f.Role)
			}
			if f.IsActive == nil || *f.IsActive != true {
				t.Errorf("is_active: got %v", f.IsActive)
			}
			if f.EmailVerified != nil {
				t.Errorf("email_verified must stay nil when absent, got %v", f.EmailVerified)
			}
			if !f.CreatedFrom.Equal(from) {
				t.Errorf("created_from: got %v", f.CreatedFrom)
			}
			if f.Page != 2 || f.Limit != 10 {
				t.Errorf("pagination: got page=%d limit=%d", f.Page, f.Limit)
			}
			if f.SortDesc {
				t.Error("order=asc must clear SortDesc")
			}
			return &ports.ListUsersResult{Items: []*domain.User{sampleUser()}, Total: 1, Page: 2, Limit: 10, TotalPages: 1}, nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := authedContext(t, http.MethodGet,
		"/v1/users?role=user&is_active=true&created_from=2026-01-01T00:00:00Z&page=2&limit=10&order=asc",
		"", "admin_1", domain.RoleAdmin)

	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	pagination, ok := resp["pagination"].(map[string]any)
	if !ok || pagination["total"] != float64(1) {
		t.Fatalf("unexpected pagination: %v", resp["pagination"])
	}
}

func TestUserHandler_Search_ReturnsCount(t *testing.T) {
	stub := &stubUserService{
		searchFn: func(_ context.Context, in ports.SearchUsersInput) ([]*domain.User, error) {
			if in.Query != "ali" || in.Limit != 5 {
				t.Fatalf("unexpected input: %+v", in)
			}
			if !in.IncludeInactive {
				t.Fatal("include_inactive must pass through; the service decides whether to honor it")
			}
			return []*domain.User{sampleUser()}, nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := authedContext(t, http.MethodGet,
		"/v1/users/search?q=ali&limit=5&include_inactive=true", "", "user_2", domain.RoleUser)

	if err := h.Search(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["count"] != float64(1) {
		t.Fatalf("expected count 1, got %v", resp["count"])
	}
}

func TestUserHandler_LinkSocial_Success(t *testing.T) {
	stub := &stubUserService{
		linkFn: func(_ context.Context, in ports.LinkSocialAccountInput) (*domain.User, error) {
			if in.Provider != "google" || in.ProviderID != "g-123" {
				t.Fatalf("unexpected input: %+v", in)
			}
			u := sampleUser()
			u.LinkSocialAccount(in.Provider, in.ProviderID, in.Email, in.ProviderData)
			return u, nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := authedContext(t, http.MethodPost, "/v1/users/user_1/social-accounts",
		`{"provider":"google","provider_id":"g-123","email":"alice@gmail.com"}`,
		"user_1", domain.RoleUser)
	c.SetParamNames("id")
	c.SetParamValues("user_1")

	if err := h.LinkSocial(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUserHandler_LinkSocial_MissingProvider(t *testing.T) {
	stub := &stubUserService{
		linkFn: func(_ context.Context, in ports.LinkSocialAccountInput) (*domain.User, error) {
			t.Fatalf("service must not be called")
			return nil, nil
		},
	}
	h := NewUserHandler(stub)

	c, _ := authedContext(t, http.MethodPost, "/v1/users/user_1/social-accounts",
		`{"provider_id":"g-123"}`, "user_1", domain.RoleUser)
	c.SetParamNames("id")
	c.SetParamValues("user_1")

	if err := h.LinkSocial(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUserHandler_UnlinkSocial(t *testing.T) {
	stub := &stubUserService{
		unlinkFn: func(_ context.Context, requester ports.Requester, userID, provider string) (*domain.User, error) {
			if userID != "user_1" || provider != "google" {
				t.Fatalf("unexpected args: %q %q", userID, provider)
			}
			return sampleUser(), nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := authedContext(t, http.MethodDelete, "/v1/users/user_1/social-accounts/google", "", "user_1", domain.RoleUser)
	c.SetParamNames("id", "provider")
	c.SetParamValues("user_1", "google")

	if err := h.UnlinkSocial(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUserHandler_AddAddress_Success(t *testing.T) {
	stub := &stubUserService{
		addAddressFn: func(_ context.Context, requester ports.Requester, userID string, addr domain.Address) (*domain.User, error) {
			if userID != "user_1" || addr.Type != "home" || addr.Street != "1 Main St" {
				t.Fatalf("unexpected args: %q %+v", userID, addr)
			}
			u := sampleUser()
			u.AddAddress(addr, "addr_1")
			return u, nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := authedContext(t, http.MethodPost, "/v1/users/user_1/addresses",
		`{"type":"home","street":"1 Main St","city":"Springfield","postal_code":"12345","country":"US"}`,
		"user_1", domain.RoleUser)
	c.SetParamNames("id")
	c.SetParamValues("user_1")

	if err := h.AddAddress(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestUserHandler_AddAddress_InvalidType(t *testing.T) {
	stub := &stubUserService{
		addAddressFn: func(_ context.Context, _ ports.Requester, _ string, _ domain.Address) (*domain.User, error) {
			t.Fatalf("service must not be called")
			return nil, nil
		},
	}
	h := NewUserHandler(stub)

	c, _ := authedContext(t, http.MethodPost, "/v1/users/user_1/addresses",
		`{"type":"castle","street":"1 Main St","city":"Springfield","postal_code":"12345","country":"US"}`,
		"user_1", domain.RoleUser)
	c.SetParamNames("id")
	c.SetParamValues("user_1")

	if err := h.AddAddress(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUserHandler_SetDefaultAddress(t *testing.T) {
	stub := &stubUserService{
		setDefaultAddressFn: func(_ context.Context, _ ports.Requester, userID, addressID string) (*domain.User, error) {
			if userID != "user_1" || addressID != "addr_2" {
				t.Fatalf("unexpected args: %q %q", userID, addressID)
			}
			return sampleUser(), nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := authedContext(t, http.MethodPut, "/v1/users/user_1/addresses/addr_2/default", "", "user_1", domain.RoleUser)
	c.SetParamNames("id", "addressID")
	c.SetParamValues("user_1", "addr_2")

	if err := h.SetDefaultAddress(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUserHandler_RemoveAddress_NotFound(t *testing.T) {
	stub := &stubUserService{
		removeAddressFn: func(_ context.Context, _ ports.Requester, _, _ string) (*domain.User, error) {
			return nil, &domain.NotFoundError{Resource: "address"}
		},
	}
	h := NewUserHandler(stub)

	c, _ := authedContext(t, http.MethodDelete, "/v1/users/user_1/addresses/addr_9", "", "user_1", domain.RoleUser)
	c.SetParamNames("id", "addressID")
	c.SetParamValues("user_1", "addr_9")

	if err := h.RemoveAddress(c); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestUserHandler_VerifyEmail(t *testing.T) {
	stub := &stubUserService{
		verifyEmailFn: func(_ context.Context, requester ports.Requester, userID string) (*domain.User, error) {
			if requester.UserID != "admin_1" || userID != "user_1" {
				t.Fatalf("unexpected args: %+v %q", requester, userID)
			}
			return sampleUser(), nil
		},
	}
	h := NewUserHandler(stub)

	c, rec := authedContext(t, http.MethodPost, "/v1/users/user_1/verify-email", "", "admin_1", domain.RoleAdmin)
	c.SetParamNames("id")
	c.SetParamValues("user_1")

	if err := h.VerifyEmail(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
