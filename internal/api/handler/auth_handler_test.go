package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/sprintdesk/tracker-api/internal/core/domain"
	"github.com/sprintdesk/tracker-api/internal/core/ports"
)

func TestAuthHandler_Login_Success(t *testing.T) {
	auth := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.User, error) {
			if email != "alice@example.com" || password != "secret-pass" {
				t.Fatalf("unexpected credentials: %s", email)
			}
			return "signed-token", &domain.User{ID: "u1", Email: email, Role: domain.RoleAdmin, Active: true}, nil
		},
	}
	h := NewAuthHandler(auth, &stubUserService{})

	c, rec := newJSONContext(t, http.MethodPost, "/auth/login",
		`{"email":"alice@example.com","password":"secret-pass"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "signed-token" {
		t.Fatalf("token missing from response: %+v", resp)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["email"] != "alice@example.com" {
		t.Fatalf("user missing from response: %+v", resp)
	}
	if _, leaked := user["password_hash"]; leaked {
		t.Fatalf("password hash leaked in response")
	}
}

func TestAuthHandler_Login_BadCredentialsPassedThrough(t *testing.T) {
	auth := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.User, error) {
			return "", nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(auth, &stubUserService{})

	c, _ := newJSONContext(t, http.MethodPost, "/auth/login",
		`{"email":"alice@example.com","password":"wrong"}`)
	err := h.Login(c)
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Login_MalformedEmail(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, &stubUserService{})

	c, _ := newJSONContext(t, http.MethodPost, "/auth/login", `{"email":"not-an-email","password":"x"}`)
	err := h.Login(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 HTTPError, got %v", err)
	}
}

func TestAuthHandler_Register_Success(t *testing.T) {
	users := &stubUserService{
		createFn: func(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
			if input.Role != domain.RoleScrumMaster {
				t.Fatalf("unexpected role: %s", input.Role)
			}
			return &domain.User{ID: "u1", Email: input.Email, Role: input.Role, Active: true}, nil
		},
	}
	h := NewAuthHandler(&stubAuthService{}, users)

	c, rec := newJSONContext(t, http.MethodPost, "/auth/register",
		`{"email":"sm@example.com","full_name":"Sam","password":"longenough","role":"ScrumMaster"}`)
	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestAuthHandler_Logout_RevokesPresentedToken(t *testing.T) {
	var revoked string
	auth := &stubAuthService{
		logoutFn: func(ctx context.Context, token string) error {
			revoked = token
			return nil
		},
	}
	h := NewAuthHandler(auth, &stubUserService{})

	c, rec := newJSONContext(t, http.MethodPost, "/auth/logout", "")
	c.Set("token", "the-bearer-token")

	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if revoked != "the-bearer-token" {
		t.Fatalf("token not passed to service: %q", revoked)
	}
}

func TestAuthHandler_Logout_MissingToken(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, &stubUserService{})

	c, _ := newJSONContext(t, http.MethodPost, "/auth/logout", "")
	c.Set("token", nil)

	err := h.Logout(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestAuthHandler_Me_ReturnsOwnRecord(t *testing.T) {
	users := &stubUserService{
		getFn: func(ctx context.Context, id string) (*domain.User, error) {
			if id != "actor-1" {
				t.Fatalf("id not taken from claims: %s", id)
			}
			return &domain.User{ID: id, Email: "me@example.com", Active: true}, nil
		},
	}
	h := NewAuthHandler(&stubAuthService{}, users)

	c, rec := newJSONContext(t, http.MethodGet, "/auth/me", "")
	if err := h.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
