package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sprintdesk/tracker-api/internal/core/domain"
	"github.com/sprintdesk/tracker-api/internal/core/ports"
)

type stubBlacklist struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
}

func newStubBlacklist() *stubBlacklist {
	return &stubBlacklist{revoked: make(map[string]time.Duration)}
}

func (b *stubBlacklist) Revoke(_ context.Context, token string, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revoked[token] = ttl
	return nil
}

func (b *stubBlacklist) IsRevoked(_ context.Context, token string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.revoked[token]
	return ok, nil
}

const testSecret = "test-secret"

func newAuthEnv() (*testEnv, *AuthService, *stubBlacklist) {
	env := newTestEnv()
	blacklist := newStubBlacklist()
	svc := NewAuthService(env.users, blacklist, testSecret, 30*time.Minute, discardLogger)
	return env, svc, blacklist
}

func registerUser(t *testing.T, env *testEnv, email, password string) *domain.User {
	t.Helper()
	u, err := env.userSvc.Create(context.Background(), ports.CreateUserInput{
		Email:    email,
		FullName: "Auth Tester",
		Password: password,
		Role:     domain.RoleDeveloper,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return u
}

func TestAuthService_Login_Success(t *testing.T) {
	env, svc, _ := newAuthEnv()
	user := registerUser(t, env, "login@example.com", "pw123")

	token, got, err := svc.Login(context.Background(), "login@example.com", "pw123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("user = %q, want %q", got.ID, user.ID)
	}

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	if err != nil {
		t.Fatalf("token does not parse: %v", err)
	}
	if claims["sub"] != user.ID || claims["role"] != domain.RoleDeveloper {
		t.Errorf("claims wrong: %+v", claims)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	env, svc, _ := newAuthEnv()
	registerUser(t, env, "login@example.com", "pw123")

	_, _, err := svc.Login(context.Background(), "login@example.com", "nope")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	_, svc, _ := newAuthEnv()
	_, _, err := svc.Login(context.Background(), "ghost@example.com", "pw")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

// An inactive user fails with the same error as a wrong password.
func TestAuthService_Login_InactiveUser(t *testing.T) {
	env, svc, _ := newAuthEnv()
	user := registerUser(t, env, "gone@example.com", "pw123")
	user.Active = false
	_ = env.users.Update(context.Background(), user)

	_, _, err := svc.Login(context.Background(), "gone@example.com", "pw123")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Logout_RevokesToken(t *testing.T) {
	env, svc, blacklist := newAuthEnv()
	registerUser(t, env, "bye@example.com", "pw123")

	token, _, err := svc.Login(context.Background(), "bye@example.com", "pw123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := svc.Logout(context.Background(), token); err != nil {
		t.Fatalf("logout: %v", err)
	}

	revoked, _ := blacklist.IsRevoked(context.Background(), token)
	if !revoked {
		t.Error("token not in blacklist after logout")
	}
	if ttl := blacklist.revoked[token]; ttl <= 0 || ttl > 30*time.Minute {
		t.Errorf("blacklist ttl out of range: %v", ttl)
	}
}

func TestAuthService_Logout_GarbageToken(t *testing.T) {
	_, svc, _ := newAuthEnv()
	if err := svc.Logout(context.Background(), "not-a-jwt"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
