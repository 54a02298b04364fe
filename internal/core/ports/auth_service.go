package ports

import (
	"context"
	"time"

	"github.com/sprintdesk/tracker-api/internal/core/domain"
)

// TokenBlacklist stores revoked tokens until their natural expiry.
type TokenBlacklist interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// AuthService implements login and token revocation. Registration goes
// through UserService.Create.
type AuthService interface {
	// Login authenticates by email and password and returns a signed token.
	// Inactive users cannot log in.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// Logout revokes the presented token for its remaining lifetime.
	Logout(ctx context.Context, token string) error
}
