package session

import (
	"context"
	"time"

	"resumehub/internal/domain"
	"resumehub/internal/pkg/token"
)

// RevocationStore is the single shared mutable resource of the session core.
// Revoke must be an idempotent insert; IsRevoked is consulted before any
// identity is trusted.
type RevocationStore interface {
	Revoke(ctx context.Context, credential, userID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, credential string) (bool, error)
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

// UserLookup — read-only view into the external user-management component.
// A missing or soft-deleted user surfaces as gorm.ErrRecordNotFound.
type UserLookup interface {
	FindActiveByID(ctx context.Context, id string) (*domain.User, error)
}

// TokenService — only the issuer/verifier methods the session core uses.
type TokenService interface {
	IssuePair(userID, email string) (*token.Pair, error)
	Verify(credential string, class token.Class) (token.Status, *token.Claims)
}
