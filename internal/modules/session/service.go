package session

import (
	"context"
	"errors"
	"fmt"

	"resumehub/internal/audit"
	"resumehub/internal/domain"
	"resumehub/internal/pkg/token"

	"gorm.io/gorm"
)

// Service is the per-request session state machine. It composes the token
// verifier, the revocation store and the user lookup; the store is consulted
// before any identity is trusted.
type Service struct {
	tokens  TokenService
	store   RevocationStore
	users   UserLookup
	auditor *audit.Dispatcher
}

func NewService(tokens TokenService, store RevocationStore, users UserLookup, auditor *audit.Dispatcher) *Service {
	return &Service{
		tokens:  tokens,
		store:   store,
		users:   users,
		auditor: auditor,
	}
}

// IssuePair creates a fresh access/refresh pair for an already-authenticated
// subject. Callers (login, 2FA completion) live outside this module.
func (s *Service) IssuePair(ctx context.Context, userID, email string) (*TokenPair, error) {
	p, err := s.tokens.IssuePair(userID, email)
	if err != nil {
		return nil, fmt.Errorf("issue pair: %w", err)
	}
	return &TokenPair{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		ExpiresIn:    p.ExpiresIn,
	}, nil
}

// CheckAndMaybeRefresh decides, for one request, between authorize,
// transparent refresh and reject.
//
// Invalid-signature and expired access credentials are both reported as
// ErrTokenExpired so the caller cannot probe verification internals.
func (s *Service) CheckAndMaybeRefresh(ctx context.Context, accessCred, refreshCred string) (*GateResult, error) {
	if accessCred == "" {
		return nil, ErrNoToken
	}

	status, claims := s.tokens.Verify(accessCred, token.ClassAccess)
	switch status {
	case token.StatusInvalid:
		return nil, ErrTokenExpired

	case token.StatusValid:
		revoked, err := s.store.IsRevoked(ctx, accessCred)
		if err != nil {
			// A store failure must never read as "not revoked".
			return nil, fmt.Errorf("%w: %v", ErrSessionUnavailable, err)
		}
		if revoked {
			return nil, ErrTokenRevoked
		}
		return &GateResult{Identity: Identity{UserID: claims.UserID, Email: claims.Email}}, nil
	}

	// Access credential expired: rotate if the caller supplied a refresh
	// credential, otherwise ask for an explicit refresh.
	if refreshCred == "" {
		return nil, ErrTokenExpired
	}
	pair, user, err := s.rotate(ctx, refreshCred)
	if err != nil {
		return nil, err
	}
	return &GateResult{
		Identity: Identity{UserID: user.ID, Email: user.Email},
		Rotated:  pair,
	}, nil
}

// Rotate exchanges a refresh credential for a brand-new pair and revokes the
// credential that authorized the exchange.
func (s *Service) Rotate(ctx context.Context, refreshCred string) (*TokenPair, error) {
	pair, _, err := s.rotate(ctx, refreshCred)
	return pair, err
}

// Two requests racing on the same refresh credential can both pass the
// revocation check before either revokes it. Accepted: both pairs belong to
// the same legitimate user, and the first completed revoke closes the window
// for any third racer. Serializing this would need a distributed lock.
func (s *Service) rotate(ctx context.Context, refreshCred string) (*TokenPair, *domain.User, error) {
	status, claims := s.tokens.Verify(refreshCred, token.ClassRefresh)
	if status != token.StatusValid {
		// An expired refresh credential is indistinguishable from an
		// invalid one: no silent long-lived refresh.
		return nil, nil, ErrInvalidRefreshToken
	}

	revoked, err := s.store.IsRevoked(ctx, refreshCred)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: revocation lookup: %v", ErrRefreshFailed, err)
	}
	if revoked {
		return nil, nil, ErrTokenRevoked
	}

	user, err := s.users.FindActiveByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, fmt.Errorf("%w: user lookup: %v", ErrRefreshFailed, err)
	}

	p, err := s.tokens.IssuePair(user.ID, user.Email)
	if err != nil {
		// No revoke on failed issuance: the old refresh credential must
		// stay usable for a retry.
		return nil, nil, fmt.Errorf("%w: issue pair: %v", ErrRefreshFailed, err)
	}

	if err := s.store.Revoke(ctx, refreshCred, claims.UserID, claims.ExpiresAt.Time); err != nil {
		return nil, nil, fmt.Errorf("%w: revoke rotated credential: %v", ErrRefreshFailed, err)
	}

	s.auditor.Emit(audit.Event{Action: "session.rotated", UserID: user.ID})

	return &TokenPair{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		ExpiresIn:    p.ExpiresIn,
	}, user, nil
}

// Logout revokes whatever credentials the caller supplied, each until its own
// natural expiry. Success is reported only if every revoke durably committed;
// a partial failure leaves the corresponding credential usable and must not
// be swallowed.
func (s *Service) Logout(ctx context.Context, accessCred, refreshCred string) error {
	var errs []error
	var userID string

	creds := []struct {
		raw   string
		class token.Class
	}{
		{accessCred, token.ClassAccess},
		{refreshCred, token.ClassRefresh},
	}
	for _, c := range creds {
		if c.raw == "" {
			continue
		}
		status, claims := s.tokens.Verify(c.raw, c.class)
		if status != token.StatusValid {
			// Invalid cannot be used; expired terminated naturally.
			continue
		}
		if err := s.store.Revoke(ctx, c.raw, claims.UserID, claims.ExpiresAt.Time); err != nil {
			errs = append(errs, fmt.Errorf("revoke %s credential: %w", c.class, err))
			continue
		}
		userID = claims.UserID
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %v", ErrLogoutFailed, errors.Join(errs...))
	}
	if userID != "" {
		s.auditor.Emit(audit.Event{Action: "session.logout", UserID: userID})
	}
	return nil
}
