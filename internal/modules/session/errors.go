package session

import (
	"errors"
	"net/http"
)

var (
	ErrNoToken             = errors.New("no access credential supplied")
	ErrTokenExpired        = errors.New("access credential expired or invalid")
	ErrTokenRevoked        = errors.New("credential revoked")
	ErrInvalidRefreshToken = errors.New("refresh credential invalid or expired")
	ErrUserNotFound        = errors.New("user not found or deactivated")
	ErrRefreshFailed       = errors.New("session refresh failed")
	ErrLogoutFailed        = errors.New("logout failed")
	ErrSessionUnavailable  = errors.New("revocation check unavailable")
)

// Code maps a service error to its stable wire code. Calling layers key off
// the code to decide between re-authentication and retry.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrNoToken):
		return "NO_TOKEN"
	case errors.Is(err, ErrTokenExpired):
		return "TOKEN_EXPIRED"
	case errors.Is(err, ErrTokenRevoked):
		return "TOKEN_REVOKED"
	case errors.Is(err, ErrInvalidRefreshToken):
		return "INVALID_REFRESH_TOKEN"
	case errors.Is(err, ErrUserNotFound):
		return "USER_NOT_FOUND"
	case errors.Is(err, ErrRefreshFailed):
		return "REFRESH_FAILED"
	case errors.Is(err, ErrLogoutFailed):
		return "LOGOUT_FAILED"
	default:
		return "SESSION_UNAVAILABLE"
	}
}

// HTTPStatus picks the transport status for a service error. Terminal
// credential problems are 401 so clients re-authenticate; infrastructure
// failures are 503 and retryable.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNoToken),
		errors.Is(err, ErrTokenExpired),
		errors.Is(err, ErrTokenRevoked),
		errors.Is(err, ErrInvalidRefreshToken):
		return http.StatusUnauthorized
	case errors.Is(err, ErrUserNotFound):
		return http.StatusForbidden
	case errors.Is(err, ErrLogoutFailed):
		return http.StatusInternalServerError
	default:
		return http.StatusServiceUnavailable
	}
}
