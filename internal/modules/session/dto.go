package session

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type Identity struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// GateResult is what the per-request gate hands to downstream handlers.
// Rotated is non-nil when an expired access credential was transparently
// exchanged; the new pair must be forwarded to the caller.
type GateResult struct {
	Identity Identity
	Rotated  *TokenPair
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}
