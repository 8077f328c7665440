package domain

import "time"

// RevokedCredential marks a credential as invalid before its natural expiry
// (logout, rotation). Presence in this table always wins over cryptographic
// validity.
//
// Security notes:
// - We never store the raw credential, only its SHA-256 hash (TokenHash).
// - ExpiresAt mirrors the credential's own exp claim: once that instant has
//   passed the credential cannot be replayed anyway, so the janitor may drop
//   the row.
type RevokedCredential struct {
	ID int64 `json:"id" gorm:"primaryKey"`

	TokenHash string `json:"-" gorm:"size:64;uniqueIndex;not null"`
	UserID    string `json:"user_id" gorm:"size:36;index;not null"`

	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at" gorm:"index;not null"`
}

func (RevokedCredential) TableName() string { return "revoked_credentials" }

func (c *RevokedCredential) IsExpired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
