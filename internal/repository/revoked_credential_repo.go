package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"resumehub/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RevokedCredentialRepository is the durable revocation set shared by every
// API instance. Inserts are idempotent so retries after a timeout are safe.
type RevokedCredentialRepository struct {
	db *gorm.DB
}

func NewRevokedCredentialRepository(db *gorm.DB) *RevokedCredentialRepository {
	return &RevokedCredentialRepository{db: db}
}

// Revoke records the credential as invalid until expiresAt. Re-revoking an
// already present credential is a no-op: the existing entry keeps its
// original expires_at.
func (r *RevokedCredentialRepository) Revoke(ctx context.Context, credential, userID string, expiresAt time.Time) error {
	entry := domain.RevokedCredential{
		TokenHash: HashCredential(credential),
		UserID:    userID,
		ExpiresAt: expiresAt.UTC(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "token_hash"}},
			DoNothing: true,
		}).
		Create(&entry).Error
}

func (r *RevokedCredentialRepository) IsRevoked(ctx context.Context, credential string) (bool, error) {
	var entry domain.RevokedCredential
	err := r.db.WithContext(ctx).
		Where("token_hash = ?", HashCredential(credential)).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// PurgeExpired deletes entries whose credential has passed its natural
// expiry. Storage reclamation only; never called on an authorization path.
func (r *RevokedCredentialRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at <= ?", now.UTC()).
		Delete(&domain.RevokedCredential{})
	return res.RowsAffected, res.Error
}

// HashCredential returns the SHA-256 hex digest used as the storage key, so
// a dumped revocation table exposes no replayable credentials.
func HashCredential(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
