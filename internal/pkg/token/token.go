package token

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Class selects the signing key for a credential. Access and refresh
// credentials are signed with distinct secrets so one class can never be
// replayed as the other.
type Class string

const (
	ClassAccess  Class = "access"
	ClassRefresh Class = "refresh"
)

// Status is the outcome of verifying a credential. Expired is a separate
// state (not an error) so callers must consciously decide whether rotation
// is permitted.
type Status int

const (
	StatusInvalid Status = iota
	StatusExpired
	StatusValid
)

type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
	Class  string `json:"token_class"`
	jwtlib.RegisteredClaims
}

type Pair struct {
	AccessToken  string
	RefreshToken string
	// ExpiresIn is the access token lifetime in seconds.
	ExpiresIn int64
}

type Config struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	// TimeFunc overrides the clock used for issuing and verifying.
	// Defaults to time.Now.
	TimeFunc func() time.Time
}

// Service issues and verifies signed credentials. It is stateless and safe
// for concurrent use; it never touches the revocation store.
type Service struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func New(cfg Config) *Service {
	now := cfg.TimeFunc
	if now == nil {
		now = time.Now
	}
	return &Service{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		now:           now,
	}
}

func (s *Service) IssueAccess(userID, email string) (string, error) {
	return s.sign(Claims{
		UserID: userID,
		Email:  email,
		Class:  string(ClassAccess),
	}, s.accessSecret, s.accessTTL)
}

// IssueRefresh deliberately omits the email: a leaked refresh credential
// decodes to nothing but the user id.
func (s *Service) IssueRefresh(userID string) (string, error) {
	return s.sign(Claims{
		UserID: userID,
		Class:  string(ClassRefresh),
	}, s.refreshSecret, s.refreshTTL)
}

func (s *Service) IssuePair(userID, email string) (*Pair, error) {
	access, err := s.IssueAccess(userID, email)
	if err != nil {
		return nil, err
	}
	refresh, err := s.IssueRefresh(userID)
	if err != nil {
		return nil, err
	}
	return &Pair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.accessTTL.Seconds()),
	}, nil
}

// Verify checks signature and expiry for the given key class.
// Malformed or mis-signed credentials return StatusInvalid with nil claims.
// A well-signed but expired credential returns StatusExpired with its claims
// so the caller can still identify the subject for a potential refresh.
func (s *Service) Verify(credential string, class Class) (Status, *Claims) {
	secret := s.accessSecret
	if class == ClassRefresh {
		secret = s.refreshSecret
	}

	claims := &Claims{}
	_, err := jwtlib.ParseWithClaims(credential, claims, func(t *jwtlib.Token) (any, error) {
		return secret, nil
	},
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) && claims.Class == string(class) {
			return StatusExpired, claims
		}
		return StatusInvalid, nil
	}
	if claims.Class != string(class) {
		return StatusInvalid, nil
	}
	return StatusValid, claims
}

func (s *Service) sign(claims Claims, secret []byte, ttl time.Duration) (string, error) {
	now := s.now()
	claims.RegisteredClaims = jwtlib.RegisteredClaims{
		ID:        uuid.NewString(),
		IssuedAt:  jwtlib.NewNumericDate(now),
		ExpiresAt: jwtlib.NewNumericDate(now.Add(ttl)),
	}
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(secret)
}
