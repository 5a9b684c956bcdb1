package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/bp-tracker/internal/domain"
)

// ShareRejectReason enumerates why a share token failed verification. The
// distinction exists for internal logging only; callers surface a single
// generic rejection so an unauthenticated requester learns nothing about
// which check failed.
type ShareRejectReason int

const (
	ShareRejectNone ShareRejectReason = iota
	ShareRejectMalformed
	ShareRejectExpired
	ShareRejectWrongType
)

func (r ShareRejectReason) String() string {
	switch r {
	case ShareRejectNone:
		return "none"
	case ShareRejectMalformed:
		return "malformed"
	case ShareRejectExpired:
		return "expired"
	case ShareRejectWrongType:
		return "wrong_type"
	default:
		return "unknown"
	}
}

// ShareClaims describes the share-token JWT payload.
type ShareClaims struct {
	UserID    string `json:"sub"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

// ShareTokenManager issues and verifies time-boxed share-link tokens.
type ShareTokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewShareTokenManager builds a manager. An empty secret is a configuration
// error and fails construction so the service cannot start minting tokens
// that will never verify.
func NewShareTokenManager(secret string, ttl time.Duration) (*ShareTokenManager, error) {
	if secret == "" {
		return nil, errors.New("share token secret not configured")
	}
	if ttl <= 0 {
		ttl = 48 * time.Hour
	}
	return &ShareTokenManager{secret: []byte(secret), ttl: ttl}, nil
}

// Issue mints a signed share token for the patient, valid for the
// configured window from now.
func (m *ShareTokenManager) Issue(userID string) (string, time.Time, time.Time, error) {
	issuedAt := time.Now()
	expiresAt := issuedAt.Add(m.ttl)
	claims := &ShareClaims{
		UserID:    userID,
		TokenType: domain.TokenTypeShare,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, time.Time{}, err
	}
	return tokenString, issuedAt, expiresAt, nil
}

// Verify checks signature, expiry, and the share type marker. All three must
// hold; the reason reports the first failed check. A token signed for any
// other purpose is rejected even when its signature and expiry are fine.
func (m *ShareTokenManager) Verify(tokenStr string) (*ShareClaims, ShareRejectReason) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &ShareClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ShareRejectExpired
		}
		return nil, ShareRejectMalformed
	}

	claims, ok := parsed.Claims.(*ShareClaims)
	if !ok || !parsed.Valid {
		return nil, ShareRejectMalformed
	}
	if claims.TokenType != domain.TokenTypeShare {
		return nil, ShareRejectWrongType
	}
	return claims, ShareRejectNone
}
