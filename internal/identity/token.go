package identity

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/trusthub/trusthub/internal/shared"
)

const issuer = "trusthub"

// Claims is the JWT payload. The full session identity is embedded so
// Refresh never has to consult the store.
type Claims struct {
	Identity SessionIdentity `json:"identity"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies session tokens (HS256).
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager constructs a TokenManager. An empty secret is a
// deployment defect.
func NewTokenManager(secret string, ttl time.Duration) (*TokenManager, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, fmt.Errorf("%w: token secret is empty", shared.ErrConfiguration)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("%w: token ttl must be positive", shared.ErrConfiguration)
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl}, nil
}

// TTL exposes the configured token lifetime.
func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

// Issue signs a token embedding the identity, valid for the default TTL.
// Returns the signed token and its JTI.
func (m *TokenManager) Issue(identity SessionIdentity) (string, string, error) {
	return m.IssueWithTTL(identity, m.ttl)
}

// IssueWithTTL signs a token with an explicit validity window. Used for the
// short-lived system identity.
func (m *TokenManager) IssueWithTTL(identity SessionIdentity, ttl time.Duration) (string, string, error) {
	if ttl <= 0 {
		return "", "", errors.New("identity: ttl must be positive")
	}
	now := time.Now().UTC()
	jti := uuid.NewString()
	claims := Claims{
		Identity: identity,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   fmt.Sprintf("%d", identity.UserID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        jti,
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", "", fmt.Errorf("identity: sign token: %w", err)
	}
	return signed, jti, nil
}

// Parse verifies the token and returns the embedded identity plus the
// token's JTI. Every verification failure collapses into ErrUnauthorized.
func (m *TokenManager) Parse(token string) (SessionIdentity, string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return SessionIdentity{}, "", shared.ErrUnauthorized
	}
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, shared.ErrUnauthorized
		}
		return m.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithExpirationRequired())
	if err != nil {
		return SessionIdentity{}, "", shared.ErrUnauthorized
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return SessionIdentity{}, "", shared.ErrUnauthorized
	}
	if !claims.Identity.Role.Valid() {
		return SessionIdentity{}, "", shared.ErrUnauthorized
	}
	return claims.Identity, claims.ID, nil
}
