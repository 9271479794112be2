// Package token signs and verifies the compact identity tokens exchanged with
// clients. Two kinds are issued from the same claims: a 24h access token and
// a 7d refresh token, both HS256-signed and bound to a fixed issuer and
// audience.
package token

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/accountsvc/user-service/internal/core/domain"
)

const (
	// DefaultAccessTTL is the access token lifetime.
	DefaultAccessTTL = 24 * time.Hour
	// DefaultRefreshTTL is the refresh token lifetime.
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

// Claims is the identity payload embedded in every token. Authorization never
// trusts these fields beyond the user id: role and active flag are re-read
// from the directory on each guarded request.
type Claims struct {
	UserID   int64  `json:"userId"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	IsActive bool   `json:"isActive"`
	jwt.RegisteredClaims
}

// Codec issues and verifies tokens with a shared secret. It is constructed
// once at startup and is safe for concurrent use.
type Codec struct {
	secret     []byte
	issuer     string
	audience   string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewCodec builds a Codec. Zero TTLs fall back to the defaults.
func NewCodec(secret, issuer, audience string, accessTTL, refreshTTL time.Duration) *Codec {
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTTL
	}
	return &Codec{
		secret:     []byte(secret),
		issuer:     issuer,
		audience:   audience,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// AccessTTL exposes the configured access token lifetime.
func (c *Codec) AccessTTL() time.Duration { return c.accessTTL }

// Generate issues an access token for the given identity.
func (c *Codec) Generate(userID int64, email, name string, isActive bool) (string, error) {
	return c.sign(userID, email, name, isActive, c.accessTTL)
}

// GenerateRefresh issues a refresh token for the given identity.
func (c *Codec) GenerateRefresh(userID int64, email, name string, isActive bool) (string, error) {
	return c.sign(userID, email, name, isActive, c.refreshTTL)
}

func (c *Codec) sign(userID int64, email, name string, isActive bool, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   userID,
		Email:    email,
		Name:     name,
		IsActive: isActive,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			Audience:  jwt.ClaimStrings{c.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(c.secret)
}

// Verify parses and validates a token. Every failure mode — bad signature,
// expiry, wrong issuer or audience, wrong algorithm — collapses to
// domain.ErrInvalidToken; callers learn nothing about which check failed.
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) {
			return c.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(c.issuer),
		jwt.WithAudience(c.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}

// ExtractFromHeader pulls the raw token out of an Authorization header value.
// Only the exact two-part form "Bearer <token>" is accepted; anything else
// means no token.
func ExtractFromHeader(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
