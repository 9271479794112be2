// Package security wraps the one-way credential hash and the password
// strength policy. Callers never compare digests directly: bcrypt output is
// salted, so two hashes of the same plaintext differ.
package security

import "golang.org/x/crypto/bcrypt"

// DefaultCost is the bcrypt work factor used when none is configured.
const DefaultCost = 12

// Hasher hashes and verifies passwords with a tunable bcrypt cost.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher with the given cost. Costs outside bcrypt's
// supported range fall back to DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash returns a salted digest of the plaintext.
func (h *Hasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether plaintext is the password behind digest. Garbage
// digests simply fail verification.
func (h *Hasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}

// ValidatePassword enforces the account password policy: at least 8
// characters, at least one lowercase letter, one uppercase letter and one
// digit, and nothing outside [A-Za-z0-9@$!%*?&].
func ValidatePassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	var hasLower, hasUpper, hasDigit bool
	for _, c := range password {
		switch {
		case c >= 'a' && c <= 'z':
			hasLower = true
		case c >= 'A' && c <= 'Z':
			hasUpper = true
		case c >= '0' && c <= '9':
			hasDigit = true
		case c == '@' || c == '$' || c == '!' || c == '%' || c == '*' || c == '?' || c == '&':
		default:
			return false
		}
	}
	return hasLower && hasUpper && hasDigit
}
