// Package redact keeps sensitive account attributes from ever leaving the
// system. It strips them from outward payloads and, for storage-level
// projections, computes which attributes may be fetched in the first place.
package redact

import (
	"fmt"

	"github.com/accountsvc/user-service/internal/core/domain"
)

// SensitiveFields is the process-wide set of attributes that must never
// appear in any outward representation of a user record.
var SensitiveFields = []string{
	"password",
	"refreshToken",
	"lastLoginIp",
	"resetPasswordToken",
	"emailVerificationToken",
	"twoFactorSecret",
	"apiKey",
	"internalNotes",
}

var sensitiveSet = func() map[string]struct{} {
	s := make(map[string]struct{}, len(SensitiveFields))
	for _, f := range SensitiveFields {
		s[f] = struct{}{}
	}
	return s
}()

// publicAttributes is the allow-list from client-facing field name to
// persistence attribute name. Requested names absent from this table are
// dropped rather than forwarded to storage.
var publicAttributes = map[string]string{
	"id":        "id",
	"name":      "name",
	"email":     "email",
	"position":  "position",
	"isActive":  "isActive",
	"createdAt": "createdAt",
	"updatedAt": "updatedAt",
}

func init() {
	// The allow-list must cover exactly the public user schema and must never
	// intersect the sensitive set. Catch drift at startup rather than leaking
	// a column at request time.
	for name, attr := range publicAttributes {
		if IsSensitive(name) || IsSensitive(attr) {
			panic(fmt.Sprintf("redact: sensitive attribute %q in public allow-list", name))
		}
	}
	for _, want := range []string{"id", "name", "email", "position", "isActive", "createdAt", "updatedAt"} {
		if _, ok := publicAttributes[want]; !ok {
			panic(fmt.Sprintf("redact: public allow-list missing attribute %q", want))
		}
	}
}

// IsSensitive reports whether the named attribute belongs to the sensitive set.
func IsSensitive(name string) bool {
	_, ok := sensitiveSet[name]
	return ok
}

// Sanitize returns a shallow copy of data with every sensitive key removed.
// Nil input is returned unchanged, and sanitizing twice is a no-op.
func Sanitize(data map[string]any) map[string]any {
	if data == nil {
		return nil
	}
	out := make(map[string]any, len(data))
	for k, v := range data {
		if IsSensitive(k) {
			continue
		}
		out[k] = v
	}
	return out
}

// SafeAttributes returns the storage-level exclusion list: the sensitive set
// unioned with any extra attribute names. Used so sensitive columns are never
// fetched, not merely stripped afterwards.
func SafeAttributes(extra ...string) []string {
	out := make([]string, 0, len(SensitiveFields)+len(extra))
	out = append(out, SensitiveFields...)
	out = append(out, extra...)
	return out
}

// SelectAttributes maps a client-requested field-name list to persistence
// attribute names. The id attribute is always included, unknown names are
// dropped, and no sensitive attribute can be produced regardless of input.
func SelectAttributes(requested []string) []string {
	attrs := []string{"id"}
	seen := map[string]struct{}{"id": {}}
	for _, field := range requested {
		attr, ok := publicAttributes[field]
		if !ok {
			continue
		}
		if _, dup := seen[attr]; dup {
			continue
		}
		seen[attr] = struct{}{}
		attrs = append(attrs, attr)
	}
	return attrs
}

// UserPayload renders the outward representation of a user record. The
// password hash is simply never copied in, and the result is sanitized so the
// guarantee holds even if the representation grows new fields.
func UserPayload(u *domain.User) map[string]any {
	if u == nil {
		return nil
	}
	return Sanitize(map[string]any{
		"id":        u.ID,
		"name":      u.Name,
		"email":     u.Email,
		"position":  int(u.Position),
		"isActive":  u.IsActive,
		"createdAt": u.CreatedAt,
		"updatedAt": u.UpdatedAt,
	})
}
