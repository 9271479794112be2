package ports

import "context"

// LoginThrottle tracks failed login attempts per email. Implementations
// should fail open: an unavailable backend must not lock everyone out.
type LoginThrottle interface {
	TooMany(ctx context.Context, email string) (bool, error)
	Fail(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}
