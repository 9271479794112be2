package ports

import (
	"context"

	"github.com/accountsvc/user-service/internal/core/domain"
)

// Sort orders supported by the user directory.
const (
	SortNewestFirst = "newest"
	SortByIDAsc     = "id_asc"
)

// ListQuery narrows and shapes a directory listing. Attributes is the
// projection (persistence attribute names); when empty the directory fetches
// everything except the sensitive set.
type ListQuery struct {
	NameContains  string
	EmailContains string
	Position      *domain.Role
	PositionAbove *int // position strictly greater than
	PositionBelow *int // position strictly less than
	IsActive      *bool
	Attributes    []string
	Limit         int64
	Offset        int64
	Sort          string
}

// UserChanges is a partial update; nil fields are left untouched.
type UserChanges struct {
	Name         *string
	Email        *string
	PasswordHash *string
	Position     *domain.Role
	IsActive     *bool
}

// UserRepository is the persistence capability the core consumes. FindByEmail
// returns the full record including the password hash (it backs the login
// credential check); every other read honors the attribute projection and the
// sensitive-field exclusion.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id int64, attributes []string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindAll(ctx context.Context, q ListQuery) ([]*domain.User, error)
	Update(ctx context.Context, id int64, changes UserChanges) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
}
