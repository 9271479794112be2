package ports

import (
	"context"

	"github.com/accountsvc/user-service/internal/core/domain"
)

// CreateUserInput carries a new account. Position and IsActive are optional
// and default to Employee and active.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Position *domain.Role
	IsActive *bool
}

// UpdateUserInput is a partial profile update; a supplied password is
// re-validated against the strength policy and re-hashed.
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
	Position *domain.Role
	IsActive *bool
}

// SearchInput filters the admin user search.
type SearchInput struct {
	Name     string
	Email    string
	Position *domain.Role
	IsActive *bool
	Limit    int64
	Offset   int64
}

// CriteriaInput drives the criteria listing, including the even-id filter.
type CriteriaInput struct {
	EvenIDs     bool
	MinPosition *int
	MaxPosition *int
	IsActive    *bool
	Limit       int64
	Offset      int64
}

// LoginResult is what a successful login hands back to either surface.
type LoginResult struct {
	User         *domain.User
	AccessToken  string
	RefreshToken string
	ExpiresIn    string
}

// PermissionInfo describes an actor's derived role and permission set.
type PermissionInfo struct {
	UserID      int64
	Role        string
	Permissions []string
}

// UserService is the domain operation surface shared by the REST handlers and
// the GraphQL resolvers. Authorization is decided by the access engine before
// these are invoked; field redaction is applied by the caller on the way out.
type UserService interface {
	Create(ctx context.Context, in CreateUserInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Get(ctx context.Context, id int64, attributes []string) (*domain.User, error)
	List(ctx context.Context, attributes []string) ([]*domain.User, error)
	Search(ctx context.Context, in SearchInput, attributes []string) ([]*domain.User, error)
	ListWithCriteria(ctx context.Context, in CriteriaInput, attributes []string) ([]*domain.User, error)
	Update(ctx context.Context, id int64, in UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
	Activate(ctx context.Context, id int64) (*domain.User, error)
	Deactivate(ctx context.Context, id int64) (*domain.User, error)
	ChangeRole(ctx context.Context, id int64, role domain.Role) (*domain.User, error)
	PermissionsOf(user *domain.User) PermissionInfo
}
