package graphql

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/graphql-go/graphql"

	"github.com/accountsvc/user-service/internal/core/access"
	"github.com/accountsvc/user-service/internal/core/domain"
	"github.com/accountsvc/user-service/internal/core/ports"
	"github.com/accountsvc/user-service/internal/core/redact"
)

// Resolvers implements the GraphQL operations on the shared domain core. The
// guards and messages are the same ones the REST surface uses; the only
// difference is that denials surface as resolver errors instead of status
// codes.
type Resolvers struct {
	users  ports.UserService
	engine *access.Engine
}

func NewResolvers(users ports.UserService, engine *access.Engine) *Resolvers {
	return &Resolvers{users: users, engine: engine}
}

func (r *Resolvers) User(p graphql.ResolveParams) (any, error) {
	id, err := argID(p, "id")
	if err != nil {
		return nil, err
	}

	claims := ClaimsFrom(p.Context)
	if _, err := r.engine.Authorize(p.Context, claims, access.OwnershipOrMinRole(id, domain.RoleAdmin)); err != nil {
		return nil, resolverError(err)
	}

	user, err := r.users.Get(p.Context, id, selectedAttributes(p.Info))
	if err != nil {
		return nil, resolverError(err)
	}
	return redact.UserPayload(user), nil
}

func (r *Resolvers) Users(p graphql.ResolveParams) (any, error) {
	claims := ClaimsFrom(p.Context)
	if _, err := r.engine.Authorize(p.Context, claims, access.AdminOnly()); err != nil {
		return nil, resolverError(err)
	}

	users, err := r.users.List(p.Context, selectedAttributes(p.Info))
	if err != nil {
		return nil, resolverError(err)
	}
	return userPayloads(users), nil
}

func (r *Resolvers) Me(p graphql.ResolveParams) (any, error) {
	actor, err := r.engine.Resolve(p.Context, ClaimsFrom(p.Context))
	if err != nil {
		return nil, resolverError(err)
	}

	user, err := r.users.Get(p.Context, actor.ID, selectedAttributes(p.Info))
	if err != nil {
		return nil, resolverError(err)
	}
	return redact.UserPayload(user), nil
}

func (r *Resolvers) MyPermissions(p graphql.ResolveParams) (any, error) {
	actor, err := r.engine.Resolve(p.Context, ClaimsFrom(p.Context))
	if err != nil {
		return nil, resolverError(err)
	}

	info := r.users.PermissionsOf(actor)
	return map[string]any{
		"userId":      info.UserID,
		"role":        info.Role,
		"permissions": info.Permissions,
	}, nil
}

func (r *Resolvers) SearchUsers(p graphql.ResolveParams) (any, error) {
	claims := ClaimsFrom(p.Context)
	if _, err := r.engine.Authorize(p.Context, claims, access.AdminOnly()); err != nil {
		return nil, resolverError(err)
	}

	in := ports.SearchInput{
		Name:     stringArg(p, "name"),
		Email:    stringArg(p, "email"),
		IsActive: boolArg(p, "isActive"),
		Limit:    int64Arg(p, "limit", 10),
		Offset:   int64Arg(p, "offset", 0),
	}
	if pos := intArg(p, "position"); pos != nil {
		role := domain.Role(*pos)
		in.Position = &role
	}

	users, err := r.users.Search(p.Context, in, selectedAttributes(p.Info))
	if err != nil {
		return nil, resolverError(err)
	}
	return userPayloads(users), nil
}

func (r *Resolvers) UsersWithCriteria(p graphql.ResolveParams) (any, error) {
	claims := ClaimsFrom(p.Context)
	if _, err := r.engine.Authorize(p.Context, claims, access.AdminOnly()); err != nil {
		return nil, resolverError(err)
	}

	in := ports.CriteriaInput{
		MinPosition: intArg(p, "minPosition"),
		MaxPosition: intArg(p, "maxPosition"),
		IsActive:    boolArg(p, "isActive"),
		Limit:       int64Arg(p, "limit", 10),
		Offset:      int64Arg(p, "offset", 0),
	}
	if even := boolArg(p, "evenIds"); even != nil {
		in.EvenIDs = *even
	}

	users, err := r.users.ListWithCriteria(p.Context, in, selectedAttributes(p.Info))
	if err != nil {
		return nil, resolverError(err)
	}
	return userPayloads(users), nil
}

func (r *Resolvers) Login(p graphql.ResolveParams) (any, error) {
	input, _ := p.Args["input"].(map[string]any)
	email, _ := input["email"].(string)
	password, _ := input["password"].(string)

	result, err := r.users.Login(p.Context, email, password)
	if err != nil {
		return nil, resolverError(err)
	}

	return map[string]any{
		"message": "Login successful",
		"user":    redact.UserPayload(result.User),
		"tokens": map[string]any{
			"accessToken":  result.AccessToken,
			"refreshToken": result.RefreshToken,
			"expiresIn":    result.ExpiresIn,
		},
	}, nil
}

func (r *Resolvers) RefreshToken(p graphql.ResolveParams) (any, error) {
	input, _ := p.Args["input"].(map[string]any)
	refreshToken, _ := input["refreshToken"].(string)
	if refreshToken == "" {
		return nil, errors.New("Refresh token is required")
	}

	accessToken, err := r.users.Refresh(p.Context, refreshToken)
	if err != nil {
		return nil, resolverError(err)
	}

	return map[string]any{
		"message":     "Token refreshed successfully",
		"accessToken": accessToken,
		"expiresIn":   "24h",
	}, nil
}

func (r *Resolvers) CreateUser(p graphql.ResolveParams) (any, error) {
	input, _ := p.Args["input"].(map[string]any)

	in := ports.CreateUserInput{}
	in.Name, _ = input["name"].(string)
	in.Email, _ = input["email"].(string)
	in.Password, _ = input["password"].(string)
	if pos, ok := input["position"].(int); ok {
		role := domain.Role(pos)
		in.Position = &role
	}
	if active, ok := input["isActive"].(bool); ok {
		in.IsActive = &active
	}

	user, err := r.users.Create(p.Context, in)
	if err != nil {
		return nil, resolverError(err)
	}
	return redact.UserPayload(user), nil
}

func (r *Resolvers) UpdateUser(p graphql.ResolveParams) (any, error) {
	id, err := argID(p, "id")
	if err != nil {
		return nil, err
	}

	claims := ClaimsFrom(p.Context)
	if _, err := r.engine.Authorize(p.Context, claims, access.OwnershipOrMinRole(id, domain.RoleAdmin)); err != nil {
		return nil, resolverError(err)
	}

	input, _ := p.Args["input"].(map[string]any)
	in := ports.UpdateUserInput{}
	if name, ok := input["name"].(string); ok {
		in.Name = &name
	}
	if email, ok := input["email"].(string); ok {
		in.Email = &email
	}
	if password, ok := input["password"].(string); ok {
		in.Password = &password
	}
	if pos, ok := input["position"].(int); ok {
		role := domain.Role(pos)
		in.Position = &role
	}
	if active, ok := input["isActive"].(bool); ok {
		in.IsActive = &active
	}

	user, err := r.users.Update(p.Context, id, in)
	if err != nil {
		return nil, resolverError(err)
	}
	return redact.UserPayload(user), nil
}

func (r *Resolvers) DeleteUser(p graphql.ResolveParams) (any, error) {
	id, err := argID(p, "id")
	if err != nil {
		return nil, err
	}

	claims := ClaimsFrom(p.Context)
	if _, err := r.engine.Authorize(p.Context, claims, access.OwnershipOrMinRole(id, domain.RoleAdmin)); err != nil {
		return nil, resolverError(err)
	}

	if err := r.users.Delete(p.Context, id); err != nil {
		return nil, resolverError(err)
	}
	return true, nil
}

func (r *Resolvers) ActivateUser(p graphql.ResolveParams) (any, error) {
	return r.setActive(p, true)
}

func (r *Resolvers) DeactivateUser(p graphql.ResolveParams) (any, error) {
	return r.setActive(p, false)
}

func (r *Resolvers) setActive(p graphql.ResolveParams, active bool) (any, error) {
	id, err := argID(p, "id")
	if err != nil {
		return nil, err
	}

	claims := ClaimsFrom(p.Context)
	if _, err := r.engine.Authorize(p.Context, claims, access.AdminOnly()); err != nil {
		return nil, resolverError(err)
	}

	var user *domain.User
	if active {
		user, err = r.users.Activate(p.Context, id)
	} else {
		user, err = r.users.Deactivate(p.Context, id)
	}
	if err != nil {
		return nil, resolverError(err)
	}
	return redact.UserPayload(user), nil
}

func (r *Resolvers) ChangeUserRole(p graphql.ResolveParams) (any, error) {
	id, err := argID(p, "id")
	if err != nil {
		return nil, err
	}

	claims := ClaimsFrom(p.Context)
	if _, err := r.engine.Authorize(p.Context, claims, access.AdminOnly()); err != nil {
		return nil, resolverError(err)
	}

	position, _ := p.Args["position"].(int)
	role := domain.Role(position)
	if !role.Valid() {
		return nil, fmt.Errorf("invalid role: %d", position)
	}

	user, err := r.users.ChangeRole(p.Context, id, role)
	if err != nil {
		return nil, resolverError(err)
	}
	return redact.UserPayload(user), nil
}

func userPayloads(users []*domain.User) []map[string]any {
	out := make([]map[string]any, len(users))
	for i, u := range users {
		out[i] = redact.UserPayload(u)
	}
	return out
}

// resolverError maps domain errors to the message texts clients see. These
// are the same texts the REST error handler renders; GraphQL just has no
// status code to go with them.
func resolverError(err error) error {
	var denied *domain.DeniedError
	switch {
	case errors.Is(err, domain.ErrAuthRequired):
		return errors.New("Authentication required")
	case errors.Is(err, domain.ErrUserNotFound):
		return errors.New("User not found")
	case errors.Is(err, domain.ErrAccountInactive):
		return errors.New("Account is inactive")
	case errors.Is(err, domain.ErrInvalidCredentials):
		return errors.New("Invalid email or password")
	case errors.Is(err, domain.ErrMissingCredentials):
		return errors.New("Email and password are required")
	case errors.Is(err, domain.ErrInvalidToken):
		return errors.New("Invalid token")
	case errors.Is(err, domain.ErrWeakPassword):
		return errors.New("Password must be at least 8 characters long and contain at least one uppercase letter, one lowercase letter, and one number")
	case errors.Is(err, domain.ErrTooManyAttempts):
		return errors.New("Too many failed login attempts. Try again later.")
	case errors.As(err, &denied):
		return errors.New(denied.Reason)
	default:
		return err
	}
}

func argID(p graphql.ResolveParams, name string) (int64, error) {
	switch v := p.Args[name].(type) {
	case string:
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid id: %q", v)
		}
		return id, nil
	case int:
		return int64(v), nil
	default:
		return 0, fmt.Errorf("invalid id")
	}
}

func stringArg(p graphql.ResolveParams, name string) string {
	s, _ := p.Args[name].(string)
	return s
}

func intArg(p graphql.ResolveParams, name string) *int {
	if v, ok := p.Args[name].(int); ok {
		return &v
	}
	return nil
}

func int64Arg(p graphql.ResolveParams, name string, def int64) int64 {
	if v, ok := p.Args[name].(int); ok {
		return int64(v)
	}
	return def
}

func boolArg(p graphql.ResolveParams, name string) *bool {
	if v, ok := p.Args[name].(bool); ok {
		return &v
	}
	return nil
}
