package access

import (
	"context"
	"errors"
	"testing"

	"github.com/accountsvc/user-service/internal/core/domain"
	"github.com/accountsvc/user-service/internal/core/ports"
	"github.com/accountsvc/user-service/internal/core/token"
)

type stubDirectory struct {
	users map[int64]*domain.User
}

func newStubDirectory(users ...*domain.User) *stubDirectory {
	d := &stubDirectory{users: make(map[int64]*domain.User)}
	for _, u := range users {
		d.users[u.ID] = u
	}
	return d
}

func (d *stubDirectory) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	d.users[user.ID] = user
	return user, nil
}

func (d *stubDirectory) FindByID(_ context.Context, id int64, _ []string) (*domain.User, error) {
	u, ok := d.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (d *stubDirectory) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range d.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (d *stubDirectory) FindAll(_ context.Context, _ ports.ListQuery) ([]*domain.User, error) {
	return nil, nil
}

func (d *stubDirectory) Update(_ context.Context, id int64, _ ports.UserChanges) (*domain.User, error) {
	u, ok := d.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (d *stubDirectory) Delete(_ context.Context, id int64) error {
	if _, ok := d.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(d.users, id)
	return nil
}

func claimsFor(u *domain.User) *token.Claims {
	return &token.Claims{UserID: u.ID, Email: u.Email, Name: u.Name, IsActive: u.IsActive}
}

func activeUser(id int64, role domain.Role) *domain.User {
	return &domain.User{ID: id, Name: "u", Email: "u@example.com", Position: role, IsActive: true}
}

func TestEngine_Authorize_OwnershipOrMinRole(t *testing.T) {
	admin := activeUser(1, domain.RoleAdmin)
	employee := activeUser(2, domain.RoleEmployee)
	engine := NewEngine(newStubDirectory(admin, employee))

	// Admin touching someone else's record: allowed by role.
	if _, err := engine.Authorize(context.Background(), claimsFor(admin), OwnershipOrMinRole(2, domain.RoleAdmin)); err != nil {
		t.Fatalf("admin should pass: %v", err)
	}

	// Employee touching their own record: allowed by ownership.
	if _, err := engine.Authorize(context.Background(), claimsFor(employee), OwnershipOrMinRole(2, domain.RoleAdmin)); err != nil {
		t.Fatalf("owner should pass: %v", err)
	}

	// Employee touching someone else's record: denied.
	_, err := engine.Authorize(context.Background(), claimsFor(employee), OwnershipOrMinRole(1, domain.RoleAdmin))
	var denied *domain.DeniedError
	if !errors.As(err, &denied) {
		t.Fatalf("expected DeniedError, got %v", err)
	}
	if denied.Reason != "Access denied. You can only access your own resources or need higher privileges." {
		t.Fatalf("unexpected denial reason: %q", denied.Reason)
	}
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("denial should unwrap to ErrForbidden")
	}
}

func TestEngine_Authorize_AdminOnly(t *testing.T) {
	superAdmin := activeUser(1, domain.RoleSuperAdmin)
	guest := activeUser(2, domain.RoleGuest)
	engine := NewEngine(newStubDirectory(superAdmin, guest))

	if _, err := engine.Authorize(context.Background(), claimsFor(superAdmin), AdminOnly()); err != nil {
		t.Fatalf("super admin should pass admin-only guard: %v", err)
	}

	_, err := engine.Authorize(context.Background(), claimsFor(guest), AdminOnly())
	var denied *domain.DeniedError
	if !errors.As(err, &denied) {
		t.Fatalf("expected DeniedError, got %v", err)
	}
	if denied.Reason != "Access denied. Admin privileges required." {
		t.Fatalf("unexpected denial reason: %q", denied.Reason)
	}
}

func TestEngine_Authorize_MinRole(t *testing.T) {
	manager := activeUser(1, domain.RoleManager)
	engine := NewEngine(newStubDirectory(manager))

	if _, err := engine.Authorize(context.Background(), claimsFor(manager), MinRole(domain.RoleManager)); err != nil {
		t.Fatalf("manager should satisfy a manager requirement: %v", err)
	}

	_, err := engine.Authorize(context.Background(), claimsFor(manager), MinRole(domain.RoleAdmin))
	var denied *domain.DeniedError
	if !errors.As(err, &denied) {
		t.Fatalf("expected DeniedError, got %v", err)
	}
	if denied.Reason != "Access denied. Minimum role required: Admin" {
		t.Fatalf("unexpected denial reason: %q", denied.Reason)
	}
}

func TestEngine_Authorize_ExactRole(t *testing.T) {
	superAdmin := activeUser(1, domain.RoleSuperAdmin)
	engine := NewEngine(newStubDirectory(superAdmin))

	// Exact means exact: outranking the required role is not enough.
	_, err := engine.Authorize(context.Background(), claimsFor(superAdmin), ExactRole(domain.RoleManager))
	var denied *domain.DeniedError
	if !errors.As(err, &denied) {
		t.Fatalf("expected DeniedError, got %v", err)
	}
	if denied.Reason != "Access denied. Required role: Manager" {
		t.Fatalf("unexpected denial reason: %q", denied.Reason)
	}
}

func TestEngine_Authorize_AnyRole(t *testing.T) {
	employee := activeUser(1, domain.RoleEmployee)
	engine := NewEngine(newStubDirectory(employee))

	if _, err := engine.Authorize(context.Background(), claimsFor(employee), AnyRole(domain.RoleManager, domain.RoleEmployee)); err != nil {
		t.Fatalf("employee listed in role set should pass: %v", err)
	}

	_, err := engine.Authorize(context.Background(), claimsFor(employee), AnyRole(domain.RoleSuperAdmin, domain.RoleAdmin))
	var denied *domain.DeniedError
	if !errors.As(err, &denied) {
		t.Fatalf("expected DeniedError, got %v", err)
	}
	if denied.Reason != "Access denied. Required roles: Super Admin, Admin" {
		t.Fatalf("unexpected denial reason: %q", denied.Reason)
	}
}

func TestEngine_Authorize_OwnershipOnly(t *testing.T) {
	admin := activeUser(1, domain.RoleAdmin)
	engine := NewEngine(newStubDirectory(admin))

	if _, err := engine.Authorize(context.Background(), claimsFor(admin), OwnershipOnly(1)); err != nil {
		t.Fatalf("owner should pass: %v", err)
	}

	// Role does not matter for ownership-only guards.
	_, err := engine.Authorize(context.Background(), claimsFor(admin), OwnershipOnly(2))
	var denied *domain.DeniedError
	if !errors.As(err, &denied) {
		t.Fatalf("expected DeniedError, got %v", err)
	}
	if denied.Reason != "Access denied. You can only access your own resources." {
		t.Fatalf("unexpected denial reason: %q", denied.Reason)
	}
}

func TestEngine_Authorize_Anonymous(t *testing.T) {
	engine := NewEngine(newStubDirectory())

	// Authentication is checked before any role logic runs.
	if _, err := engine.Authorize(context.Background(), nil, AdminOnly()); err != domain.ErrAuthRequired {
		t.Fatalf("expected ErrAuthRequired, got %v", err)
	}
}

func TestEngine_Authorize_VanishedActor(t *testing.T) {
	engine := NewEngine(newStubDirectory())

	claims := &token.Claims{UserID: 404}
	if _, err := engine.Authorize(context.Background(), claims, MinRole(domain.RoleGuest)); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound for vanished actor, got %v", err)
	}
}

func TestEngine_Authorize_InactiveActor(t *testing.T) {
	frozen := activeUser(9, domain.RoleSuperAdmin)
	frozen.IsActive = false
	engine := NewEngine(newStubDirectory(frozen))

	// A stale token claiming an active account does not help: the directory
	// record wins.
	claims := claimsFor(frozen)
	claims.IsActive = true
	if _, err := engine.Authorize(context.Background(), claims, MinRole(domain.RoleGuest)); err != domain.ErrAccountInactive {
		t.Fatalf("expected ErrAccountInactive, got %v", err)
	}
}

func TestEngine_Authorize_RoleReadFromDirectory(t *testing.T) {
	// The directory says Guest; the token claims nothing about role anyway,
	// but even identity-adjacent fields in the token are not trusted.
	guest := activeUser(3, domain.RoleGuest)
	engine := NewEngine(newStubDirectory(guest))

	if _, err := engine.Authorize(context.Background(), claimsFor(guest), AdminOnly()); err == nil {
		t.Fatalf("guest must not pass admin-only guard")
	}
}

func TestEngine_Resolve_ReturnsFreshRecord(t *testing.T) {
	u := activeUser(5, domain.RoleEmployee)
	engine := NewEngine(newStubDirectory(u))

	actor, err := engine.Resolve(context.Background(), claimsFor(u))
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if actor.ID != 5 || actor.Position != domain.RoleEmployee {
		t.Fatalf("unexpected actor: %+v", actor)
	}
}
