package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/accountsvc/user-service/internal/core/domain"
	"github.com/accountsvc/user-service/internal/core/ports"
	"github.com/accountsvc/user-service/internal/core/security"
	"github.com/accountsvc/user-service/internal/core/token"
)

type stubUserRepo struct {
	users   map[int64]*domain.User
	nextID  int64
	lastQ   ports.ListQuery
	listOut []*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[int64]*domain.User), nextID: 1}
}

func clone(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	c := clone(user)
	c.ID = r.nextID
	r.nextID++
	r.users[c.ID] = clone(c)
	return c, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64, _ []string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return clone(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return clone(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindAll(_ context.Context, q ports.ListQuery) ([]*domain.User, error) {
	r.lastQ = q
	out := r.listOut
	if q.Limit > 0 && int64(len(out)) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, id int64, changes ports.UserChanges) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if changes.Name != nil {
		u.Name = *changes.Name
	}
	if changes.Email != nil {
		u.Email = *changes.Email
	}
	if changes.PasswordHash != nil {
		u.PasswordHash = *changes.PasswordHash
	}
	if changes.Position != nil {
		u.Position = *changes.Position
	}
	if changes.IsActive != nil {
		u.IsActive = *changes.IsActive
	}
	return clone(u), nil
}

func (r *stubUserRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

type stubThrottle struct {
	blocked bool
	fails   int
	resets  int
}

func (t *stubThrottle) TooMany(_ context.Context, _ string) (bool, error) { return t.blocked, nil }
func (t *stubThrottle) Fail(_ context.Context, _ string) error            { t.fails++; return nil }
func (t *stubThrottle) Reset(_ context.Context, _ string) error           { t.resets++; return nil }

type stubAudit struct {
	events []ports.AuditEvent
}

func (a *stubAudit) Enqueue(event ports.AuditEvent) { a.events = append(a.events, event) }

func newTestService(repo ports.UserRepository) (*UserService, *stubThrottle, *stubAudit) {
	throttle := &stubThrottle{}
	audit := &stubAudit{}
	codec := token.NewCodec("test-secret", "my-sequelize-app", "app-users", time.Hour, 2*time.Hour)
	svc := NewUserService(repo, security.NewHasher(bcrypt.MinCost), codec, throttle, audit, zerolog.Nop())
	return svc, throttle, audit
}

func TestUserService_Create_Defaults(t *testing.T) {
	repo := newStubUserRepo()
	svc, _, audit := newTestService(repo)

	user, err := svc.Create(context.Background(), ports.CreateUserInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "Str0ngPass!",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if user.Position != domain.RoleEmployee {
		t.Fatalf("expected default Employee role, got %v", user.Position)
	}
	if !user.IsActive {
		t.Fatalf("expected new account to be active")
	}
	if user.PasswordHash == "Str0ngPass!" {
		t.Fatalf("password must be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("Str0ngPass!")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if len(audit.events) != 1 || audit.events[0].Action != ports.AuditUserCreated {
		t.Fatalf("expected a user_created audit event, got %+v", audit.events)
	}
}

func TestUserService_Create_WeakPassword(t *testing.T) {
	svc, _, _ := newTestService(newStubUserRepo())

	for _, pw := range []string{"", "short", "alllowercase1", "NOLOWERCASE1", "NoDigitsHere"} {
		if _, err := svc.Create(context.Background(), ports.CreateUserInput{
			Name:     "Bob",
			Email:    "bob@example.com",
			Password: pw,
		}); err != domain.ErrWeakPassword {
			t.Fatalf("password %q: expected ErrWeakPassword, got %v", pw, err)
		}
	}
}

func TestUserService_Create_DuplicateEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc, _, _ := newTestService(repo)

	in := ports.CreateUserInput{Name: "Bob", Email: "bob@example.com", Password: "Str0ngPass!"}
	if _, err := svc.Create(context.Background(), in); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	if _, err := svc.Create(context.Background(), in); err != domain.ErrEmailTaken {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestUserService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc, throttle, _ := newTestService(repo)

	if _, err := svc.Create(context.Background(), ports.CreateUserInput{
		Name: "Carol", Email: "carol@example.com", Password: "Str0ngPass!",
	}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	result, err := svc.Login(context.Background(), "carol@example.com", "Str0ngPass!")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Fatalf("expected both tokens, got %+v", result)
	}
	if result.ExpiresIn != "24h" {
		t.Fatalf("unexpected expiresIn: %q", result.ExpiresIn)
	}
	if result.User == nil || result.User.Email != "carol@example.com" {
		t.Fatalf("unexpected user: %+v", result.User)
	}
	if throttle.resets != 1 {
		t.Fatalf("expected throttle reset on success, got %d", throttle.resets)
	}
}

func TestUserService_Login_MissingCredentials(t *testing.T) {
	svc, _, _ := newTestService(newStubUserRepo())

	if _, err := svc.Login(context.Background(), "", "pass"); err != domain.ErrMissingCredentials {
		t.Fatalf("expected ErrMissingCredentials, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "a@example.com", ""); err != domain.ErrMissingCredentials {
		t.Fatalf("expected ErrMissingCredentials, got %v", err)
	}
}

func TestUserService_Login_UniformFailure(t *testing.T) {
	repo := newStubUserRepo()
	svc, throttle, _ := newTestService(repo)

	if _, err := svc.Create(context.Background(), ports.CreateUserInput{
		Name: "Dave", Email: "dave@example.com", Password: "Str0ngPass!",
	}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Unknown email and wrong password must yield the same error.
	_, unknownErr := svc.Login(context.Background(), "ghost@example.com", "Str0ngPass!")
	_, wrongErr := svc.Login(context.Background(), "dave@example.com", "WrongPass1!")
	if unknownErr != domain.ErrInvalidCredentials || wrongErr != domain.ErrInvalidCredentials {
		t.Fatalf("expected uniform ErrInvalidCredentials, got %v / %v", unknownErr, wrongErr)
	}
	if throttle.fails != 2 {
		t.Fatalf("expected 2 throttle failures, got %d", throttle.fails)
	}
}

func TestUserService_Login_InactiveAfterCredentialCheck(t *testing.T) {
	repo := newStubUserRepo()
	svc, _, _ := newTestService(repo)

	inactive := false
	if _, err := svc.Create(context.Background(), ports.CreateUserInput{
		Name: "Eve", Email: "eve@example.com", Password: "Str0ngPass!", IsActive: &inactive,
	}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Wrong password on an inactive account: credentials are reported first,
	// so account status leaks nothing.
	if _, err := svc.Login(context.Background(), "eve@example.com", "WrongPass1!"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	// Correct password: now the inactive state surfaces.
	if _, err := svc.Login(context.Background(), "eve@example.com", "Str0ngPass!"); err != domain.ErrAccountInactive {
		t.Fatalf("expected ErrAccountInactive, got %v", err)
	}
}

func TestUserService_Login_Throttled(t *testing.T) {
	repo := newStubUserRepo()
	svc, throttle, _ := newTestService(repo)
	throttle.blocked = true

	if _, err := svc.Login(context.Background(), "any@example.com", "Str0ngPass!"); err != domain.ErrTooManyAttempts {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
}

func TestUserService_Refresh(t *testing.T) {
	repo := newStubUserRepo()
	svc, _, _ := newTestService(repo)

	if _, err := svc.Create(context.Background(), ports.CreateUserInput{
		Name: "Frank", Email: "frank@example.com", Password: "Str0ngPass!",
	}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	result, err := svc.Login(context.Background(), "frank@example.com", "Str0ngPass!")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	access, err := svc.Refresh(context.Background(), result.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if access == "" {
		t.Fatalf("expected a new access token")
	}
}

func TestUserService_Refresh_UniformDenial(t *testing.T) {
	repo := newStubUserRepo()
	svc, _, _ := newTestService(repo)

	// Garbage token.
	if _, err := svc.Refresh(context.Background(), "not.a.token"); err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for garbage, got %v", err)
	}

	// Token for an account that has since been deleted.
	if _, err := svc.Create(context.Background(), ports.CreateUserInput{
		Name: "Grace", Email: "grace@example.com", Password: "Str0ngPass!",
	}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	result, err := svc.Login(context.Background(), "grace@example.com", "Str0ngPass!")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if err := svc.Delete(context.Background(), result.User.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := svc.Refresh(context.Background(), result.RefreshToken); err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for vanished account, got %v", err)
	}
}

func TestUserService_Update_PasswordRevalidated(t *testing.T) {
	repo := newStubUserRepo()
	svc, _, _ := newTestService(repo)

	created, err := svc.Create(context.Background(), ports.CreateUserInput{
		Name: "Henry", Email: "henry@example.com", Password: "Str0ngPass!",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	weak := "weak"
	if _, err := svc.Update(context.Background(), created.ID, ports.UpdateUserInput{Password: &weak}); err != domain.ErrWeakPassword {
		t.Fatalf("expected ErrWeakPassword on update, got %v", err)
	}

	strong := "N3wStrong!"
	updated, err := svc.Update(context.Background(), created.ID, ports.UpdateUserInput{Password: &strong})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte(strong)); err != nil {
		t.Fatalf("new password not rehashed: %v", err)
	}
}

func TestUserService_ListWithCriteria_EvenIDs(t *testing.T) {
	repo := newStubUserRepo()
	svc, _, _ := newTestService(repo)

	for i := int64(1); i <= 8; i++ {
		repo.listOut = append(repo.listOut, &domain.User{ID: i, IsActive: true})
	}

	users, err := svc.ListWithCriteria(context.Background(), ports.CriteriaInput{EvenIDs: true, Limit: 3}, nil)
	if err != nil {
		t.Fatalf("ListWithCriteria returned error: %v", err)
	}
	// Over-fetches 6, keeps {2,4,6}, already within the limit.
	if len(users) != 3 {
		t.Fatalf("expected 3 users, got %d", len(users))
	}
	for _, u := range users {
		if u.ID%2 != 0 {
			t.Fatalf("odd id %d slipped through the even filter", u.ID)
		}
	}
	if repo.lastQ.Limit != 6 {
		t.Fatalf("expected over-fetch limit 6, got %d", repo.lastQ.Limit)
	}
	if repo.lastQ.Sort != ports.SortByIDAsc {
		t.Fatalf("expected id-ascending sort, got %q", repo.lastQ.Sort)
	}
}

func TestUserService_ListWithCriteria_DefaultLimit(t *testing.T) {
	repo := newStubUserRepo()
	svc, _, _ := newTestService(repo)

	if _, err := svc.ListWithCriteria(context.Background(), ports.CriteriaInput{}, nil); err != nil {
		t.Fatalf("ListWithCriteria returned error: %v", err)
	}
	if repo.lastQ.Limit != 10 {
		t.Fatalf("expected default limit 10, got %d", repo.lastQ.Limit)
	}
}

func TestUserService_ActivateDeactivate(t *testing.T) {
	repo := newStubUserRepo()
	svc, _, _ := newTestService(repo)

	created, err := svc.Create(context.Background(), ports.CreateUserInput{
		Name: "Ivy", Email: "ivy@example.com", Password: "Str0ngPass!",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	u, err := svc.Deactivate(context.Background(), created.ID)
	if err != nil || u.IsActive {
		t.Fatalf("expected deactivated user, got %+v err=%v", u, err)
	}
	u, err = svc.Activate(context.Background(), created.ID)
	if err != nil || !u.IsActive {
		t.Fatalf("expected reactivated user, got %+v err=%v", u, err)
	}
}

func TestUserService_ChangeRole(t *testing.T) {
	repo := newStubUserRepo()
	svc, _, audit := newTestService(repo)

	created, err := svc.Create(context.Background(), ports.CreateUserInput{
		Name: "Jack", Email: "jack@example.com", Password: "Str0ngPass!",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	u, err := svc.ChangeRole(context.Background(), created.ID, domain.RoleManager)
	if err != nil {
		t.Fatalf("ChangeRole returned error: %v", err)
	}
	if u.Position != domain.RoleManager {
		t.Fatalf("expected Manager, got %v", u.Position)
	}
	last := audit.events[len(audit.events)-1]
	if last.Action != ports.AuditRoleChanged || last.Detail != "Manager" {
		t.Fatalf("unexpected audit event: %+v", last)
	}
}

func TestUserService_PermissionsOf(t *testing.T) {
	svc, _, _ := newTestService(newStubUserRepo())

	info := svc.PermissionsOf(&domain.User{ID: 7, Position: domain.RoleAdmin})
	if info.UserID != 7 || info.Role != "Admin" {
		t.Fatalf("unexpected permission info: %+v", info)
	}
	if len(info.Permissions) == 0 {
		t.Fatalf("expected a non-empty permission set")
	}
}
