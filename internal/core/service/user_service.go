package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/accountsvc/user-service/internal/api/metrics"
	"github.com/accountsvc/user-service/internal/core/domain"
	"github.com/accountsvc/user-service/internal/core/ports"
	"github.com/accountsvc/user-service/internal/core/security"
	"github.com/accountsvc/user-service/internal/core/token"
)

// UserService implements account CRUD, login and token refresh on top of the
// user directory. Authorization guards run before these methods; redaction
// runs after.
type UserService struct {
	repo     ports.UserRepository
	hasher   *security.Hasher
	codec    *token.Codec
	throttle ports.LoginThrottle
	audit    ports.AuditSink
	logger   zerolog.Logger
}

func NewUserService(
	repo ports.UserRepository,
	hasher *security.Hasher,
	codec *token.Codec,
	throttle ports.LoginThrottle,
	audit ports.AuditSink,
	logger zerolog.Logger,
) *UserService {
	return &UserService{
		repo:     repo,
		hasher:   hasher,
		codec:    codec,
		throttle: throttle,
		audit:    audit,
		logger:   logger,
	}
}

func (s *UserService) Create(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	if in.Password == "" || !security.ValidatePassword(in.Password) {
		return nil, domain.ErrWeakPassword
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	position := domain.DefaultRole
	if in.Position != nil {
		position = *in.Position
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}

	now := time.Now().UTC()
	user := &domain.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Position:     position,
		IsActive:     active,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	metrics.UsersCreatedTotal.WithLabelValues(created.Position.Name()).Inc()
	s.record(created.ID, ports.AuditUserCreated, created.Email)
	s.logger.Info().Int64("user_id", created.ID).Str("role", created.Position.Name()).Msg("user created")
	return created, nil
}

func (s *UserService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	if email == "" || password == "" {
		return nil, domain.ErrMissingCredentials
	}

	if s.throttle != nil {
		blocked, err := s.throttle.TooMany(ctx, email)
		if err != nil {
			s.logger.Warn().Err(err).Msg("login throttle unavailable")
		} else if blocked {
			metrics.LoginsTotal.WithLabelValues("throttled").Inc()
			return nil, domain.ErrTooManyAttempts
		}
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		// Unknown email and wrong password must be indistinguishable.
		s.loginFailed(ctx, email, 0)
		return nil, domain.ErrInvalidCredentials
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.loginFailed(ctx, email, user.ID)
		return nil, domain.ErrInvalidCredentials
	}

	// Only after the credentials check out: no enumeration shortcut.
	if !user.IsActive {
		metrics.LoginsTotal.WithLabelValues("inactive").Inc()
		return nil, domain.ErrAccountInactive
	}

	access, err := s.codec.Generate(user.ID, user.Email, user.Name, user.IsActive)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := s.codec.GenerateRefresh(user.ID, user.Email, user.Name, user.IsActive)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, email); err != nil {
			s.logger.Warn().Err(err).Msg("login throttle reset failed")
		}
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.record(user.ID, ports.AuditLoginSuccess, "")
	s.logger.Info().Int64("user_id", user.ID).Msg("login successful")

	return &ports.LoginResult{
		User:         user,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    "24h",
	}, nil
}

func (s *UserService) loginFailed(ctx context.Context, email string, userID int64) {
	if s.throttle != nil {
		if err := s.throttle.Fail(ctx, email); err != nil {
			s.logger.Warn().Err(err).Msg("login throttle update failed")
		}
	}
	metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
	s.record(userID, ports.AuditLoginFailed, email)
}

// Refresh exchanges a valid refresh token for a new access token. Every
// denial collapses to an invalid-token result.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.codec.Verify(refreshToken)
	if err != nil {
		metrics.TokenRefreshTotal.WithLabelValues("denied").Inc()
		return "", domain.ErrInvalidToken
	}

	user, err := s.repo.FindByID(ctx, claims.UserID, nil)
	if err != nil || !user.IsActive {
		metrics.TokenRefreshTotal.WithLabelValues("denied").Inc()
		return "", domain.ErrInvalidToken
	}

	access, err := s.codec.Generate(user.ID, user.Email, user.Name, user.IsActive)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}

	metrics.TokenRefreshTotal.WithLabelValues("success").Inc()
	s.record(user.ID, ports.AuditTokenRefresh, "")
	return access, nil
}

func (s *UserService) Get(ctx context.Context, id int64, attributes []string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id, attributes)
}

func (s *UserService) List(ctx context.Context, attributes []string) ([]*domain.User, error) {
	return s.repo.FindAll(ctx, ports.ListQuery{
		Attributes: attributes,
		Sort:       ports.SortNewestFirst,
	})
}

func (s *UserService) Search(ctx context.Context, in ports.SearchInput, attributes []string) ([]*domain.User, error) {
	limit := in.Limit
	if limit <= 0 {
		limit = 10
	}
	return s.repo.FindAll(ctx, ports.ListQuery{
		NameContains:  in.Name,
		EmailContains: in.Email,
		Position:      in.Position,
		IsActive:      in.IsActive,
		Attributes:    attributes,
		Limit:         limit,
		Offset:        in.Offset,
		Sort:          ports.SortNewestFirst,
	})
}

// ListWithCriteria filters by position bounds and active flag. With EvenIDs
// set it over-fetches twice the page, keeps even-numbered ids, and trims back
// to the requested limit.
func (s *UserService) ListWithCriteria(ctx context.Context, in ports.CriteriaInput, attributes []string) ([]*domain.User, error) {
	limit := in.Limit
	if limit <= 0 {
		limit = 10
	}
	fetchLimit := limit
	if in.EvenIDs {
		fetchLimit = limit * 2
	}

	users, err := s.repo.FindAll(ctx, ports.ListQuery{
		PositionAbove: in.MinPosition,
		PositionBelow: in.MaxPosition,
		IsActive:      in.IsActive,
		Attributes:    attributes,
		Limit:         fetchLimit,
		Offset:        in.Offset,
		Sort:          ports.SortByIDAsc,
	})
	if err != nil {
		return nil, err
	}

	if in.EvenIDs {
		even := users[:0]
		for _, u := range users {
			if u.ID%2 == 0 {
				even = append(even, u)
			}
		}
		if int64(len(even)) > limit {
			even = even[:limit]
		}
		users = even
	}
	return users, nil
}

func (s *UserService) Update(ctx context.Context, id int64, in ports.UpdateUserInput) (*domain.User, error) {
	changes := ports.UserChanges{
		Name:     in.Name,
		Email:    in.Email,
		Position: in.Position,
		IsActive: in.IsActive,
	}

	if in.Password != nil {
		if !security.ValidatePassword(*in.Password) {
			return nil, domain.ErrWeakPassword
		}
		hash, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		changes.PasswordHash = &hash
	}

	return s.repo.Update(ctx, id, changes)
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.record(id, ports.AuditUserDeleted, "")
	s.logger.Info().Int64("user_id", id).Msg("user deleted")
	return nil
}

func (s *UserService) Activate(ctx context.Context, id int64) (*domain.User, error) {
	return s.setActive(ctx, id, true)
}

func (s *UserService) Deactivate(ctx context.Context, id int64) (*domain.User, error) {
	return s.setActive(ctx, id, false)
}

func (s *UserService) setActive(ctx context.Context, id int64, active bool) (*domain.User, error) {
	return s.repo.Update(ctx, id, ports.UserChanges{IsActive: &active})
}

func (s *UserService) ChangeRole(ctx context.Context, id int64, role domain.Role) (*domain.User, error) {
	user, err := s.repo.Update(ctx, id, ports.UserChanges{Position: &role})
	if err != nil {
		return nil, err
	}
	s.record(id, ports.AuditRoleChanged, role.Name())
	return user, nil
}

func (s *UserService) PermissionsOf(user *domain.User) ports.PermissionInfo {
	return ports.PermissionInfo{
		UserID:      user.ID,
		Role:        user.Position.Name(),
		Permissions: user.Position.Permissions(),
	}
}

func (s *UserService) record(userID int64, action, detail string) {
	if s.audit == nil {
		return
	}
	s.audit.Enqueue(ports.AuditEvent{
		UserID: userID,
		Action: action,
		Detail: detail,
		At:     time.Now().UTC(),
	})
}
