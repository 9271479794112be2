package access

import (
	"context"

	"github.com/accountsvc/user-service/internal/core/domain"
	"github.com/accountsvc/user-service/internal/core/ports"
	"github.com/accountsvc/user-service/internal/core/token"
)

// Engine combines the role policy with the actor's current directory record
// to produce allow/deny verdicts.
type Engine struct {
	repo ports.UserRepository
}

func NewEngine(repo ports.UserRepository) *Engine {
	return &Engine{repo: repo}
}

// Authorize resolves the acting user behind the claims and applies the guard.
// On allow it returns the freshly resolved actor so callers need not look it
// up again. Claims may be nil (anonymous caller).
func (e *Engine) Authorize(ctx context.Context, claims *token.Claims, g Guard) (*domain.User, error) {
	actor, err := e.Resolve(ctx, claims)
	if err != nil {
		return nil, err
	}
	if err := g.evaluate(actor); err != nil {
		return nil, err
	}
	return actor, nil
}

// Resolve re-reads the acting user's record. The token may be older than a
// role change or deactivation, so the directory — not the claims — is the
// source of truth.
func (e *Engine) Resolve(ctx context.Context, claims *token.Claims) (*domain.User, error) {
	if claims == nil {
		return nil, domain.ErrAuthRequired
	}
	actor, err := e.repo.FindByID(ctx, claims.UserID, nil)
	if err != nil {
		return nil, err
	}
	if !actor.IsActive {
		return nil, domain.ErrAccountInactive
	}
	return actor, nil
}
