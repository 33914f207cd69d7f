package ports

import (
	"context"

	"github.com/emiliopalmerini/mtrack/internal/domain"
)

type UserRepository interface {
	List(ctx context.Context) ([]domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user domain.User) error
}

// SessionRepository holds the current session user.
type SessionRepository interface {
	// Current returns nil when no one is logged in.
	Current(ctx context.Context) (*domain.SessionUser, error)
	Set(ctx context.Context, user domain.SessionUser) error
	Clear(ctx context.Context) error
}
