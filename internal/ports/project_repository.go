package ports

import (
	"context"

	"github.com/emiliopalmerini/mtrack/internal/domain"
)

type ProjectRepository interface {
	List(ctx context.Context) ([]domain.Project, error)
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	Create(ctx context.Context, project domain.Project) error
	Update(ctx context.Context, project domain.Project) error
	Delete(ctx context.Context, id string) error
}
