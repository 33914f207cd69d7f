package collections

import (
	"context"
	"fmt"

	"github.com/emiliopalmerini/mtrack/internal/domain"
	"github.com/emiliopalmerini/mtrack/internal/ports"
)

type ProjectRepository struct {
	store ports.KVStore
}

func NewProjectRepository(store ports.KVStore) *ProjectRepository {
	return &ProjectRepository{store: store}
}

func (r *ProjectRepository) List(ctx context.Context) ([]domain.Project, error) {
	projects := []domain.Project{}
	if _, err := load(ctx, r.store, KeyProjects, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	projects, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range projects {
		if projects[i].ID == id {
			return &projects[i], nil
		}
	}
	return nil, nil
}

func (r *ProjectRepository) Create(ctx context.Context, project domain.Project) error {
	projects, err := r.List(ctx)
	if err != nil {
		return err
	}
	return save(ctx, r.store, KeyProjects, append(projects, project))
}

func (r *ProjectRepository) Update(ctx context.Context, project domain.Project) error {
	projects, err := r.List(ctx)
	if err != nil {
		return err
	}
	for i := range projects {
		if projects[i].ID == project.ID {
			projects[i] = project
			return save(ctx, r.store, KeyProjects, projects)
		}
	}
	return fmt.Errorf("project %s: %w", project.ID, domain.ErrNotFound)
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	projects, err := r.List(ctx)
	if err != nil {
		return err
	}
	kept := projects[:0]
	for _, p := range projects {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	return save(ctx, r.store, KeyProjects, kept)
}
