// Package projects manages the shared registry of formal team projects.
package projects

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/emiliopalmerini/mtrack/internal/domain"
	"github.com/emiliopalmerini/mtrack/internal/ports"
)

// Service provides project registry operations.
type Service struct {
	repo   ports.ProjectRepository
	clock  clockwork.Clock
	logger *zap.Logger
}

// NewService creates a new project registry service.
func NewService(repo ports.ProjectRepository, clock clockwork.Clock, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		clock:  clock,
		logger: logger,
	}
}

// Create registers a new active project.
func (s *Service) Create(ctx context.Context, in domain.ProjectInput) (*domain.Project, error) {
	in, err := normalize(in)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	p := domain.Project{
		ID:            uuid.NewString(),
		Name:          in.Name,
		ManagerID:     in.ManagerID,
		Liaison:       in.Liaison,
		AssignedUsers: in.AssignedUsers,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to save project: %w", err)
	}

	s.logger.Info("project created", zap.String("project_id", p.ID), zap.String("name", p.Name))
	return &p, nil
}

// Edit replaces the editable fields of a project.
func (s *Service) Edit(ctx context.Context, id string, in domain.ProjectInput) (*domain.Project, error) {
	in, err := normalize(in)
	if err != nil {
		return nil, err
	}

	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	p.Name = in.Name
	p.ManagerID = in.ManagerID
	p.Liaison = in.Liaison
	p.AssignedUsers = in.AssignedUsers
	p.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, *p); err != nil {
		return nil, fmt.Errorf("failed to save project: %w", err)
	}

	s.logger.Info("project updated", zap.String("project_id", p.ID))
	return p, nil
}

// Complete marks a project as completed.
func (s *Service) Complete(ctx context.Context, id string) (*domain.Project, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Completed {
		return p, nil
	}

	p.Completed = true
	p.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, *p); err != nil {
		return nil, fmt.Errorf("failed to save project: %w", err)
	}

	s.logger.Info("project completed", zap.String("project_id", p.ID))
	return p, nil
}

// Delete removes a project. Only its manager may delete it, and only after
// typing the project name exactly.
func (s *Service) Delete(ctx context.Context, userID, id, confirmName string) error {
	p, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if p.ManagerID != userID {
		return fmt.Errorf("only the project manager can delete %q: %w", p.Name, domain.ErrForbidden)
	}
	if confirmName != p.Name {
		return domain.NewValidationError("confirmName", "Project name does not match")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	s.logger.Info("project deleted", zap.String("project_id", id))
	return nil
}

// Get returns a project or ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (*domain.Project, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	if p == nil {
		return nil, fmt.Errorf("project %s: %w", id, domain.ErrNotFound)
	}
	return p, nil
}

// FindByName returns the first project with the exact name, or ErrNotFound.
func (s *Service) FindByName(ctx context.Context, name string) (*domain.Project, error) {
	list, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].Name == name {
			return &list[i], nil
		}
	}
	return nil, fmt.Errorf("project %q: %w", name, domain.ErrNotFound)
}

// List returns every project in creation order.
func (s *Service) List(ctx context.Context) ([]domain.Project, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}
	return list, nil
}

// ForUser returns the projects the user manages or is assigned to.
func (s *Service) ForUser(ctx context.Context, userID string) ([]domain.Project, error) {
	list, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(list, func(p domain.Project) bool {
		return p.ManagerID != userID && !p.IsAssigned(userID)
	}), nil
}

func normalize(in domain.ProjectInput) (domain.ProjectInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Liaison = strings.TrimSpace(in.Liaison)
	in.ManagerID = strings.TrimSpace(in.ManagerID)

	if in.Name == "" {
		return in, domain.NewValidationError("name", "Please enter a project name")
	}
	if in.ManagerID == "" {
		return in, domain.NewValidationError("managerId", "Please select a project manager")
	}

	var users []string
	for _, u := range in.AssignedUsers {
		u = strings.TrimSpace(u)
		if u != "" && !slices.Contains(users, u) {
			users = append(users, u)
		}
	}
	if len(users) == 0 {
		return in, domain.NewValidationError("assignedUsers", "Please assign at least one user")
	}
	in.AssignedUsers = users
	return in, nil
}
