// Package identity handles registration, login and the current session.
package identity

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/emiliopalmerini/mtrack/internal/domain"
	"github.com/emiliopalmerini/mtrack/internal/ports"
)

// Service provides identity operations.
type Service struct {
	users    ports.UserRepository
	sessions ports.SessionRepository
	clock    clockwork.Clock
	logger   *zap.Logger
}

// NewService creates a new identity service.
func NewService(users ports.UserRepository, sessions ports.SessionRepository, clock clockwork.Clock, logger *zap.Logger) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
		clock:    clock,
		logger:   logger,
	}
}

// Register creates a new account and does not log it in.
func (s *Service) Register(ctx context.Context, r domain.Registration) (*domain.User, error) {
	name := strings.TrimSpace(r.Name)
	email := strings.TrimSpace(r.Email)

	if name == "" || email == "" || r.Password == "" || r.ConfirmPassword == "" {
		return nil, domain.NewValidationError("registration", "All fields are required")
	}
	if r.Password != r.ConfirmPassword {
		return nil, domain.NewValidationError("confirmPassword", "Passwords do not match")
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if existing != nil {
		return nil, domain.NewValidationError("email", "Email already in use")
	}

	user := domain.User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Password:  r.Password,
		CreatedAt: s.clock.Now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID))
	return &user, nil
}

// Login checks the credentials and makes the user current.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.SessionUser, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, domain.NewValidationError("login", "Email and password are required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, domain.NewValidationError("email", "User not found")
	}
	if user.Password != password {
		return nil, domain.NewValidationError("password", "Invalid password")
	}

	session := user.SessionUser()
	if err := s.sessions.Set(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	s.logger.Info("user logged in", zap.String("user_id", user.ID))
	return &session, nil
}

// Logout clears the current session. Logging out twice is not an error.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.sessions.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	s.logger.Info("user logged out")
	return nil
}

// Current returns the session user or ErrUnauthenticated.
func (s *Service) Current(ctx context.Context) (*domain.SessionUser, error) {
	session, err := s.sessions.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	if session == nil {
		return nil, domain.ErrUnauthenticated
	}
	return session, nil
}

// Users returns every registered user.
func (s *Service) Users(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// UserNames maps user ids to display names.
func (s *Service) UserNames(ctx context.Context) (map[string]string, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}
	return names, nil
}
