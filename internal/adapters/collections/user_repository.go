package collections

import (
	"context"

	"github.com/emiliopalmerini/mtrack/internal/domain"
	"github.com/emiliopalmerini/mtrack/internal/ports"
)

type UserRepository struct {
	store ports.KVStore
}

func NewUserRepository(store ports.KVStore) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	users := []domain.User{}
	if _, err := load(ctx, r.store, KeyUsers, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.find(ctx, func(u domain.User) bool { return u.ID == id })
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.find(ctx, func(u domain.User) bool { return u.Email == email })
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) error {
	users, err := r.List(ctx)
	if err != nil {
		return err
	}
	return save(ctx, r.store, KeyUsers, append(users, user))
}

func (r *UserRepository) find(ctx context.Context, match func(domain.User) bool) (*domain.User, error) {
	users, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if match(users[i]) {
			return &users[i], nil
		}
	}
	return nil, nil
}

type SessionRepository struct {
	store ports.KVStore
}

func NewSessionRepository(store ports.KVStore) *SessionRepository {
	return &SessionRepository{store: store}
}

func (r *SessionRepository) Current(ctx context.Context) (*domain.SessionUser, error) {
	var user domain.SessionUser
	ok, err := load(ctx, r.store, KeySession, &user)
	if err != nil || !ok {
		return nil, err
	}
	return &user, nil
}

func (r *SessionRepository) Set(ctx context.Context, user domain.SessionUser) error {
	return save(ctx, r.store, KeySession, user)
}

func (r *SessionRepository) Clear(ctx context.Context) error {
	return r.store.Delete(ctx, KeySession)
}
