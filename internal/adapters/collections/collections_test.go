package collections_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emiliopalmerini/mtrack/internal/adapters/collections"
	"github.com/emiliopalmerini/mtrack/internal/adapters/memory"
	"github.com/emiliopalmerini/mtrack/internal/domain"
)

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := collections.NewUserRepository(memory.NewKVStore())

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	require.NoError(t, repo.Create(ctx, domain.User{ID: "u1", Name: "Ada", Email: "ada@example.com"}))
	require.NoError(t, repo.Create(ctx, domain.User{ID: "u2", Name: "Bob", Email: "bob@example.com"}))

	got, err := repo.GetByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "u2", got.ID)

	got, err = repo.GetByID(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	users, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"u1", "u2"}, []string{users[0].ID, users[1].ID})
}

func TestSessionRepository(t *testing.T) {
	ctx := context.Background()
	repo := collections.NewSessionRepository(memory.NewKVStore())

	cur, err := repo.Current(ctx)
	require.NoError(t, err)
	assert.Nil(t, cur)

	require.NoError(t, repo.Set(ctx, domain.SessionUser{ID: "u1", Name: "Ada"}))
	cur, err = repo.Current(ctx)
	require.NoError(t, err)
	require.NotNil(t, cur)
	assert.Equal(t, "u1", cur.ID)

	require.NoError(t, repo.Clear(ctx))
	cur, err = repo.Current(ctx)
	require.NoError(t, err)
	assert.Nil(t, cur)
}

func TestLedgerRepository_PerUserIsolation(t *testing.T) {
	ctx := context.Background()
	repo := collections.NewLedgerRepository(memory.NewKVStore())

	empty, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.NotNil(t, empty.Entries)
	assert.NotNil(t, empty.Projects)

	ts := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Save(ctx, "u1", domain.LedgerData{
		Projects: []string{"X"},
		Entries:  []domain.TimeEntry{{ID: "e1", Project: "X", Date: "2024-03-01", TimeSpent: 90, Timestamp: ts}},
	}))
	require.NoError(t, repo.Save(ctx, "u2", domain.LedgerData{Projects: []string{"Y"}}))

	u1, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, u1.Entries, 1)
	assert.Equal(t, 90, u1.Entries[0].TimeSpent)
	assert.True(t, u1.Entries[0].Timestamp.Equal(ts))

	all, err := repo.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestTimerRepository_EmptyRemovesUser(t *testing.T) {
	ctx := context.Background()
	store := memory.NewKVStore()
	repo := collections.NewTimerRepository(store)

	require.NoError(t, repo.Save(ctx, "u1", domain.Timers{"X": {ElapsedSeconds: 5, IsRunning: true}}))
	timers, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, timers["X"].IsRunning)

	require.NoError(t, repo.Save(ctx, "u1", domain.Timers{}))
	raw, _, _ := store.Get(ctx, collections.KeyTimers)
	assert.JSONEq(t, `{}`, string(raw))
}

func TestProjectRepository(t *testing.T) {
	ctx := context.Background()
	repo := collections.NewProjectRepository(memory.NewKVStore())

	p := domain.Project{ID: "p1", Name: "Apollo", ManagerID: "u1", AssignedUsers: []string{"u1"}}
	require.NoError(t, repo.Create(ctx, p))

	p.Completed = true
	require.NoError(t, repo.Update(ctx, p))
	got, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, got.Completed)

	err = repo.Update(ctx, domain.Project{ID: "nope"})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	require.NoError(t, repo.Delete(ctx, "p1"))
	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDecodeError(t *testing.T) {
	ctx := context.Background()
	store := memory.NewKVStore()
	require.NoError(t, store.Put(ctx, collections.KeyUsers, []byte("not json")))

	_, err := collections.NewUserRepository(store).List(ctx)
	assert.Error(t, err)
}
