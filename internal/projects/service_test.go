package projects_test

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/emiliopalmerini/mtrack/internal/adapters/collections"
	"github.com/emiliopalmerini/mtrack/internal/adapters/memory"
	"github.com/emiliopalmerini/mtrack/internal/domain"
	"github.com/emiliopalmerini/mtrack/internal/projects"
)

func newService(t *testing.T) (*projects.Service, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	repo := collections.NewProjectRepository(memory.NewKVStore())
	return projects.NewService(repo, clock, zap.NewNop()), clock
}

func apollo() domain.ProjectInput {
	return domain.ProjectInput{
		Name:          "Apollo",
		ManagerID:     "u1",
		Liaison:       "Client Co",
		AssignedUsers: []string{"u1", "u2", "u2", " "},
	}
}

func TestCreate(t *testing.T) {
	svc, clock := newService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, apollo())
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, []string{"u1", "u2"}, p.AssignedUsers)
	assert.Equal(t, "Active", p.Status())
	assert.True(t, p.CreatedAt.Equal(clock.Now()))

	got, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Name, got.Name)
}

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(in *domain.ProjectInput)
	}{
		{"blank name", func(in *domain.ProjectInput) { in.Name = " " }},
		{"no manager", func(in *domain.ProjectInput) { in.ManagerID = "" }},
		{"no assigned users", func(in *domain.ProjectInput) { in.AssignedUsers = nil }},
		{"only blank users", func(in *domain.ProjectInput) { in.AssignedUsers = []string{"", " "} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newService(t)
			in := apollo()
			tt.mutate(&in)

			_, err := svc.Create(context.Background(), in)
			assert.ErrorIs(t, err, domain.ErrValidation)

			list, err := svc.List(context.Background())
			require.NoError(t, err)
			assert.Empty(t, list)
		})
	}
}

func TestEdit(t *testing.T) {
	svc, clock := newService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, apollo())
	require.NoError(t, err)
	clock.Advance(time.Hour)

	in := apollo()
	in.Name = "Apollo 2"
	in.AssignedUsers = []string{"u3"}
	edited, err := svc.Edit(ctx, p.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Apollo 2", edited.Name)
	assert.Equal(t, []string{"u3"}, edited.AssignedUsers)
	assert.True(t, edited.UpdatedAt.After(edited.CreatedAt))

	in.AssignedUsers = nil
	_, err = svc.Edit(ctx, p.ID, in)
	assert.ErrorIs(t, err, domain.ErrValidation, "an edit must keep at least one assigned user")

	_, err = svc.Edit(ctx, "missing", apollo())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestComplete(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, apollo())
	require.NoError(t, err)

	done, err := svc.Complete(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Completed", done.Status())

	again, err := svc.Complete(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, again.Completed)
}

func TestDelete(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, apollo())
	require.NoError(t, err)

	err = svc.Delete(ctx, "u2", p.ID, "Apollo")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	err = svc.Delete(ctx, "u1", p.ID, "apollo")
	assert.ErrorIs(t, err, domain.ErrValidation)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, svc.Delete(ctx, "u1", p.ID, "Apollo"))
	list, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	err = svc.Delete(ctx, "u1", p.ID, "Apollo")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestForUserAndFindByName(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, apollo())
	require.NoError(t, err)
	_, err = svc.Create(ctx, domain.ProjectInput{Name: "Gemini", ManagerID: "u9", AssignedUsers: []string{"u9"}})
	require.NoError(t, err)

	mine, err := svc.ForUser(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Apollo", mine[0].Name)

	found, err := svc.FindByName(ctx, "Gemini")
	require.NoError(t, err)
	assert.Equal(t, "u9", found.ManagerID)

	_, err = svc.FindByName(ctx, "Mercury")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
