package collections

import (
	"context"

	"github.com/emiliopalmerini/mtrack/internal/domain"
	"github.com/emiliopalmerini/mtrack/internal/ports"
)

type TimerRepository struct {
	store ports.KVStore
}

func NewTimerRepository(store ports.KVStore) *TimerRepository {
	return &TimerRepository{store: store}
}

func (r *TimerRepository) all(ctx context.Context) (map[string]domain.Timers, error) {
	all := map[string]domain.Timers{}
	if _, err := load(ctx, r.store, KeyTimers, &all); err != nil {
		return nil, err
	}
	return all, nil
}

func (r *TimerRepository) Get(ctx context.Context, userID string) (domain.Timers, error) {
	all, err := r.all(ctx)
	if err != nil {
		return nil, err
	}
	timers := all[userID]
	if timers == nil {
		timers = domain.Timers{}
	}
	return timers, nil
}

func (r *TimerRepository) Save(ctx context.Context, userID string, timers domain.Timers) error {
	all, err := r.all(ctx)
	if err != nil {
		return err
	}
	if len(timers) == 0 {
		delete(all, userID)
	} else {
		all[userID] = timers
	}
	return save(ctx, r.store, KeyTimers, all)
}
