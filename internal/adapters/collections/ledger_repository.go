package collections

import (
	"context"

	"github.com/emiliopalmerini/mtrack/internal/domain"
	"github.com/emiliopalmerini/mtrack/internal/ports"
)

// LedgerRepository stores every user's ledger in one collection keyed by
// user id. Saving one user rewrites the whole collection.
type LedgerRepository struct {
	store ports.KVStore
}

func NewLedgerRepository(store ports.KVStore) *LedgerRepository {
	return &LedgerRepository{store: store}
}

func (r *LedgerRepository) All(ctx context.Context) (map[string]domain.LedgerData, error) {
	all := map[string]domain.LedgerData{}
	if _, err := load(ctx, r.store, KeyLedgers, &all); err != nil {
		return nil, err
	}
	return all, nil
}

func (r *LedgerRepository) Get(ctx context.Context, userID string) (domain.LedgerData, error) {
	all, err := r.All(ctx)
	if err != nil {
		return domain.LedgerData{}, err
	}

	data := all[userID]
	if data.Projects == nil {
		data.Projects = []string{}
	}
	if data.Entries == nil {
		data.Entries = []domain.TimeEntry{}
	}
	return data, nil
}

func (r *LedgerRepository) Save(ctx context.Context, userID string, data domain.LedgerData) error {
	all, err := r.All(ctx)
	if err != nil {
		return err
	}
	all[userID] = data
	return save(ctx, r.store, KeyLedgers, all)
}
