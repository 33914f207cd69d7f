package ports

import (
	"context"

	"github.com/emiliopalmerini/mtrack/internal/domain"
)

type LedgerRepository interface {
	// Get returns the user's ledger, empty if nothing is stored yet.
	Get(ctx context.Context, userID string) (domain.LedgerData, error)
	Save(ctx context.Context, userID string, data domain.LedgerData) error
	// All returns every user's ledger keyed by user id.
	All(ctx context.Context) (map[string]domain.LedgerData, error)
}
