package ports

import (
	"context"

	"github.com/emiliopalmerini/mtrack/internal/domain"
)

type TimerRepository interface {
	Get(ctx context.Context, userID string) (domain.Timers, error)
	Save(ctx context.Context, userID string, timers domain.Timers) error
}
