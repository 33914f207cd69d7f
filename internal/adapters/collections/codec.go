// Package collections implements the repositories on top of a KVStore.
// Each collection is a single JSON document that is read and written whole.
package collections

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/emiliopalmerini/mtrack/internal/ports"
)

// Collection keys.
const (
	KeyUsers    = "users"
	KeySession  = "current-session"
	KeyLedgers  = "ledgers"
	KeyTimers   = "timers"
	KeyProjects = "projects"
)

// load decodes the collection into dst. A missing key leaves dst untouched
// and reports false.
func load(ctx context.Context, store ports.KVStore, key string, dst any) (bool, error) {
	raw, ok, err := store.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if !ok || len(raw) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("failed to decode collection %q: %w", key, err)
	}
	return true, nil
}

func save(ctx context.Context, store ports.KVStore, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode collection %q: %w", key, err)
	}
	return store.Put(ctx, key, raw)
}
