package collections

import "github.com/emiliopalmerini/mtrack/internal/ports"

// Repositories holds all collection repository implementations as port interfaces.
type Repositories struct {
	Users    ports.UserRepository
	Session  ports.SessionRepository
	Ledgers  ports.LedgerRepository
	Timers   ports.TimerRepository
	Projects ports.ProjectRepository
}

// NewRepositories creates all repositories over one store.
func NewRepositories(store ports.KVStore) *Repositories {
	return &Repositories{
		Users:    NewUserRepository(store),
		Session:  NewSessionRepository(store),
		Ledgers:  NewLedgerRepository(store),
		Timers:   NewTimerRepository(store),
		Projects: NewProjectRepository(store),
	}
}
