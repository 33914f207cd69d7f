// Package ledger owns a user's time entries and recently used project names.
package ledger

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/segmentio/ksuid"
	"go.uber.org/zap"

	"github.com/emiliopalmerini/mtrack/internal/domain"
	"github.com/emiliopalmerini/mtrack/internal/ports"
)

// Entry sources reported to the metrics exporter.
const (
	SourceManual = "manual"
	SourceTimer  = "timer"
)

// Service provides entry CRUD over the ledger repository.
type Service struct {
	repo     ports.LedgerRepository
	exporter ports.MetricsExporter
	clock    clockwork.Clock
	logger   *zap.Logger
}

// NewService creates a new ledger service.
func NewService(repo ports.LedgerRepository, exporter ports.MetricsExporter, clock clockwork.Clock, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		exporter: exporter,
		clock:    clock,
		logger:   logger,
	}
}

// Group is the entries of one project on one date.
type Group struct {
	Project string
	Entries []domain.TimeEntry
}

// Create validates the input, derives missing fields and stores a new entry.
func (s *Service) Create(ctx context.Context, userID string, in domain.EntryInput) (domain.TimeEntry, error) {
	return s.create(ctx, userID, in, SourceManual)
}

// CreateFromTimer stores an entry produced by a finished timer.
func (s *Service) CreateFromTimer(ctx context.Context, userID string, in domain.EntryInput) (domain.TimeEntry, error) {
	return s.create(ctx, userID, in, SourceTimer)
}

func (s *Service) create(ctx context.Context, userID string, in domain.EntryInput, source string) (domain.TimeEntry, error) {
	now := s.clock.Now()

	entry := domain.TimeEntry{
		Project:   strings.TrimSpace(in.Project),
		Date:      strings.TrimSpace(in.Date),
		StartTime: strings.TrimSpace(in.StartTime),
		EndTime:   strings.TrimSpace(in.EndTime),
		Timestamp: now,
	}
	if entry.Date == "" {
		entry.Date = domain.DateOf(now)
	}
	if err := validateFields(entry, in.Minutes); err != nil {
		return domain.TimeEntry{}, err
	}

	minutes := in.Minutes
	switch {
	case minutes > 0:
		if !entry.HasWindow() {
			entry.StartTime, entry.EndTime = domain.SyntheticWindow(now, minutes)
		}
	case entry.HasWindow():
		d, err := domain.Duration(entry.StartTime, entry.EndTime)
		if err != nil {
			return domain.TimeEntry{}, err
		}
		minutes = d
	default:
		return domain.TimeEntry{}, domain.NewValidationError("timeSpent", "Please enter either start and end times, or time spent")
	}
	entry.TimeSpent = minutes

	id, err := ksuid.NewRandomWithTime(now)
	if err != nil {
		return domain.TimeEntry{}, fmt.Errorf("failed to generate entry id: %w", err)
	}
	entry.ID = id.String()

	data, err := s.repo.Get(ctx, userID)
	if err != nil {
		return domain.TimeEntry{}, fmt.Errorf("failed to load ledger: %w", err)
	}
	data.Entries = append(slices.Clone(data.Entries), entry)
	data.Projects = touch(data.Projects, entry.Project)

	if err := s.repo.Save(ctx, userID, data); err != nil {
		return domain.TimeEntry{}, fmt.Errorf("failed to save ledger: %w", err)
	}

	s.logger.Debug("entry created",
		zap.String("user_id", userID),
		zap.String("entry_id", entry.ID),
		zap.String("project", entry.Project),
		zap.Int("minutes", entry.TimeSpent),
	)

	if err := s.exporter.ExportEntry(ctx, &ports.EntryMetrics{
		UserID:  userID,
		Project: entry.Project,
		Minutes: entry.TimeSpent,
		Source:  source,
		At:      now,
	}); err != nil {
		s.logger.Warn("failed to export entry metrics", zap.Error(err))
	}

	return entry, nil
}

// Edit merges the patch over the stored entry. Explicit minutes in the patch
// win; a patched time pair without minutes recomputes them.
func (s *Service) Edit(ctx context.Context, userID, id string, patch domain.EntryPatch) (domain.TimeEntry, error) {
	data, err := s.repo.Get(ctx, userID)
	if err != nil {
		return domain.TimeEntry{}, fmt.Errorf("failed to load ledger: %w", err)
	}

	idx := slices.IndexFunc(data.Entries, func(e domain.TimeEntry) bool { return e.ID == id })
	if idx < 0 {
		return domain.TimeEntry{}, fmt.Errorf("entry %s: %w", id, domain.ErrNotFound)
	}

	entry := data.Entries[idx]
	if patch.Project != nil {
		entry.Project = strings.TrimSpace(*patch.Project)
	}
	if patch.Date != nil {
		entry.Date = strings.TrimSpace(*patch.Date)
	}
	if patch.StartTime != nil {
		entry.StartTime = strings.TrimSpace(*patch.StartTime)
	}
	if patch.EndTime != nil {
		entry.EndTime = strings.TrimSpace(*patch.EndTime)
	}

	minutes := entry.TimeSpent
	if patch.Minutes != nil {
		minutes = *patch.Minutes
	}
	if err := validateFields(entry, minutes); err != nil {
		return domain.TimeEntry{}, err
	}

	patchedPair := patch.StartTime != nil && patch.EndTime != nil
	patchedTime := patch.StartTime != nil || patch.EndTime != nil

	switch {
	case patch.Minutes != nil && minutes > 0:
		if !patchedPair {
			entry.StartTime, entry.EndTime = domain.SyntheticWindow(s.clock.Now(), minutes)
		}
	case (patchedTime || patch.Minutes != nil) && entry.HasWindow():
		d, err := domain.Duration(entry.StartTime, entry.EndTime)
		if err != nil {
			return domain.TimeEntry{}, err
		}
		minutes = d
	case patch.Minutes != nil:
		return domain.TimeEntry{}, domain.NewValidationError("timeSpent", "Please enter either start and end times, or time spent")
	}
	if minutes == 0 && !entry.HasWindow() {
		return domain.TimeEntry{}, domain.NewValidationError("timeSpent", "Please enter either start and end times, or time spent")
	}
	entry.TimeSpent = minutes

	entries := slices.Clone(data.Entries)
	entries[idx] = entry
	data.Entries = entries
	data.Projects = touch(data.Projects, entry.Project)

	if err := s.repo.Save(ctx, userID, data); err != nil {
		return domain.TimeEntry{}, fmt.Errorf("failed to save ledger: %w", err)
	}

	s.logger.Debug("entry updated", zap.String("user_id", userID), zap.String("entry_id", id))
	return entry, nil
}

// Delete removes the entry. A missing id is a no-op.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	data, err := s.repo.Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load ledger: %w", err)
	}

	idx := slices.IndexFunc(data.Entries, func(e domain.TimeEntry) bool { return e.ID == id })
	if idx < 0 {
		return nil
	}
	data.Entries = slices.Delete(slices.Clone(data.Entries), idx, idx+1)

	if err := s.repo.Save(ctx, userID, data); err != nil {
		return fmt.Errorf("failed to save ledger: %w", err)
	}

	s.logger.Debug("entry deleted", zap.String("user_id", userID), zap.String("entry_id", id))
	return nil
}

// Entry returns one entry by id.
func (s *Service) Entry(ctx context.Context, userID, id string) (domain.TimeEntry, error) {
	entries, err := s.Entries(ctx, userID)
	if err != nil {
		return domain.TimeEntry{}, err
	}
	for _, e := range entries {
		if e.ID == id {
			return e, nil
		}
	}
	return domain.TimeEntry{}, fmt.Errorf("entry %s: %w", id, domain.ErrNotFound)
}

// Entries returns all of the user's entries in insertion order.
func (s *Service) Entries(ctx context.Context, userID string) ([]domain.TimeEntry, error) {
	data, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}
	return data.Entries, nil
}

// EntriesForDate returns the entries of a date grouped by project name in
// alphabetical order, newest first inside each group.
func (s *Service) EntriesForDate(ctx context.Context, userID, date string) ([]Group, error) {
	entries, err := s.Entries(ctx, userID)
	if err != nil {
		return nil, err
	}
	return GroupByProject(entries, date), nil
}

// Projects returns the recently used project names, most recent first.
func (s *Service) Projects(ctx context.Context, userID string) ([]string, error) {
	data, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}
	return data.Projects, nil
}

// GroupByProject filters entries to date and groups them by project.
func GroupByProject(entries []domain.TimeEntry, date string) []Group {
	byProject := map[string][]domain.TimeEntry{}
	for _, e := range entries {
		if e.Date == date {
			byProject[e.Project] = append(byProject[e.Project], e)
		}
	}

	groups := make([]Group, 0, len(byProject))
	for project, list := range byProject {
		slices.SortStableFunc(list, func(a, b domain.TimeEntry) int {
			return b.Timestamp.Compare(a.Timestamp)
		})
		groups = append(groups, Group{Project: project, Entries: list})
	}
	slices.SortFunc(groups, func(a, b Group) int { return cmp.Compare(a.Project, b.Project) })
	return groups
}

func validateFields(e domain.TimeEntry, minutes int) error {
	if e.Project == "" {
		return domain.NewValidationError("project", "Please enter a project name")
	}
	if _, err := domain.ParseDate(e.Date); err != nil {
		return err
	}
	if minutes < 0 {
		return domain.NewValidationError("timeSpent", "Time spent cannot be negative")
	}
	for _, t := range []string{e.StartTime, e.EndTime} {
		if t == "" {
			continue
		}
		if _, err := domain.ParseClock(t); err != nil {
			return err
		}
	}
	return nil
}

// touch moves name to the front of the list without duplicates.
func touch(projects []string, name string) []string {
	out := make([]string, 0, len(projects)+1)
	out = append(out, name)
	for _, p := range projects {
		if p != name {
			out = append(out, p)
		}
	}
	return out
}
