// Package calendar owns the earnings calendar refresh/cache state machine
// and the derived view transforms.
package calendar

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bobmcallan/pulse/internal/common"
	"github.com/bobmcallan/pulse/internal/interfaces"
	"github.com/bobmcallan/pulse/internal/models"
)

// Compile-time interface check
var _ interfaces.CalendarService = (*Service)(nil)

// Service implements CalendarService. It holds the single owned calendar
// state; all mutations go through Refresh.
type Service struct {
	storage interfaces.StorageManager
	client  interfaces.EarningsClient
	logger  *common.Logger
	now     func() time.Time

	mu    sync.Mutex
	state models.CalendarState
	gen   uint64 // refresh generation; a superseded refresh's result is discarded
}

// ServiceOption configures the service
type ServiceOption func(*Service)

// WithClock overrides the wall clock (used in tests).
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new calendar service
func NewService(storage interfaces.StorageManager, client interfaces.EarningsClient, logger *common.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		storage: storage,
		client:  client,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Refresh settles the calendar state into the freshest available data.
//
// With force false, a cached snapshot younger than common.CacheTTL is
// adopted without a provider call; the threshold is binary, not a sliding
// window. Otherwise the provider is invoked, the new snapshot is persisted
// before the in-memory state is updated (a crash between fetch and state
// update still leaves a durable, consistent cache), and the state adopts
// the result. On fetch failure the prior events are preserved and the error
// surfaced in the returned state.
func (s *Service) Refresh(ctx context.Context, force bool) (*models.CalendarState, error) {
	gen := s.beginRefresh()

	if !force {
		if cache, err := s.storage.CalendarStore().GetCache(ctx); err == nil {
			if common.IsFreshAt(s.now(), cache.FetchedTime(), common.CacheTTL) {
				s.logger.Debug().
					Time("fetched_at", cache.FetchedTime()).
					Msg("Serving earnings calendar from cache")
				s.adopt(gen, cache.Events, cache.Sources, cache.FetchedTime())
				return s.State(), nil
			}
			s.logger.Debug().Time("fetched_at", cache.FetchedTime()).Msg("Calendar cache is stale")
		}
	}

	if s.client == nil {
		err := fmt.Errorf("no earnings client configured")
		s.fail(gen, err)
		return s.State(), err
	}

	fetch, err := s.client.FetchCalendar(ctx, s.now())
	if err != nil {
		s.fail(gen, err)
		return s.State(), fmt.Errorf("earnings calendar fetch failed: %w", err)
	}

	fetchedAt := s.now()
	cache := &models.CalendarCache{
		Events:    fetch.Events,
		Sources:   fetch.Sources,
		FetchedAt: fetchedAt.UnixMilli(),
	}

	// Persist strictly before the in-memory state update.
	if err := s.storage.CalendarStore().SaveCache(ctx, cache); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to persist calendar cache, serving fetched data unpersisted")
	}

	s.adopt(gen, fetch.Events, fetch.Sources, fetchedAt)

	s.logger.Info().
		Int("events", len(fetch.Events)).
		Bool("forced", force).
		Msg("Earnings calendar refreshed")

	return s.State(), nil
}

// State returns a snapshot of the current calendar state.
func (s *Service) State() *models.CalendarState {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state
	snapshot.Events = append([]models.EarningsEvent{}, s.state.Events...)
	snapshot.Sources = append([]string{}, s.state.Sources...)
	return &snapshot
}

// beginRefresh enters the loading state, clears the prior error, and
// returns this refresh's generation number.
func (s *Service) beginRefresh() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	s.state.Loading = true
	s.state.Error = ""
	return s.gen
}

// adopt installs a successful load, unless a later refresh has started.
func (s *Service) adopt(gen uint64, events []models.EarningsEvent, sources []string, fetchedAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		s.logger.Debug().Uint64("gen", gen).Msg("Discarding superseded refresh result")
		return
	}

	if events == nil {
		events = []models.EarningsEvent{}
	}
	if sources == nil {
		sources = []string{}
	}

	s.state = models.CalendarState{
		Events:      events,
		Sources:     sources,
		LastUpdated: fetchedAt,
	}
}

// fail records a fetch failure. Prior events and sources stay in place so
// stale-but-displayable data survives a failed forced refresh.
func (s *Service) fail(gen uint64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		return
	}

	s.state.Loading = false
	s.state.Error = fmt.Sprintf("Failed to load earnings data: %v", err)
}
