package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bobmcallan/pulse/internal/models"
	"github.com/bobmcallan/pulse/internal/services/calendar"
)

// --- Calendar handlers ---

// handleCalendar serves GET /api/calendar. With refresh=true the cache age
// is ignored and the provider is always invoked. A fetch failure still
// returns 200 with the stale-but-displayable state and a populated error
// field, so the client keeps its data and shows a retry action.
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	force := r.URL.Query().Get("refresh") == "true"

	state, err := s.app.CalendarService.Refresh(r.Context(), force)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Calendar refresh failed")
	} else {
		s.checkNotifications(r, state)
	}

	WriteJSON(w, http.StatusOK, state)
}

func (s *Server) handleCalendarGrouped(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	state := s.app.CalendarService.State()
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"buckets":      calendar.GroupByDate(state.Events),
		"total_events": len(state.Events),
		"last_updated": state.LastUpdated,
	})
}

func (s *Server) handleCalendarGrid(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	followed := map[string]bool{}
	if list, err := s.app.FollowService.List(r.Context()); err == nil {
		followed = list.TickerSet()
	}

	state := s.app.CalendarService.State()
	grid := calendar.BuildCalendarGrid(state.Events, followed, time.Now())
	WriteJSON(w, http.StatusOK, grid)
}

func (s *Server) handleCalendarDay(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	date := PathParam(r.URL.Path, "/api/calendar/day/", "")
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("Invalid date '%s', expected YYYY-MM-DD", date))
		return
	}

	state := s.app.CalendarService.State()
	events := calendar.EventsOn(state.Events, date)
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"date":   date,
		"events": events,
		"count":  len(events),
	})
}

// --- Analytics handlers ---

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	state := s.app.CalendarService.State()
	WriteJSON(w, http.StatusOK, calendar.BuildAnalytics(state.Events))
}

func (s *Server) handleAnalyticsChart(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	state := s.app.CalendarService.State()
	png, err := calendar.RenderFrequencyChart(calendar.BuildAnalytics(state.Events))
	if err != nil {
		WriteError(w, http.StatusNotFound, fmt.Sprintf("Chart unavailable: %v", err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// --- Follow handlers ---

func (s *Server) handleFollows(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	list, err := s.app.FollowService.List(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error listing follows: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, list)
}

// routeFollows dispatches /api/follows/{ticker}/toggle and /api/follows/{ticker}.
func (s *Server) routeFollows(w http.ResponseWriter, r *http.Request) {
	if strings.HasSuffix(r.URL.Path, "/toggle") {
		s.handleFollowToggle(w, r)
		return
	}
	s.handleFollowFlags(w, r)
}

func (s *Server) handleFollowToggle(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	ticker := PathParam(r.URL.Path, "/api/follows/", "/toggle")
	if ticker == "" {
		WriteError(w, http.StatusBadRequest, "Ticker is required")
		return
	}

	list, err := s.app.FollowService.Toggle(r.Context(), ticker)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Toggle error: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, list)
}

func (s *Server) handleFollowFlags(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPatch) {
		return
	}

	ticker := PathParam(r.URL.Path, "/api/follows/", "")
	if ticker == "" {
		WriteError(w, http.StatusBadRequest, "Ticker is required")
		return
	}

	var req struct {
		NotifyOnDay     *bool `json:"notify_on_day"`
		NotifyDayBefore *bool `json:"notify_day_before"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	list, err := s.app.FollowService.SetFlags(r.Context(), ticker, req.NotifyOnDay, req.NotifyDayBefore)
	if err != nil {
		WriteError(w, http.StatusNotFound, fmt.Sprintf("Flag update error: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, list)
}

// --- Notification handlers ---

func (s *Server) handleNotificationCheck(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	follows, err := s.app.FollowService.List(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error listing follows: %v", err))
		return
	}

	state := s.app.CalendarService.State()
	fired, err := s.app.NotifyService.Check(r.Context(), state.Events, follows)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Notification check error: %v", err))
		return
	}

	if fired == nil {
		fired = []models.Notification{}
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"fired": fired,
		"count": len(fired),
	})
}

// checkNotifications runs the scheduler after a successful data load.
func (s *Server) checkNotifications(r *http.Request, state *models.CalendarState) {
	follows, err := s.app.FollowService.List(r.Context())
	if err != nil {
		s.logger.Warn().Err(err).Msg("Skipping notification check, follow list unavailable")
		return
	}
	if _, err := s.app.NotifyService.Check(r.Context(), state.Events, follows); err != nil {
		s.logger.Warn().Err(err).Msg("Notification check failed")
	}
}
