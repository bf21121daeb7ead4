// Package server exposes the REST API over the application services.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/bobmcallan/pulse/internal/app"
	"github.com/bobmcallan/pulse/internal/common"
)

// Server wraps the HTTP server and application reference.
type Server struct {
	app          *app.App
	server       *http.Server
	logger       *common.Logger
	shutdownChan chan struct{}
}

// SetShutdownChannel sets the channel signaled when HTTP shutdown is requested.
func (s *Server) SetShutdownChannel(ch chan struct{}) {
	s.shutdownChan = ch
}

// NewServer creates a new HTTP REST API server.
func NewServer(a *app.App) *Server {
	s := &Server{
		app:    a,
		logger: a.Logger,
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	handler := applyMiddleware(mux, a.Logger)

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", a.Config.Server.Host, a.Config.Server.Port),
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server (blocking).
func (s *Server) Start() error {
	s.logger.Info().
		Str("addr", s.server.Addr).
		Msg("Starting REST API server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)

	// Calendar
	mux.HandleFunc("/api/calendar", s.handleCalendar)
	mux.HandleFunc("/api/calendar/grouped", s.handleCalendarGrouped)
	mux.HandleFunc("/api/calendar/grid", s.handleCalendarGrid)
	mux.HandleFunc("/api/calendar/day/", s.handleCalendarDay)

	// Analytics
	mux.HandleFunc("/api/analytics", s.handleAnalytics)
	mux.HandleFunc("/api/analytics/chart.png", s.handleAnalyticsChart)

	// Follows
	mux.HandleFunc("/api/follows", s.handleFollows)
	mux.HandleFunc("/api/follows/", s.routeFollows)

	// Notifications
	mux.HandleFunc("/api/notifications/check", s.handleNotificationCheck)
}
