// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/okian/ott/internal/domain/model"
	"github.com/okian/ott/pkg/logger"
	"github.com/okian/ott/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ProcedureCaller runs a stored procedure.
type ProcedureCaller interface {
	CallProcedure(ctx context.Context, name string, args ...any) model.Result
}

// Querier runs a raw read statement.
type Querier interface {
	Query(ctx context.Context, query string, args ...any) model.Result
}

// RatingWriter stores a new rating.
type RatingWriter interface {
	AddRating(ctx context.Context, r model.Rating) model.Result
}

// Pinger reports database reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	ProcedureCaller
	Querier
	RatingWriter
	Pinger
}

// Server wires HTTP routes for the catalogue API.
type Server struct {
	healthHandler          *HealthHandler
	statsHandler           *StatsHandler
	subscriptionHandler    *SubscriptionHandler
	userHandler            *UserHandler
	contentHandler         *ContentHandler
	ratingHandler          *RatingHandler
	watchlistHandler       *WatchlistHandler
	recommendationsHandler *RecommendationsHandler
	directoryHandler       *DirectoryHandler

	logger logger.Logger
}

// ServerOption applies a configuration option to the Server.
type ServerOption func(*Server)

// WithLogger sets the logger used by the request middleware.
func WithLogger(l logger.Logger) ServerOption {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...ServerOption) *Server {
	s := &Server{
		healthHandler:          NewHealthHandler(deps),
		statsHandler:           NewStatsHandler(statsProvider),
		subscriptionHandler:    NewSubscriptionHandler(deps),
		userHandler:            NewUserHandler(deps),
		contentHandler:         NewContentHandler(deps),
		ratingHandler:          NewRatingHandler(deps),
		watchlistHandler:       NewWatchlistHandler(deps),
		recommendationsHandler: NewRecommendationsHandler(deps),
		directoryHandler:       NewDirectoryHandler(deps),
		logger:                 logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes and the request middleware to router.
func (s *Server) Register(_ context.Context, router *mux.Router) {
	if router == nil {
		panic("router is nil")
	}

	router.Use(RequestIDMiddleware, RecoveryMiddleware(s.logger), LoggingMiddleware(s.logger))

	get := func(path, endpoint string, h http.HandlerFunc) {
		router.HandleFunc(path, MetricsMiddleware(h, endpoint)).Methods(http.MethodGet)
	}
	post := func(path, endpoint string, h http.HandlerFunc) {
		router.HandleFunc(path, MetricsMiddleware(h, endpoint)).Methods(http.MethodPost)
	}

	// Operational routes
	get("/healthz", "healthz", s.healthHandler.HandleHealth)
	get("/stats", "stats", s.statsHandler.HandleStats)
	router.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})).Methods(http.MethodGet)

	// Subscription management
	post("/api/subscription/renew", "subscription_renew", s.subscriptionHandler.HandleRenew)
	get("/api/subscription/info/{user_id:[0-9]+}", "subscription_info", s.subscriptionHandler.HandleInfo)

	// Watch history
	get("/api/user/summary/{user_id:[0-9]+}", "user_summary", s.userHandler.HandleSummary)
	post("/api/user/watch-progress", "user_watch_progress", s.userHandler.HandleWatchProgress)

	// Content
	get("/api/content/all", "content_all", s.contentHandler.HandleAll)
	get("/api/content/details/{content_id:[0-9]+}", "content_details", s.contentHandler.HandleDetails)
	get("/api/content/top-rated", "content_top_rated", s.contentHandler.HandleTopRated)
	get("/api/content/popular", "content_popular", s.contentHandler.HandlePopular)
	get("/api/content/by-genre/{genre}", "content_by_genre", s.contentHandler.HandleByGenre)
	get("/api/content/search", "content_search", s.contentHandler.HandleSearch)
	post("/api/content/rate", "content_rate", s.ratingHandler.HandleRate)

	// Watchlist
	get("/api/watchlist/{profile_id:[0-9]+}", "watchlist", s.watchlistHandler.HandleList)
	post("/api/watchlist/add", "watchlist_add", s.watchlistHandler.HandleAdd)
	router.HandleFunc("/api/watchlist/remove/{watchlist_id:[0-9]+}",
		MetricsMiddleware(s.watchlistHandler.HandleRemove, "watchlist_remove")).Methods(http.MethodDelete)

	// Recommendations, users, actors, genres
	get("/api/recommendations/{user_id:[0-9]+}", "recommendations", s.recommendationsHandler.HandleRecommendations)
	get("/api/users/all", "users_all", s.directoryHandler.HandleAllUsers)
	get("/api/actor/{actor_id:[0-9]+}", "actor", s.directoryHandler.HandleActor)
	get("/api/genres", "genres", s.directoryHandler.HandleGenres)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, model.Error(message))
}

// writeResult answers a read route: failures are 500 with the status object,
// everything else is 200 with rows or the ack object.
func writeResult(w http.ResponseWriter, res model.Result) {
	if res.IsError() {
		writeJSON(w, http.StatusInternalServerError, res.Payload())
		return
	}
	writeJSON(w, http.StatusOK, res.Payload())
}

// writeOutcome answers a write route: failures are 500, otherwise the fixed
// success message replaces whatever the store returned.
func writeOutcome(w http.ResponseWriter, res model.Result, message string) {
	if res.IsError() {
		writeJSON(w, http.StatusInternalServerError, res.Payload())
		return
	}
	writeJSON(w, http.StatusOK, model.Success(message))
}
