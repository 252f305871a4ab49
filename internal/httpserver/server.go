package httpserver

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/goccy/go-json"
	"github.com/radiusdt/campaign-analytics/internal/accounts"
	"github.com/radiusdt/campaign-analytics/internal/analytics"
	"github.com/radiusdt/campaign-analytics/internal/apperr"
	"github.com/radiusdt/campaign-analytics/internal/campaigns"
	"github.com/radiusdt/campaign-analytics/internal/config"
	"github.com/radiusdt/campaign-analytics/internal/geo"
	"github.com/radiusdt/campaign-analytics/internal/metrics"
	"github.com/radiusdt/campaign-analytics/internal/middleware"
	"github.com/radiusdt/campaign-analytics/internal/storage"
	"go.uber.org/zap"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Dependencies holds all external dependencies for the HTTP server.
type Dependencies struct {
	Config  *config.Config
	Logger  *zap.Logger
	Metrics *metrics.Metrics // optional
	Stores  *storage.Stores  // nil means in-memory stores

	// Geocoder resolves location events. Nil disables geocoding and location
	// events fail with an external service error.
	Geocoder  geo.Geocoder
	CityCache geo.CityCache // optional
}

// Server holds all HTTP handlers and their dependencies.
type Server struct {
	cfg    *config.Config
	logger *zap.Logger
	stores *storage.Stores

	analytics *analytics.Service
	accounts  *accounts.Service
	campaigns *campaigns.Service
}

// NewServer creates an HTTP handler with all routes and the middleware chain
// configured.
func NewServer(deps *Dependencies) http.Handler {
	cfg := deps.Config
	logger := deps.Logger

	stores := deps.Stores
	if stores == nil {
		logger.Info("using in-memory stores")
		stores = storage.NewInMemoryStores()
	}

	enricher := geo.NewEnricher(deps.Geocoder, deps.CityCache, cfg.Geo.Timeout, logger, deps.Metrics)

	s := &Server{
		cfg:       cfg,
		logger:    logger,
		stores:    stores,
		analytics: analytics.NewService(stores, enricher, logger, deps.Metrics),
		accounts:  accounts.NewService(stores.Users, logger),
		campaigns: campaigns.NewService(stores.Campaigns, stores.Users),
	}

	rateLimit := middleware.NewRateLimitMiddleware(cfg.RateLimit, logger)

	r := chi.NewRouter()

	// Recovery -> Logging -> Metrics -> CORS -> RateLimit -> Auth -> handler
	r.Use(chimw.RequestID)
	r.Use(middleware.NewRecoveryMiddleware(logger).Handler)
	r.Use(middleware.NewLoggingMiddleware(logger).Handler)
	if deps.Metrics != nil {
		rateLimit.SetMetrics(deps.Metrics)
		r.Use(middleware.NewMetricsMiddleware(deps.Metrics).Handler)
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", middleware.AuthHeaderName},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(rateLimit.Handler)
	r.Use(middleware.NewAuthMiddleware(cfg.Auth, logger).Handler)

	// Health check
	r.Get("/health", s.handleHealth)

	// Metrics
	if cfg.Metrics.Enabled && deps.Metrics != nil {
		r.Handle(cfg.Metrics.Path, deps.Metrics.Handler())
	}

	// Analytics
	r.Route("/analytics", func(r chi.Router) {
		r.Post("/", s.handleLogEvent)
		r.Get("/summary", s.handleSummary)
		r.Get("/{target_id}", s.handleDetail)
	})

	// Accounts
	r.Route("/users", func(r chi.Router) {
		r.Post("/", s.handleRegister)
		r.Post("/login", s.handleLogin)
		r.Get("/{id}", s.handleGetUser)
	})

	// Campaigns
	r.Route("/campaigns", func(r chi.Router) {
		r.Post("/", s.handleCreateCampaign)
		r.Get("/", s.handleListCampaigns)
		r.Get("/{id}", s.handleGetCampaign)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, apperr.NotFound("httpserver", "route", r.URL.Path))
	})

	return r
}

// =============================================
// HEALTH
// =============================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.stores.Health != nil {
		if err := s.stores.Health(r.Context()); err != nil {
			s.logger.Warn("health check failed", zap.Error(err))
			s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unavailable",
				"error":  err.Error(),
			})
			return
		}
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================
// ANALYTICS
// =============================================

func (s *Server) handleLogEvent(w http.ResponseWriter, r *http.Request) {
	p, err := analytics.DecodePayload(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, err)
		return
	}

	e, err := s.analytics.LogEvent(r.Context(), p)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, e)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.analytics.Summarize(r.Context(), r.URL.Query().Get("userID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, summary)
}

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := s.analytics.Detail(r.Context(), chi.URLParam(r, "target_id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, detail)
}

// =============================================
// ACCOUNTS
// =============================================

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req accounts.Registration
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	u, err := s.accounts.Register(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, u)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	u, err := s.accounts.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, u)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	u, err := s.accounts.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, u)
}

// =============================================
// CAMPAIGNS
// =============================================

func (s *Server) handleCreateCampaign(w http.ResponseWriter, r *http.Request) {
	var in campaigns.Input
	if err := s.decode(w, r, &in); err != nil {
		s.writeError(w, err)
		return
	}

	c, err := s.campaigns.Create(r.Context(), in)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, c)
}

func (s *Server) handleListCampaigns(w http.ResponseWriter, r *http.Request) {
	list, err := s.campaigns.ListByOwner(r.Context(), r.URL.Query().Get("userID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, list)
}

func (s *Server) handleGetCampaign(w http.ResponseWriter, r *http.Request) {
	c, err := s.campaigns.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, c)
}

// =============================================
// HELPERS
// =============================================

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apperr.Validation("httpserver.decode", "", "invalid JSON body: "+err.Error())
	}
	return nil
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}

// writeError maps the error kind to a status code and writes the error body.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Error(err))
	}
	s.jsonResponse(w, status, errorBody{
		Error:   apperr.KindName(err),
		Message: err.Error(),
		Field:   apperr.FieldOf(err),
	})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrExternalService):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
