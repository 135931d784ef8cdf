package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"helpme/internal/config"
	"helpme/internal/export"
	"helpme/internal/metrics"
	"helpme/internal/service"

	"github.com/rs/zerolog"
)

// ActorHeader names the request header carrying the acting username.
// Identity is asserted by the trusted front end; the API key pair
// authenticates the caller, not the member.
const ActorHeader = "X-User"

// HTTPServer exposes the marketplace over a JSON HTTP API.
type HTTPServer struct {
	cfg           config.APIConfig
	users         *service.UserService
	listings      *service.ListingService
	negotiations  *service.NegotiationService
	notifications *service.NotificationService
	chat          *service.ChatService
	share         *service.ShareService
	settings      *service.SettingsService
	exporter      *export.Exporter
	server        *http.Server
	auth          *HTTPAuth
	logger        *zerolog.Logger
}

// Services groups the handler dependencies.
type Services struct {
	Users         *service.UserService
	Listings      *service.ListingService
	Negotiations  *service.NegotiationService
	Notifications *service.NotificationService
	Chat          *service.ChatService
	Share         *service.ShareService
	Settings      *service.SettingsService
	Exporter      *export.Exporter
}

func NewHTTPServer(cfg config.APIConfig, svc Services, logger *zerolog.Logger) *HTTPServer {
	srv := &HTTPServer{
		cfg:           cfg,
		users:         svc.Users,
		listings:      svc.Listings,
		negotiations:  svc.Negotiations,
		notifications: svc.Notifications,
		chat:          svc.Chat,
		share:         svc.Share,
		settings:      svc.Settings,
		exporter:      svc.Exporter,
		logger:        logger,
	}
	srv.auth = NewHTTPAuth(cfg)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/auth/register", srv.handleRegister)
	mux.HandleFunc("/api/v1/auth/login", srv.handleLogin)
	mux.HandleFunc("/api/v1/users", srv.handleUsers)
	mux.HandleFunc("/api/v1/users/", srv.handleUser)
	mux.HandleFunc("/api/v1/listings/", srv.handleListings)
	mux.HandleFunc("/api/v1/spots/", srv.handleSpotAction)
	mux.HandleFunc("/api/v1/requests/", srv.handleRequestAction)
	mux.HandleFunc("/api/v1/sos/", srv.handleSosAction)
	mux.HandleFunc("/api/v1/notifications", srv.handleNotifications)
	mux.HandleFunc("/api/v1/notifications/read", srv.handleNotificationsRead)
	mux.HandleFunc("/api/v1/messages", srv.handleMessages)
	mux.HandleFunc("/api/v1/share/link", srv.handleShareLink)
	mux.HandleFunc("/api/v1/share/resolve", srv.handleShareResolve)
	mux.HandleFunc("/api/v1/admin/settings", srv.handleAdminSettings)
	mux.HandleFunc("/api/v1/admin/ads", srv.handleAdminAds)
	mux.HandleFunc("/api/v1/admin/ads/", srv.handleAdminAdDelete)
	mux.HandleFunc("/api/v1/admin/links", srv.handleAdminLinks)
	mux.HandleFunc("/api/v1/admin/export", srv.handleAdminExport)

	handler := srv.loggingMiddleware(srv.auth.Wrap(mux))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	return srv
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler exposes the configured handler chain for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		metrics.IncHTTP(r.URL.Path)
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

// actor returns the acting username from the identity header.
func actor(r *http.Request) string {
	return r.Header.Get(ActorHeader)
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

// writeServiceError maps domain sentinels onto HTTP status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidState),
		errors.Is(err, service.ErrSelfAction),
		errors.Is(err, service.ErrUsernameTaken):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrUnauthorized):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrUnknownKind):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
