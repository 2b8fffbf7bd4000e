package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mindmate-app/mindmate/pkg/domain/types"
	"github.com/mindmate-app/mindmate/pkg/usecase"
	"github.com/mindmate-app/mindmate/pkg/utils/logging"
)

// Server is the HTTP surface of the companion: two chat endpoints, the
// memory wipe used by account deletion, and a health check. Authentication
// itself is owned by the fronting identity platform; the auth middleware
// only extracts the caller identity from the bearer token.
type Server struct {
	router *chi.Mux
	uc     *usecase.UseCases
}

type serverConfig struct {
	noAuthUserID types.UserID
}

type Option func(*serverConfig)

// WithNoAuth disables token extraction and pins every request to the
// given user ID. Local development only.
func WithNoAuth(userID types.UserID) Option {
	return func(cfg *serverConfig) {
		cfg.noAuthUserID = userID
	}
}

func New(uc *usecase.UseCases, opts ...Option) *Server {
	var cfg serverConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &Server{
		router: chi.NewRouter(),
		uc:     uc,
	}

	s.router.Use(requestLogger)
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware(cfg.noAuthUserID))
		r.Post("/chat", s.handleChat)
		r.Post("/chat/greeting", s.handleGreeting)
		r.Delete("/memory", s.handleWipeMemory)
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(r, w, http.StatusOK, map[string]string{"status": "ok"})
}

func respondJSON(r *http.Request, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	if err := enc.Encode(body); err != nil {
		logging.From(r.Context()).Error("failed to encode response", "error", err)
	}
}
