package web

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"telegram-referral-bot/internal/domain"
	"telegram-referral-bot/internal/usecase"
)

// Server exposes health, metrics and a small JWT-guarded operator API.
type Server struct {
	codeUC  usecase.CodeUseCase
	statsUC usecase.StatsUseCase
	auth    *AuthManager
	secret  string
	log     *zerolog.Logger
}

func NewServer(
	codeUC usecase.CodeUseCase,
	statsUC usecase.StatsUseCase,
	auth *AuthManager,
	adminSecret string,
	logger *zerolog.Logger,
) *Server {
	webLog := logger.With().Str("component", "WebServer").Logger()
	return &Server{
		codeUC:  codeUC,
		statsUC: statsUC,
		auth:    auth,
		secret:  adminSecret,
		log:     &webLog,
	}
}

// Router builds the chi routing tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/api/v1/login", s.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Get("/api/v1/codes", s.handleListCodes)
		r.Delete("/api/v1/codes/{value}", s.handleDeleteCode)
		r.Get("/api/v1/stats", s.handleStats)
	})

	return r
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.secret == "" {
			s.log.Error().Msg("admin secret is not configured")
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		if _, err := s.auth.ParseFromRequest(r); err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

type loginRequest struct {
	Secret string `json:"secret"`
}

type loginResponse struct {
	Token string `json:"token"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if s.secret == "" || subtle.ConstantTimeCompare([]byte(req.Secret), []byte(s.secret)) != 1 {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	token, err := s.auth.Mint()
	if err != nil {
		s.log.Error().Err(err).Msg("failed to mint admin token")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: token})
}

type codeDTO struct {
	ID         int64  `json:"id"`
	Code       string `json:"code"`
	UsageCount int    `json:"usage_count"`
}

func (s *Server) handleListCodes(w http.ResponseWriter, r *http.Request) {
	codes, err := s.codeUC.List(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("code listing failed")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	out := make([]codeDTO, 0, len(codes))
	for _, c := range codes {
		out = append(out, codeDTO{ID: c.ID, Code: c.Value, UsageCount: c.UsageCount})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteCode(w http.ResponseWriter, r *http.Request) {
	value := chi.URLParam(r, "value")
	err := s.codeUC.Remove(r.Context(), value)
	switch {
	case errors.Is(err, domain.ErrCodeNotFound):
		http.Error(w, "Not Found", http.StatusNotFound)
	case err != nil:
		s.log.Error().Err(err).Msg("code removal failed")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.statsUC.Summary(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("stats summary failed")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
