package router

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wolfman30/doctor-booking-agent/internal/conversation"
	httpmiddleware "github.com/wolfman30/doctor-booking-agent/internal/http/middleware"
	"github.com/wolfman30/doctor-booking-agent/internal/webchat"
	"github.com/wolfman30/doctor-booking-agent/pkg/logging"
)

const readinessTimeout = 2 * time.Second

// Config holds router configuration
type Config struct {
	Logger              *logging.Logger
	ConversationHandler *conversation.Handler
	WebChat             *webchat.Handler
	MetricsHandler      http.Handler
	CORSAllowedOrigins  []string
	RateLimitRPS        float64
	RateLimitBurst      int

	// StaffAuthSecret enables the /staff routes when set.
	StaffAuthSecret string

	// Ready reports whether backing services (Redis) are reachable.
	Ready func(ctx context.Context) error
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httpmiddleware.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}

	r.Get("/health", health)
	r.Get("/ready", readiness(cfg.Ready, logger))
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	if cfg.WebChat != nil {
		r.Route("/chat", func(chat chi.Router) {
			chat.Get("/ws", cfg.WebChat.HandleWebSocket)
			chat.Get("/history", cfg.WebChat.HandleHistory)
			chat.With(httpmiddleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst)).
				Post("/message", cfg.WebChat.HandleMessage)
		})
	}

	if cfg.ConversationHandler != nil {
		r.Group(func(api chi.Router) {
			api.Use(httpmiddleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
			cfg.ConversationHandler.Routes(api)
		})

		if cfg.StaffAuthSecret != "" {
			r.Route("/staff", func(staff chi.Router) {
				staff.Use(httpmiddleware.StaffJWT(cfg.StaffAuthSecret))
				staff.Use(auditStaff(logger))
				staff.Get("/conversations/{id}", cfg.ConversationHandler.Get)
				staff.Delete("/conversations/{id}", cfg.ConversationHandler.Reset)
			})
		}
	}

	return r
}

func health(w http.ResponseWriter, _ *http.Request) {
	writeStatus(w, http.StatusOK, "ok")
}

func readiness(ready func(ctx context.Context) error, logger *logging.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ready == nil {
			writeStatus(w, http.StatusOK, "ok")
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()
		if err := ready(ctx); err != nil {
			logger.Warn("readiness check failed", "error", err)
			writeStatus(w, http.StatusServiceUnavailable, "unavailable")
			return
		}
		writeStatus(w, http.StatusOK, "ok")
	}
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": status})
}
