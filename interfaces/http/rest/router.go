package rest

import (
	"net/http"

	"healthchat-backend/infrastructure/config"
	"healthchat-backend/interfaces/http/rest/handlers"
	"healthchat-backend/interfaces/http/rest/middleware"
	"healthchat-backend/pkg/auth"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Router creates and configures the HTTP router
type Router struct {
	cfg         *config.Config
	authHandler *handlers.AuthHandler
	chatHandler *handlers.ChatHandler
	validator   *auth.JWTValidator
	logger      *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	chatHandler *handlers.ChatHandler,
	validator *auth.JWTValidator,
	logger *zap.Logger,
) *Router {
	return &Router{
		cfg:         cfg,
		authHandler: authHandler,
		chatHandler: chatHandler,
		validator:   validator,
		logger:      logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	// CORS configuration. Credentials must be allowed because the browser
	// carries the auth cookie on every API call.
	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{rt.cfg.AllowedOrigin},
			AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	// Public auth endpoints
	router.Route("/api/auth", func(r chi.Router) {
		r.Post("/signup", rt.authHandler.Signup)
		r.Post("/login", rt.authHandler.Login)
		r.Post("/logout", rt.authHandler.Logout)
	})

	// Chat endpoints require a valid credential
	router.Route("/api/chat", func(r chi.Router) {
		r.Use(middleware.Authenticate(rt.validator, rt.cfg.CookieName, rt.logger))

		r.Post("/exchange", rt.chatHandler.Exchange)
		r.Post("/exchange/stream", rt.chatHandler.StreamExchange)
		r.Get("/history", rt.chatHandler.History)
		r.Delete("/history/{turnID}", rt.chatHandler.DeleteTurn)
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
