package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"veritas-lab/internal/api/handlers"
	apimiddleware "veritas-lab/internal/api/middleware"
	"veritas-lab/internal/config"
	"veritas-lab/pkg/logger"
)

// Router holds dependencies for the API router
type Router struct {
	config    config.Config
	handlers  *handlers.Handlers
	rateStore apimiddleware.RateLimitStore
	logger    *logger.Logger
}

// NewRouter creates a new Router instance. rateStore may be nil, which
// disables rate limiting.
func NewRouter(cfg config.Config, h *handlers.Handlers, rateStore apimiddleware.RateLimitStore, log *logger.Logger) *Router {
	return &Router{
		config:    cfg,
		handlers:  h,
		rateStore: rateStore,
		logger:    log.WithComponent("router"),
	}
}

// Setup sets up the Chi router with all routes and middleware
func (r *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Core middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(apimiddleware.Logger(r.logger))
	router.Use(middleware.Recoverer)
	// Upstream retries can take a while; the server write timeout is the outer bound
	if r.config.Server.WriteTimeout > 0 {
		router.Use(middleware.Timeout(r.config.Server.WriteTimeout))
	}

	// CORS
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   r.config.CORS.AllowedOrigins,
		AllowedMethods:   r.config.CORS.AllowedMethods,
		AllowedHeaders:   r.config.CORS.AllowedHeaders,
		AllowCredentials: r.config.CORS.AllowCredentials,
		MaxAge:           r.config.CORS.MaxAge,
	}))

	// Public routes
	router.Group(func(pub chi.Router) {
		pub.Get("/health", r.handlers.Health.Check)
		pub.Get("/ready", r.handlers.Health.Ready)
		pub.Method(http.MethodGet, "/metrics", promhttp.Handler())
	})

	router.Route("/api/v1", func(api chi.Router) {
		api.Use(apimiddleware.OptionalAuth(r.config.JWT))

		// Rate limiting keys on the user when authenticated, so it runs after auth
		if r.config.RateLimit.Enabled && r.rateStore != nil {
			api.Use(apimiddleware.RateLimiter(r.rateStore, r.config.RateLimit, r.logger))
		}

		api.Route("/image", func(image chi.Router) {
			image.Post("/analyze", r.handlers.Image.Analyze)
			image.Get("/analyses", r.handlers.Image.Recent)
			image.Post("/classify", r.handlers.Image.Classify)
		})
		api.Post("/display-risk", r.handlers.Image.DisplayRisk)

		api.Route("/chat", func(chat chi.Router) {
			chat.Post("/scan", r.handlers.Chat.Scan)
			chat.Get("/patterns", r.handlers.Chat.Patterns)
		})

		api.Post("/profile/scan", r.handlers.Profile.Scan)

		api.Route("/reports", func(reports chi.Router) {
			reports.Post("/", r.handlers.Reports.Submit)
			reports.Get("/{caseID}", r.handlers.Reports.Get)
		})

		api.Route("/helplines", func(helplines chi.Router) {
			helplines.Get("/", r.handlers.Helplines.List)
			helplines.Get("/{region}", r.handlers.Helplines.Get)
		})

		// Chatbot requires a signed-in user
		api.Route("/chatbot", func(chatbot chi.Router) {
			chatbot.Use(apimiddleware.RequireAuth)
			chatbot.Post("/messages", r.handlers.Chatbot.Send)
			chatbot.Get("/conversations/{id}/messages", r.handlers.Chatbot.Messages)
		})
	})

	return router
}
