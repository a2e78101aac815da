package routes

import (
	"github.com/anjiri1684/skill_swap/handlers"
	"github.com/anjiri1684/skill_swap/metrics"
	"github.com/anjiri1684/skill_swap/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Setup mounts every route of the API on app.
func Setup(app *fiber.App, h *handlers.Handler, limiter *middleware.RateLimiter) {
	app.Get("/health", handlers.Health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	api := app.Group("/api/v1")
	api.Get("/config", h.GetConfig)

	auth := authChain(h)
	payLimit := limiter.Handler()

	WalletRoutes(api, h, auth, payLimit)
	SkillRoutes(api, h, auth, payLimit)
	BookingRoutes(api, h, auth, payLimit)
	MentorRoutes(api, h)
	NotificationRoutes(api, h, auth)

	api.Get("/dashboard", with(auth, h.GetDashboard)...)
}

func authChain(h *handlers.Handler) []fiber.Handler {
	return []fiber.Handler{
		middleware.Protected(h.Settings.JWTSecret),
		middleware.SessionRequired(h.Sessions),
	}
}

// with appends hs to a copy of chain.
func with(chain []fiber.Handler, hs ...fiber.Handler) []fiber.Handler {
	out := make([]fiber.Handler, 0, len(chain)+len(hs))
	out = append(out, chain...)
	return append(out, hs...)
}
