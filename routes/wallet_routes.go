package routes

import (
	"github.com/anjiri1684/skill_swap/handlers"
	"github.com/anjiri1684/skill_swap/middleware"
	"github.com/gofiber/fiber/v2"
)

func WalletRoutes(api fiber.Router, h *handlers.Handler, auth []fiber.Handler, payLimit fiber.Handler) {
	wallet := api.Group("/wallet")
	wallet.Get("/providers", h.ListProviders)
	wallet.Post("/connect", h.ConnectWallet)
	wallet.Post("/disconnect", with(auth, h.DisconnectWallet)...)
	wallet.Post("/register", with(auth, h.RegisterRole)...)
	wallet.Get("/me", with(auth, h.Me)...)
	wallet.Get("/:address/balance", h.GetBalance)
	wallet.Get("/:address/reputation", h.GetReputation)
	wallet.Get("/:address/collectibles", h.ListCollectibles)

	collectibles := api.Group("/collectibles")
	collectibles.Get("/:assetId", h.GetCollectible)
	collectibles.Post("/:assetId/transfer", with(auth, payLimit, h.TransferCollectible)...)
	collectibles.Post("/:assetId/claim", with(auth, h.ClaimCollectible)...)
}

func SkillRoutes(api fiber.Router, h *handlers.Handler, auth []fiber.Handler, payLimit fiber.Handler) {
	optional := middleware.OptionalSession(h.Settings.JWTSecret, h.Sessions)

	skills := api.Group("/skills")
	skills.Get("", optional, h.ListSkills)
	skills.Get("/:skillId", optional, h.GetSkill)
	skills.Post("", with(auth, payLimit, h.CreateSkill)...)
	skills.Get("/:skillId/reviews", optional, h.GetReviews)
	skills.Post("/:skillId/reviews", with(auth, h.CreateReview)...)
}
