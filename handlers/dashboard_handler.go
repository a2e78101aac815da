package handlers

import (
	"github.com/anjiri1684/skill_swap/middleware"
	"github.com/gofiber/fiber/v2"
)

func (h *Handler) GetDashboard(c *fiber.Ctx) error {
	sess := middleware.CurrentSession(c)
	return c.JSON(fiber.Map{
		"stats":           h.Dashboard.Stats(sess.Address),
		"recent_activity": h.Dashboard.RecentActivity(sess.Address),
	})
}
