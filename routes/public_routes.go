package routes

import (
	"github.com/anjiri1684/skill_swap/handlers"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

func MentorRoutes(api fiber.Router, h *handlers.Handler) {
	mentors := api.Group("/mentors")
	mentors.Get("", h.ListMentors)
	mentors.Post("", h.CreateMentor)
	mentors.Get("/upload-signature", h.MentorUploadSignature)
}

func NotificationRoutes(api fiber.Router, h *handlers.Handler, auth []fiber.Handler) {
	notes := api.Group("/notifications", auth...)
	notes.Get("", h.ListNotifications)
	notes.Post("/:id/read", h.MarkNotificationRead)

	api.Get("/ws/notifications", h.NotificationUpgrade, websocket.New(h.ServeNotifications))
}
