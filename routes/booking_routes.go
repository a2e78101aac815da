package routes

import (
	"github.com/anjiri1684/skill_swap/handlers"
	"github.com/gofiber/fiber/v2"
)

func BookingRoutes(api fiber.Router, h *handlers.Handler, auth []fiber.Handler, payLimit fiber.Handler) {
	booking := api.Group("/bookings", auth...)
	booking.Get("/me", h.MyBookings)
	booking.Post("/complete", payLimit, h.CompleteBooking)
	booking.Post("", h.StartBooking)
	booking.Get("/:flowId", h.GetBookingFlow)
	booking.Patch("/:flowId/receiver", h.UpdateReceiver)
	booking.Post("/:flowId/confirm", payLimit, h.ConfirmBooking)
	booking.Delete("/:flowId", h.CloseBookingFlow)

	api.Get("/payments/me", with(auth, h.PaymentHistory)...)
	api.Get("/payments/:paymentId", with(auth, h.GetPayment)...)
}
