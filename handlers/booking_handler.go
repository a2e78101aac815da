package handlers

import (
	"errors"

	"github.com/anjiri1684/skill_swap/chain"
	"github.com/anjiri1684/skill_swap/middleware"
	"github.com/anjiri1684/skill_swap/services"
	"github.com/gofiber/fiber/v2"
)

type StartBookingRequest struct {
	SkillID int64  `json:"skill_id" validate:"required,gt=0"`
	Slot    string `json:"slot" validate:"required"`
}

type ReceiverRequest struct {
	Receiver string `json:"receiver"`
}

type CompleteBookingRequest struct {
	SkillID int64  `json:"skill_id" validate:"required,gt=0"`
	Slot    string `json:"slot" validate:"required"`
}

func (h *Handler) StartBooking(c *fiber.Ctx) error {
	var req StartBookingRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	flow, err := h.Bookings.Start(middleware.CurrentSession(c), req.SkillID, req.Slot)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(flow)
}

func (h *Handler) GetBookingFlow(c *fiber.Ctx) error {
	id, err := paramUUID(c, "flowId")
	if err != nil {
		return err
	}
	flow, err := h.Bookings.Get(middleware.CurrentSession(c), id)
	if err != nil {
		return err
	}
	return c.JSON(flow)
}

func (h *Handler) UpdateReceiver(c *fiber.Ctx) error {
	id, err := paramUUID(c, "flowId")
	if err != nil {
		return err
	}
	var req ReceiverRequest
	if err := c.BodyParser(&req); err != nil {
		return &services.InputError{Message: "Cannot parse JSON"}
	}
	flow, err := h.Bookings.SetReceiver(middleware.CurrentSession(c), id, req.Receiver)
	if err != nil {
		return respondError(c, err, fiber.Map{"flow": flow})
	}
	return c.JSON(flow)
}

// ConfirmBooking pays for the selected slot. The flow is returned with
// every outcome so the client can render its state and message.
func (h *Handler) ConfirmBooking(c *fiber.Ctx) error {
	id, err := paramUUID(c, "flowId")
	if err != nil {
		return err
	}
	flow, err := h.Bookings.Confirm(c.UserContext(), middleware.CurrentSession(c), id)
	if err != nil {
		if errors.Is(err, chain.ErrPaymentUnconfirmed) {
			return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"flow": flow, "error": flow.Error, "code": "PAYMENT_UNCONFIRMED"})
		}
		if flow.ID == id {
			return respondError(c, err, fiber.Map{"flow": flow})
		}
		return err
	}
	return c.JSON(flow)
}

func (h *Handler) CloseBookingFlow(c *fiber.Ctx) error {
	id, err := paramUUID(c, "flowId")
	if err != nil {
		return err
	}
	if err := h.Bookings.Close(middleware.CurrentSession(c), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) MyBookings(c *fiber.Ctx) error {
	sess := middleware.CurrentSession(c)
	return c.JSON(fiber.Map{"bookings": h.Catalog.Bookings(sess.Address)})
}

// CompleteBooking is called by the learner after attending the session.
func (h *Handler) CompleteBooking(c *fiber.Ctx) error {
	var req CompleteBookingRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	res, err := h.Completions.Complete(c.UserContext(), middleware.CurrentSession(c), req.SkillID, req.Slot)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

func (h *Handler) PaymentHistory(c *fiber.Ctx) error {
	sess := middleware.CurrentSession(c)
	payments, err := h.Payments.History(c.UserContext(), sess.Address)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"payments": payments})
}

func (h *Handler) GetPayment(c *fiber.Ctx) error {
	id, err := paramUUID(c, "paymentId")
	if err != nil {
		return err
	}
	rec, err := h.Payments.Payment(c.UserContext(), middleware.CurrentSession(c).Address, id)
	if err != nil {
		return err
	}
	return c.JSON(rec)
}
