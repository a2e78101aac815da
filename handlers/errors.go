package handlers

import (
	"errors"

	"github.com/anjiri1684/skill_swap/chain"
	"github.com/anjiri1684/skill_swap/services"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// statusFor maps an error to its HTTP status and machine readable kind.
func statusFor(err error) (int, string) {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code, "HTTP_ERROR"
	case errors.Is(err, services.ErrInvalidInput), errors.Is(err, chain.ErrInvalidAddress):
		return fiber.StatusBadRequest, "INVALID_INPUT"
	case errors.Is(err, chain.ErrWalletNotConnected):
		return fiber.StatusUnauthorized, "WALLET_NOT_CONNECTED"
	case errors.Is(err, services.ErrForbidden):
		return fiber.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, services.ErrSubmissionInProgress):
		return fiber.StatusConflict, "SUBMISSION_IN_PROGRESS"
	case errors.Is(err, services.ErrInvalidTransition), errors.Is(err, services.ErrSlotAlreadyBooked):
		return fiber.StatusConflict, "INVALID_TRANSITION"
	case errors.Is(err, chain.ErrPaymentRejected):
		return fiber.StatusPaymentRequired, "PAYMENT_REJECTED"
	case errors.Is(err, chain.ErrPaymentUnconfirmed):
		return fiber.StatusAccepted, "PAYMENT_UNCONFIRMED"
	case errors.Is(err, chain.ErrQueryFailed):
		return fiber.StatusBadGateway, "QUERY_FAILED"
	default:
		return fiber.StatusInternalServerError, "INTERNAL"
	}
}

// ErrorHandler renders every error returned by a handler as
// {"error": message, "code": kind}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return respondError(c, err, nil)
}

// respondError writes err, merging extra fields such as the flow view into
// the body.
func respondError(c *fiber.Ctx, err error, extra fiber.Map) error {
	status, code := statusFor(err)
	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Str("method", c.Method()).Msg("request failed")
	}

	message := services.UserMessage(err)
	if code == "INTERNAL" {
		message = "Internal server error"
	}
	body := fiber.Map{"error": message, "code": code}
	for k, v := range extra {
		body[k] = v
	}
	return c.Status(status).JSON(body)
}
