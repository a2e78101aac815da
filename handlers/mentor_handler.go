package handlers

import (
	"github.com/anjiri1684/skill_swap/models"
	"github.com/anjiri1684/skill_swap/services"
	"github.com/anjiri1684/skill_swap/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

func (h *Handler) ListMentors(c *fiber.Ctx) error {
	query := c.Query("q")
	if query != "" && !utils.ValidateSearchQuery(query) {
		return &services.InputError{Field: "q", Message: "Search query must be 1 to 100 characters."}
	}
	mentors := h.Mentors.Search(query)
	return c.JSON(fiber.Map{"mentors": mentors, "count": len(mentors)})
}

func (h *Handler) CreateMentor(c *fiber.Ctx) error {
	var m models.Mentor
	if err := c.BodyParser(&m); err != nil {
		return &services.InputError{Message: "Cannot parse JSON"}
	}
	mentor, err := h.Mentors.Register(m)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(mentor)
}

// MentorUploadSignature signs a direct avatar upload to Cloudinary.
func (h *Handler) MentorUploadSignature(c *fiber.Ctx) error {
	if h.Storage == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "File uploads are not configured")
	}
	sig, err := h.Storage.AvatarUploadSignature()
	if err != nil {
		log.Error().Err(err).Msg("failed to sign upload")
		return fiber.NewError(fiber.StatusInternalServerError, "Could not sign upload")
	}
	return c.JSON(sig)
}
