package handlers

import (
	"github.com/anjiri1684/skill_swap/middleware"
	"github.com/anjiri1684/skill_swap/models"
	"github.com/anjiri1684/skill_swap/services"
	"github.com/anjiri1684/skill_swap/utils"
	"github.com/gofiber/fiber/v2"
)

type ReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func viewer(c *fiber.Ctx) string {
	if sess := middleware.CurrentSession(c); sess != nil {
		return sess.Address
	}
	return ""
}

// ListSkills answers GET /skills?q=&category=&level=&min_rate=&max_rate=&highlight=.
func (h *Handler) ListSkills(c *fiber.Ctx) error {
	var filters models.SkillFilters
	if err := c.QueryParser(&filters); err != nil {
		return &services.InputError{Field: "filters", Message: "Invalid filters."}
	}
	query := c.Query("q")
	if query != "" && !utils.ValidateSearchQuery(query) {
		return &services.InputError{Field: "q", Message: "Search query must be 1 to 100 characters."}
	}

	skills := h.Catalog.Browse(query, &filters, viewer(c))
	if c.QueryBool("highlight") && query != "" {
		services.HighlightViews(skills, query)
	}
	return c.JSON(fiber.Map{"skills": skills, "count": len(skills)})
}

func (h *Handler) GetSkill(c *fiber.Ctx) error {
	id, err := paramInt64(c, "skillId")
	if err != nil {
		return err
	}
	view, err := h.Catalog.View(id, viewer(c))
	if err != nil {
		return err
	}
	return c.JSON(view)
}

func (h *Handler) CreateSkill(c *fiber.Ctx) error {
	var in services.SkillInput
	if err := c.BodyParser(&in); err != nil {
		return &services.InputError{Message: "Cannot parse JSON"}
	}
	sess := middleware.CurrentSession(c)

	skill, err := h.Catalog.RegisterSkill(c.UserContext(), sess, in)
	if err != nil {
		return err
	}
	h.Notifier.Notify(sess.Address, models.NotifySuccess, "Skill registered",
		"Skill registered successfully! Your skill is now available for booking.")
	return c.Status(fiber.StatusCreated).JSON(skill)
}

// GetReviews returns the review summary of a skill. ?mode=submit|view
// switches the caller's review mode first.
func (h *Handler) GetReviews(c *fiber.Ctx) error {
	id, err := paramInt64(c, "skillId")
	if err != nil {
		return err
	}
	reviewer := viewer(c)
	if raw := c.Query("mode"); raw != "" && reviewer != "" {
		mode, ok := services.ParseReviewMode(raw)
		if !ok {
			return &services.InputError{Field: "mode", Message: "Mode must be submit or view."}
		}
		h.Reviews.SetMode(id, reviewer, mode)
	}

	summary, err := h.Reviews.Summary(id, reviewer)
	if err != nil {
		return err
	}
	return c.JSON(summary)
}

func (h *Handler) CreateReview(c *fiber.Ctx) error {
	id, err := paramInt64(c, "skillId")
	if err != nil {
		return err
	}
	var req ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return &services.InputError{Message: "Cannot parse JSON"}
	}

	summary, err := h.Reviews.Submit(id, viewer(c), req.Rating, req.Comment)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(summary)
}
