package handlers

import (
	"context"
	"strconv"

	"github.com/anjiri1684/skill_swap/chain"
	config "github.com/anjiri1684/skill_swap/configs"
	"github.com/anjiri1684/skill_swap/models"
	"github.com/anjiri1684/skill_swap/notifications"
	"github.com/anjiri1684/skill_swap/services"
	"github.com/anjiri1684/skill_swap/websocket"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var validate = validator.New()

// ledger is the part of the chain client the HTTP layer reads from directly.
type ledger interface {
	RegisterUser(address, role string) (string, error)
	GetBalance(ctx context.Context, address string) chain.Result[float64]
	GetReputation(ctx context.Context, address string) chain.Result[int]
	ListOwnedCollectibles(ctx context.Context, address string) chain.Result[[]uint64]
	CollectibleMetadata(ctx context.Context, assetID uint64) chain.Result[*models.Collectible]
	ClaimCollectible(ctx context.Context, address string, assetID uint64) chain.Result[bool]
	TransferCollectible(ctx context.Context, assetID uint64, from, to string, signer chain.Signer) (string, error)
}

type uploadSigner interface {
	AvatarUploadSignature() (services.UploadSignature, error)
}

// Handler serves the HTTP API. Storage is nil when Cloudinary is not
// configured.
type Handler struct {
	Settings    *config.Settings
	Ledger      ledger
	Sessions    *services.SessionRegistry
	Catalog     *services.Catalog
	Bookings    *services.BookingService
	Reviews     *services.ReviewService
	Payments    *services.PaymentService
	Completions *services.CompletionService
	Dashboard   *services.DashboardService
	Mentors     *services.MentorDirectory
	Notifier    *notifications.Notifier
	Hub         *websocket.Hub
	Storage     uploadSigner
}

func Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *Handler) GetConfig(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"categories":       config.SkillCategories,
		"levels":           config.SkillLevels,
		"min_rate":         config.MinSkillRate,
		"max_rate":         config.MaxSkillRate,
		"default_slots":    config.DefaultTimeSlots,
		"default_receiver": h.Settings.PaymentReceiver,
		"listing_fee":      h.Settings.ListingFeeAlgo,
	})
}

func paramInt64(c *fiber.Ctx, name string) (int64, error) {
	v, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil {
		return 0, &services.InputError{Field: name, Message: "Invalid " + name + "."}
	}
	return v, nil
}

func paramUint64(c *fiber.Ctx, name string) (uint64, error) {
	v, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil {
		return 0, &services.InputError{Field: name, Message: "Invalid " + name + "."}
	}
	return v, nil
}

func paramUUID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	v, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, &services.InputError{Field: name, Message: "Invalid " + name + "."}
	}
	return v, nil
}

// parseBody decodes and validates a JSON request body.
func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return &services.InputError{Message: "Cannot parse JSON"}
	}
	if err := validate.Struct(out); err != nil {
		return &services.InputError{Message: err.Error()}
	}
	return nil
}
