package handlers

import (
	"github.com/anjiri1684/skill_swap/middleware"
	"github.com/anjiri1684/skill_swap/models"
	"github.com/anjiri1684/skill_swap/services"
	"github.com/gofiber/fiber/v2"
)

type ConnectRequest struct {
	Provider string      `json:"provider" validate:"required,oneof=mnemonic watch"`
	Mnemonic string      `json:"mnemonic"`
	Address  string      `json:"address"`
	Role     models.Role `json:"role" validate:"omitempty,oneof=teacher learner"`
}

type RegisterRoleRequest struct {
	Role models.Role `json:"role" validate:"required,oneof=teacher learner"`
}

type TransferRequest struct {
	To string `json:"to" validate:"required"`
}

type sessionResponse struct {
	SessionID string      `json:"session_id"`
	Address   string      `json:"address"`
	Role      models.Role `json:"role,omitempty"`
	Provider  string      `json:"provider"`
	CanSign   bool        `json:"can_sign"`
	TokenID   uint64      `json:"token_id"`
}

func toSessionResponse(s *services.Session) sessionResponse {
	return sessionResponse{
		SessionID: s.ID.String(),
		Address:   s.Address,
		Role:      s.Role,
		Provider:  s.Provider,
		CanSign:   s.CanSign(),
		TokenID:   s.TokenID,
	}
}

func (h *Handler) ListProviders(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"providers": services.Providers})
}

func (h *Handler) ConnectWallet(c *fiber.Ctx) error {
	var req ConnectRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	sess, err := h.Sessions.Connect(req.Provider, services.Credentials{Mnemonic: req.Mnemonic, Address: req.Address}, req.Role)
	if err != nil {
		return err
	}
	token, err := middleware.IssueToken(h.Settings.JWTSecret, sess)
	if err != nil {
		h.Sessions.Disconnect(sess.ID)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create token")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"token": token, "session": toSessionResponse(sess)})
}

func (h *Handler) DisconnectWallet(c *fiber.Ctx) error {
	sess := middleware.CurrentSession(c)
	h.Sessions.Disconnect(sess.ID)
	return c.JSON(fiber.Map{"message": "Wallet disconnected"})
}

// RegisterRole records the role of the connected wallet and returns its
// skill token label.
func (h *Handler) RegisterRole(c *fiber.Ctx) error {
	var req RegisterRoleRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	sess := middleware.CurrentSession(c)

	label, err := h.Ledger.RegisterUser(sess.Address, string(req.Role))
	if err != nil {
		return &services.InputError{Field: "address", Message: "Invalid wallet address."}
	}
	updated, err := h.Sessions.SetRole(sess.ID, req.Role)
	if err != nil {
		return err
	}
	token, err := middleware.IssueToken(h.Settings.JWTSecret, updated)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create token")
	}
	return c.JSON(fiber.Map{"message": label, "token": token, "session": toSessionResponse(updated)})
}

func (h *Handler) Me(c *fiber.Ctx) error {
	return c.JSON(toSessionResponse(middleware.CurrentSession(c)))
}

func (h *Handler) GetBalance(c *fiber.Ctx) error {
	address := c.Params("address")
	res := h.Ledger.GetBalance(c.UserContext(), address)
	return c.JSON(fiber.Map{"address": address, "balance": res.Value, "failed": res.Failed})
}

func (h *Handler) GetReputation(c *fiber.Ctx) error {
	address := c.Params("address")
	res := h.Ledger.GetReputation(c.UserContext(), address)
	return c.JSON(fiber.Map{"address": address, "reputation": res.Value, "failed": res.Failed})
}

func (h *Handler) ListCollectibles(c *fiber.Ctx) error {
	address := c.Params("address")
	res := h.Ledger.ListOwnedCollectibles(c.UserContext(), address)
	ids := res.Value
	if ids == nil {
		ids = []uint64{}
	}
	return c.JSON(fiber.Map{"address": address, "collectibles": ids, "failed": res.Failed})
}

func (h *Handler) GetCollectible(c *fiber.Ctx) error {
	assetID, err := paramUint64(c, "assetId")
	if err != nil {
		return err
	}
	res := h.Ledger.CollectibleMetadata(c.UserContext(), assetID)
	if res.Failed {
		return res.Err
	}
	return c.JSON(res.Value)
}

func (h *Handler) TransferCollectible(c *fiber.Ctx) error {
	assetID, err := paramUint64(c, "assetId")
	if err != nil {
		return err
	}
	var req TransferRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	sess := middleware.CurrentSession(c)

	txID, err := h.Ledger.TransferCollectible(c.UserContext(), assetID, sess.Address, req.To, sess.Signer())
	if err != nil {
		return err
	}
	h.Notifier.Notify(sess.Address, models.NotifySuccess, "Collectible transferred", "NFT transferred successfully!")
	return c.JSON(fiber.Map{"success": true, "tx_id": txID})
}

func (h *Handler) ClaimCollectible(c *fiber.Ctx) error {
	assetID, err := paramUint64(c, "assetId")
	if err != nil {
		return err
	}
	sess := middleware.CurrentSession(c)
	res := h.Ledger.ClaimCollectible(c.UserContext(), sess.Address, assetID)
	return c.JSON(fiber.Map{"claimed": res.Value, "failed": res.Failed})
}
