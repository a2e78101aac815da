package handlers

import (
	"github.com/anjiri1684/skill_swap/middleware"
	"github.com/anjiri1684/skill_swap/services"
	"github.com/anjiri1684/skill_swap/websocket"
	websocketcontrib "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

const addressLocal = "ws_address"

func (h *Handler) ListNotifications(c *fiber.Ctx) error {
	sess := middleware.CurrentSession(c)
	return c.JSON(fiber.Map{"notifications": h.Notifier.Inbox(sess.Address)})
}

func (h *Handler) MarkNotificationRead(c *fiber.Ctx) error {
	id, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	if !h.Notifier.MarkRead(middleware.CurrentSession(c).Address, id) {
		return services.ErrNotFound
	}
	return c.JSON(fiber.Map{"read": true})
}

// NotificationUpgrade authenticates a websocket upgrade from the token query
// parameter, since browsers cannot set headers on the handshake.
func (h *Handler) NotificationUpgrade(c *fiber.Ctx) error {
	if !websocketcontrib.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	id, err := middleware.ParseToken(h.Settings.JWTSecret, c.Query("token"))
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired JWT")
	}
	sess, ok := h.Sessions.Get(id)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired JWT")
	}
	c.Locals(addressLocal, sess.Address)
	return c.Next()
}

// ServeNotifications streams notifications to one connection until the
// client goes away. Incoming frames are ignored.
func (h *Handler) ServeNotifications(c *websocketcontrib.Conn) {
	address, _ := c.Locals(addressLocal).(string)
	client := &websocket.Client{Address: address, Conn: c}
	h.Hub.Register(client)
	defer func() {
		h.Hub.Unregister(client)
		_ = c.Close()
	}()

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			if websocketcontrib.IsUnexpectedCloseError(err, websocketcontrib.CloseGoingAway, websocketcontrib.CloseNormalClosure) {
				log.Debug().Err(err).Str("address", address).Msg("websocket closed")
			}
			return
		}
	}
}
