package middleware

import (
	"strings"
	"time"

	config "github.com/anjiri1684/skill_swap/configs"
	"github.com/anjiri1684/skill_swap/services"
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const (
	tokenLocal   = "user"
	sessionLocal = "session"
	tokenTTL     = 72 * time.Hour
)

type sessionLookup interface {
	Get(id uuid.UUID) (*services.Session, bool)
}

func Protected(secret string) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   []byte(secret),
		ContextKey:   tokenLocal,
		ErrorHandler: jwtError,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	if strings.EqualFold(err.Error(), "Missing or malformed JWT") {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": "Missing or malformed JWT", "code": "INVALID_INPUT"})
	}
	return c.Status(fiber.StatusUnauthorized).
		JSON(fiber.Map{"error": "Invalid or expired JWT", "code": "WALLET_NOT_CONNECTED"})
}

// SessionRequired resolves the live wallet session named by the token's
// session_id claim. A token that outlived its session is rejected.
func SessionRequired(sessions sessionLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := c.Locals(tokenLocal).(*jwt.Token)
		if !ok {
			return notConnected(c)
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return notConnected(c)
		}
		raw, _ := claims["session_id"].(string)
		id, err := uuid.Parse(raw)
		if err != nil {
			return notConnected(c)
		}
		sess, ok := sessions.Get(id)
		if !ok {
			return notConnected(c)
		}
		c.Locals(sessionLocal, sess)
		return c.Next()
	}
}

func notConnected(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).
		JSON(fiber.Map{"error": config.MsgWalletNotConnected, "code": "WALLET_NOT_CONNECTED"})
}

// CurrentSession returns the session stored by SessionRequired, or nil.
func CurrentSession(c *fiber.Ctx) *services.Session {
	sess, _ := c.Locals(sessionLocal).(*services.Session)
	return sess
}

// IssueToken signs an HS256 token for sess.
func IssueToken(secret string, sess *services.Session) (string, error) {
	claims := jwt.MapClaims{
		"session_id": sess.ID.String(),
		"address":    sess.Address,
		"role":       string(sess.Role),
		"exp":        time.Now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates a raw token string outside of the Authorization
// header, as used by the websocket upgrade.
func ParseToken(secret, raw string) (uuid.UUID, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return uuid.Nil, jwt.ErrTokenMalformed
	}
	raw, _ = claims["session_id"].(string)
	return uuid.Parse(raw)
}

// OptionalSession attaches the caller's session when a valid bearer token is
// present and lets anonymous requests through otherwise.
func OptionalSession(secret string, sessions sessionLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		auth := c.Get(fiber.HeaderAuthorization)
		if raw, ok := strings.CutPrefix(auth, "Bearer "); ok {
			if id, err := ParseToken(secret, raw); err == nil {
				if sess, ok := sessions.Get(id); ok {
					c.Locals(sessionLocal, sess)
				}
			}
		}
		return c.Next()
	}
}
