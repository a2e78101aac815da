package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/algorand/go-algorand-sdk/v2/crypto"
	"github.com/anjiri1684/skill_swap/models"
	"github.com/anjiri1684/skill_swap/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func protectedApp(reg *services.SessionRegistry) *fiber.App {
	app := fiber.New()
	app.Get("/me", Protected(testSecret), SessionRequired(reg), func(c *fiber.Ctx) error {
		return c.SendString(CurrentSession(c).Address)
	})
	return app
}

func TestSessionRequired(t *testing.T) {
	reg := services.NewSessionRegistry()
	sess, err := reg.Connect(services.ProviderWatch, services.Credentials{Address: crypto.GenerateAccount().Address.String()}, models.RoleLearner)
	require.NoError(t, err)
	token, err := IssueToken(testSecret, sess)
	require.NoError(t, err)

	app := protectedApp(reg)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/me", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	require.True(t, reg.Disconnect(sess.ID))
	req = httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestParseToken(t *testing.T) {
	reg := services.NewSessionRegistry()
	sess, err := reg.Connect(services.ProviderWatch, services.Credentials{Address: crypto.GenerateAccount().Address.String()}, "")
	require.NoError(t, err)
	token, err := IssueToken(testSecret, sess)
	require.NoError(t, err)

	id, err := ParseToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, id)

	id, err = ParseToken("other-secret", token)
	assert.Error(t, err)
	assert.Equal(t, uuid.Nil, id)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(0.001, 2)
	app := fiber.New()
	app.Post("/pay", rl.Handler(), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest("POST", "/pay", nil))
		require.NoError(t, err)
		codes = append(codes, resp.StatusCode)
	}
	assert.Equal(t, []int{fiber.StatusNoContent, fiber.StatusNoContent, fiber.StatusTooManyRequests}, codes)

	assert.Equal(t, 0, rl.Cleanup(time.Hour))
	assert.Equal(t, 1, rl.Cleanup(-time.Second))
}

func TestMetricsRendersHandlerErrors(t *testing.T) {
	app := fiber.New()
	app.Use(Metrics())
	app.Get("/missing", func(c *fiber.Ctx) error { return fiber.ErrNotFound })

	resp, err := app.Test(httptest.NewRequest("GET", "/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
