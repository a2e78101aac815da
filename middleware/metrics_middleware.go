package middleware

import (
	"time"

	"github.com/anjiri1684/skill_swap/metrics"
	"github.com/gofiber/fiber/v2"
)

// Metrics records request counts and latency by route pattern. Errors are
// rendered here so the recorded status is the one the client sees.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		if err := c.Next(); err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		metrics.RecordHTTPRequest(c.Method(), c.Route().Path, c.Response().StatusCode(), time.Since(start))
		return nil
	}
}
