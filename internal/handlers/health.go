package handlers

import "github.com/gofiber/fiber/v2"

// HandleHealth reports service liveness for the load balancer.
func HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"version": "1.0.0",
	})
}
