package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ValidateWebhookSignature checks the X-Hub-Signature-256 header Meta
// attaches to every webhook POST: sha256= followed by the hex HMAC of
// the raw body keyed with the app secret. Rejected requests never reach
// payload parsing.
func ValidateWebhookSignature(appSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if appSecret == "" {
			log.Println("ERROR: WHATSAPP_APP_SECRET not set")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Server configuration error",
			})
		}

		header := c.Get("X-Hub-Signature-256")
		if !strings.HasPrefix(header, "sha256=") {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Missing or invalid signature",
			})
		}

		signature, err := hex.DecodeString(strings.TrimPrefix(header, "sha256="))
		if err != nil {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Missing or invalid signature",
			})
		}

		mac := hmac.New(sha256.New, []byte(appSecret))
		mac.Write(c.Body())
		if !hmac.Equal(signature, mac.Sum(nil)) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Signature mismatch",
			})
		}

		return c.Next()
	}
}
