package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "app-secret"

func newSignedApp(secret string) *fiber.App {
	app := fiber.New()
	app.Post("/webhook", ValidateWebhookSignature(secret), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func sign(secret, body string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(body))
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func TestValidSignaturePasses(t *testing.T) {
	app := newSignedApp(testSecret)
	body := `{"object":"whatsapp_business_account"}`

	req := httptest.NewRequest("POST", "/webhook", strings.NewReader(body))
	req.Header.Set("X-Hub-Signature-256", sign(testSecret, body))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestMissingSignatureIsRejected(t *testing.T) {
	app := newSignedApp(testSecret)

	req := httptest.NewRequest("POST", "/webhook", strings.NewReader("{}"))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestWrongSecretIsRejected(t *testing.T) {
	app := newSignedApp(testSecret)
	body := "{}"

	req := httptest.NewRequest("POST", "/webhook", strings.NewReader(body))
	req.Header.Set("X-Hub-Signature-256", sign("different-secret", body))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestTamperedBodyIsRejected(t *testing.T) {
	app := newSignedApp(testSecret)

	req := httptest.NewRequest("POST", "/webhook", strings.NewReader(`{"tampered":true}`))
	req.Header.Set("X-Hub-Signature-256", sign(testSecret, "{}"))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestMalformedSignatureHeaderIsRejected(t *testing.T) {
	app := newSignedApp(testSecret)

	for _, header := range []string{"sha256=not-hex", "md5=abcdef", "abcdef"} {
		req := httptest.NewRequest("POST", "/webhook", strings.NewReader("{}"))
		req.Header.Set("X-Hub-Signature-256", header)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode, "header %q", header)
	}
}

func TestMissingSecretIsServerError(t *testing.T) {
	app := newSignedApp("")

	req := httptest.NewRequest("POST", "/webhook", strings.NewReader("{}"))
	req.Header.Set("X-Hub-Signature-256", sign(testSecret, "{}"))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}
