package handlers

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/nairacharge/topup-backend/internal/flow"
	"github.com/nairacharge/topup-backend/internal/metrics"
	"github.com/nairacharge/topup-backend/internal/services"
	"github.com/nairacharge/topup-backend/internal/storage"
)

// msgUnsupportedType is sent when a user sends media or another message
// kind the bot cannot process. It never reaches the flow engine.
const msgUnsupportedType = "🙈 Sorry, I can only read text messages and menu selections. Please type your reply."

// WebhookHandler receives WhatsApp Cloud API callbacks: the one-time GET
// verification handshake and POSTed message/status events.
type WebhookHandler struct {
	engine      *flow.Engine
	sender      services.Sender
	dedup       storage.EventDedup
	verifyToken string
	metrics     *metrics.BotMetrics
}

// NewWebhookHandler creates the webhook handler.
func NewWebhookHandler(engine *flow.Engine, sender services.Sender, dedup storage.EventDedup, verifyToken string, m *metrics.BotMetrics) *WebhookHandler {
	return &WebhookHandler{
		engine:      engine,
		sender:      sender,
		dedup:       dedup,
		verifyToken: verifyToken,
		metrics:     m,
	}
}

// webhookEnvelope models the slice of the Cloud API event payload the
// bot reads. Everything else is ignored.
type webhookEnvelope struct {
	Object string `json:"object"`
	Entry  []struct {
		Changes []struct {
			Value changeValue `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

type changeValue struct {
	Contacts []struct {
		WaID    string `json:"wa_id"`
		Profile struct {
			Name string `json:"name"`
		} `json:"profile"`
	} `json:"contacts"`
	Messages []inboundMessage `json:"messages"`
	Statuses []struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	} `json:"statuses"`
}

type inboundMessage struct {
	ID   string `json:"id"`
	From string `json:"from"`
	Type string `json:"type"`
	Text struct {
		Body string `json:"body"`
	} `json:"text"`
	Interactive struct {
		Type      string `json:"type"`
		ListReply struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"list_reply"`
		ButtonReply struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"button_reply"`
	} `json:"interactive"`
}

// HandleVerification answers the Meta dashboard subscribe handshake by
// echoing hub.challenge when the verify token matches.
func (h *WebhookHandler) HandleVerification(c *fiber.Ctx) error {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "" || token == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status": "error", "message": "Missing parameters",
		})
	}

	if mode == "subscribe" && token == h.verifyToken {
		log.Println("✅ Webhook verified")
		return c.Status(fiber.StatusOK).SendString(challenge)
	}

	log.Println("⚠️  Webhook verification failed")
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
		"status": "error", "message": "Verification failed",
	})
}

// HandleWebhook processes one inbound event: validate the envelope,
// extract (user, input, kind), run the flow engine, send the reply.
// The response body reports the processing result; the HTTP status is
// 200 for everything the provider should not redeliver.
func (h *WebhookHandler) HandleWebhook(c *fiber.Ctx) error {
	var envelope webhookEnvelope
	if err := c.BodyParser(&envelope); err != nil {
		log.Printf("⚠️  Malformed webhook payload: %v", err)
		h.metrics.ObserveInbound("malformed")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status": "error", "message": "Invalid webhook payload",
		})
	}

	value, ok := extractValue(&envelope)
	if !ok {
		h.metrics.ObserveInbound("malformed")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status": "error", "message": "Not a WhatsApp API event",
		})
	}

	// Delivery receipts carry no user input. Ack and drop.
	if len(value.Messages) == 0 {
		if len(value.Statuses) > 0 {
			h.metrics.ObserveInbound("status_update")
			return c.JSON(fiber.Map{"status": "ok", "detail": "status update"})
		}
		h.metrics.ObserveInbound("malformed")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status": "error", "message": "No messages in payload",
		})
	}

	msg := value.Messages[0]
	userID, userName := contactIdentity(value, msg)
	if userID == "" || msg.ID == "" {
		h.metrics.ObserveInbound("malformed")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status": "error", "message": "Missing sender identity",
		})
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), services.SendTimeout)
	defer cancel()

	// At-least-once delivery: drop replays before they touch the engine.
	seen, err := h.dedup.Seen(ctx, msg.ID)
	if err != nil {
		log.Printf("⚠️  Dedup check failed for %s: %v", msg.ID, err)
	} else if seen {
		log.Printf("🔁 Duplicate delivery of %s dropped", msg.ID)
		h.metrics.ObserveInbound("duplicate")
		return c.JSON(fiber.Map{"status": "ok", "detail": "duplicate"})
	}

	input, kind, supported := extractInput(msg)
	if !supported {
		log.Printf("🙈 Unsupported message type %q from %s", msg.Type, userID)
		h.metrics.ObserveInbound("unsupported")
		if err := h.sender.Send(ctx, userID, &flow.Reply{Kind: flow.ReplyText, Body: msgUnsupportedType}); err != nil {
			log.Printf("❌ Failed to send unsupported-type notice to %s: %v", userID, err)
			h.metrics.ObserveSendFailure()
		}
		return c.JSON(fiber.Map{"status": "ok", "detail": "unsupported message type"})
	}

	reply, err := h.engine.HandleInput(ctx, userID, userName, input, kind)
	if err != nil {
		// The engine already cleared the session and produced a
		// user-facing recovery message; just record the fault.
		log.Printf("❌ Flow engine error for %s: %v", userID, err)
		h.metrics.ObserveInbound("engine_error")
	} else {
		h.metrics.ObserveInbound("processed")
	}

	// State is committed before the send, so a failed send never rolls
	// the conversation back.
	if err := h.sender.Send(ctx, userID, reply); err != nil {
		log.Printf("❌ Failed to send reply to %s: %v", userID, err)
		h.metrics.ObserveSendFailure()
		return c.JSON(fiber.Map{"status": "send_failed"})
	}

	return c.JSON(fiber.Map{"status": "processed"})
}

// extractValue digs out entry[0].changes[0].value, validating the
// envelope shape on the way.
func extractValue(envelope *webhookEnvelope) (*changeValue, bool) {
	if envelope.Object == "" || len(envelope.Entry) == 0 || len(envelope.Entry[0].Changes) == 0 {
		return nil, false
	}
	return &envelope.Entry[0].Changes[0].Value, true
}

// contactIdentity resolves the sender's wa_id and display name. The
// contacts block is preferred; message.from is the fallback.
func contactIdentity(value *changeValue, msg inboundMessage) (string, string) {
	if len(value.Contacts) > 0 {
		return value.Contacts[0].WaID, value.Contacts[0].Profile.Name
	}
	return msg.From, ""
}

// extractInput maps a Cloud API message to (value, kind). Interactive
// replies carry the option ID; anything except text and interactive
// replies is unsupported.
func extractInput(msg inboundMessage) (string, flow.InputKind, bool) {
	switch msg.Type {
	case "text":
		return msg.Text.Body, flow.InputText, true
	case "interactive":
		switch msg.Interactive.Type {
		case "list_reply":
			return msg.Interactive.ListReply.ID, flow.InputSelection, true
		case "button_reply":
			return msg.Interactive.ButtonReply.ID, flow.InputSelection, true
		}
		return "", flow.InputText, false
	default:
		return "", flow.InputText, false
	}
}
