package services

import (
	"fmt"
	"strings"

	"github.com/nairacharge/topup-backend/internal/flow"
)

// WhatsApp Cloud API message payload shapes. Only the fields this bot
// sends are modeled.

type CloudMessage struct {
	MessagingProduct string       `json:"messaging_product"`
	RecipientType    string       `json:"recipient_type"`
	To               string       `json:"to"`
	Type             string       `json:"type"`
	Text             *TextBody    `json:"text,omitempty"`
	Interactive      *Interactive `json:"interactive,omitempty"`
}

type TextBody struct {
	PreviewURL bool   `json:"preview_url"`
	Body       string `json:"body"`
}

type Interactive struct {
	Type   string            `json:"type"`
	Body   InteractiveText   `json:"body"`
	Action InteractiveAction `json:"action"`
}

type InteractiveText struct {
	Text string `json:"text"`
}

type InteractiveAction struct {
	Button   string        `json:"button,omitempty"`
	Sections []ListSection `json:"sections,omitempty"`
	Buttons  []ReplyButton `json:"buttons,omitempty"`
}

type ListSection struct {
	Title string    `json:"title,omitempty"`
	Rows  []ListRow `json:"rows"`
}

type ListRow struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type ReplyButton struct {
	Type  string      `json:"type"`
	Reply ButtonReply `json:"reply"`
}

type ButtonReply struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// FormatMessage renders a logical reply into the Cloud API wire shape.
// Pure function of (recipient, reply); no state.
func FormatMessage(to string, reply *flow.Reply) *CloudMessage {
	msg := &CloudMessage{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
	}

	switch reply.Kind {
	case flow.ReplyMenu:
		rows := make([]ListRow, 0, len(reply.Options))
		for _, opt := range reply.Options {
			rows = append(rows, ListRow{ID: opt.ID, Title: opt.Title, Description: opt.Description})
		}
		msg.Type = "interactive"
		msg.Interactive = &Interactive{
			Type: "list",
			Body: InteractiveText{Text: reply.Body},
			Action: InteractiveAction{
				Button:   reply.MenuButton,
				Sections: []ListSection{{Rows: rows}},
			},
		}

	case flow.ReplyButtons:
		buttons := make([]ReplyButton, 0, len(reply.Options))
		for _, opt := range reply.Options {
			buttons = append(buttons, ReplyButton{
				Type:  "reply",
				Reply: ButtonReply{ID: opt.ID, Title: opt.Title},
			})
		}
		msg.Type = "interactive"
		msg.Interactive = &Interactive{
			Type:   "button",
			Body:   InteractiveText{Text: reply.Body},
			Action: InteractiveAction{Buttons: buttons},
		}

	default:
		msg.Type = "text"
		msg.Text = &TextBody{Body: reply.Body}
	}

	return msg
}

// FormatPlainText flattens a reply into a single text message for
// transports without interactive support (the Twilio sandbox path).
// Options become numbered lines the user can answer by token.
func FormatPlainText(reply *flow.Reply) string {
	if reply.Kind == flow.ReplyText || len(reply.Options) == 0 {
		return reply.Body
	}

	var b strings.Builder
	b.WriteString(reply.Body)
	b.WriteString("\n")
	for i, opt := range reply.Options {
		b.WriteString(fmt.Sprintf("\n%d. %s", i+1, opt.Title))
		if opt.Description != "" {
			b.WriteString(" - " + opt.Description)
		}
		b.WriteString(fmt.Sprintf(" (reply: %s)", opt.ID))
	}
	return b.String()
}
