package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/nairacharge/topup-backend/internal/flow"
)

// Sender delivers a reply to one user. Implementations do not retry;
// the caller decides what a failed send means.
type Sender interface {
	Send(ctx context.Context, to string, reply *flow.Reply) error
}

// SendTimeout bounds one outbound API call.
const SendTimeout = 10 * time.Second

// CloudAPISender posts messages to the WhatsApp Cloud (Graph) API.
type CloudAPISender struct {
	httpClient    *http.Client
	baseURL       string
	token         string
	phoneNumberID string
}

// NewCloudAPISender creates a Graph API sender.
func NewCloudAPISender(baseURL, token, phoneNumberID string) (*CloudAPISender, error) {
	if token == "" || phoneNumberID == "" {
		return nil, fmt.Errorf("missing WhatsApp Cloud API credentials in environment variables")
	}
	if baseURL == "" {
		baseURL = "https://graph.facebook.com/v18.0"
	}
	return &CloudAPISender{
		httpClient:    &http.Client{Timeout: SendTimeout},
		baseURL:       baseURL,
		token:         token,
		phoneNumberID: phoneNumberID,
	}, nil
}

// Send formats the reply and posts it to the /messages endpoint.
func (s *CloudAPISender) Send(ctx context.Context, to string, reply *flow.Reply) error {
	payload := FormatMessage(to, reply)
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal message payload: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", s.baseURL, s.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build send request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp send failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("whatsapp send failed: %d - %s", resp.StatusCode, string(detail))
	}

	log.Printf("✅ WhatsApp message sent to %s", to)
	return nil
}
