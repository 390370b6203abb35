package models

import "time"

// Step marks where a user currently is in the top-up conversation.
type Step string

const (
	StepStart                Step = "start"
	StepChooseNetwork        Step = "choose_network"
	StepPhoneNumber          Step = "phone_number"
	StepChooseAmount         Step = "choose_amount"
	StepAwaitingCustomAmount Step = "awaiting_custom_amount"
	StepConfirm              Step = "confirm"
)

// Network is a mobile network operator the user can buy airtime for.
type Network string

const (
	NetworkMTN     Network = "mtn"
	NetworkAirtel  Network = "airtel"
	NetworkGlo     Network = "glo"
	Network9Mobile Network = "9mobile"
)

// ParseNetwork maps a normalized token to a known network operator.
func ParseNetwork(token string) (Network, bool) {
	switch Network(token) {
	case NetworkMTN, NetworkAirtel, NetworkGlo, Network9Mobile:
		return Network(token), true
	}
	return "", false
}

// DisplayName returns the operator name as shown to users.
func (n Network) DisplayName() string {
	switch n {
	case NetworkMTN:
		return "MTN"
	case NetworkAirtel:
		return "Airtel"
	case NetworkGlo:
		return "Glo"
	case Network9Mobile:
		return "9mobile"
	}
	return string(n)
}

// Session stores the conversation state for one WhatsApp user.
// SelectedNetwork, PhoneNumber and Amount are only populated in the steps
// that collect them; the zero value means "not collected yet".
type Session struct {
	UserID          string    `json:"user_id"`
	UserName        string    `json:"user_name,omitempty"`
	Step            Step      `json:"step"`
	SelectedNetwork Network   `json:"selected_network,omitempty"`
	PhoneNumber     string    `json:"phone_number,omitempty"`
	Amount          int       `json:"amount,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	LastUpdatedAt   time.Time `json:"last_updated_at"`
}

// NewSession creates a fresh session at the start step.
func NewSession(userID string) *Session {
	now := time.Now()
	return &Session{
		UserID:        userID,
		Step:          StepStart,
		CreatedAt:     now,
		LastUpdatedAt: now,
	}
}

// Touch bumps the activity timestamp. Session TTL is sliding: every valid
// interaction extends it.
func (s *Session) Touch() {
	s.LastUpdatedAt = time.Now()
}
