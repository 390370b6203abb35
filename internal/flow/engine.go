package flow

import (
	"context"
	"fmt"
	"log"

	"github.com/nairacharge/topup-backend/internal/metrics"
	"github.com/nairacharge/topup-backend/internal/models"
	"github.com/nairacharge/topup-backend/internal/storage"
)

// InputKind tells the engine whether the value came from free text or
// from tapping a list/button option.
type InputKind int

const (
	InputText InputKind = iota
	InputSelection
)

// TopupProvider executes the airtime purchase once the user confirms.
// The current implementation simulates the charge and records a receipt.
type TopupProvider interface {
	Topup(ctx context.Context, userID string, network models.Network, recipient string, amount int) (reference string, err error)
}

// Engine is the conversation state machine. One call per inbound event:
// it reads the session, decides the transition, writes the session back
// and returns the reply to send. Events for the same user are serialized
// with a per-user lock held across the whole read-decide-write.
type Engine struct {
	sessions storage.SessionStore
	topup    TopupProvider
	locks    *userLocks
	metrics  *metrics.BotMetrics
}

// EngineOption configures optional engine collaborators.
type EngineOption func(*Engine)

// WithMetrics wires transition counters into the engine.
func WithMetrics(m *metrics.BotMetrics) EngineOption {
	return func(e *Engine) {
		e.metrics = m
	}
}

// NewEngine creates a flow engine.
func NewEngine(sessions storage.SessionStore, topup TopupProvider, opts ...EngineOption) *Engine {
	e := &Engine{
		sessions: sessions,
		topup:    topup,
		locks:    newUserLocks(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// resetTokens trigger the global restart override in every state.
var resetTokens = map[string]bool{
	"reset":      true,
	"restart":    true,
	"start over": true,
	"menu":       true,
}

// HandleInput runs one state transition for the user. Validation
// failures come back as ordinary corrective replies with a nil error;
// the error return is reserved for unexpected faults, which also clear
// the session so the user is never stuck.
func (e *Engine) HandleInput(ctx context.Context, userID, userName, value string, kind InputKind) (reply *Reply, err error) {
	unlock := e.locks.acquire(userID)
	defer unlock()

	defer func() {
		if r := recover(); r != nil {
			log.Printf("❌ Panic while handling input for %s: %v", userID, r)
			_ = e.sessions.Delete(ctx, userID)
			reply = textReply(msgSystemError)
			err = fmt.Errorf("panic in flow engine: %v", r)
		}
	}()

	token := Normalize(value)
	if kind == InputSelection {
		token = CanonicalSelection(value)
	}

	session, err := e.sessions.Get(ctx, userID)
	if err != nil {
		_ = e.sessions.Delete(ctx, userID)
		return textReply(msgSystemError), fmt.Errorf("session read failed: %w", err)
	}
	if userName != "" {
		session.UserName = userName
	}

	// Global override: restart the flow from network selection.
	if resetTokens[token] {
		return e.restart(ctx, userID, userName)
	}

	switch session.Step {
	case models.StepStart:
		return e.handleStart(ctx, session, token, kind)
	case models.StepChooseNetwork:
		return e.handleChooseNetwork(ctx, session, token)
	case models.StepPhoneNumber:
		return e.handlePhoneNumber(ctx, session, token)
	case models.StepChooseAmount:
		return e.handleChooseAmount(ctx, session, token, kind)
	case models.StepAwaitingCustomAmount:
		return e.handleCustomAmount(ctx, session, token)
	case models.StepConfirm:
		return e.handleConfirm(ctx, session, token)
	default:
		// Unknown step means a corrupt session. Clear it.
		_ = e.sessions.Delete(ctx, userID)
		return textReply(msgSystemError), fmt.Errorf("unknown step %q for %s", session.Step, userID)
	}
}

func (e *Engine) restart(ctx context.Context, userID, userName string) (*Reply, error) {
	if err := e.sessions.Delete(ctx, userID); err != nil {
		return textReply(msgSystemError), fmt.Errorf("session reset failed: %w", err)
	}
	session := models.NewSession(userID)
	session.UserName = userName
	session.Step = models.StepChooseNetwork
	if err := e.put(ctx, session); err != nil {
		return textReply(msgSystemError), err
	}
	return networkMenu(welcomeBody(session.UserName)), nil
}

func (e *Engine) handleStart(ctx context.Context, session *models.Session, token string, kind InputKind) (*Reply, error) {
	greetings := map[string]bool{"welcome": true, "start": true, "hi": true, "hello": true}
	if !greetings[token] && kind != InputSelection {
		return textReply(msgTypeWelcome), nil
	}

	session.Step = models.StepChooseNetwork
	if err := e.put(ctx, session); err != nil {
		return textReply(msgSystemError), err
	}
	return networkMenu(welcomeBody(session.UserName)), nil
}

func (e *Engine) handleChooseNetwork(ctx context.Context, session *models.Session, token string) (*Reply, error) {
	network, ok := models.ParseNetwork(token)
	if !ok {
		return networkMenu(msgUnknownNetwork), nil
	}

	session.SelectedNetwork = network
	session.Step = models.StepPhoneNumber
	if err := e.put(ctx, session); err != nil {
		return textReply(msgSystemError), err
	}
	return textReply(fmt.Sprintf(msgAskPhone, network.DisplayName())), nil
}

func (e *Engine) handlePhoneNumber(ctx context.Context, session *models.Session, token string) (*Reply, error) {
	phone, ok := ValidatePhone(token)
	if !ok {
		return textReply(msgBadPhone), nil
	}

	session.PhoneNumber = phone
	session.Step = models.StepChooseAmount
	if err := e.put(ctx, session); err != nil {
		return textReply(msgSystemError), err
	}
	return amountMenu(fmt.Sprintf(msgAskAmount, phone)), nil
}

func (e *Engine) handleChooseAmount(ctx context.Context, session *models.Session, token string, kind InputKind) (*Reply, error) {
	if token == SelectionCustomAmount && kind == InputSelection {
		session.Step = models.StepAwaitingCustomAmount
		if err := e.put(ctx, session); err != nil {
			return textReply(msgSystemError), err
		}
		return textReply(msgAskCustomAmount), nil
	}
	return e.acceptAmount(ctx, session, token)
}

func (e *Engine) handleCustomAmount(ctx context.Context, session *models.Session, token string) (*Reply, error) {
	return e.acceptAmount(ctx, session, token)
}

// acceptAmount validates the amount token and, on success, moves the
// session to the confirmation step. Preset menu selections pass through
// the same validation as typed amounts.
func (e *Engine) acceptAmount(ctx context.Context, session *models.Session, token string) (*Reply, error) {
	amount, verdict := ValidateAmount(token)
	switch verdict {
	case AmountNotNumeric:
		return textReply(fmt.Sprintf(msgAmountNotNumeric, token)), nil
	case AmountTooLow:
		return textReply(fmt.Sprintf(msgAmountTooLow, amount, MinAmount)), nil
	case AmountTooHigh:
		return textReply(fmt.Sprintf(msgAmountTooHigh, amount, MaxAmount)), nil
	}

	session.Amount = amount
	session.Step = models.StepConfirm
	if err := e.put(ctx, session); err != nil {
		return textReply(msgSystemError), err
	}
	return confirmButtons(confirmBody(session)), nil
}

func (e *Engine) handleConfirm(ctx context.Context, session *models.Session, token string) (*Reply, error) {
	yes := map[string]bool{"yes": true, "y": true, "confirm": true, "ok": true, SelectionConfirmYes: true}
	no := map[string]bool{"no": true, "n": true, "cancel": true, SelectionConfirmNo: true}

	switch {
	case yes[token]:
		// All three fields must have been collected on the way here.
		if session.SelectedNetwork == "" || session.PhoneNumber == "" || session.Amount == 0 {
			_ = e.sessions.Delete(ctx, session.UserID)
			return textReply(msgSystemError), fmt.Errorf("confirm step reached with incomplete session for %s", session.UserID)
		}

		reference, err := e.topup.Topup(ctx, session.UserID, session.SelectedNetwork, session.PhoneNumber, session.Amount)
		if err != nil {
			_ = e.sessions.Delete(ctx, session.UserID)
			return textReply(msgSystemError), fmt.Errorf("topup failed: %w", err)
		}

		receipt := fmt.Sprintf(msgReceipt,
			session.SelectedNetwork.DisplayName(), session.PhoneNumber, session.Amount, reference)
		if err := e.sessions.Delete(ctx, session.UserID); err != nil {
			return textReply(msgSystemError), fmt.Errorf("session cleanup failed: %w", err)
		}
		e.metrics.ObserveTransition("success")
		return textReply(receipt), nil

	case no[token]:
		if err := e.sessions.Delete(ctx, session.UserID); err != nil {
			return textReply(msgSystemError), fmt.Errorf("session cleanup failed: %w", err)
		}
		e.metrics.ObserveTransition("cancelled")
		return textReply(msgCancelled), nil

	default:
		return confirmButtons(msgConfirmAgain), nil
	}
}

// put touches and persists the session, then records the transition.
func (e *Engine) put(ctx context.Context, session *models.Session) error {
	session.Touch()
	if err := e.sessions.Put(ctx, session.UserID, session); err != nil {
		return fmt.Errorf("session write failed: %w", err)
	}
	e.metrics.ObserveTransition(string(session.Step))
	return nil
}
