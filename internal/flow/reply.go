package flow

import "fmt"

// ReplyKind selects the outbound message shape.
type ReplyKind int

const (
	ReplyText ReplyKind = iota
	ReplyMenu
	ReplyButtons
)

// Option is one selectable row or button. ID is the canonical token the
// provider echoes back when the user taps it.
type Option struct {
	ID          string
	Title       string
	Description string
}

// Reply is the logical outbound message produced by the engine. The
// formatter in services maps it to provider JSON; the engine never deals
// with wire shapes.
type Reply struct {
	Kind       ReplyKind
	Body       string
	MenuButton string // label on the button that opens a list
	Options    []Option
}

func textReply(body string) *Reply {
	return &Reply{Kind: ReplyText, Body: body}
}

// Selection IDs used by menus and buttons.
const (
	SelectionCustomAmount = "custom_amount"
	SelectionConfirmYes   = "confirm_yes"
	SelectionConfirmNo    = "confirm_no"
)

func networkMenu(body string) *Reply {
	return &Reply{
		Kind:       ReplyMenu,
		Body:       body,
		MenuButton: "Choose network",
		Options: []Option{
			{ID: "mtn", Title: "MTN"},
			{ID: "airtel", Title: "Airtel"},
			{ID: "glo", Title: "Glo"},
			{ID: "9mobile", Title: "9mobile"},
		},
	}
}

// presetAmounts are the quick-pick airtime values. Order matters: it is
// the order shown in the menu.
var presetAmounts = []int{100, 200, 500, 1000, 2000, 5000}

func amountMenu(body string) *Reply {
	options := make([]Option, 0, len(presetAmounts)+1)
	for _, amount := range presetAmounts {
		options = append(options, Option{
			ID:    fmt.Sprintf("%d", amount),
			Title: fmt.Sprintf("₦%d", amount),
		})
	}
	options = append(options, Option{
		ID:          SelectionCustomAmount,
		Title:       "Custom amount",
		Description: fmt.Sprintf("Any amount from ₦%d to ₦%d", MinAmount, MaxAmount),
	})
	return &Reply{
		Kind:       ReplyMenu,
		Body:       body,
		MenuButton: "Choose amount",
		Options:    options,
	}
}

func confirmButtons(body string) *Reply {
	return &Reply{
		Kind: ReplyButtons,
		Body: body,
		Options: []Option{
			{ID: SelectionConfirmYes, Title: "Yes, proceed"},
			{ID: SelectionConfirmNo, Title: "No, cancel"},
		},
	}
}
