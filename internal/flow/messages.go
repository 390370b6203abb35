package flow

import (
	"fmt"

	"github.com/nairacharge/topup-backend/internal/models"
)

// User-facing copy for every state. Kept in one place so wording changes
// never touch transition logic.
const (
	msgTypeWelcome = "🤖 Hi! Type *welcome* to start buying airtime."

	msgUnknownNetwork = "❌ I didn't recognize that network.\n\nValid options are MTN, Airtel, Glo and 9mobile. Pick one below."

	msgAskPhone = "📱 %s it is!\n\nNow enter the 11-digit phone number to recharge, e.g. 08012345678."

	msgBadPhone = "❌ That doesn't look like a valid phone number.\n\nI need 11 digits starting with 070, 080, 081, 090 or 091.\nExample: 08012345678"

	msgAskAmount = "💰 How much airtime for %s?\n\nPick an amount below, or choose *Custom amount* to type your own."

	msgAskCustomAmount = "✍️ Type the amount you want, from ₦50 to ₦50,000.\n\nExample: 750"

	msgAmountNotNumeric = "❌ \"%s\" is not an amount I can read.\n\nType a plain number like 500."

	msgAmountTooLow = "❌ ₦%d is below the minimum.\n\nThe smallest top-up is ₦%d."

	msgAmountTooHigh = "❌ ₦%d is above the maximum.\n\nThe largest top-up is ₦%d."

	msgConfirmAgain = "🤔 Please tap *Yes, proceed* to complete the purchase or *No, cancel* to stop."

	msgReceipt = "✅ *Top-up successful!*\n\nNetwork: %s\nPhone: %s\nAmount: ₦%d\nReference: %s\n\nThanks for using QuickTopup. Type *welcome* anytime to buy again."

	msgCancelled = "🚫 Order cancelled. You have not been charged.\n\nType *welcome* whenever you want to start over."

	msgSystemError = "❌ Sorry, something went wrong on our side. Your session has been reset.\n\nType *welcome* to start again."
)

func welcomeBody(userName string) string {
	if userName == "" {
		return "👋 Welcome to QuickTopup!\n\nLet's buy some airtime. Pick your network below."
	}
	return fmt.Sprintf("👋 Hello %s, welcome to QuickTopup!\n\nLet's buy some airtime. Pick your network below.", userName)
}

func confirmBody(session *models.Session) string {
	return fmt.Sprintf(
		"🧾 *Please confirm your order:*\n\nNetwork: %s\nPhone: %s\nAmount: ₦%d\n\nShall I proceed?",
		session.SelectedNetwork.DisplayName(), session.PhoneNumber, session.Amount)
}
