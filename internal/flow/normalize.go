package flow

import (
	"strconv"
	"strings"
)

// Amount bounds in naira for the free-text amount path.
const (
	MinAmount = 50
	MaxAmount = 50000
)

// AmountVerdict classifies a free-text amount. Every input string maps to
// exactly one verdict.
type AmountVerdict int

const (
	AmountOK AmountVerdict = iota
	AmountNotNumeric
	AmountTooLow
	AmountTooHigh
)

// Normalize canonicalizes free text for matching: trim, lowercase,
// underscores become spaces, runs of whitespace collapse to one space.
// It never fails; unrecognized input comes back trimmed and lowercased.
func Normalize(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, "_", " ")
	return strings.Join(strings.Fields(s), " ")
}

// CanonicalSelection canonicalizes a selection ID from a list or button
// reply. IDs are already canonical tokens, so underscores are kept.
func CanonicalSelection(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// stripCurrency removes naira symbols, commas and inner spaces so
// "₦1,000" and "NGN 500" validate like "1000" and "500".
func stripCurrency(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.TrimPrefix(s, "₦")
	s = strings.TrimPrefix(s, "ngn")
	s = strings.TrimPrefix(s, "n")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	return s
}

// ValidateAmount parses a free-text amount and checks it against the
// allowed range. Total: every string yields exactly one verdict.
func ValidateAmount(raw string) (int, AmountVerdict) {
	cleaned := stripCurrency(raw)
	if cleaned == "" {
		return 0, AmountNotNumeric
	}
	amount, err := strconv.Atoi(cleaned)
	if err != nil {
		return 0, AmountNotNumeric
	}
	if amount < MinAmount {
		return amount, AmountTooLow
	}
	if amount > MaxAmount {
		return amount, AmountTooHigh
	}
	return amount, AmountOK
}

// validPhonePrefixes are the leading digits of Nigerian mobile numbers
// the bot accepts. TODO: cross-check against the current NCC numbering
// plan before widening.
var validPhonePrefixes = []string{"070", "080", "081", "090", "091"}

// ValidatePhone accepts 11-digit local numbers with a known mobile
// prefix. Spaces and dashes are ignored so "0801 234 5678" passes.
func ValidatePhone(raw string) (string, bool) {
	s := strings.ReplaceAll(raw, " ", "")
	s = strings.ReplaceAll(s, "-", "")
	if len(s) != 11 {
		return "", false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	for _, prefix := range validPhonePrefixes {
		if strings.HasPrefix(s, prefix) {
			return s, true
		}
	}
	return "", false
}
