// Package fallback produces the terminal reply used when neither the
// knowledge table nor the external model can answer. It has no dependencies
// and cannot fail.
package fallback

import "strings"

const (
	supportEmail = "support@mymedly.in"
	supportPhone = "8744048726"
)

const (
	genericReply = "I'm not sure about that, but I'd love to help! " +
		"Please ask about Warranty, Shipping, or Prices, or email " + supportEmail + "."
	orderReply = "I can't look up individual orders here. For order status or tracking, " +
		"please email " + supportEmail + " with your order number or call us at " + supportPhone + "."
	refundReply = "Sorry to hear something went wrong! Please email " + supportEmail +
		" with your order number and a photo, and our team will sort it out quickly."
)

var (
	orderWords  = []string{"order", "tracking", "status", "where", "awb"}
	refundWords = []string{"refund", "return", "cancel", "complaint", "leak", "leaking"}
)

// Reply returns the apology for text, pointing the user at human support.
func Reply(text string) string {
	lower := strings.ToLower(text)

	switch {
	case containsWord(lower, refundWords):
		return refundReply
	case containsWord(lower, orderWords):
		return orderReply
	default:
		return genericReply
	}
}

func containsWord(text string, words []string) bool {
	for _, field := range strings.FieldsFunc(text, isSeparator) {
		for _, w := range words {
			if field == w {
				return true
			}
		}
	}
	return false
}

func isSeparator(r rune) bool {
	return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
}
