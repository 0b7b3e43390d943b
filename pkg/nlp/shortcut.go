package nlp

import "fmt"

var (
	referentialTokens = map[string]bool{"it": true, "its": true, "this": true, "that": true}
	priceTokens       = map[string]bool{"price": true, "cost": true, "much": true, "rate": true, "priced": true}
	linkTokens        = map[string]bool{"link": true, "buy": true, "purchase": true, "order": true, "url": true}
)

// ResolveShortcut answers a follow-up about the last product shown ("what is
// its price", "send me the link for it") without consulting the knowledge
// table. The second return value is false when the query must fall through to
// full matching.
func ResolveShortcut(tokens []string, last *ProductRef) (MatchResult, bool) {
	if last == nil || !containsAny(tokens, referentialTokens) {
		return MatchResult{}, false
	}

	var text, intent string
	switch {
	case containsAny(tokens, priceTokens):
		intent = "followup_price"
		text = fmt.Sprintf("%s is priced at %s. Check the product page for the latest offers!", last.Name, last.Price)
	case containsAny(tokens, linkTokens):
		intent = "followup_link"
		text = fmt.Sprintf("You can buy %s here: %s", last.Name, last.Link)
	default:
		return MatchResult{}, false
	}

	card := *last
	return MatchResult{
		Intent: intent,
		Text:   text,
		Card:   &card,
		Source: SourceShortcut,
	}, true
}

func containsAny(tokens []string, set map[string]bool) bool {
	for _, token := range tokens {
		if set[token] {
			return true
		}
	}
	return false
}
