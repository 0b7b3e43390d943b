package nlp

import (
	"fmt"
	"math/rand"
	"strings"
)

type compiledEntry struct {
	entry   KnowledgeEntry
	exact   map[string]bool
	words   []string
	phrases [][]string
}

type Matcher struct {
	config  MatcherConfig
	entries []compiledEntry
	catalog []ProductRef
}

// NewMatcher compiles the knowledge table. Keywords are normalized here so the
// table may be declared in any casing; declaration order is preserved because
// it decides ties.
func NewMatcher(entries []KnowledgeEntry, catalog []ProductRef, config MatcherConfig) (*Matcher, error) {
	if config.FuzzyThreshold <= 0 || config.FuzzyThreshold > 1 {
		return nil, fmt.Errorf("fuzzy threshold must be in (0,1], got %v", config.FuzzyThreshold)
	}
	if config.ExactScore <= 0 || config.FuzzyScore <= 0 {
		return nil, fmt.Errorf("exact and fuzzy scores must be positive")
	}

	m := &Matcher{
		config:  config,
		catalog: append([]ProductRef(nil), catalog...),
	}

	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if e.Intent == "" {
			return nil, fmt.Errorf("knowledge entry without intent")
		}
		if seen[e.Intent] {
			return nil, fmt.Errorf("duplicate intent %q", e.Intent)
		}
		seen[e.Intent] = true

		if len(e.Responses) == 0 {
			return nil, fmt.Errorf("intent %q has no responses", e.Intent)
		}

		m.entries = append(m.entries, compileEntry(e))
	}

	return m, nil
}

func compileEntry(e KnowledgeEntry) compiledEntry {
	c := compiledEntry{entry: e, exact: make(map[string]bool)}

	for _, raw := range e.Keywords {
		parts := Normalize(raw)
		switch {
		case len(parts) == 0:
			continue
		case len(parts) > 1:
			c.phrases = append(c.phrases, parts)
		case !c.exact[parts[0]]:
			c.exact[parts[0]] = true
			c.words = append(c.words, parts[0])
		}
	}

	return c
}

func (m *Matcher) Entries() []KnowledgeEntry {
	out := make([]KnowledgeEntry, 0, len(m.entries))
	for _, c := range m.entries {
		out = append(out, c.entry)
	}
	return out
}

func (m *Matcher) Catalog() []ProductRef {
	return append([]ProductRef(nil), m.catalog...)
}

// Match runs the shortcut resolver and then scores the whole table. last is the
// session's most recently shown product, or nil. rng picks among response
// variants; a nil rng always picks the first variant.
func (m *Matcher) Match(text string, last *ProductRef, rng *rand.Rand) (MatchResult, error) {
	tokens := Normalize(text)
	if len(tokens) == 0 {
		return MatchResult{}, ErrNoMatch
	}

	if res, ok := ResolveShortcut(tokens, last); ok {
		return res, nil
	}

	bestIdx, bestScore := -1, 0
	for i := range m.entries {
		score := m.score(tokens, &m.entries[i])
		if score > bestScore {
			bestIdx, bestScore = i, score
		}
	}

	if bestIdx < 0 || bestScore < m.config.MinScore {
		return MatchResult{}, ErrNoMatch
	}

	return m.assemble(m.entries[bestIdx].entry, bestScore, rng), nil
}

// Score exposes the per-entry score of a query for diagnostics.
func (m *Matcher) Score(text string) map[string]int {
	tokens := Normalize(text)
	scores := make(map[string]int, len(m.entries))
	for i := range m.entries {
		scores[m.entries[i].entry.Intent] = m.score(tokens, &m.entries[i])
	}
	return scores
}

func (m *Matcher) score(tokens []string, c *compiledEntry) int {
	total := 0

	for _, token := range tokens {
		if c.exact[token] {
			total += m.config.ExactScore
			continue
		}
		if m.closestKeyword(token, c.words) != "" {
			total += m.config.FuzzyScore
		}
	}

	for _, phrase := range c.phrases {
		if containsRun(tokens, phrase) {
			total += m.config.ExactScore
		}
	}

	return total
}

// closestKeyword returns the first keyword in declaration order whose
// similarity reaches the threshold. This is not guaranteed to be the most
// similar keyword.
func (m *Matcher) closestKeyword(token string, keywords []string) string {
	for _, kw := range keywords {
		if Similarity(token, kw) >= m.config.FuzzyThreshold {
			return kw
		}
	}
	return ""
}

func (m *Matcher) assemble(e KnowledgeEntry, score int, rng *rand.Rand) MatchResult {
	text := e.Responses[0]
	if len(e.Responses) > 1 && rng != nil {
		text = e.Responses[rng.Intn(len(e.Responses))]
	}

	res := MatchResult{
		Intent: e.Intent,
		Text:   text,
		Score:  score,
		Source: SourceTable,
	}

	switch {
	case e.ShowAll:
		res.Carousel = m.Catalog()
	case e.Product != nil:
		card := *e.Product
		res.Card = &card
		remembered := card
		res.Remember = &remembered
	}

	return res
}

func containsRun(tokens, phrase []string) bool {
	if len(phrase) == 0 || len(phrase) > len(tokens) {
		return false
	}
	for i := 0; i+len(phrase) <= len(tokens); i++ {
		if strings.Join(tokens[i:i+len(phrase)], " ") == strings.Join(phrase, " ") {
			return true
		}
	}
	return false
}
