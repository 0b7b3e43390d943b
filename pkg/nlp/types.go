package nlp

import (
	"errors"
	"math/rand"
)

// ErrNoMatch is returned when no knowledge entry scores above the selection
// threshold. It is an outcome, not a failure.
var ErrNoMatch = errors.New("no matching intent")

const (
	SourceShortcut = "shortcut"
	SourceTable    = "table"
)

type ProductRef struct {
	ID    string `json:"id" yaml:"id" db:"id"`
	Name  string `json:"name" yaml:"name" db:"name"`
	Price string `json:"price" yaml:"price" db:"price"`
	Image string `json:"image,omitempty" yaml:"image,omitempty" db:"image"`
	Link  string `json:"link" yaml:"link" db:"link"`
}

type KnowledgeEntry struct {
	Intent    string
	Keywords  []string
	Responses []string
	Product   *ProductRef
	ShowAll   bool
}

type MatchResult struct {
	Intent   string       `json:"intent"`
	Text     string       `json:"text"`
	Card     *ProductRef  `json:"card"`
	Carousel []ProductRef `json:"carousel"`
	Score    int          `json:"score"`
	Source   string       `json:"source"`

	// Remember is the attachment the caller should store as the session's
	// conversation context. Nil means leave the context untouched.
	Remember *ProductRef `json:"-"`
}

type MatcherConfig struct {
	FuzzyThreshold float64
	MinScore       int
	ExactScore     int
	FuzzyScore     int
}

func DefaultMatcherConfig() MatcherConfig {
	return MatcherConfig{
		FuzzyThreshold: 0.80,
		MinScore:       8,
		ExactScore:     10,
		FuzzyScore:     8,
	}
}

type IMatcher interface {
	Match(text string, last *ProductRef, rng *rand.Rand) (MatchResult, error)
	Entries() []KnowledgeEntry
	Catalog() []ProductRef
}
