package knowledge

import (
	"errors"
	"fmt"

	"MedlyChatbot/pkg/nlp"

	"github.com/go-playground/validator/v10"
)

var (
	ErrEmptyTable       = errors.New("knowledge table has no entries")
	ErrDuplicateIntent  = errors.New("duplicate intent")
	ErrDuplicateProduct = errors.New("duplicate product id")
	ErrUnknownProduct   = errors.New("entry references unknown product")
	ErrNoKeywords       = errors.New("entry has no usable keywords")
)

// Table is the load-time knowledge base: the product catalog in display order
// and the intent entries in declaration order.
type Table struct {
	Products []nlp.ProductRef
	Entries  []nlp.KnowledgeEntry
}

// Document is the serialized form of a Table used by the YAML and Postgres
// sources. Entries reference products by id.
type Document struct {
	Products []ProductDoc `yaml:"products" validate:"dive"`
	Entries  []EntryDoc   `yaml:"entries" validate:"required,min=1,dive"`
}

type ProductDoc struct {
	ID    string `yaml:"id" validate:"required"`
	Name  string `yaml:"name" validate:"required"`
	Price string `yaml:"price" validate:"required"`
	Image string `yaml:"image,omitempty" validate:"omitempty,url"`
	Link  string `yaml:"link" validate:"required,url"`
}

type EntryDoc struct {
	Intent    string   `yaml:"intent" validate:"required"`
	Keywords  []string `yaml:"keywords" validate:"required,min=1,dive,required"`
	Responses []string `yaml:"responses" validate:"required,min=1,dive,required"`
	Product   string   `yaml:"product,omitempty"`
	ShowAll   bool     `yaml:"show_all,omitempty"`
}

var validate = validator.New()

// FromDocument validates a document and resolves product references.
func FromDocument(doc Document) (*Table, error) {
	if len(doc.Entries) == 0 {
		return nil, ErrEmptyTable
	}
	if err := validate.Struct(doc); err != nil {
		return nil, fmt.Errorf("invalid knowledge document: %w", err)
	}

	t := &Table{}
	index := make(map[string]int, len(doc.Products))
	for _, p := range doc.Products {
		if _, exists := index[p.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateProduct, p.ID)
		}
		index[p.ID] = len(t.Products)
		t.Products = append(t.Products, nlp.ProductRef{
			ID:    p.ID,
			Name:  p.Name,
			Price: p.Price,
			Image: p.Image,
			Link:  p.Link,
		})
	}

	for _, e := range doc.Entries {
		entry := nlp.KnowledgeEntry{
			Intent:    e.Intent,
			Keywords:  append([]string(nil), e.Keywords...),
			Responses: append([]string(nil), e.Responses...),
			ShowAll:   e.ShowAll,
		}
		if e.Product != "" {
			i, ok := index[e.Product]
			if !ok {
				return nil, fmt.Errorf("%w: %s -> %s", ErrUnknownProduct, e.Intent, e.Product)
			}
			entry.Product = &t.Products[i]
		}
		t.Entries = append(t.Entries, entry)
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// ToDocument is the inverse of FromDocument.
func (t *Table) ToDocument() Document {
	doc := Document{}
	for _, p := range t.Products {
		doc.Products = append(doc.Products, ProductDoc{
			ID: p.ID, Name: p.Name, Price: p.Price, Image: p.Image, Link: p.Link,
		})
	}
	for _, e := range t.Entries {
		ed := EntryDoc{
			Intent:    e.Intent,
			Keywords:  e.Keywords,
			Responses: e.Responses,
			ShowAll:   e.ShowAll,
		}
		if e.Product != nil {
			ed.Product = e.Product.ID
		}
		doc.Entries = append(doc.Entries, ed)
	}
	return doc
}

func (t *Table) Validate() error {
	if len(t.Entries) == 0 {
		return ErrEmptyTable
	}

	products := make(map[string]bool, len(t.Products))
	for _, p := range t.Products {
		if products[p.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateProduct, p.ID)
		}
		products[p.ID] = true
	}

	intents := make(map[string]bool, len(t.Entries))
	for _, e := range t.Entries {
		if e.Intent == "" {
			return fmt.Errorf("entry without intent")
		}
		if intents[e.Intent] {
			return fmt.Errorf("%w: %s", ErrDuplicateIntent, e.Intent)
		}
		intents[e.Intent] = true

		if !hasKeyword(e.Keywords) {
			return fmt.Errorf("%w: %s", ErrNoKeywords, e.Intent)
		}
		if len(e.Responses) == 0 {
			return fmt.Errorf("intent %s has no responses", e.Intent)
		}
		if e.Product != nil && !products[e.Product.ID] {
			return fmt.Errorf("%w: %s -> %s", ErrUnknownProduct, e.Intent, e.Product.ID)
		}
	}

	return nil
}

// hasKeyword reports whether at least one keyword survives normalization; an
// entry keyed only on punctuation could never match.
func hasKeyword(keywords []string) bool {
	for _, k := range keywords {
		if nlp.NormalizeKeyword(k) != "" {
			return true
		}
	}
	return false
}

func (t *Table) Matcher(config nlp.MatcherConfig) (*nlp.Matcher, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return nlp.NewMatcher(t.Entries, t.Products, config)
}
