package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveShortcut(t *testing.T) {
	last := testFlask

	tests := []struct {
		name       string
		text       string
		last       *ProductRef
		wantOK     bool
		wantIntent string
	}{
		{"price follow-up", "what is its price", &last, true, "followup_price"},
		{"cost follow-up", "how much does this cost", &last, true, "followup_price"},
		{"link follow-up", "where can I buy it", &last, true, "followup_link"},
		{"price wins over link", "buy it at what price", &last, true, "followup_price"},
		{"no referential word", "what is the price", &last, false, ""},
		{"referential word without topic", "tell me more about it", &last, false, ""},
		{"no context", "what is its price", nil, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, ok := ResolveShortcut(Normalize(tt.text), tt.last)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantIntent, res.Intent)
			if ok {
				assert.Equal(t, SourceShortcut, res.Source)
				assert.Nil(t, res.Remember)
			}
		})
	}
}

func TestResolveShortcutCopiesCard(t *testing.T) {
	last := testFlask

	res, ok := ResolveShortcut([]string{"its", "price"}, &last)
	assert.True(t, ok)

	res.Card.Price = "free"
	assert.Equal(t, "₹500", last.Price)
}
