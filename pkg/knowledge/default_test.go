package knowledge

import (
	"testing"

	"MedlyChatbot/pkg/nlp"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultMatcher(t *testing.T) *nlp.Matcher {
	t.Helper()

	m, err := Default().Matcher(nlp.DefaultMatcherConfig())
	require.NoError(t, err)
	return m
}

func TestDefaultTableIsValid(t *testing.T) {
	table := Default()
	require.NoError(t, table.Validate())
	assert.Len(t, table.Products, 4)

	for _, e := range table.Entries {
		if e.Product != nil {
			assert.Equal(t, e.Intent, e.Product.ID)
		}
	}
}

func TestDefaultConversation(t *testing.T) {
	m := defaultMatcher(t)

	tests := []struct {
		name       string
		text       string
		wantIntent string
		wantScore  int
	}{
		{"greeting", "hi", "greeting", 10},
		{"keyword plus phrase", "What is your warranty policy?", "warranty", 20},
		{"typo", "waranty", "warranty", 8},
		{"payment beats shipping", "Is cash on delivery available?", "payment", 20},
		{"refund phrase", "refund policy", "returns", 20},
		{"product beats generic price on tie", "how much is the sports bottle", "sports", 10},
		{"product named with price", "price of classic", "classic", 10},
		{"care", "can I put it in the dishwasher", "cleaning", 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := m.Match(tt.text, nil, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.wantIntent, res.Intent)
			assert.Equal(t, tt.wantScore, res.Score)
		})
	}
}

func TestDefaultGreetingMentionsBrand(t *testing.T) {
	m := defaultMatcher(t)

	res, err := m.Match("Hello", nil, nil)
	require.NoError(t, err)
	assert.Contains(t, res.Text, "Welcome to Medly")
}

func TestDefaultGibberishFallsThrough(t *testing.T) {
	m := defaultMatcher(t)

	_, err := m.Match("xyzzy unknown gibberish", nil, nil)
	assert.ErrorIs(t, err, nlp.ErrNoMatch)
}

func TestDefaultProductFollowUp(t *testing.T) {
	m := defaultMatcher(t)

	res, err := m.Match("tell me about classic", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "classic", res.Intent)
	require.NotNil(t, res.Card)
	assert.Equal(t, "₹799", res.Card.Price)
	require.NotNil(t, res.Remember)

	followUp, err := m.Match("what is its price", res.Remember, nil)
	require.NoError(t, err)
	assert.Equal(t, "followup_price", followUp.Intent)
	assert.Equal(t, nlp.SourceShortcut, followUp.Source)
	assert.Contains(t, followUp.Text, "Classic is priced at ₹799")

	link, err := m.Match("send me the link for it", res.Remember, nil)
	require.NoError(t, err)
	assert.Equal(t, "You can buy Classic here: https://mymedly.in/products/classic", link.Text)
}

func TestDefaultCatalog(t *testing.T) {
	m := defaultMatcher(t)

	res, err := m.Match("show me all products", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "catalog", res.Intent)
	assert.Len(t, res.Carousel, 4)
	assert.Nil(t, res.Card)
	assert.Nil(t, res.Remember)
}
