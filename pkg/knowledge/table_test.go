package knowledge

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"MedlyChatbot/pkg/nlp"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
products:
  - id: flask
    name: Flask
    price: "₹500"
    link: https://example.com/flask
entries:
  - intent: hello
    keywords: [hello, hi]
    responses: ["Hello!"]
  - intent: flask
    keywords: [flask, bottle]
    responses: ["Our flask."]
    product: flask
  - intent: all
    keywords: [show all]
    responses: ["Everything."]
    show_all: true
`

func TestParseYAML(t *testing.T) {
	table, err := ParseYAML([]byte(sampleYAML))
	require.NoError(t, err)

	require.Len(t, table.Products, 1)
	require.Len(t, table.Entries, 3)
	assert.Equal(t, "hello", table.Entries[0].Intent)
	require.NotNil(t, table.Entries[1].Product)
	assert.Equal(t, "₹500", table.Entries[1].Product.Price)
	assert.True(t, table.Entries[2].ShowAll)
}

func TestYAMLRoundTripOfDefault(t *testing.T) {
	data, err := MarshalYAML(Default())
	require.NoError(t, err)

	parsed, err := ParseYAML(data)
	require.NoError(t, err)
	assert.Equal(t, Default(), parsed)
}

func TestParseYAMLRejectsBadDocuments(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr error
	}{
		{
			name:    "no entries",
			doc:     "products: []\nentries: []\n",
			wantErr: ErrEmptyTable,
		},
		{
			name: "unknown product",
			doc: `
entries:
  - intent: a
    keywords: [a]
    responses: [a]
    product: ghost
`,
			wantErr: ErrUnknownProduct,
		},
		{
			name: "duplicate product",
			doc: `
products:
  - {id: p, name: P, price: "1", link: "https://example.com/p"}
  - {id: p, name: P, price: "1", link: "https://example.com/p"}
entries:
  - {intent: a, keywords: [a], responses: [a]}
`,
			wantErr: ErrDuplicateProduct,
		},
		{
			name: "duplicate intent",
			doc: `
entries:
  - {intent: a, keywords: [a], responses: [a]}
  - {intent: a, keywords: [b], responses: [b]}
`,
			wantErr: ErrDuplicateIntent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseYAML([]byte(tt.doc))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParseYAMLValidation(t *testing.T) {
	docs := map[string]string{
		"missing responses": "entries:\n  - {intent: a, keywords: [a]}\n",
		"empty keyword":     "entries:\n  - {intent: a, keywords: [\"\"], responses: [a]}\n",
		"bad link":          "products:\n  - {id: p, name: P, price: \"1\", link: \"not a url\"}\nentries:\n  - {intent: a, keywords: [a], responses: [a]}\n",
		"unknown field":     "entries:\n  - {intent: a, keywords: [a], responses: [a], weight: 3}\n",
		"not yaml":          "entries: [",
	}

	for name, doc := range docs {
		t.Run(name, func(t *testing.T) {
			_, err := ParseYAML([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "knowledge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o600))

	table, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, table.Entries, 3)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

type fakeGetter struct {
	data   []byte
	err    error
	bucket string
	key    string
}

func (f *fakeGetter) GetObject(_ context.Context, bucket, key string) ([]byte, error) {
	f.bucket, f.key = bucket, key
	return f.data, f.err
}

func TestLoadObject(t *testing.T) {
	getter := &fakeGetter{data: []byte(sampleYAML)}

	table, err := LoadObject(context.Background(), getter, "medly-config", "chat/knowledge.yaml")
	require.NoError(t, err)
	assert.Len(t, table.Entries, 3)
	assert.Equal(t, "medly-config", getter.bucket)
	assert.Equal(t, "chat/knowledge.yaml", getter.key)

	boom := errors.New("access denied")
	_, err = LoadObject(context.Background(), &fakeGetter{err: boom}, "b", "k")
	assert.ErrorIs(t, err, boom)
}

func TestTableMatcherValidatesFirst(t *testing.T) {
	_, err := (&Table{}).Matcher(nlp.DefaultMatcherConfig())
	assert.ErrorIs(t, err, ErrEmptyTable)
}

func TestValidateRejectsUnusableKeywords(t *testing.T) {
	table := &Table{Entries: []nlp.KnowledgeEntry{
		{Intent: "noise", Keywords: []string{"!!!", "  ", "?"}, Responses: []string{"Hm."}},
	}}
	assert.ErrorIs(t, table.Validate(), ErrNoKeywords)

	table.Entries[0].Keywords = nil
	assert.ErrorIs(t, table.Validate(), ErrNoKeywords)

	// one usable keyword is enough
	table.Entries[0].Keywords = []string{"!!!", "Hello!"}
	assert.NoError(t, table.Validate())

	_, err := ParseYAML([]byte("entries:\n  - {intent: a, keywords: [\"!!!\"], responses: [a]}\n"))
	assert.ErrorIs(t, err, ErrNoKeywords)
}
