package knowledge

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ObjectGetter fetches a single object from blob storage.
type ObjectGetter interface {
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)
}

func ParseYAML(data []byte) (*Table, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode knowledge yaml: %w", err)
	}
	return FromDocument(doc)
}

func MarshalYAML(t *Table) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(t.ToDocument()); err != nil {
		return nil, fmt.Errorf("encode knowledge yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read knowledge file %s: %w", path, err)
	}
	return ParseYAML(data)
}

func LoadObject(ctx context.Context, getter ObjectGetter, bucket, key string) (*Table, error) {
	data, err := getter.GetObject(ctx, bucket, key)
	if err != nil {
		return nil, fmt.Errorf("fetch knowledge object s3://%s/%s: %w", bucket, key, err)
	}
	return ParseYAML(data)
}
