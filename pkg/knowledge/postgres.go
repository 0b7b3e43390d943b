package knowledge

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

const (
	queryCreateTables = `
		CREATE TABLE IF NOT EXISTS knowledge_products (
			id       TEXT PRIMARY KEY,
			name     TEXT NOT NULL,
			price    TEXT NOT NULL,
			image    TEXT,
			link     TEXT NOT NULL,
			position INT  NOT NULL DEFAULT 0
		);
		CREATE TABLE IF NOT EXISTS knowledge_entries (
			intent     TEXT PRIMARY KEY,
			keywords   TEXT[]  NOT NULL,
			responses  TEXT[]  NOT NULL,
			product_id TEXT REFERENCES knowledge_products (id),
			show_all   BOOLEAN NOT NULL DEFAULT FALSE,
			position   INT     NOT NULL DEFAULT 0
		);
	`

	queryGetProducts = `
		SELECT
			id,
			name,
			price,
			image,
			link
		FROM knowledge_products
		ORDER BY position, id
	`

	queryGetEntries = `
		SELECT
			intent,
			keywords,
			responses,
			product_id,
			show_all
		FROM knowledge_entries
		ORDER BY position, intent
	`
)

// Querier is the subset of *sqlx.DB used by the Postgres source.
type Querier interface {
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

type ProductDB struct {
	ID    string         `db:"id"`
	Name  string         `db:"name"`
	Price string         `db:"price"`
	Image sql.NullString `db:"image"`
	Link  string         `db:"link"`
}

type EntryDB struct {
	Intent    string         `db:"intent"`
	Keywords  pq.StringArray `db:"keywords"`
	Responses pq.StringArray `db:"responses"`
	ProductID sql.NullString `db:"product_id"`
	ShowAll   bool           `db:"show_all"`
}

func EnsureSchema(ctx context.Context, q Querier) error {
	if _, err := q.ExecContext(ctx, queryCreateTables); err != nil {
		return fmt.Errorf("create knowledge tables: %w", err)
	}
	return nil
}

// LoadPostgres reads the whole table once. Rows are ordered by their position
// column, which therefore also decides tie-breaks between intents.
func LoadPostgres(ctx context.Context, q Querier) (*Table, error) {
	var products []ProductDB
	if err := q.SelectContext(ctx, &products, queryGetProducts); err != nil {
		return nil, fmt.Errorf("select knowledge products: %w", err)
	}

	var entries []EntryDB
	if err := q.SelectContext(ctx, &entries, queryGetEntries); err != nil {
		return nil, fmt.Errorf("select knowledge entries: %w", err)
	}

	return FromDocument(makeDocument(products, entries))
}

func makeDocument(products []ProductDB, entries []EntryDB) Document {
	doc := Document{}
	for _, p := range products {
		doc.Products = append(doc.Products, ProductDoc{
			ID:    p.ID,
			Name:  p.Name,
			Price: p.Price,
			Image: p.Image.String,
			Link:  p.Link,
		})
	}
	for _, e := range entries {
		doc.Entries = append(doc.Entries, EntryDoc{
			Intent:    e.Intent,
			Keywords:  []string(e.Keywords),
			Responses: []string(e.Responses),
			Product:   e.ProductID.String,
			ShowAll:   e.ShowAll,
		})
	}
	return doc
}
