package core

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"vendtrack/internal/csvproc"
)

// ReferenceService maps the natural keys of a validated batch (location code,
// UPC) to persisted entity ids, creating entities on first sight.
type ReferenceService interface {
	// ResolveReferences returns name→id and sku→id lookup maps covering the
	// batch. Codes absent from the store are created: locations with the code
	// as name, products with placeholder name "Product <sku>" and zero price.
	// The maps are batch-scoped; callers discard them after the run.
	ResolveReferences(ctx context.Context, batch []csvproc.Transaction) (locationIDs, productIDs map[string]int, err error)
}

type referenceService struct {
	pool *pgxpool.Pool
}

func NewReferenceService(pool *pgxpool.Pool) ReferenceService {
	return &referenceService{pool: pool}
}

func (s *referenceService) ResolveReferences(ctx context.Context, batch []csvproc.Transaction) (map[string]int, map[string]int, error) {
	locationCodes := distinct(batch, func(t csvproc.Transaction) string { return t.LocationCode })
	upcCodes := distinct(batch, func(t csvproc.Transaction) string { return t.UPCCode })

	locationIDs, err := s.resolve(ctx, "locations", "name", locationCodes, `
		INSERT INTO locations (name)
		SELECT unnest($1::text[])
		ON CONFLICT (name) DO NOTHING
		RETURNING id, name`)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve locations: %w", err)
	}

	productIDs, err := s.resolve(ctx, "products", "sku", upcCodes, `
		INSERT INTO products (sku, name, unit_price)
		SELECT u, 'Product ' || u, 0 FROM unnest($1::text[]) AS u
		ON CONFLICT (sku) DO NOTHING
		RETURNING id, sku`)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve products: %w", err)
	}

	return locationIDs, productIDs, nil
}

// resolve fetches ids for the given keys and creates rows for the missing
// ones. Creation is a single multi-row insert; a concurrent upload inserting
// the same key loses the ON CONFLICT race and is picked up by the re-fetch.
// If the batched insert fails outright, creation falls back to one-by-one
// with continue-on-error semantics so one bad key cannot sink the batch.
func (s *referenceService) resolve(ctx context.Context, table, keyCol string, keys []string, insertSQL string) (map[string]int, error) {
	ids := make(map[string]int, len(keys))
	if len(keys) == 0 {
		return ids, nil
	}

	selectSQL := fmt.Sprintf("SELECT id, %s FROM %s WHERE %s = ANY($1)", keyCol, table, keyCol)
	if err := s.fetchInto(ctx, ids, selectSQL, keys); err != nil {
		return nil, err
	}

	missing := missingKeys(keys, ids)
	if len(missing) == 0 {
		return ids, nil
	}

	if err := s.fetchInto(ctx, ids, insertSQL, missing); err != nil {
		log.Printf("WARN: batched %s insert failed, retrying one by one: %v", table, err)
		single := singleInsertSQL(table)
		for _, key := range missing {
			var id int
			if err := s.pool.QueryRow(ctx, single, key).Scan(&id); err != nil {
				log.Printf("WARN: failed to create %s row for %q: %v", table, key, err)
				continue
			}
			ids[key] = id
		}
	}

	// Rows that lost the ON CONFLICT race exist but returned nothing; re-fetch.
	if still := missingKeys(keys, ids); len(still) > 0 {
		if err := s.fetchInto(ctx, ids, selectSQL, still); err != nil {
			return nil, err
		}
	}

	return ids, nil
}

// fetchInto runs a query returning (id, key) pairs and merges them into ids.
func (s *referenceService) fetchInto(ctx context.Context, ids map[string]int, sql string, keys []string) error {
	rows, err := s.pool.Query(ctx, sql, keys)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var id int
		var key string
		if err := rows.Scan(&id, &key); err != nil {
			return err
		}
		ids[key] = id
	}
	return rows.Err()
}

// singleInsertSQL is the one-row upsert used by the fallback path.
func singleInsertSQL(table string) string {
	if table == "products" {
		return `INSERT INTO products (sku, name, unit_price) VALUES ($1, 'Product ' || $1, 0)
			ON CONFLICT (sku) DO UPDATE SET updated_at = NOW() RETURNING id`
	}
	return `INSERT INTO locations (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET updated_at = NOW() RETURNING id`
}

// distinct returns the unique values of key over the batch, in order of first
// occurrence.
func distinct(batch []csvproc.Transaction, key func(csvproc.Transaction) string) []string {
	seen := make(map[string]bool, len(batch))
	var out []string
	for _, t := range batch {
		k := key(t)
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}

func missingKeys(keys []string, ids map[string]int) []string {
	var missing []string
	for _, k := range keys {
		if _, ok := ids[k]; !ok {
			missing = append(missing, k)
		}
	}
	return missing
}
