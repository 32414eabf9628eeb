package core

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"vendtrack/internal/csvproc"
)

// InventoryService converts counted sales into stock-level decrements and
// serves inventory reads.
type InventoryService interface {
	// ApplySales collapses the valid batch into per-(location, product) unit
	// counts and reconciles each against current stock. Sales model outflow
	// only: existing records are decremented with a floor at zero, and pairs
	// without a record get a fresh zero-quantity row with default stock
	// levels. Group and chunk failures are logged and skipped, never fatal —
	// inventory is derived state, the sales rows are the source of truth.
	ApplySales(ctx context.Context, batch []csvproc.Transaction,
		locationIDs, productIDs map[string]int, updatedBy int) (*ApplyStats, error)

	// ListInventory returns all inventory records joined with their location
	// and product, most recently updated first.
	ListInventory(ctx context.Context) ([]InventoryRecord, error)
}

// ApplyStats reports what one ApplySales run did.
type ApplyStats struct {
	Groups   int // distinct (location, product) pairs in the batch
	Updated  int // existing records decremented
	Inserted int // new zero-quantity records created
	Skipped  int // groups dropped for missing ids or store errors
}

// SaleGroup is the per-(location, product) aggregate of a batch. UnitsSold is
// the transaction count: each transaction is exactly one unit sold, the
// source rows carry no quantity column.
type SaleGroup struct {
	LocationCode string
	UPCCode      string
	UnitsSold    int
}

// GroupSales collapses transactions into sale groups, preserving
// first-occurrence order.
func GroupSales(batch []csvproc.Transaction) []SaleGroup {
	index := make(map[[2]string]int, len(batch))
	var groups []SaleGroup
	for _, t := range batch {
		key := [2]string{t.LocationCode, t.UPCCode}
		if i, ok := index[key]; ok {
			groups[i].UnitsSold++
			continue
		}
		index[key] = len(groups)
		groups = append(groups, SaleGroup{LocationCode: t.LocationCode, UPCCode: t.UPCCode, UnitsSold: 1})
	}
	return groups
}

// applyChunkSize bounds how many inventory mutations go into one batch
// round-trip. Chunk failures are isolated from their siblings.
const applyChunkSize = 1000

type inventoryService struct {
	pool *pgxpool.Pool
}

func NewInventoryService(pool *pgxpool.Pool) InventoryService {
	return &inventoryService{pool: pool}
}

func (s *inventoryService) ApplySales(ctx context.Context, batch []csvproc.Transaction,
	locationIDs, productIDs map[string]int, updatedBy int) (*ApplyStats, error) {

	groups := GroupSales(batch)
	stats := &ApplyStats{Groups: len(groups)}

	type mutation struct {
		locationID int
		productID  int
		units      int
	}
	var updates, inserts []mutation

	for _, g := range groups {
		locationID, ok := locationIDs[g.LocationCode]
		if !ok {
			log.Printf("WARN: no location id for code %q, skipping %d units", g.LocationCode, g.UnitsSold)
			stats.Skipped++
			continue
		}
		productID, ok := productIDs[g.UPCCode]
		if !ok {
			log.Printf("WARN: no product id for sku %q, skipping %d units", g.UPCCode, g.UnitsSold)
			stats.Skipped++
			continue
		}

		var id int
		err := s.pool.QueryRow(ctx,
			"SELECT id FROM inventory WHERE location_id = $1 AND product_id = $2",
			locationID, productID,
		).Scan(&id)
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			// No prior stock record: the pipeline has no source for an initial
			// on-hand quantity, so it starts the pair at zero.
			inserts = append(inserts, mutation{locationID: locationID, productID: productID})
		case err != nil:
			log.Printf("WARN: inventory lookup failed for (%d, %d): %v", locationID, productID, err)
			stats.Skipped++
		default:
			updates = append(updates, mutation{locationID: locationID, productID: productID, units: g.UnitsSold})
		}
	}

	// GREATEST(quantity - n, 0) makes the decrement-with-floor atomic per row,
	// so concurrent uploads cannot drive a quantity negative.
	for start := 0; start < len(updates); start += applyChunkSize {
		chunk := updates[start:min(start+applyChunkSize, len(updates))]
		b := &pgx.Batch{}
		for _, m := range chunk {
			b.Queue(`
				UPDATE inventory
				SET quantity = GREATEST(quantity - $1, 0), last_updated = NOW(), updated_by = $2
				WHERE location_id = $3 AND product_id = $4`,
				m.units, updatedBy, m.locationID, m.productID)
		}
		if err := s.pool.SendBatch(ctx, b).Close(); err != nil {
			log.Printf("WARN: inventory update chunk failed (%d rows): %v", len(chunk), err)
			stats.Skipped += len(chunk)
			continue
		}
		stats.Updated += len(chunk)
	}

	for start := 0; start < len(inserts); start += applyChunkSize {
		chunk := inserts[start:min(start+applyChunkSize, len(inserts))]
		b := &pgx.Batch{}
		for _, m := range chunk {
			b.Queue(`
				INSERT INTO inventory (location_id, product_id, quantity, min_stock_level, max_stock_level, last_updated, updated_by)
				VALUES ($1, $2, 0, 0, 1000, NOW(), $3)
				ON CONFLICT (location_id, product_id) DO NOTHING`,
				m.locationID, m.productID, updatedBy)
		}
		if err := s.pool.SendBatch(ctx, b).Close(); err != nil {
			log.Printf("WARN: inventory insert chunk failed (%d rows): %v", len(chunk), err)
			stats.Skipped += len(chunk)
			continue
		}
		stats.Inserted += len(chunk)
	}

	return stats, nil
}

func (s *inventoryService) ListInventory(ctx context.Context) ([]InventoryRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT i.id, i.location_id, i.product_id, i.quantity, i.min_stock_level, i.max_stock_level,
		       i.last_updated, i.updated_by,
		       l.id, l.name, l.address, l.manager_name, l.created_at, l.updated_at,
		       p.id, p.sku, p.name, p.unit_price, p.created_at, p.updated_at
		FROM inventory i
		JOIN locations l ON l.id = i.location_id
		JOIN products p  ON p.id = i.product_id
		ORDER BY i.last_updated DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory: %w", err)
	}
	defer rows.Close()

	var records []InventoryRecord
	for rows.Next() {
		var rec InventoryRecord
		var loc Location
		var prod Product
		if err := rows.Scan(
			&rec.ID, &rec.LocationID, &rec.ProductID, &rec.Quantity, &rec.MinStockLevel, &rec.MaxStockLevel,
			&rec.LastUpdated, &rec.UpdatedBy,
			&loc.ID, &loc.Name, &loc.Address, &loc.ManagerName, &loc.CreatedAt, &loc.UpdatedAt,
			&prod.ID, &prod.SKU, &prod.Name, &prod.UnitPrice, &prod.CreatedAt, &prod.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan inventory record: %w", err)
		}
		rec.Location = &loc
		rec.Product = &prod
		records = append(records, rec)
	}
	return records, rows.Err()
}
