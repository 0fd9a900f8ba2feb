package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/jhoicas/Comercio-api/internal/domain/repository"
)

var _ repository.StockEntryRepository = (*StockEntryRepo)(nil)

// StockEntryRepo implementación de StockEntryRepository sobre PostgreSQL (usable con pool o tx).
type StockEntryRepo struct {
	q Querier
}

// NewStockEntryRepository construye el adaptador de existencias. Pasar pool o tx (Querier).
func NewStockEntryRepository(q Querier) *StockEntryRepo {
	return &StockEntryRepo{q: q}
}

// Get obtiene la existencia actual de un producto en una bodega.
// Devuelve nil (sin error) si no hay fila registrada.
func (r *StockEntryRepo) Get(productID, warehouseID string) (*entity.StockEntry, error) {
	query := `
		SELECT product_id, warehouse_id, quantity, updated_at
		FROM stock_entries WHERE product_id = $1 AND warehouse_id = $2`
	var e entity.StockEntry
	err := r.q.QueryRow(context.Background(), query, productID, warehouseID).Scan(
		&e.ProductID, &e.WarehouseID, &e.Quantity, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock entry: %w", err)
	}
	return &e, nil
}

// GetForUpdate obtiene la existencia y bloquea la fila (SELECT FOR UPDATE).
// Devuelve nil (sin error) si no hay fila registrada.
func (r *StockEntryRepo) GetForUpdate(productID, warehouseID string) (*entity.StockEntry, error) {
	query := `
		SELECT product_id, warehouse_id, quantity, updated_at
		FROM stock_entries WHERE product_id = $1 AND warehouse_id = $2
		FOR UPDATE`
	var e entity.StockEntry
	err := r.q.QueryRow(context.Background(), query, productID, warehouseID).Scan(
		&e.ProductID, &e.WarehouseID, &e.Quantity, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock entry for update: %w", err)
	}
	return &e, nil
}

// Upsert inserta o actualiza la cantidad de la existencia (por producto y bodega).
func (r *StockEntryRepo) Upsert(entry *entity.StockEntry) error {
	query := `
		INSERT INTO stock_entries (product_id, warehouse_id, quantity, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (product_id, warehouse_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query, entry.ProductID, entry.WarehouseID, entry.Quantity)
	if err != nil {
		return fmt.Errorf("upsert stock entry: %w", err)
	}
	return nil
}

// ListByWarehouse lista las existencias de una bodega.
func (r *StockEntryRepo) ListByWarehouse(warehouseID string, limit, offset int) ([]*entity.StockEntry, error) {
	query := `
		SELECT product_id, warehouse_id, quantity, updated_at
		FROM stock_entries WHERE warehouse_id = $1
		ORDER BY product_id
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, warehouseID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock entries: %w", err)
	}
	defer rows.Close()

	var result []*entity.StockEntry
	for rows.Next() {
		var e entity.StockEntry
		if err := rows.Scan(&e.ProductID, &e.WarehouseID, &e.Quantity, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock entry: %w", err)
		}
		result = append(result, &e)
	}
	return result, rows.Err()
}

// ListLowStock devuelve las existencias por debajo del mínimo del producto.
// warehouseID vacío = todas las bodegas de la empresa.
func (r *StockEntryRepo) ListLowStock(companyID, warehouseID string) ([]*entity.LowStockItem, error) {
	query := `
		SELECT p.id, p.sku, p.name, w.id, w.name, se.quantity, p.min_stock, p.min_stock - se.quantity
		FROM stock_entries se
		JOIN products p ON p.id = se.product_id
		JOIN warehouses w ON w.id = se.warehouse_id
		WHERE p.company_id = $1 AND p.min_stock > 0 AND se.quantity < p.min_stock`
	args := []any{companyID}
	if warehouseID != "" {
		query += ` AND se.warehouse_id = $2`
		args = append(args, warehouseID)
	}
	query += ` ORDER BY w.name, p.sku`

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	defer rows.Close()

	var result []*entity.LowStockItem
	for rows.Next() {
		var item entity.LowStockItem
		if err := rows.Scan(
			&item.ProductID, &item.SKU, &item.ProductName,
			&item.WarehouseID, &item.WarehouseName,
			&item.Quantity, &item.MinStock, &item.Shortage,
		); err != nil {
			return nil, fmt.Errorf("scan low stock item: %w", err)
		}
		result = append(result, &item)
	}
	return result, rows.Err()
}

// ListValuation devuelve las existencias valorizadas al costo del producto.
func (r *StockEntryRepo) ListValuation(companyID, warehouseID string) ([]*entity.ValuationRow, error) {
	query := `
		SELECT w.id, w.name, p.id, p.sku, p.name, se.quantity, p.cost, se.quantity * p.cost
		FROM stock_entries se
		JOIN products p ON p.id = se.product_id
		JOIN warehouses w ON w.id = se.warehouse_id
		WHERE p.company_id = $1 AND se.quantity > 0`
	args := []any{companyID}
	if warehouseID != "" {
		query += ` AND se.warehouse_id = $2`
		args = append(args, warehouseID)
	}
	query += ` ORDER BY w.name, p.sku`

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list valuation: %w", err)
	}
	defer rows.Close()

	var result []*entity.ValuationRow
	for rows.Next() {
		var row entity.ValuationRow
		if err := rows.Scan(
			&row.WarehouseID, &row.WarehouseName,
			&row.ProductID, &row.SKU, &row.ProductName,
			&row.Quantity, &row.UnitCost, &row.TotalValue,
		); err != nil {
			return nil, fmt.Errorf("scan valuation row: %w", err)
		}
		result = append(result, &row)
	}
	return result, rows.Err()
}
