package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/jhoicas/Comercio-api/internal/domain/repository"
)

var _ repository.StockAdjustmentRepository = (*StockAdjustmentRepo)(nil)

// StockAdjustmentRepo implementación del historial de ajustes sobre PostgreSQL
// (usable con pool o tx). Solo inserta y consulta: el historial es append-only.
type StockAdjustmentRepo struct {
	q Querier
}

// NewStockAdjustmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockAdjustmentRepository(q Querier) *StockAdjustmentRepo {
	return &StockAdjustmentRepo{q: q}
}

const adjustmentColumns = `id, product_id, warehouse_id, delta, reason, actor_id, before_quantity, after_quantity, reference_type, reference_id, created_at`

// Create persiste un ajuste en el historial.
func (r *StockAdjustmentRepo) Create(adjustment *entity.StockAdjustment) error {
	if adjustment.ID == "" {
		adjustment.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_adjustments (` + adjustmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	actorID := (*string)(nil)
	if adjustment.ActorID != "" {
		actorID = &adjustment.ActorID
	}
	refType := (*string)(nil)
	if adjustment.ReferenceType != "" {
		refType = &adjustment.ReferenceType
	}
	refID := (*string)(nil)
	if adjustment.ReferenceID != "" {
		refID = &adjustment.ReferenceID
	}
	_, err := r.q.Exec(context.Background(), query,
		adjustment.ID, adjustment.ProductID, adjustment.WarehouseID,
		adjustment.Delta, adjustment.Reason, actorID,
		adjustment.BeforeQuantity, adjustment.AfterQuantity,
		refType, refID, adjustment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create stock adjustment: %w", err)
	}
	return nil
}

// GetByID obtiene un ajuste por ID.
func (r *StockAdjustmentRepo) GetByID(id string) (*entity.StockAdjustment, error) {
	query := `SELECT ` + adjustmentColumns + ` FROM stock_adjustments WHERE id = $1`
	adj, err := scanAdjustment(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock adjustment: %w", err)
	}
	return adj, nil
}

// ListByProduct lista los ajustes de un producto en un rango de fechas,
// del más reciente al más antiguo.
func (r *StockAdjustmentRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockAdjustment, error) {
	return r.list("product_id", productID, from, to, limit, offset)
}

// ListByWarehouse lista los ajustes de una bodega en un rango de fechas,
// del más reciente al más antiguo.
func (r *StockAdjustmentRepo) ListByWarehouse(warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.StockAdjustment, error) {
	return r.list("warehouse_id", warehouseID, from, to, limit, offset)
}

func (r *StockAdjustmentRepo) list(column, value string, from, to *time.Time, limit, offset int) ([]*entity.StockAdjustment, error) {
	query := `SELECT ` + adjustmentColumns + ` FROM stock_adjustments WHERE ` + column + ` = $1`
	args := []any{value}
	pos := 2
	if from != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock adjustments: %w", err)
	}
	defer rows.Close()

	var result []*entity.StockAdjustment
	for rows.Next() {
		adj, err := scanAdjustment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock adjustment: %w", err)
		}
		result = append(result, adj)
	}
	return result, rows.Err()
}

func scanAdjustment(row pgxScanner) (*entity.StockAdjustment, error) {
	var a entity.StockAdjustment
	var actorID, refType, refID *string
	err := row.Scan(
		&a.ID, &a.ProductID, &a.WarehouseID, &a.Delta, &a.Reason, &actorID,
		&a.BeforeQuantity, &a.AfterQuantity, &refType, &refID, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if actorID != nil {
		a.ActorID = *actorID
	}
	if refType != nil {
		a.ReferenceType = *refType
	}
	if refID != nil {
		a.ReferenceID = *refID
	}
	return &a, nil
}
