package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Comercio-api/internal/domain/entity"
	"github.com/jhoicas/Comercio-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación del puerto OrderRepository sobre PostgreSQL
// (usable con pool o tx). Las líneas siempre se devuelven ordenadas por
// line_no para que el cumplimiento sea determinista.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

const orderColumns = `id, company_id, order_number, warehouse_id, customer_id, status, subtotal, discount_amount, tax_amount, total_amount, promotion_code, notes, created_by, created_at, updated_at`

// Create persiste la orden y sus líneas.
func (r *OrderRepo) Create(order *entity.Order) error {
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	customerID := (*string)(nil)
	if order.CustomerID != "" {
		customerID = &order.CustomerID
	}
	promoCode := (*string)(nil)
	if order.PromotionCode != "" {
		promoCode = &order.PromotionCode
	}
	createdBy := (*string)(nil)
	if order.CreatedBy != "" {
		createdBy = &order.CreatedBy
	}
	_, err := r.q.Exec(context.Background(), query,
		order.ID, order.CompanyID, order.OrderNumber, order.WarehouseID, customerID,
		order.Status, order.Subtotal, order.DiscountAmount, order.TaxAmount, order.TotalAmount,
		promoCode, order.Notes, createdBy, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (id, order_id, line_no, product_id, product_name, quantity, unit_price, subtotal, tax_rate, tax_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	for _, item := range order.Items {
		_, err := r.q.Exec(context.Background(), itemQuery,
			item.ID, order.ID, item.LineNo, item.ProductID, item.ProductName,
			item.Quantity, item.UnitPrice, item.Subtotal, item.TaxRate, item.TaxAmount,
		)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene una orden con sus líneas.
func (r *OrderRepo) GetByID(id string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	return r.getOne(query, id)
}

// GetByNumber obtiene una orden por su número legible.
func (r *OrderRepo) GetByNumber(companyID, orderNumber string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE company_id = $1 AND order_number = $2`
	return r.getOne(query, companyID, orderNumber)
}

// GetForUpdate obtiene una orden con sus líneas y bloquea la fila de la orden
// (SELECT FOR UPDATE) para que la transición de estado sea atómica.
func (r *OrderRepo) GetForUpdate(id string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 FOR UPDATE`
	return r.getOne(query, id)
}

func (r *OrderRepo) getOne(query string, args ...any) (*entity.Order, error) {
	order, err := scanOrder(r.q.QueryRow(context.Background(), query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	items, err := r.listItems(order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

func (r *OrderRepo) listItems(orderID string) ([]entity.OrderItem, error) {
	query := `
		SELECT id, order_id, line_no, product_id, product_name, quantity, unit_price, subtotal, tax_rate, tax_amount
		FROM order_items WHERE order_id = $1 ORDER BY line_no`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	var items []entity.OrderItem
	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(
			&it.ID, &it.OrderID, &it.LineNo, &it.ProductID, &it.ProductName,
			&it.Quantity, &it.UnitPrice, &it.Subtotal, &it.TaxRate, &it.TaxAmount,
		); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// UpdateStatus actualiza el estado de una orden.
func (r *OrderRepo) UpdateStatus(id, status string) error {
	query := `UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, status)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	return nil
}

// ListByCompany lista órdenes de una empresa, opcionalmente filtradas por
// estado, de la más reciente a la más antigua. Las líneas no se cargan en los
// listados.
func (r *OrderRepo) ListByCompany(companyID, status string, limit, offset int) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE company_id = $1`
	args := []any{companyID}
	pos := 2
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, status)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var result []*entity.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		result = append(result, order)
	}
	return result, rows.Err()
}

func scanOrder(row pgxScanner) (*entity.Order, error) {
	var o entity.Order
	var customerID, promoCode, createdBy *string
	err := row.Scan(
		&o.ID, &o.CompanyID, &o.OrderNumber, &o.WarehouseID, &customerID,
		&o.Status, &o.Subtotal, &o.DiscountAmount, &o.TaxAmount, &o.TotalAmount,
		&promoCode, &o.Notes, &createdBy, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if customerID != nil {
		o.CustomerID = *customerID
	}
	if promoCode != nil {
		o.PromotionCode = *promoCode
	}
	if createdBy != nil {
		o.CreatedBy = *createdBy
	}
	return &o, nil
}
