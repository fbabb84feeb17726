package repository

import (
	"context"
	"database/sql"

	"github.com/mellobo05/diet-ai-recommender/internal/entity"
	"github.com/mellobo05/diet-ai-recommender/internal/sharding"
)

type OrderRepository struct {
	dbShards []*sql.DB
	router   *sharding.ShardRouter
}

func NewOrderRepository(dbShards []*sql.DB, router *sharding.ShardRouter) *OrderRepository {
	return &OrderRepository{dbShards, router}
}

func (r *OrderRepository) shardFor(userID int) *sql.DB {
	return r.dbShards[r.router.GetShard(userID)]
}

// CreateOrder persists an order and its line items in one transaction. Either
// all rows exist afterwards or none do.
func (r *OrderRepository) CreateOrder(ctx context.Context, order *entity.Order) (*entity.Order, error) {
	db := r.shardFor(order.UserID)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	orderQuery := `INSERT INTO orders (user_id, total) VALUES (?, ?)`
	res, err := tx.ExecContext(ctx, orderQuery, order.UserID, order.Total)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	orderID, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	// Insert line items with batch
	itemQuery := `INSERT INTO order_items (order_id, product_id, quantity, unit_price, is_diet) VALUES `

	var values []interface{}
	for _, item := range order.Items {
		itemQuery += "(?, ?, ?, ?, ?),"
		values = append(values, orderID, item.ProductID, item.Quantity, item.UnitPrice, item.IsDiet)
	}

	// Remove the trailing comma
	itemQuery = itemQuery[:len(itemQuery)-1]

	_, err = tx.ExecContext(ctx, itemQuery, values...)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	err = tx.Commit()
	if err != nil {
		return nil, err
	}

	order.ID = int(orderID)

	created := &entity.Order{}
	orderRow := `SELECT id, user_id, total, created_at FROM orders WHERE id = ?`
	err = db.QueryRowContext(ctx, orderRow, orderID).Scan(&created.ID, &created.UserID, &created.Total, &created.CreatedAt)
	if err != nil {
		return nil, err
	}
	created.Items = order.Items
	return created, nil
}

// ListOrdersByUser returns the user's orders with their items, newest first.
func (r *OrderRepository) ListOrdersByUser(ctx context.Context, userID int) ([]*entity.Order, error) {
	db := r.shardFor(userID)

	orderQuery := `SELECT id, user_id, total, created_at FROM orders WHERE user_id = ? ORDER BY created_at DESC, id DESC`
	rows, err := db.QueryContext(ctx, orderQuery, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*entity.Order
	byID := map[int]*entity.Order{}
	for rows.Next() {
		order := &entity.Order{}
		if err := rows.Scan(&order.ID, &order.UserID, &order.Total, &order.CreatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, order)
		byID[order.ID] = order
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	itemQuery := `
		SELECT i.order_id, i.product_id, i.quantity, i.unit_price, i.is_diet
		FROM order_items i JOIN orders o ON o.id = i.order_id
		WHERE o.user_id = ?
		ORDER BY i.id`
	itemRows, err := db.QueryContext(ctx, itemQuery, userID)
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var orderID int
		item := entity.OrderItem{}
		if err := itemRows.Scan(&orderID, &item.ProductID, &item.Quantity, &item.UnitPrice, &item.IsDiet); err != nil {
			return nil, err
		}
		if order, ok := byID[orderID]; ok {
			order.Items = append(order.Items, item)
		}
	}
	return orders, itemRows.Err()
}

// CountDietOrdersByUser counts the user's orders carrying at least one line
// item whose frozen diet flag is true.
func (r *OrderRepository) CountDietOrdersByUser(ctx context.Context, userID int) (int, error) {
	db := r.shardFor(userID)

	query := `
		SELECT COUNT(DISTINCT o.id)
		FROM orders o JOIN order_items i ON i.order_id = o.id
		WHERE o.user_id = ? AND i.is_diet = TRUE`

	var count int
	err := db.QueryRowContext(ctx, query, userID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
