package entity

import "time"

type Order struct {
	ID            int         `json:"id"`
	UserID        int         `json:"user_id"`
	Items         []OrderItem `json:"items"`
	Total         float64     `json:"total"`
	IdempotentKey string      `json:"-"`
	CreatedAt     time.Time   `json:"created_at"`
}

// OrderItem snapshots unit price and diet flag from the product at order time.
// Snapshots are never recomputed, even when the product changes later.
type OrderItem struct {
	ProductID int     `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	IsDiet    bool    `json:"is_diet"`
}

func (i OrderItem) LineTotal() float64 {
	return float64(i.Quantity) * i.UnitPrice
}

// OrderRequest is the inbound payload for order creation. IdempotentKey is
// taken from the Idempotent-Key header, not the body.
type OrderRequest struct {
	UserID        int                `json:"user_id"`
	Items         []OrderLineRequest `json:"items"`
	IdempotentKey string             `json:"-"`
}

type OrderLineRequest struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity,omitempty"` // defaults to 1 when absent
}

/*
Mysql Table

CREATE TABLE orders (
	id INT AUTO_INCREMENT PRIMARY KEY,
	user_id INT NOT NULL,
	total DOUBLE NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE order_items (
	id INT AUTO_INCREMENT PRIMARY KEY,
	order_id INT NOT NULL REFERENCES orders(id),
	product_id INT NOT NULL,
	quantity INT NOT NULL,
	unit_price DOUBLE NOT NULL,
	is_diet BOOLEAN NOT NULL
);
*/
