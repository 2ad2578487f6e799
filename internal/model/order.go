package model

import "time"

// OrderStatusCreated is the only status assigned by this service.
// Further transitions (preparing, delivered, ...) belong to systems
// outside of this backend.
const OrderStatusCreated = "created"

// Order records a customer's order. Each order carries a random,
// unguessable hash that can be shared publicly (e.g. with the
// messaging bot) without exposing the sequential internal ID. An
// order always has at least one item: orders are created together
// with their first batch of items, and deleting the last item
// deletes the order itself.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – user who placed the order.
//  Hash      – unique public tracking hash, never reused.
//  Status    – order state; always "created" in-core.
//  Items     – line items; populated by the repository.
//  CreatedAt – creation timestamp.
type Order struct {
	ID        uint64      `json:"id"`
	UserID    uint64      `json:"user_id"`
	Hash      string      `json:"order_hash"`
	Status    string      `json:"status"`
	Items     []OrderItem `json:"items"`
	CreatedAt time.Time   `json:"created_at"`
}

// OrderItem is a single line of an order. Quantity is always >= 1
// for a persisted row; decrementing a quantity of 1 removes the row
// instead.
type OrderItem struct {
	ID        uint64  `json:"id"`
	OrderID   uint64  `json:"order_id"`
	PizzaName string  `json:"pizza_name"`
	Quantity  uint32  `json:"quantity"`
	Price     float64 `json:"price"`
}
