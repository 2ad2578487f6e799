package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/superpizzeria/order-service/internal/model"
)

// OrderRepo provides CRUD operations for orders and their line
// items. Orders group one or more items for a user; an order with
// zero items must never be observable, which is enforced by running
// every multi-row mutation inside a single transaction.
type OrderRepo struct{ DB *sql.DB }

// NewOrderRepo returns a new OrderRepo bound to the given database.
func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{DB: db} }

// ItemMutation reports what DecrementOrErase did to the targeted row.
type ItemMutation int

const (
	// ItemDecremented means quantity was reduced by one and the row survives.
	ItemDecremented ItemMutation = iota
	// ItemRemoved means the row was deleted and the parent order still has items.
	ItemRemoved
	// ItemRemovedOrderDeleted means the row was the order's last item, so the
	// order was deleted as well.
	ItemRemovedOrderDeleted
)

// Create inserts an order and all of its items in one transaction.
// On any failure the transaction rolls back and no partial rows
// persist. The returned order carries generated IDs, the supplied
// hash and the "created" status.
func (r *OrderRepo) Create(ctx context.Context, userID uint64, hash string, items []model.OrderItem) (*model.Order, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO orders (user_id, order_hash, status) VALUES (?,?,?)",
		userID, hash, model.OrderStatusCreated)
	if err != nil {
		return nil, err
	}
	orderID, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	order := &model.Order{
		ID:     uint64(orderID),
		UserID: userID,
		Hash:   hash,
		Status: model.OrderStatusCreated,
		Items:  make([]model.OrderItem, 0, len(items)),
	}
	for _, it := range items {
		ires, err := tx.ExecContext(ctx,
			"INSERT INTO order_items (order_id, pizza_name, quantity, price) VALUES (?,?,?,?)",
			orderID, it.PizzaName, it.Quantity, it.Price)
		if err != nil {
			return nil, err
		}
		itemID, err := ires.LastInsertId()
		if err != nil {
			return nil, err
		}
		it.ID = uint64(itemID)
		it.OrderID = uint64(orderID)
		order.Items = append(order.Items, it)
	}

	// Query back the order row to populate created_at.
	if err := tx.QueryRowContext(ctx,
		"SELECT created_at FROM orders WHERE id=?", orderID).Scan(&order.CreatedAt); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return order, nil
}

// ListByUser returns all orders owned by userID, newest id first,
// each with its full item list. Items are fetched in a single
// IN-clause query and stitched onto their orders.
func (r *OrderRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Order, error) {
	const q = `SELECT id, user_id, order_hash, status, created_at
	           FROM orders WHERE user_id = ? ORDER BY id DESC`
	rows, err := r.DB.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]model.Order, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Hash, &o.Status, &o.CreatedAt); err != nil {
			return nil, err
		}
		o.Items = []model.OrderItem{}
		index[o.ID] = len(orders)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]interface{}, 0, len(orders))
	placeholders := make([]string, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
		placeholders = append(placeholders, "?")
	}
	itemQuery := `SELECT id, order_id, pizza_name, quantity, price
	              FROM order_items
	              WHERE order_id IN (` + strings.Join(placeholders, ",") + `)
	              ORDER BY order_id, id`
	irows, err := r.DB.QueryContext(ctx, itemQuery, ids...)
	if err != nil {
		return nil, err
	}
	defer irows.Close()
	for irows.Next() {
		var it model.OrderItem
		if err := irows.Scan(&it.ID, &it.OrderID, &it.PizzaName, &it.Quantity, &it.Price); err != nil {
			return nil, err
		}
		idx, ok := index[it.OrderID]
		if !ok {
			continue
		}
		orders[idx].Items = append(orders[idx].Items, it)
	}
	if err := irows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

// DecrementOrErase reduces the quantity of an item by one, deleting
// the row when the quantity would drop below one and deleting the
// parent order when its last item goes. The whole cascade runs in
// one transaction with the item row locked FOR UPDATE, so two racing
// calls against the same last item serialize: the loser finds no row
// and gets ErrItemNotFound, and an order with zero items is never
// observable.
//
// The caller must own the parent order; ErrForbidden is returned
// otherwise.
func (r *OrderRepo) DecrementOrErase(ctx context.Context, itemID, userID uint64) (ItemMutation, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const q = `SELECT oi.quantity, oi.order_id, o.user_id
	           FROM order_items oi
	           JOIN orders o ON o.id = oi.order_id
	           WHERE oi.id = ?
	           FOR UPDATE`
	var (
		quantity uint32
		orderID  uint64
		ownerID  uint64
	)
	if err := tx.QueryRowContext(ctx, q, itemID).Scan(&quantity, &orderID, &ownerID); err != nil {
		if err == sql.ErrNoRows {
			return 0, ErrItemNotFound
		}
		return 0, err
	}
	if ownerID != userID {
		return 0, ErrForbidden
	}

	if quantity > 1 {
		if _, err := tx.ExecContext(ctx,
			"UPDATE order_items SET quantity = quantity - 1 WHERE id = ?", itemID); err != nil {
			return 0, err
		}
		if err := tx.Commit(); err != nil {
			return 0, err
		}
		committed = true
		return ItemDecremented, nil
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM order_items WHERE id = ?", itemID); err != nil {
		return 0, err
	}
	var remaining int
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM order_items WHERE order_id = ?", orderID).Scan(&remaining); err != nil {
		return 0, err
	}
	outcome := ItemRemoved
	if remaining == 0 {
		if _, err := tx.ExecContext(ctx, "DELETE FROM orders WHERE id = ?", orderID); err != nil {
			return 0, err
		}
		outcome = ItemRemovedOrderDeleted
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return outcome, nil
}

// FindByHash returns the order carrying the given public hash along
// with its items, with no ownership check: hashes are unguessable
// random tokens, so anyone holding one may read the order. Returns
// sql.ErrNoRows when the hash was never issued.
func (r *OrderRepo) FindByHash(ctx context.Context, hash string) (*model.Order, error) {
	var o model.Order
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, user_id, order_hash, status, created_at FROM orders WHERE order_hash=? LIMIT 1",
		hash).Scan(&o.ID, &o.UserID, &o.Hash, &o.Status, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	o.Items = []model.OrderItem{}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, order_id, pizza_name, quantity, price FROM order_items WHERE order_id=? ORDER BY id",
		o.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var it model.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.PizzaName, &it.Quantity, &it.Price); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &o, nil
}
