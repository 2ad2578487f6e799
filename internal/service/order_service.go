package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/superpizzeria/order-service/internal/model"
	"github.com/superpizzeria/order-service/internal/queue"
	"github.com/superpizzeria/order-service/internal/repository"
	"github.com/superpizzeria/order-service/internal/utils"
)

// ErrInvalidOrder is returned when an order request fails validation:
// no items, empty pizza name, zero quantity or negative price.
var ErrInvalidOrder = errors.New("invalid order")

// Messages reported by DecrementOrEraseItem, matching the three
// possible outcomes of the cascade.
const (
	MsgQuantityDecreased       = "quantity decreased"
	MsgItemRemoved             = "item removed"
	MsgItemRemovedOrderDeleted = "item removed and order deleted"
)

// OrderStore is the slice of the order repository used by OrderService.
type OrderStore interface {
	Create(ctx context.Context, userID uint64, hash string, items []model.OrderItem) (*model.Order, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.Order, error)
	DecrementOrErase(ctx context.Context, itemID, userID uint64) (repository.ItemMutation, error)
	FindByHash(ctx context.Context, hash string) (*model.Order, error)
}

// EventPublisher emits domain events after successful mutations.
// Failures are logged and ignored; events are best-effort.
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, ev queue.OrderCreatedEvent) error
}

// ItemRequest is one requested line of a new order.
type ItemRequest struct {
	PizzaName string  `json:"pizza_name"`
	Quantity  uint32  `json:"quantity"`
	Price     float64 `json:"price"`
}

// OrderService owns order creation, listing, the item decrement
// cascade and the public-by-hash lookup.
type OrderService struct {
	orders OrderStore
	events EventPublisher
	log    *zap.Logger
}

// NewOrderService wires an OrderService. events may be nil, in which
// case no order.created events are published.
func NewOrderService(orders OrderStore, events EventPublisher, log *zap.Logger) *OrderService {
	if log == nil {
		log = zap.NewNop()
	}
	return &OrderService{orders: orders, events: events, log: log}
}

// Create validates the requested items, mints a fresh order hash and
// persists the order with all items atomically. After a successful
// commit an order.created event is published best-effort.
func (s *OrderService) Create(ctx context.Context, userID uint64, items []ItemRequest) (*model.Order, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: at least one item is required", ErrInvalidOrder)
	}
	rows := make([]model.OrderItem, 0, len(items))
	for i, it := range items {
		if strings.TrimSpace(it.PizzaName) == "" {
			return nil, fmt.Errorf("%w: item %d has no pizza_name", ErrInvalidOrder, i)
		}
		if it.Quantity < 1 {
			return nil, fmt.Errorf("%w: item %d quantity must be >= 1", ErrInvalidOrder, i)
		}
		if it.Price < 0 {
			return nil, fmt.Errorf("%w: item %d price must be >= 0", ErrInvalidOrder, i)
		}
		rows = append(rows, model.OrderItem{
			PizzaName: it.PizzaName,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}

	hash, err := utils.NewOrderHash()
	if err != nil {
		return nil, err
	}
	order, err := s.orders.Create(ctx, userID, hash, rows)
	if err != nil {
		return nil, err
	}

	if s.events != nil {
		total := 0.0
		for _, it := range order.Items {
			total += it.Price * float64(it.Quantity)
		}
		ev := queue.OrderCreatedEvent{
			OrderID:   order.ID,
			OrderHash: order.Hash,
			UserID:    order.UserID,
			Status:    order.Status,
			ItemCount: len(order.Items),
			Total:     total,
			CreatedAt: order.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := s.events.PublishOrderCreated(ctx, ev); err != nil {
			s.log.Warn("publish order.created failed",
				zap.Uint64("order_id", order.ID), zap.Error(err))
		}
	}
	return order, nil
}

// ListByUser returns the caller's orders, newest first, with items.
func (s *OrderService) ListByUser(ctx context.Context, userID uint64) ([]model.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

// DecrementOrEraseItem applies the decrement cascade to one item and
// maps the outcome to its API message. Repository sentinels
// (ErrItemNotFound, ErrForbidden) pass through untouched.
func (s *OrderService) DecrementOrEraseItem(ctx context.Context, itemID, userID uint64) (string, error) {
	outcome, err := s.orders.DecrementOrErase(ctx, itemID, userID)
	if err != nil {
		return "", err
	}
	switch outcome {
	case repository.ItemDecremented:
		return MsgQuantityDecreased, nil
	case repository.ItemRemovedOrderDeleted:
		return MsgItemRemovedOrderDeleted, nil
	default:
		return MsgItemRemoved, nil
	}
}

// FindByHash resolves a public order hash with no ownership check.
func (s *OrderService) FindByHash(ctx context.Context, hash string) (*model.Order, error) {
	return s.orders.FindByHash(ctx, hash)
}
