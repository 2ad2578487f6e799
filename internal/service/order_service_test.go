package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/superpizzeria/order-service/internal/model"
	"github.com/superpizzeria/order-service/internal/queue"
	"github.com/superpizzeria/order-service/internal/repository"
)

type mockOrderStore struct{ mock.Mock }

func (m *mockOrderStore) Create(ctx context.Context, userID uint64, hash string, items []model.OrderItem) (*model.Order, error) {
	args := m.Called(ctx, userID, hash, items)
	if o := args.Get(0); o != nil {
		return o.(*model.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockOrderStore) ListByUser(ctx context.Context, userID uint64) ([]model.Order, error) {
	args := m.Called(ctx, userID)
	if o := args.Get(0); o != nil {
		return o.([]model.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockOrderStore) DecrementOrErase(ctx context.Context, itemID, userID uint64) (repository.ItemMutation, error) {
	args := m.Called(ctx, itemID, userID)
	return args.Get(0).(repository.ItemMutation), args.Error(1)
}

func (m *mockOrderStore) FindByHash(ctx context.Context, hash string) (*model.Order, error) {
	args := m.Called(ctx, hash)
	if o := args.Get(0); o != nil {
		return o.(*model.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) PublishOrderCreated(ctx context.Context, ev queue.OrderCreatedEvent) error {
	return m.Called(ctx, ev).Error(0)
}

func TestCreateRejectsEmptyOrder(t *testing.T) {
	store := new(mockOrderStore)
	svc := NewOrderService(store, nil, nil)

	_, err := svc.Create(context.Background(), 1, nil)
	assert.ErrorIs(t, err, ErrInvalidOrder)
	store.AssertNotCalled(t, "Create")
}

func TestCreateValidation(t *testing.T) {
	cases := []struct {
		name string
		item ItemRequest
	}{
		{"empty pizza name", ItemRequest{PizzaName: "  ", Quantity: 1, Price: 350}},
		{"zero quantity", ItemRequest{PizzaName: "Margherita", Quantity: 0, Price: 350}},
		{"negative price", ItemRequest{PizzaName: "Margherita", Quantity: 1, Price: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := new(mockOrderStore)
			svc := NewOrderService(store, nil, nil)

			_, err := svc.Create(context.Background(), 1, []ItemRequest{tc.item})
			assert.ErrorIs(t, err, ErrInvalidOrder)
			store.AssertNotCalled(t, "Create")
		})
	}
}

func TestCreatePersistsAndPublishes(t *testing.T) {
	store := new(mockOrderStore)
	events := new(mockPublisher)
	svc := NewOrderService(store, events, nil)

	created := &model.Order{
		ID:     11,
		UserID: 1,
		Hash:   "aabbccdd",
		Status: model.OrderStatusCreated,
		Items: []model.OrderItem{
			{ID: 21, OrderID: 11, PizzaName: "Margherita", Quantity: 2, Price: 350},
			{ID: 22, OrderID: 11, PizzaName: "Pepperoni", Quantity: 1, Price: 450},
		},
	}
	store.On("Create", mock.Anything, uint64(1), mock.MatchedBy(func(h string) bool {
		return len(h) == 32
	}), mock.AnythingOfType("[]model.OrderItem")).Return(created, nil)

	events.On("PublishOrderCreated", mock.Anything, mock.MatchedBy(func(ev queue.OrderCreatedEvent) bool {
		return ev.OrderID == 11 && ev.ItemCount == 2 && ev.Total == 2*350+450
	})).Return(nil)

	got, err := svc.Create(context.Background(), 1, []ItemRequest{
		{PizzaName: "Margherita", Quantity: 2, Price: 350},
		{PizzaName: "Pepperoni", Quantity: 1, Price: 450},
	})
	require.NoError(t, err)
	assert.Equal(t, created, got)
	events.AssertExpectations(t)
}

func TestCreateSurvivesPublishFailure(t *testing.T) {
	store := new(mockOrderStore)
	events := new(mockPublisher)
	svc := NewOrderService(store, events, nil)

	created := &model.Order{ID: 11, UserID: 1, Hash: "aabbccdd", Status: model.OrderStatusCreated,
		Items: []model.OrderItem{{PizzaName: "Margherita", Quantity: 1, Price: 350}}}
	store.On("Create", mock.Anything, uint64(1), mock.Anything, mock.Anything).Return(created, nil)
	events.On("PublishOrderCreated", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	got, err := svc.Create(context.Background(), 1, []ItemRequest{{PizzaName: "Margherita", Quantity: 1, Price: 350}})
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestDecrementOrEraseItemMessages(t *testing.T) {
	cases := []struct {
		outcome repository.ItemMutation
		message string
	}{
		{repository.ItemDecremented, MsgQuantityDecreased},
		{repository.ItemRemoved, MsgItemRemoved},
		{repository.ItemRemovedOrderDeleted, MsgItemRemovedOrderDeleted},
	}
	for _, tc := range cases {
		store := new(mockOrderStore)
		svc := NewOrderService(store, nil, nil)
		store.On("DecrementOrErase", mock.Anything, uint64(5), uint64(1)).Return(tc.outcome, nil)

		msg, err := svc.DecrementOrEraseItem(context.Background(), 5, 1)
		require.NoError(t, err)
		assert.Equal(t, tc.message, msg)
	}
}

func TestDecrementOrEraseItemErrors(t *testing.T) {
	for _, sentinel := range []error{repository.ErrItemNotFound, repository.ErrForbidden} {
		store := new(mockOrderStore)
		svc := NewOrderService(store, nil, nil)
		store.On("DecrementOrErase", mock.Anything, uint64(5), uint64(1)).
			Return(repository.ItemMutation(0), sentinel)

		_, err := svc.DecrementOrEraseItem(context.Background(), 5, 1)
		assert.ErrorIs(t, err, sentinel)
	}
}

func TestFindByHashPassesThrough(t *testing.T) {
	store := new(mockOrderStore)
	svc := NewOrderService(store, nil, nil)
	store.On("FindByHash", mock.Anything, "deadbeef").Return(nil, sql.ErrNoRows)

	_, err := svc.FindByHash(context.Background(), "deadbeef")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
