package bot

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
)

type mockFinder struct{ mock.Mock }

func (m *mockFinder) FindByHash(ctx context.Context, hash string) (*model.Order, error) {
	args := m.Called(ctx, hash)
	if o := args.Get(0); o != nil {
		return o.(*model.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockReplies struct{ mock.Mock }

func (m *mockReplies) Publish(ctx context.Context, queueName string, v interface{}) error {
	return m.Called(ctx, queueName, v).Error(0)
}

func TestHandleStartCommand(t *testing.T) {
	finder := new(mockFinder)
	replies := new(mockReplies)
	c := NewConsumer("amqp://unused", finder, replies, nil)

	replies.On("Publish", mock.Anything, queue.LookupReplyQueue,
		queue.LookupReply{ChatID: 99, Text: HelpText}).Return(nil)

	err := c.handle(context.Background(), []byte(`{"chat_id":99,"text":"/start"}`))
	require.NoError(t, err)
	replies.AssertExpectations(t)
	finder.AssertNotCalled(t, "FindByHash")
}

func TestHandleKnownHash(t *testing.T) {
	finder := new(mockFinder)
	replies := new(mockReplies)
	c := NewConsumer("amqp://unused", finder, replies, nil)

	order := &model.Order{ID: 3, Status: model.OrderStatusCreated,
		Items: []model.OrderItem{{PizzaName: "Pepperoni", Quantity: 2}}}
	finder.On("FindByHash", mock.Anything, "deadbeef").Return(order, nil)
	replies.On("Publish", mock.Anything, queue.LookupReplyQueue,
		queue.LookupReply{ChatID: 99, Text: FormatOrder(order)}).Return(nil)

	// The hash is trimmed before lookup, so padded input still resolves.
	err := c.handle(context.Background(), []byte(`{"chat_id":99,"text":"  deadbeef "}`))
	require.NoError(t, err)
	replies.AssertExpectations(t)
}

func TestHandleUnknownHash(t *testing.T) {
	finder := new(mockFinder)
	replies := new(mockReplies)
	c := NewConsumer("amqp://unused", finder, replies, nil)

	finder.On("FindByHash", mock.Anything, "nosuch").Return(nil, sql.ErrNoRows)
	replies.On("Publish", mock.Anything, queue.LookupReplyQueue,
		queue.LookupReply{ChatID: 99, Text: NotFoundText}).Return(nil)

	err := c.handle(context.Background(), []byte(`{"chat_id":99,"text":"nosuch"}`))
	require.NoError(t, err)
	replies.AssertExpectations(t)
}

func TestHandleMalformedJSON(t *testing.T) {
	finder := new(mockFinder)
	replies := new(mockReplies)
	c := NewConsumer("amqp://unused", finder, replies, nil)

	err := c.handle(context.Background(), []byte(`{"chat_id":`))
	assert.Error(t, err)
	replies.AssertNotCalled(t, "Publish")
}

func TestHandleLookupFailurePropagates(t *testing.T) {
	finder := new(mockFinder)
	replies := new(mockReplies)
	c := NewConsumer("amqp://unused", finder, replies, nil)

	finder.On("FindByHash", mock.Anything, "deadbeef").Return(nil, errors.New("db down"))

	err := c.handle(context.Background(), []byte(`{"chat_id":99,"text":"deadbeef"}`))
	assert.Error(t, err)
	replies.AssertNotCalled(t, "Publish")
}

func TestFormatOrder(t *testing.T) {
	o := &model.Order{
		ID:     12,
		Status: model.OrderStatusCreated,
		Items: []model.OrderItem{
			{PizzaName: "Margherita", Quantity: 1},
			{PizzaName: "Four Cheese", Quantity: 3},
		},
	}
	got := FormatOrder(o)
	assert.Equal(t, "Order ID: 12\nStatus: created\nItems:\n  - Margherita, quantity: 1\n  - Four Cheese, quantity: 3", got)
}
