package bot

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/superpizzeria/order-service/internal/model"
	"github.com/superpizzeria/order-service/internal/queue"
)

// OrderFinder resolves a public order hash. Implemented by the order
// service; no ownership or authentication is involved on this path.
type OrderFinder interface {
	FindByHash(ctx context.Context, hash string) (*model.Order, error)
}

// ReplyPublisher sends a formatted reply back over the broker.
type ReplyPublisher interface {
	Publish(ctx context.Context, queueName string, v interface{}) error
}

// Consumer listens on the orders.lookup queue and answers each chat
// message with the matching order status or a not-found reply.
type Consumer struct {
	url     string
	orders  OrderFinder
	replies ReplyPublisher
	log     *zap.Logger
}

// NewConsumer wires a Consumer against the given broker URL.
func NewConsumer(url string, orders OrderFinder, replies ReplyPublisher, log *zap.Logger) *Consumer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Consumer{url: url, orders: orders, replies: replies, log: log}
}

// Run connects to RabbitMQ, declares the orders.lookup queue
// (durable) and consumes messages until ctx is cancelled. It keeps a
// reconnect loop with exponential backoff so a broker restart does
// not take the front end down; processing errors are logged and the
// offending message rejected without requeue.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		conn, err := amqp.Dial(c.url)
		if err != nil {
			c.log.Warn("bot consumer dial failed", zap.Error(err),
				zap.Duration("retry_in", backoff))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := c.consumeLoop(ctx, conn); err != nil {
			c.log.Warn("bot consume loop ended", zap.Error(err))
			_ = conn.Close()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(2 * time.Second):
			}
		}
	}
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.log.Warn("bot consumer set QoS failed", zap.Error(err))
	}
	if _, err := ch.QueueDeclare(queue.LookupRequestQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(queue.LookupRequestQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := c.handle(ctx, d.Body); err != nil {
				c.log.Warn("bot message rejected", zap.Error(err))
				_ = d.Nack(false, false) // do not requeue malformed input
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// handle answers one inbound chat message. Only malformed JSON is an
// error; unknown hashes produce a not-found reply and are Acked.
func (c *Consumer) handle(ctx context.Context, body []byte) error {
	var req queue.LookupRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}

	text := strings.TrimSpace(req.Text)
	var reply string
	switch {
	case text == "/start":
		reply = HelpText
	default:
		order, err := c.orders.FindByHash(ctx, text)
		switch {
		case err == nil:
			reply = FormatOrder(order)
		case errors.Is(err, sql.ErrNoRows):
			reply = NotFoundText
		default:
			return fmt.Errorf("lookup %q: %w", text, err)
		}
	}

	return c.replies.Publish(ctx, queue.LookupReplyQueue, queue.LookupReply{
		ChatID: req.ChatID,
		Text:   reply,
	})
}
