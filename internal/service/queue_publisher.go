package service

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/superpizzeria/order-service/internal/queue"
)

// RabbitPublisher publishes domain events to RabbitMQ. Each publish
// opens a short-lived connection; the volume of outbound events here
// does not justify connection pooling. Errors are logged and returned
// so callers can ignore failures without interrupting the request
// flow.
type RabbitPublisher struct {
	url string
	log *zap.Logger
}

// NewRabbitPublisher returns a publisher bound to the given broker URL.
func NewRabbitPublisher(url string, log *zap.Logger) *RabbitPublisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &RabbitPublisher{url: url, log: log}
}

// PublishOrderCreated emits an OrderCreatedEvent to the order.created
// queue.
func (p *RabbitPublisher) PublishOrderCreated(ctx context.Context, ev queue.OrderCreatedEvent) error {
	return p.Publish(ctx, queue.OrderCreatedQueue, ev)
}

// Publish marshals v as JSON and sends it to the named durable queue
// on the default exchange. Messages are marked persistent so they
// survive a broker restart.
func (p *RabbitPublisher) Publish(ctx context.Context, queueName string, v interface{}) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.log.Warn("rabbitmq dial failed", zap.Error(err))
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.log.Warn("rabbitmq channel open failed", zap.Error(err))
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare so publisher and consumer can start in any order.
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		p.log.Warn("rabbitmq queue declare failed", zap.String("queue", queueName), zap.Error(err))
		return err
	}

	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queueName, false, false, pub); err != nil {
		p.log.Warn("rabbitmq publish failed", zap.String("queue", queueName), zap.Error(err))
		return err
	}
	return nil
}
