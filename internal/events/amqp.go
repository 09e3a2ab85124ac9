package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// DefaultQueue receives every booking event.
const DefaultQueue = "booking.events"

// AMQPPublisher publishes persistent JSON messages to a durable queue on the
// default exchange. The connection is opened once and reopened after the
// broker drops it.
type AMQPPublisher struct {
	url    string
	queue  string
	logger *zap.Logger

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewAMQPPublisher(url, queue string, logger *zap.Logger) (*AMQPPublisher, error) {
	if queue == "" {
		queue = DefaultQueue
	}
	p := &AMQPPublisher{url: url, queue: queue, logger: logger}
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

// connect must be called with mu held, or before p is shared.
func (p *AMQPPublisher) connect() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("rabbitmq: dial failed: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("rabbitmq: channel open failed: %w", err)
	}
	if _, err := ch.QueueDeclare(
		p.queue, // name
		true,    // durable
		false,   // autoDelete
		false,   // exclusive
		false,   // noWait
		nil,     // args
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("rabbitmq: queue declare failed: %w", err)
	}
	p.conn, p.ch = conn, ch
	return nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, event BookingEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("rabbitmq: marshal event failed: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil || p.conn.IsClosed() {
		if err := p.connect(); err != nil {
			return err
		}
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         string(event.Type),
		Body:         body,
	}
	if err := p.ch.PublishWithContext(ctx, "", p.queue, false, false, pub); err != nil {
		return fmt.Errorf("rabbitmq: publish failed: %w", err)
	}

	p.logger.Debug("booking event published",
		zap.String("type", string(event.Type)),
		zap.String("booking_id", event.BookingID))
	return nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
