package events

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// DefaultExchange is used when no exchange name is configured.
const DefaultExchange = "ledger.events"

const publishTimeout = 5 * time.Second

// amqpChannel is the part of *amqp091.Channel the forwarder needs.
type amqpChannel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp091.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// AMQPForwarder republishes bus events to a durable RabbitMQ topic
// exchange. Routing keys are "ledger.<topic>.<action>".
type AMQPForwarder struct {
	conn        io.Closer
	channel     amqpChannel
	unsubscribe func()
	exchange    string
}

// DialAMQP connects to the broker and declares the exchange.
func DialAMQP(url, exchange string) (*AMQPForwarder, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	f, err := newAMQPForwarder(channel, conn, exchange)
	if err != nil {
		_ = channel.Close()
		_ = conn.Close()
		return nil, err
	}
	return f, nil
}

func newAMQPForwarder(channel amqpChannel, conn io.Closer, exchange string) (*AMQPForwarder, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}

	err := channel.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &AMQPForwarder{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
	}, nil
}

// Attach subscribes the forwarder to every topic on bus.
func (f *AMQPForwarder) Attach(bus *Bus) {
	if f.unsubscribe != nil {
		f.unsubscribe()
	}
	f.unsubscribe = bus.SubscribeAll(f.Forward)
}

// Forward publishes one event. Failures are logged; the caller's mutation
// has already succeeded and is not affected.
func (f *AMQPForwarder) Forward(ctx context.Context, e Event) {
	body, err := json.Marshal(e)
	if err != nil {
		slog.ErrorContext(ctx, "failed to marshal event", "error", err, "topic", e.Topic)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	key := RoutingKey(e)
	err = f.channel.PublishWithContext(
		ctx,
		f.exchange, // exchange
		key,        // routing key
		false,      // mandatory
		false,      // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    e.OccurredAt,
			Body:         body,
		},
	)
	if err != nil {
		slog.WarnContext(ctx, "failed to forward event",
			"error", err,
			"exchange", f.exchange,
			"routing_key", key)
		return
	}

	slog.DebugContext(ctx, "forwarded event", "exchange", f.exchange, "routing_key", key, "id", e.ID)
}

// Close detaches from the bus and closes the broker connection.
func (f *AMQPForwarder) Close() error {
	if f.unsubscribe != nil {
		f.unsubscribe()
		f.unsubscribe = nil
	}
	if f.channel != nil {
		_ = f.channel.Close()
	}
	if f.conn != nil {
		return f.conn.Close()
	}
	return nil
}

// RoutingKey returns the AMQP routing key for e.
func RoutingKey(e Event) string {
	return fmt.Sprintf("ledger.%s.%s", e.Topic, e.Action)
}
