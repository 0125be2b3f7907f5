package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const publishTimeout = 10 * time.Second

// Channel is the subset of *amqp.Channel the publisher uses.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPPublisher publishes order events as persistent JSON messages to a
// durable topic exchange. Routing keys are order.created.<action> and
// order.status.<status>.
type AMQPPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	channel  Channel
	exchange string
	logger   zerolog.Logger
}

// DialAMQP connects to RabbitMQ, declares the exchange and returns a
// publisher over a dedicated channel. Dialing is retried with a linear backoff.
func DialAMQP(ctx context.Context, url, exchange string, maxRetries int, logger zerolog.Logger) (*AMQPPublisher, error) {
	logger = logger.With().Str("component", "amqp-publisher").Logger()
	if maxRetries < 1 {
		maxRetries = 1
	}

	var (
		conn *amqp.Connection
		ch   *amqp.Channel
		err  error
	)
	for i := 0; i < maxRetries; i++ {
		conn, ch, err = openChannel(url, exchange)
		if err == nil {
			break
		}
		if i < maxRetries-1 {
			wait := time.Duration(i+1) * 2 * time.Second
			logger.Warn().Err(err).Dur("retry_in", wait).Msg("failed to connect to RabbitMQ, retrying")
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ after %d attempts: %w", maxRetries, err)
	}

	logger.Info().Str("exchange", exchange).Msg("RabbitMQ publisher initialised")

	p := NewAMQPPublisher(ch, exchange, logger)
	p.conn = conn
	return p, nil
}

func openChannel(url, exchange string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("failed to open channel: %w", err)
	}
	err = ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}
	return conn, ch, nil
}

// NewAMQPPublisher creates a publisher over an already open channel.
func NewAMQPPublisher(ch Channel, exchange string, logger zerolog.Logger) *AMQPPublisher {
	return &AMQPPublisher{
		channel:  ch,
		exchange: exchange,
		logger:   logger,
	}
}

// NotifyNewOrder publishes the event with routing key order.created.<action>.
func (p *AMQPPublisher) NotifyNewOrder(ctx context.Context, event NewOrderEvent) error {
	return p.publish(ctx, "order.created."+string(event.Action), event)
}

// NotifyStatusChanged publishes the event with routing key order.status.<status>.
func (p *AMQPPublisher) NotifyStatusChanged(ctx context.Context, event StatusChangedEvent) error {
	return p.publish(ctx, "order.status."+string(event.To), event)
}

func (p *AMQPPublisher) publish(ctx context.Context, routingKey string, event any) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	// amqp channels are not safe for concurrent publishing.
	p.mu.Lock()
	err = p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, msg)
	p.mu.Unlock()
	if err != nil {
		p.logger.Error().
			Err(err).
			Str("exchange", p.exchange).
			Str("routing_key", routingKey).
			Msg("failed to publish message")
		return fmt.Errorf("failed to publish message: %w", err)
	}

	p.logger.Debug().
		Str("exchange", p.exchange).
		Str("routing_key", routingKey).
		Str("message_id", msg.MessageId).
		Int("message_size", len(body)).
		Msg("message published")

	return nil
}

// Close closes the channel and the connection opened by DialAMQP.
func (p *AMQPPublisher) Close() error {
	if c, ok := p.channel.(*amqp.Channel); ok {
		c.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
