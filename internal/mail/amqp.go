package mail

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"yamdb/internal/logging"

	amqp "github.com/rabbitmq/amqp091-go"
)

// publisher is the subset of *amqp.Channel the mailer needs.
type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPMailer publishes messages as persistent JSON to a durable queue.
// A channel is not safe for concurrent publishes, so Send holds mu.
type AMQPMailer struct {
	mu    sync.Mutex
	conn  *amqp.Connection
	ch    publisher
	queue string
}

func DialAMQP(url, queue string) (*AMQPMailer, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	// durable so queued mail survives broker restarts
	if _, err := ch.QueueDeclare(
		queue, // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	logging.Info().Str("queue", queue).Msg("Connected to RabbitMQ mail queue")
	return &AMQPMailer{conn: conn, ch: ch, queue: queue}, nil
}

func (m *AMQPMailer) Send(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal mail: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ch.PublishWithContext(ctx, "", m.queue, false, false, pub); err != nil {
		return fmt.Errorf("publish mail: %w", err)
	}
	return nil
}

func (m *AMQPMailer) Close() error {
	if c, ok := m.ch.(*amqp.Channel); ok && c != nil {
		c.Close()
	}
	if m.conn != nil {
		return m.conn.Close()
	}
	return nil
}
