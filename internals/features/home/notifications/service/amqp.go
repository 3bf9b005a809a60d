package service

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// publisher is the subset of *amqp.Channel the dispatcher needs.
type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPDispatcher publishes notifications to a durable queue for the outbound
// mail/chat workers.
type AMQPDispatcher struct {
	conn    *amqp.Connection
	channel publisher
	queue   string
}

// DialAMQP connects and declares the queue.
func DialAMQP(url, queue string, log zerolog.Logger) (*AMQPDispatcher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	q, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp declare %s: %w", queue, err)
	}
	log.Info().Str("queue", q.Name).Msg("connected to RabbitMQ")
	return &AMQPDispatcher{conn: conn, channel: ch, queue: q.Name}, nil
}

func (d *AMQPDispatcher) Dispatch(ctx context.Context, n Notification) error {
	body, err := sonic.Marshal(n)
	if err != nil {
		return err
	}
	return d.channel.PublishWithContext(ctx,
		"",      // exchange
		d.queue, // routing key
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Type:         n.Kind,
			Timestamp:    n.SentAt,
			Body:         body,
		},
	)
}

func (d *AMQPDispatcher) Close() error {
	if d == nil || d.conn == nil {
		return nil
	}
	return d.conn.Close()
}
