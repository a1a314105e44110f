package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// amqpPublisher is the part of *amqp.Channel the publisher needs.
type amqpPublisher interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// NotificationPublisher publishes notification events to RabbitMQ
type NotificationPublisher struct {
	conn              *RabbitMQConnection
	ch                amqpPublisher
	messagesPublished atomic.Int64
	messagesFailed    atomic.Int64
}

func NewNotificationPublisher(conn *RabbitMQConnection) *NotificationPublisher {
	return &NotificationPublisher{conn: conn}
}

// channel reads the connection's current channel, which the consumer may
// have recreated.
func (p *NotificationPublisher) channel() amqpPublisher {
	if p.ch != nil {
		return p.ch
	}
	if p.conn == nil || p.conn.Channel == nil {
		return nil
	}
	return p.conn.Channel
}

// PublishNotification publishes a notification event to the push_noti_events queue
func (p *NotificationPublisher) PublishNotification(ctx context.Context, event NotificationEventPushModel) error {
	ch := p.channel()
	if ch == nil {
		p.messagesFailed.Add(1)
		return fmt.Errorf("rabbitmq channel is not open")
	}

	_, err := ch.QueueDeclare(
		PushNotiQueue, // queue name
		true,          // durable
		false,         // delete when unused
		false,         // exclusive
		false,         // no-wait
		nil,           // arguments
	)
	if err != nil {
		p.messagesFailed.Add(1)
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		p.messagesFailed.Add(1)
		return fmt.Errorf("failed to marshal notification event: %w", err)
	}

	err = ch.PublishWithContext(
		ctx,
		"",            // exchange
		PushNotiQueue, // routing key (queue name)
		false,         // mandatory
		false,         // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		p.messagesFailed.Add(1)
		return fmt.Errorf("failed to publish notification event: %w", err)
	}

	p.messagesPublished.Add(1)
	slog.Info("Notification event published",
		"queue", PushNotiQueue,
		"title", event.Title,
		"user_count", len(event.LstUserIds),
	)
	return nil
}

func (p *NotificationPublisher) Stats() (published, failed int64) {
	return p.messagesPublished.Load(), p.messagesFailed.Load()
}
