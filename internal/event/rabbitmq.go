package event

import (
	"fmt"
	"log/slog"
	"strconv"

	"survey-service/internal/config"

	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitMQConnection holds the RabbitMQ connection and channel
type RabbitMQConnection struct {
	Connection *amqp.Connection
	Channel    *amqp.Channel
}

// ServiceQueues are the durable queues this service reads from or writes to.
var ServiceQueues = []string{SurveyEventQueue, PushNotiQueue}

type queueDeclarer interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
}

// amqpURL builds the broker URL from config, escaping the credentials.
func amqpURL(cfg config.RabbitMQConfig) (string, error) {
	port, err := strconv.Atoi(cfg.Port)
	if err != nil {
		return "", fmt.Errorf("invalid RabbitMQ port %q: %w", cfg.Port, err)
	}
	uri := amqp.URI{
		Scheme:   "amqp",
		Host:     cfg.Host,
		Port:     port,
		Username: cfg.Username,
		Password: cfg.Password,
		Vhost:    "/",
	}
	return uri.String(), nil
}

func declareQueues(ch queueDeclarer, names []string) error {
	for _, name := range names {
		if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
			return fmt.Errorf("failed to declare queue %s: %w", name, err)
		}
	}
	return nil
}

// ConnectRabbitMQ dials the broker and declares the survey and notification
// queues before any consumer or publisher uses them.
func ConnectRabbitMQ(cfg config.RabbitMQConfig) (*RabbitMQConnection, error) {
	connStr, err := amqpURL(cfg)
	if err != nil {
		return nil, err
	}

	conn, err := amqp.Dial(connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ at %s:%s: %w", cfg.Host, cfg.Port, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declareQueues(ch, ServiceQueues); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	slog.Info("Connected to RabbitMQ", "host", cfg.Host, "port", cfg.Port, "queues", ServiceQueues)

	return &RabbitMQConnection{
		Connection: conn,
		Channel:    ch,
	}, nil
}

// Close closes the channel, then the connection.
func (r *RabbitMQConnection) Close() error {
	if r.Channel != nil {
		if err := r.Channel.Close(); err != nil {
			slog.Error("failed to close RabbitMQ channel", "error", err)
		}
	}
	if r.Connection != nil {
		if err := r.Connection.Close(); err != nil {
			slog.Error("failed to close RabbitMQ connection", "error", err)
			return err
		}
	}
	slog.Info("RabbitMQ connection closed")
	return nil
}
