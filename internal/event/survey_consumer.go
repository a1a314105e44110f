package event

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"survey-service/internal/analytics"
	"survey-service/internal/models"
	"survey-service/internal/repository"

	amqp "github.com/rabbitmq/amqp091-go"
)

type SurveyEventHandler interface {
	HandleSurveyEvent(ctx context.Context, event SurveyEvent) error
}

// SurveyConsumer reads survey change events and keeps derived state fresh.
type SurveyConsumer struct {
	conn              *RabbitMQConnection
	handler           SurveyEventHandler
	messagesProcessed atomic.Int64
	messagesFailed    atomic.Int64
	isRunning         atomic.Bool
}

func NewSurveyConsumer(conn *RabbitMQConnection, handler SurveyEventHandler) *SurveyConsumer {
	return &SurveyConsumer{
		conn:    conn,
		handler: handler,
	}
}

func (c *SurveyConsumer) Start(ctx context.Context) error {
	slog.Info("Starting survey consumer with auto-reconnect")

	c.isRunning.Store(true)

	go func() {
		defer c.isRunning.Store(false)

		for {
			select {
			case <-ctx.Done():
				slog.Info("Survey consumer stopped - context cancelled")
				return
			default:
			}

			err := c.startConsumerLoop(ctx)

			if ctx.Err() != nil {
				slog.Info("Survey consumer stopped - context done")
				return
			}

			if err != nil {
				slog.Error("Survey consumer loop failed, reconnecting in 5 seconds", "error", err)
				select {
				case <-time.After(5 * time.Second):
				case <-ctx.Done():
					return
				}

				if c.conn.Connection != nil && !c.conn.Connection.IsClosed() {
					ch, chErr := c.conn.Connection.Channel()
					if chErr == nil {
						if c.conn.Channel != nil {
							c.conn.Channel.Close()
						}
						c.conn.Channel = ch
						slog.Info("RabbitMQ channel recreated successfully")
					} else {
						slog.Error("Failed to recreate channel", "error", chErr)
					}
				} else {
					slog.Error("RabbitMQ connection is closed, waiting for reconnection")
				}
			}
		}
	}()

	return nil
}

func (c *SurveyConsumer) startConsumerLoop(ctx context.Context) error {
	err := c.conn.Channel.Qos(
		10,    // prefetch count
		0,     // prefetch size (0 = no limit)
		false, // global
	)
	if err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	_, err = c.conn.Channel.QueueDeclare(
		SurveyEventQueue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	msgs, err := c.conn.Channel.Consume(
		SurveyEventQueue,
		"",    // consumer tag (auto-generated)
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	slog.Info("Survey consumer started successfully", "queue", SurveyEventQueue, "prefetch_count", 10)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Consumer loop stopping - context cancelled")
			return nil
		case msg, ok := <-msgs:
			if !ok {
				slog.Warn("Survey consumer channel closed")
				return fmt.Errorf("message channel closed")
			}
			c.processMessage(ctx, msg)
		}
	}
}

// processMessage acks handled events, drops malformed ones and requeues
// events whose handling failed.
func (c *SurveyConsumer) processMessage(ctx context.Context, msg amqp.Delivery) {
	processCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	event, err := ParseSurveyEvent(msg.Body)
	if err != nil {
		slog.Error("dropping survey event", "error", err)
		c.messagesFailed.Add(1)
		msg.Nack(false, false)
		return
	}

	slog.Info("Received survey event", "event_id", event.ID, "type", event.Type, "survey_id", event.SurveyID)

	if err := c.handler.HandleSurveyEvent(processCtx, event); err != nil {
		slog.Error("failed to handle survey event", "event_id", event.ID, "error", err)
		c.messagesFailed.Add(1)
		msg.Nack(false, true)
		return
	}

	msg.Ack(false)
	c.messagesProcessed.Add(1)
}

func (c *SurveyConsumer) IsRunning() bool {
	return c.isRunning.Load()
}

func (c *SurveyConsumer) Stats() (processed, failed int64) {
	return c.messagesProcessed.Load(), c.messagesFailed.Load()
}

type CacheInvalidator interface {
	InvalidateCache(ctx context.Context) error
}

type SubmissionScorer interface {
	HandleSubmitted(ctx context.Context, surveyID string) (analytics.QualityReport, error)
}

// DefaultSurveyEventHandler drops cached analytics on every change and
// scores new submissions.
type DefaultSurveyEventHandler struct {
	cache  CacheInvalidator
	scorer SubmissionScorer
}

func NewDefaultSurveyEventHandler(cache CacheInvalidator, scorer SubmissionScorer) *DefaultSurveyEventHandler {
	return &DefaultSurveyEventHandler{
		cache:  cache,
		scorer: scorer,
	}
}

func (h *DefaultSurveyEventHandler) HandleSurveyEvent(ctx context.Context, event SurveyEvent) error {
	if err := h.cache.InvalidateCache(ctx); err != nil {
		return fmt.Errorf("failed to invalidate analytics cache: %w", err)
	}

	if event.Type != models.SurveySubmitted {
		return nil
	}

	report, err := h.scorer.HandleSubmitted(ctx, event.SurveyID)
	if errors.Is(err, repository.ErrSurveyNotFound) {
		// deleted before we got to it
		slog.Warn("submitted survey no longer exists", "survey_id", event.SurveyID)
		return nil
	}
	if err != nil {
		return err
	}
	slog.Info("submitted survey scored", "survey_id", event.SurveyID, "score", report.Score, "status", report.Status)
	return nil
}
