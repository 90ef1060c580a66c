package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/content-distributor/internal/config"
	"github.com/content-distributor/internal/models"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// ActionRecorded is the only action emitted today
const ActionRecorded = "recorded"

// RabbitMQ mirrors recorded submissions to a durable direct exchange
type RabbitMQ struct {
	conn       *amqp.Connection
	channel    *amqp.Channel
	exchange   string
	routingKey string
	log        zerolog.Logger
}

// SubmissionMessage is the published message body
type SubmissionMessage struct {
	Action     string            `json:"action"`
	Submission models.Submission `json:"submission"`
	Timestamp  time.Time         `json:"timestamp"`
}

// NewRabbitMQ connects and declares the exchange, queue and binding
func NewRabbitMQ(cfg config.RabbitMQConfig, log zerolog.Logger) (*RabbitMQ, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	cleanup := func() {
		ch.Close()
		conn.Close()
	}

	if err := ch.ExchangeDeclare(cfg.Exchange, "direct", true, false, false, false, nil); err != nil {
		cleanup()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	q, err := ch.QueueDeclare(cfg.QueueName, true, false, false, false, nil)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("declare queue: %w", err)
	}

	if err := ch.QueueBind(q.Name, cfg.RoutingKey, cfg.Exchange, false, nil); err != nil {
		cleanup()
		return nil, fmt.Errorf("bind queue: %w", err)
	}

	log = log.With().Str("component", "rabbitmq").Logger()
	log.Info().
		Str("exchange", cfg.Exchange).
		Str("queue", cfg.QueueName).
		Str("routing_key", cfg.RoutingKey).
		Msg("Connected to RabbitMQ")

	return &RabbitMQ{
		conn:       conn,
		channel:    ch,
		exchange:   cfg.Exchange,
		routingKey: cfg.RoutingKey,
		log:        log,
	}, nil
}

// PublishSubmission publishes one recorded submission as a persistent JSON message
func (r *RabbitMQ) PublishSubmission(ctx context.Context, submission *models.Submission) error {
	msg := SubmissionMessage{
		Action:     ActionRecorded,
		Submission: *submission,
		Timestamp:  time.Now().UTC(),
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	err = r.channel.PublishWithContext(
		ctx,
		r.exchange,
		r.routingKey,
		false,
		false,
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			MessageId:    submission.ID,
			Body:         body,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	r.log.Debug().
		Str("submission_id", submission.ID).
		Str("status", string(submission.Status)).
		Msg("Published submission")

	return nil
}

// Close releases the channel and connection
func (r *RabbitMQ) Close() error {
	if r.channel != nil {
		r.channel.Close()
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}
