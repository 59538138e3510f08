package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// ReviewLogName is the file the consumer appends to inside its log directory.
const ReviewLogName = "review.log"

// Consumer drains both review queues into a line-per-message log file.
type Consumer struct {
	url    string
	logDir string
	log    zerolog.Logger
}

// NewConsumer returns a consumer that writes under logDir.
func NewConsumer(url, logDir string, log zerolog.Logger) *Consumer {
	return &Consumer{url: url, logDir: logDir, log: log.With().Str("component", "review-consumer").Logger()}
}

// Run connects to the broker and consumes until ctx is cancelled,
// reconnecting with exponential backoff capped at 30s.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.DialConfig(c.url, amqp.Config{Dial: amqp.DefaultDial(dialTimeout)})
		if err != nil {
			c.log.Warn().Err(err).Dur("retry_in", backoff).Msg("failed to dial broker")
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.log.Warn().Err(err).Msg("consume loop ended; reconnecting")
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.log.Warn().Err(err).Msg("set QoS failed")
	}

	type source struct {
		queue string
		msgs  <-chan amqp.Delivery
	}
	var sources []source
	for _, q := range []string{ApplicationReviewedQueue, RegistrationUpdatedQueue} {
		if _, err := ch.QueueDeclare(q, true, false, false, false, nil); err != nil {
			return fmt.Errorf("queue declare %s: %w", q, err)
		}
		msgs, err := ch.Consume(q, "", false, false, false, false, nil)
		if err != nil {
			return fmt.Errorf("queue consume %s: %w", q, err)
		}
		sources = append(sources, source{q, msgs})
	}

	for {
		var (
			d     amqp.Delivery
			ok    bool
			queue string
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok = <-sources[0].msgs:
			queue = sources[0].queue
		case d, ok = <-sources[1].msgs:
			queue = sources[1].queue
		}
		if !ok {
			return errors.New("deliveries channel closed")
		}
		if err := c.Handle(queue, d.Body); err != nil {
			c.log.Error().Err(err).Str("queue", queue).Msg("handle message failed")
			_ = d.Nack(false, false) // do not requeue to avoid tight loops
			continue
		}
		_ = d.Ack(false)
	}
}

// Handle formats one message and appends it to the review log.
func (c *Consumer) Handle(queue string, body []byte) error {
	line, err := FormatLine(queue, body)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(c.logDir, 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(c.logDir, ReviewLogName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

// FormatLine renders a message body as a single log line.
func FormatLine(queue string, body []byte) (string, error) {
	switch queue {
	case ApplicationReviewedQueue:
		var ev ApplicationReviewedEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return "", fmt.Errorf("unmarshal: %w", err)
		}
		return fmt.Sprintf("[%s] Application %s | application_id=%s | user_id=%s | sprint=%q | reviewed_by=%s\n",
			ev.ReviewedAt, ev.Status, ev.ApplicationID, ev.UserID, ev.SprintTitle, ev.ReviewedBy), nil
	case RegistrationUpdatedQueue:
		var ev RegistrationUpdatedEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return "", fmt.Errorf("unmarshal: %w", err)
		}
		return fmt.Sprintf("[%s] Registration %s | registration_id=%s | user_id=%s | event=%q | updated_by=%s\n",
			ev.UpdatedAt, ev.Status, ev.RegistrationID, ev.UserID, ev.EventTitle, ev.UpdatedBy), nil
	}
	return "", fmt.Errorf("unknown queue %q", queue)
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
