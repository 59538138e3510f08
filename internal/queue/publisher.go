package queue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const dialTimeout = 3 * time.Second

// Publisher sends review notifications to durable queues.  It dials per
// publish, which keeps it stateless; review actions are rare.  Errors are
// logged and returned so callers may ignore them.
type Publisher struct {
	url string
	log zerolog.Logger
}

// NewPublisher returns a publisher for the broker at url.
func NewPublisher(url string, log zerolog.Logger) *Publisher {
	return &Publisher{url: url, log: log.With().Str("component", "publisher").Logger()}
}

// PublishApplicationReviewed publishes to the application.reviewed queue.
func (p *Publisher) PublishApplicationReviewed(ctx context.Context, ev ApplicationReviewedEvent) error {
	return p.publish(ctx, ApplicationReviewedQueue, ev)
}

// PublishRegistrationUpdated publishes to the registration.updated queue.
func (p *Publisher) PublishRegistrationUpdated(ctx context.Context, ev RegistrationUpdatedEvent) error {
	return p.publish(ctx, RegistrationUpdatedQueue, ev)
}

func (p *Publisher) publish(ctx context.Context, queue string, ev any) error {
	body, err := json.Marshal(ev)
	if err != nil {
		p.log.Error().Err(err).Str("queue", queue).Msg("marshal event failed")
		return err
	}

	conn, err := amqp.DialConfig(p.url, amqp.Config{Dial: amqp.DefaultDial(dialTimeout)})
	if err != nil {
		p.log.Warn().Err(err).Str("queue", queue).Msg("dial failed")
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.log.Warn().Err(err).Msg("channel open failed")
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		p.log.Warn().Err(err).Str("queue", queue).Msg("queue declare failed")
		return err
	}

	err = ch.PublishWithContext(ctx, "", queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		p.log.Warn().Err(err).Str("queue", queue).Msg("publish failed")
		return err
	}
	p.log.Debug().Str("queue", queue).Msg("event published")
	return nil
}
