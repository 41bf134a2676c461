package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// Publisher sends ReservationEvents to a durable queue.  Each call
// opens its own connection so a broker outage never leaves the server
// holding a dead channel.  Failures are returned, not logged; the
// caller decides how loud they are.
type Publisher struct {
	url   string
	queue string
	log   logrus.FieldLogger
}

func NewPublisher(url, queue string, log logrus.FieldLogger) *Publisher {
	return &Publisher{url: url, queue: queue, log: log}
}

// defaultDialTimeout applies when ctx carries no deadline.
const defaultDialTimeout = 5 * time.Second

// dialTimeout is the time left on ctx, or defaultDialTimeout.
func dialTimeout(ctx context.Context, now time.Time) time.Duration {
	if dl, ok := ctx.Deadline(); ok {
		if left := dl.Sub(now); left > 0 {
			return left
		}
		return time.Millisecond
	}
	return defaultDialTimeout
}

// Publish marshals ev and publishes it as a persistent message on the
// default exchange with the queue name as routing key.  The dial is
// bounded by ctx's deadline.
func (p *Publisher) Publish(ctx context.Context, ev ReservationEvent) error {
	pub, err := newPublishing(ev, time.Now())
	if err != nil {
		return fmt.Errorf("rabbitmq: marshal event: %w", err)
	}

	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(dialTimeout(ctx, time.Now())),
	})
	if err != nil {
		return fmt.Errorf("rabbitmq: dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq: open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := declare(ch, p.queue); err != nil {
		return fmt.Errorf("rabbitmq: declare %s: %w", p.queue, err)
	}
	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, pub); err != nil {
		return fmt.Errorf("rabbitmq: publish: %w", err)
	}
	p.log.WithFields(logrus.Fields{
		"queue":          p.queue,
		"kind":           ev.Kind,
		"reservation_id": ev.ReservationID,
		"message_id":     pub.MessageId,
	}).Debug("rabbitmq: event published")
	return nil
}

func newPublishing(ev ReservationEvent, now time.Time) (amqp.Publishing, error) {
	body, err := json.Marshal(ev)
	if err != nil {
		return amqp.Publishing{}, err
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Type:         string(ev.Kind),
		Timestamp:    now.UTC(),
		Body:         body,
	}, nil
}

// declare makes sure the queue exists.  Durable so messages survive
// broker restarts.
func declare(ch *amqp.Channel, name string) error {
	_, err := ch.QueueDeclare(
		name,  // name
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,   // args
	)
	return err
}
