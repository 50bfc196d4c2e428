// Package service holds adapters from the booking engine to outside
// systems.
package service

import (
    "context"
    "time"

    "github.com/goccy/go-json"
    amqp "github.com/rabbitmq/amqp091-go"
    "github.com/sirupsen/logrus"

    "github.com/iliyamo/hotel-reservation/internal/model"
    "github.com/iliyamo/hotel-reservation/internal/queue"
)

// Publisher sends booking confirmations to RabbitMQ.  Every call dials,
// publishes one persistent message and closes, so a broker outage only
// affects the calls made during it.
type Publisher struct {
    url string
    log logrus.FieldLogger
    now func() time.Time
}

// NewPublisher returns a publisher for the broker at url.
func NewPublisher(url string, log logrus.FieldLogger) *Publisher {
    return &Publisher{url: url, log: log.WithField("component", "rabbitmq"), now: time.Now}
}

// SendBookingConfirmation publishes a BookingConfirmedEvent for b to the
// booking.confirmed queue.  Errors are logged and returned; the engine
// treats them as non-fatal.
func (p *Publisher) SendBookingConfirmation(ctx context.Context, b *model.BookingDetail) error {
    return p.Publish(ctx, queue.NewBookingConfirmedEvent(b, p.now()))
}

// Publish sends ev as a persistent JSON message.
func (p *Publisher) Publish(ctx context.Context, ev queue.BookingConfirmedEvent) error {
    log := p.log.WithField("reference", ev.Reference)

    body, err := json.Marshal(ev)
    if err != nil {
        log.WithError(err).Error("marshal event failed")
        return err
    }

    conn, err := amqp.DialConfig(p.url, amqp.Config{Dial: amqp.DefaultDial(3 * time.Second)})
    if err != nil {
        log.WithError(err).Warn("dial failed")
        return err
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        log.WithError(err).Warn("channel open failed")
        return err
    }
    defer func() { _ = ch.Close() }()

    if _, err := ch.QueueDeclare(
        queue.BookingQueueName, // name
        true,                   // durable
        false,                  // autoDelete
        false,                  // exclusive
        false,                  // noWait
        nil,                    // args
    ); err != nil {
        log.WithError(err).Warn("queue declare failed")
        return err
    }

    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        Timestamp:    p.now().UTC(),
        Body:         body,
    }
    if err := ch.PublishWithContext(ctx, "", queue.BookingQueueName, false, false, pub); err != nil {
        log.WithError(err).Warn("publish failed")
        return err
    }
    log.Debug("booking confirmation published")
    return nil
}
