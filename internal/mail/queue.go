package mail

import (
	"context"
	"encoding/json"
	"log"
)

// Message represents a broker-agnostic payload delivered to subscribers.
type Message struct {
	ID         string
	Data       []byte
	Attributes map[string]string
}

// Handler processes a message. Return an error to signal a retry/nack.
type Handler func(ctx context.Context, msg Message) error

// Broker defines the broker operations the mail transport relies on.
type Broker interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
	Subscribe(ctx context.Context, channel string, handler Handler) error
	Close() error
}

// QueueSender publishes mail onto a broker channel for a worker to
// deliver out of band. Send returns once the broker has accepted the
// message; delivery errors are the worker's problem.
type QueueSender struct {
	broker  Broker
	channel string
}

func NewQueueSender(broker Broker, channel string) *QueueSender {
	return &QueueSender{broker: broker, channel: channel}
}

func (s *QueueSender) Send(ctx context.Context, m Mail) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	_, err = s.broker.Publish(ctx, s.channel, data, map[string]string{
		"content-type": "application/json",
	})
	return err
}

func (s *QueueSender) Close() error {
	return s.broker.Close()
}

// Consume drains the mail channel, handing each decoded Mail to deliver.
// It blocks until ctx is cancelled or the subscription fails. Messages
// that do not decode are dropped with a log line rather than redelivered
// forever.
func Consume(ctx context.Context, broker Broker, channel string, deliver func(context.Context, Mail) error) error {
	return broker.Subscribe(ctx, channel, func(ctx context.Context, msg Message) error {
		var m Mail
		if err := json.Unmarshal(msg.Data, &m); err != nil {
			log.Printf("mail worker: dropping undecodable message %s: %v", msg.ID, err)
			return nil
		}
		return deliver(ctx, m)
	})
}
