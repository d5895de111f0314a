package push

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

const exchangeName = "portal"

// Broker is a RabbitMQ-backed push transport. Every portal channel maps to a
// routing key on one direct exchange; each subscription gets its own queue.
type Broker struct {
	conn *amqp.Connection
}

func NewBroker(url string) (*Broker, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	return &Broker{conn}, nil
}

func (b *Broker) InitializeExchange() error {
	ch, err := b.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open a channel for creating exchange: %w", err)
	}
	defer ch.Close()

	err = ch.ExchangeDeclare(
		exchangeName,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare an exchange: %w", err)
	}
	return nil
}

func (b *Broker) Close() error {
	return b.conn.Close()
}

// Subscribe binds a fresh queue to the channel's routing key and consumes
// envelopes from it. Envelopes whose event name differs from event are
// dropped; handlers run sequentially on the consuming goroutine.
func (b *Broker) Subscribe(ctx context.Context, channel, event string, h Handler) (Unsubscribe, error) {
	ch, err := b.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}
	queue, err := ch.QueueDeclare(
		"",
		false,
		true,
		true,
		false,
		nil,
	)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to declare a queue: %w", err)
	}
	err = ch.QueueBind(
		queue.Name,
		channel,
		exchangeName,
		false,
		nil,
	)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to bind a queue: %w", err)
	}

	msgs, err := ch.ConsumeWithContext(
		ctx,
		queue.Name,
		"",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to register a consumer: %w", err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var env Envelope
				if err := json.Unmarshal(msg.Body, &env); err != nil {
					log.Printf("unable to unmarshal push envelope on %s: %v", channel, err)
					continue
				}
				if env.Event != event {
					continue
				}
				h(env.Data)
			}
		}
	}()

	var once sync.Once
	unsubscribe := func() error {
		var err error
		once.Do(func() {
			if uerr := ch.QueueUnbind(queue.Name, channel, exchangeName, nil); uerr != nil {
				err = fmt.Errorf("failed to unbind a queue: %w", uerr)
				return
			}
			if cerr := ch.Close(); cerr != nil {
				err = fmt.Errorf("failed to close a channel: %w", cerr)
			}
		})
		return err
	}
	return unsubscribe, nil
}

// Publish wraps data in an Envelope and sends it on the channel's routing key.
func (b *Broker) Publish(ctx context.Context, channel, event string, data interface{}) error {
	ch, err := b.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open a channel: %w", err)
	}
	defer ch.Close()

	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}
	body, err := json.Marshal(Envelope{Event: event, Data: payload})
	if err != nil {
		return fmt.Errorf("failed to marshal envelope: %w", err)
	}

	err = ch.PublishWithContext(
		ctx,
		exchangeName,
		channel,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		})
	if err != nil {
		return fmt.Errorf("failed to publish a message: %w", err)
	}
	return nil
}
