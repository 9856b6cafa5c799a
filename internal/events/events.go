// Package events publishes order events to RabbitMQ.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const Exchange = "orders_topic"

// Channel is the part of *amqp.Channel the publisher uses.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher sends persistent JSON messages to the orders topic exchange.
type AMQPPublisher struct {
	mu   sync.Mutex
	conn *amqp.Connection
	ch   Channel
	now  func() time.Time
}

// Dial connects to the broker and declares the exchange.
func Dial(url string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	p, err := NewAMQPPublisher(ch)
	if err != nil {
		conn.Close()
		return nil, err
	}
	p.conn = conn
	log.Printf("[events] connected, exchange=%s", Exchange)
	return p, nil
}

// NewAMQPPublisher wraps an open channel.
func NewAMQPPublisher(ch Channel) (*AMQPPublisher, error) {
	if err := ch.ExchangeDeclare(Exchange, "topic", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &AMQPPublisher{ch: ch, now: time.Now}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, routingKey string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", routingKey, err)
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// amqp channels are not safe for concurrent publishes
	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.ch.PublishWithContext(ctx, Exchange, routingKey, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Body:         body,
		Timestamp:    p.now(),
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}
	return nil
}

func (p *AMQPPublisher) Close() error {
	err := p.ch.Close()
	if p.conn != nil {
		if cerr := p.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// Nop drops every event. Used when AMQP_URL is empty.
type Nop struct{}

func (Nop) Publish(context.Context, string, any) error { return nil }

func (Nop) Close() error { return nil }
