package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

type fakeChannel struct {
	declared  string
	kind      string
	published []amqp.Publishing
	keys      []string
	failWith  error
	closed    bool
}

func (f *fakeChannel) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	f.declared, f.kind = name, kind
	return nil
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.keys = append(f.keys, key)
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestAMQPPublisher_Publish(t *testing.T) {
	ch := &fakeChannel{}
	p, err := NewAMQPPublisher(ch)
	if err != nil {
		t.Fatal(err)
	}
	if ch.declared != Exchange || ch.kind != "topic" {
		t.Fatalf("declared %q kind %q", ch.declared, ch.kind)
	}
	fixed := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return fixed }

	if err := p.Publish(context.Background(), "order.created", map[string]string{"noOrder": "ORD-05032024-0001"}); err != nil {
		t.Fatal(err)
	}
	if len(ch.published) != 1 || ch.keys[0] != "order.created" {
		t.Fatalf("published=%v keys=%v", ch.published, ch.keys)
	}
	msg := ch.published[0]
	if msg.DeliveryMode != amqp.Persistent || msg.ContentType != "application/json" || !msg.Timestamp.Equal(fixed) {
		t.Fatalf("unexpected message: %+v", msg)
	}
	var body map[string]string
	if err := json.Unmarshal(msg.Body, &body); err != nil || body["noOrder"] != "ORD-05032024-0001" {
		t.Fatalf("body=%s err=%v", msg.Body, err)
	}

	if err := p.Close(); err != nil || !ch.closed {
		t.Fatalf("close: %v", err)
	}
}

func TestAMQPPublisher_PublishError(t *testing.T) {
	boom := errors.New("channel closed")
	p, _ := NewAMQPPublisher(&fakeChannel{failWith: boom})
	if err := p.Publish(context.Background(), "order.status_changed", 1); !errors.Is(err, boom) {
		t.Fatalf("err=%v", err)
	}
}
