package notify

import (
	"context"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPPublisher pushes order events onto a queue for external consumers
// (fulfilment, analytics). A channel is opened per publish, as connections
// are long-lived but channels are cheap and not goroutine-safe.
type AMQPPublisher struct {
	conn  *amqp.Connection
	queue string
}

// NewAMQPPublisher dials the broker and declares the queue. Returns (nil, nil)
// when url is empty: queue publishing is an optional channel.
func NewAMQPPublisher(url, queue string) (*AMQPPublisher, error) {
	if url == "" {
		log.Printf("[notify] order-events queue not configured, publishing disabled")
		return nil, nil
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	defer ch.Close()
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, err
	}
	return &AMQPPublisher{conn: conn, queue: queue}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, body []byte) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	return ch.PublishWithContext(ctx,
		"",      // exchange
		p.queue, // routing key (queue name)
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		})
}

func (p *AMQPPublisher) Close() error { return p.conn.Close() }
