// Package notify performs the post-commit side effects of order placement:
// a realtime event for admin dashboards, an email summary, and an optional
// queue publish. Everything here is best effort; failures are logged and
// never reach the customer who already owns a committed order.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

type LineSummary struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
}

type OrderEvent struct {
	OrderID    string        `json:"order_id"`
	CustomerID string        `json:"customer_id"`
	Total      string        `json:"total"`
	Lines      []LineSummary `json:"lines"`
}

type Hub interface {
	Broadcast(event string, payload any)
}

type Mailer interface {
	Send(ctx context.Context, m OrderEmail) error
}

type Publisher interface {
	Publish(ctx context.Context, body []byte) error
}

// CustomerDirectory resolves a display name for the email; read after
// commit, outside any transaction.
type CustomerDirectory interface {
	DisplayName(ctx context.Context, id string) (string, error)
}

type Notifier struct {
	hub        Hub
	mailer     Mailer
	publisher  Publisher
	customers  CustomerDirectory
	adminEmail string
	timeout    time.Duration
}

func NewNotifier(hub Hub, mailer Mailer, publisher Publisher, customers CustomerDirectory, adminEmail string) *Notifier {
	return &Notifier{
		hub:        hub,
		mailer:     mailer,
		publisher:  publisher,
		customers:  customers,
		adminEmail: adminEmail,
		timeout:    10 * time.Second,
	}
}

// OrderCreated dispatches asynchronously so the HTTP response never waits on
// a mail provider or a broker.
func (n *Notifier) OrderCreated(ev OrderEvent) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()
		n.dispatch(ctx, ev)
	}()
}

func (n *Notifier) dispatch(ctx context.Context, ev OrderEvent) {
	if n.hub != nil {
		n.hub.Broadcast("new_order", map[string]any{
			"message":  fmt.Sprintf("Nueva orden %s por $%s", ev.OrderID, ev.Total),
			"order_id": ev.OrderID,
			"total":    ev.Total,
		})
	} else {
		log.Printf("[notify] realtime hub not initialized, skipping broadcast order=%s", ev.OrderID)
	}

	customerName := ev.CustomerID
	if n.customers != nil {
		if name, err := n.customers.DisplayName(ctx, ev.CustomerID); err == nil {
			customerName = name
		} else {
			log.Printf("[notify] customer lookup failed order=%s: %v", ev.OrderID, err)
		}
	}

	if n.mailer != nil {
		mail := OrderEmail{
			To:           n.adminEmail,
			OrderID:      ev.OrderID,
			CustomerName: customerName,
			Total:        ev.Total,
			Lines:        ev.Lines,
		}
		if err := n.mailer.Send(ctx, mail); err != nil {
			log.Printf("[notify] email failed order=%s: %v", ev.OrderID, err)
		}
	}

	if n.publisher != nil {
		body, err := json.Marshal(ev)
		if err != nil {
			log.Printf("[notify] marshal event order=%s: %v", ev.OrderID, err)
			return
		}
		if err := n.publisher.Publish(ctx, body); err != nil {
			log.Printf("[notify] queue publish failed order=%s: %v", ev.OrderID, err)
		}
	}
}
