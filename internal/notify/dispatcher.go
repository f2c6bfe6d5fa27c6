// Package notify fires the side effects of order lifecycle edges: a
// user-scoped realtime push and an email when an order becomes ready, plus a
// staff broadcast on creation. All of it runs detached from the request that
// triggered it; failures are logged and recorded, never surfaced or retried.
package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/RishithaRamesh/wolfcafeplus/internal/domain"
	"github.com/RishithaRamesh/wolfcafeplus/pkg/contracts"
	"github.com/RishithaRamesh/wolfcafeplus/pkg/logging"
	"github.com/RishithaRamesh/wolfcafeplus/pkg/metrics"
)

type Emitter interface {
	Emit(scope string, event contracts.Event) error
}

type Mailer interface {
	Send(to, subject, body string) error
}

type Recorder interface {
	Record(ctx context.Context, rec Record) error
}

type Publisher interface {
	Publish(ctx context.Context, key string, event contracts.Event) error
}

type Dispatcher struct {
	emitter Emitter
	mailer  Mailer  // nil when no relay is configured; email is then skipped
	rec     Recorder
	stream  Publisher // nil when kafka is disabled
	metrics *metrics.ServerMetrics
	timeout time.Duration

	wg sync.WaitGroup
}

func NewDispatcher(emitter Emitter, mailer Mailer, rec Recorder, stream Publisher, m *metrics.ServerMetrics) *Dispatcher {
	return &Dispatcher{
		emitter: emitter,
		mailer:  mailer,
		rec:     rec,
		stream:  stream,
		metrics: m,
		timeout: 15 * time.Second,
	}
}

// OrderCreated broadcasts a new_order event to staff dashboards.
func (d *Dispatcher) OrderCreated(ord domain.Order) {
	d.detach(func(ctx context.Context) {
		evt := newEvent(contracts.EventNewOrder, ord)
		evt.Payload = map[string]any{"status": string(ord.Status), "total": ord.Total.StringFixed(2)}
		if err := d.emitter.Emit(contracts.ScopeStaff, evt); err != nil {
			d.observe(ctx, evt, "realtime", "", StatusFailed, err.Error())
		} else {
			d.observe(ctx, evt, "realtime", "", StatusSent, "")
		}
		d.publish(ctx, ord.ID, evt)
	})
}

// OrderStatusChanged publishes transitions other than the ready edge to the
// stream; they carry no push or mail.
func (d *Dispatcher) OrderStatusChanged(ord domain.Order) {
	if d.stream == nil {
		return
	}
	d.detach(func(ctx context.Context) {
		evt := newEvent(contracts.EventOrderStatusChanged, ord)
		evt.Payload = map[string]any{"status": string(ord.Status)}
		d.publish(ctx, ord.ID, evt)
	})
}

// MenuItemArchived publishes an archive and the size of its cart cascade to
// the stream.
func (d *Dispatcher) MenuItemArchived(item domain.MenuItem, carts int64) {
	if d.stream == nil {
		return
	}
	d.detach(func(ctx context.Context) {
		evt := contracts.Event{
			EventID:   uuid.NewString(),
			Type:      contracts.EventMenuItemArchived,
			CreatedAt: time.Now().UTC(),
			Payload:   map[string]any{"menu_item_id": item.ID, "name": item.Name, "carts": carts},
		}
		d.publish(ctx, item.ID, evt)
	})
}

// OrderReady fires both channels for the pending→…→ready edge. The caller
// guarantees the edge is crossed at most once; this side only guarantees the
// channels cannot block or fail each other.
func (d *Dispatcher) OrderReady(ord domain.Order) {
	d.detach(func(ctx context.Context) {
		evt := newEvent(contracts.EventOrderReady, ord)
		evt.Payload = map[string]any{"order_id": ord.ID, "message": "Your order is ready for pickup!"}

		if err := d.emitter.Emit(contracts.UserScope(ord.UserID), evt); err != nil {
			d.observe(ctx, evt, "realtime", ord.UserID, StatusFailed, err.Error())
		} else {
			d.observe(ctx, evt, "realtime", ord.UserID, StatusSent, "")
		}

		switch {
		case ord.UserEmail == "":
			d.observe(ctx, evt, "email", "", StatusSkipped, "no email on file")
		case d.mailer == nil:
			d.observe(ctx, evt, "email", ord.UserEmail, StatusSkipped, "mail disabled")
		default:
			subject := "Your WolfCafe+ Order is Ready for Pickup"
			body := readyMailBody(ord)
			if err := d.mailer.Send(ord.UserEmail, subject, body); err != nil {
				d.observe(ctx, evt, "email", ord.UserEmail, StatusFailed, err.Error())
			} else {
				d.observe(ctx, evt, "email", ord.UserEmail, StatusSent, "")
			}
		}

		d.publish(ctx, ord.ID, evt)
	})
}

// Wait blocks until every in-flight dispatch finishes; used on shutdown and
// in tests.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// detach runs fn on its own goroutine with a fresh context, so cancelling
// the HTTP request that committed the transition cannot cancel the
// notification attempt.
func (d *Dispatcher) detach(fn func(context.Context)) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		fn(ctx)
	}()
}

func (d *Dispatcher) publish(ctx context.Context, key string, evt contracts.Event) {
	if d.stream == nil {
		return
	}
	if err := d.stream.Publish(ctx, key, evt); err != nil {
		logging.Log(logging.Fields{Service: "notify", OrderID: evt.OrderID, EventID: evt.EventID, Channel: "stream", Status: StatusFailed, Error: err.Error()})
	}
}

func (d *Dispatcher) observe(ctx context.Context, evt contracts.Event, channel, recipient, status, detail string) {
	logging.Log(logging.Fields{
		Service: "notify",
		OrderID: evt.OrderID,
		EventID: evt.EventID,
		Channel: channel,
		Status:  status,
		Error:   detail,
	})
	if d.metrics != nil {
		d.metrics.Notifications.WithLabelValues(channel, status).Inc()
	}
	if d.rec == nil {
		return
	}
	err := d.rec.Record(ctx, Record{
		EventID:   evt.EventID,
		OrderID:   evt.OrderID,
		Channel:   channel,
		Recipient: recipient,
		Status:    status,
		Detail:    detail,
	})
	if err != nil {
		logging.Log(logging.Fields{Service: "notify", OrderID: evt.OrderID, EventID: evt.EventID, Channel: channel, Status: "log_write_failed", Error: err.Error()})
	}
}

func newEvent(typ string, ord domain.Order) contracts.Event {
	return contracts.Event{
		EventID:   uuid.NewString(),
		Type:      typ,
		OrderID:   ord.ID,
		UserID:    ord.UserID,
		CreatedAt: time.Now().UTC(),
	}
}

func readyMailBody(ord domain.Order) string {
	name := ord.UserName
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf("Hi %s,\n\nYour order #%s is ready for pickup!\n\nSee you soon at WolfCafe+.\n\n- The WolfCafe+ Team", name, ord.ID)
}
