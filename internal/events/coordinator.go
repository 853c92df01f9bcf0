// Package events provides the in-process topic bus that fans contacts out to sinks.
package events

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"contact-relay/internal/domain"
)

// Event is one publication. Contact is nil for feedback events, which carry
// their tuple in Attrs instead.
type Event struct {
	ID          string
	Topic       string
	Contact     *domain.Contact
	Raw         []byte
	Attrs       map[string]string
	PublishedAt time.Time
}

// Handler receives events for one subscription. It must treat the event and
// its contact as read-only.
type Handler func(ctx context.Context, evt Event) error

type subscription struct {
	id      string
	name    string
	handler Handler
}

// Coordinator is a topic-keyed publish/subscribe bus. Every handler for a
// topic runs in its own goroutine; a failing or panicking handler is logged
// and does not affect its siblings or the publisher.
type Coordinator struct {
	mu     sync.RWMutex
	topics map[string]map[string]subscription
	logger *slog.Logger
}

// New creates an empty coordinator.
func New(logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		topics: map[string]map[string]subscription{},
		logger: logger,
	}
}

// Subscribe registers handler under topic. name identifies the handler in
// logs and delivery errors. It returns the subscription id and a cancel
// function; cancel is safe to call more than once.
func (c *Coordinator) Subscribe(topic, name string, handler Handler) (string, func()) {
	topic = strings.TrimSpace(topic)
	if c == nil || topic == "" || handler == nil {
		return "", func() {}
	}

	sub := subscription{
		id:      uuid.NewString(),
		name:    name,
		handler: handler,
	}

	c.mu.Lock()
	subs, ok := c.topics[topic]
	if !ok {
		subs = map[string]subscription{}
		c.topics[topic] = subs
	}
	subs[sub.id] = sub
	c.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			subs := c.topics[topic]
			delete(subs, sub.id)
			if len(subs) == 0 {
				delete(c.topics, topic)
			}
		})
	}

	return sub.id, cancel
}

// Subscribers returns the number of handlers registered under topic.
func (c *Coordinator) Subscribers(topic string) int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.topics[topic])
}

// Publish starts every handler registered under evt.Topic and returns without
// waiting for them. The contact is frozen first. Handlers run on a context
// detached from ctx's cancellation: an in-flight fan-out is never cancelled.
// Handlers subscribed after Publish returns do not see this event.
func (c *Coordinator) Publish(ctx context.Context, evt Event) *Delivery {
	if evt.ID == "" {
		evt.ID = uuid.NewString()
	}
	if evt.PublishedAt.IsZero() {
		evt.PublishedAt = time.Now()
	}
	if evt.Contact != nil {
		evt.Contact.Freeze()
	}

	d := &Delivery{EventID: evt.ID, Topic: evt.Topic}
	if c == nil {
		return d
	}

	c.mu.RLock()
	subs := make([]subscription, 0, len(c.topics[evt.Topic]))
	for _, sub := range c.topics[evt.Topic] {
		subs = append(subs, sub)
	}
	c.mu.RUnlock()

	d.Handlers = len(subs)
	if len(subs) == 0 {
		c.logger.Debug("no subscribers for topic", "topic", evt.Topic, "event_id", evt.ID)
		return d
	}

	detached := context.WithoutCancel(ctx)
	d.wg.Add(len(subs))
	for _, sub := range subs {
		go func(sub subscription) {
			defer d.wg.Done()
			if err := c.invoke(detached, sub, evt); err != nil {
				d.record(err)
			}
		}(sub)
	}

	return d
}

// invoke runs one handler, turning an error or panic into a DeliveryError.
func (c *Coordinator) invoke(ctx context.Context, sub subscription, evt Event) (deliveryErr *domain.DeliveryError) {
	logger := c.logger.With(
		"topic", evt.Topic,
		"handler", sub.name,
		"event_id", evt.ID,
	)
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			deliveryErr = &domain.DeliveryError{
				Topic:   evt.Topic,
				Handler: sub.name,
				EventID: evt.ID,
				Err:     fmt.Errorf("handler panic: %v", r),
			}
			logger.Error("handler panicked", "panic", r, "stack", string(debug.Stack()))
		}
	}()

	if err := sub.handler(ctx, evt); err != nil {
		logger.Error("delivery failed", "error", err, "duration", time.Since(start))
		return &domain.DeliveryError{
			Topic:   evt.Topic,
			Handler: sub.name,
			EventID: evt.ID,
			Err:     err,
		}
	}

	logger.Debug("delivered", "duration", time.Since(start))
	return nil
}

// Delivery tracks the handlers started by one Publish.
type Delivery struct {
	EventID  string
	Topic    string
	Handlers int

	wg     sync.WaitGroup
	mu     sync.Mutex
	errors []*domain.DeliveryError
}

func (d *Delivery) record(err *domain.DeliveryError) {
	d.mu.Lock()
	d.errors = append(d.errors, err)
	d.mu.Unlock()
}

// Wait blocks until every handler has returned and reports the failures.
func (d *Delivery) Wait() []*domain.DeliveryError {
	d.wg.Wait()
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]*domain.DeliveryError, len(d.errors))
	copy(out, d.errors)
	return out
}

// WaitContext is Wait bounded by ctx. It returns ctx.Err() if ctx ends first;
// the handlers keep running either way.
func (d *Delivery) WaitContext(ctx context.Context) ([]*domain.DeliveryError, error) {
	done := make(chan []*domain.DeliveryError, 1)
	go func() {
		done <- d.Wait()
	}()
	select {
	case errs := <-done:
		return errs, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
