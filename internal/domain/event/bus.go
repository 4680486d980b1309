package event

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/sirupsen/logrus"
)

// Bus dispatches events synchronously in subscription order. A failing or
// panicking handler is logged and does not stop the others.
type Bus struct {
	mu       sync.RWMutex
	handlers map[Type][]Handler
	all      []Handler
	log      logrus.FieldLogger
}

func NewBus(log logrus.FieldLogger) *Bus {
	return &Bus{
		handlers: make(map[Type][]Handler),
		log:      log,
	}
}

func (b *Bus) Subscribe(t Type, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[t] = append(b.handlers[t], h)
}

// SubscribeAll registers h for every event type.
func (b *Bus) SubscribeAll(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.all = append(b.all, h)
}

func (b *Bus) Publish(ctx context.Context, e Event) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.handlers[e.Type])+len(b.all))
	handlers = append(handlers, b.handlers[e.Type]...)
	handlers = append(handlers, b.all...)
	b.mu.RUnlock()

	for _, h := range handlers {
		if err := b.dispatch(ctx, h, e); err != nil {
			b.log.WithFields(logrus.Fields{
				"event":     e.Type,
				"entity":    e.EntityKind,
				"entity_id": e.EntityID,
			}).WithError(err).Error("event handler failed")
		}
	}
}

func (b *Bus) dispatch(ctx context.Context, h Handler, e Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v\n%s", r, debug.Stack())
		}
	}()
	return h(ctx, e)
}
