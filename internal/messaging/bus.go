package messaging

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/hermanjons/OrderScout-sub000/internal/domain"
	"github.com/hermanjons/OrderScout-sub000/internal/logger"
)

// LocalBus delivers events to subscribers of the same process
type LocalBus struct {
	mu     sync.RWMutex
	subs   map[uint64]chan *domain.OrdersChangedEvent
	nextID uint64
	closed bool
}

// NewLocalBus creates an in-process event bus
func NewLocalBus() *LocalBus {
	return &LocalBus{
		subs: make(map[uint64]chan *domain.OrdersChangedEvent),
	}
}

// Subscribe registers a subscriber. The channel is closed on unsubscribe or when the bus is closed.
func (b *LocalBus) Subscribe(buffer int) (<-chan *domain.OrdersChangedEvent, func()) {
	if buffer < 0 {
		buffer = 0
	}
	ch := make(chan *domain.OrdersChangedEvent, buffer)

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		close(ch)
		return ch, func() {}
	}

	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if sub, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(sub)
			}
		})
	}
}

// PublishOrdersChanged hands event to every subscriber without blocking
func (b *LocalBus) PublishOrdersChanged(ctx context.Context, event *domain.OrdersChangedEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil
	}

	for id, ch := range b.subs {
		select {
		case ch <- event:
		default:
			logger.WarnCtx(ctx, "Subscriber is not keeping up, event dropped",
				zap.Uint64("subscriber", id),
				zap.String("event_id", event.ID))
		}
	}
	return nil
}

// Close ends every subscription
func (b *LocalBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
