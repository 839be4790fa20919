package messaging

import (
	"context"
	"errors"

	"github.com/hermanjons/OrderScout-sub000/internal/domain"
)

// Publisher defines the interface for announcing that a sync cycle persisted new order state
//
//go:generate mockgen -source=publisher.go -destination=../mocks/publisher.go -package=mocks -mock_names=Publisher=MockPublisher
type Publisher interface {
	// PublishOrdersChanged publishes an orders-changed event
	PublishOrdersChanged(ctx context.Context, event *domain.OrdersChangedEvent) error
	// Close releases the publisher's resources
	Close()
}

type fanout struct {
	publishers []Publisher
}

// Fanout returns a publisher that forwards every event to each of publishers.
// Nil publishers are skipped.
func Fanout(publishers ...Publisher) Publisher {
	f := &fanout{}
	for _, p := range publishers {
		if p != nil {
			f.publishers = append(f.publishers, p)
		}
	}
	return f
}

// PublishOrdersChanged publishes to every publisher, even when an earlier one fails
func (f *fanout) PublishOrdersChanged(ctx context.Context, event *domain.OrdersChangedEvent) error {
	var errs []error
	for _, p := range f.publishers {
		if err := p.PublishOrdersChanged(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every publisher
func (f *fanout) Close() {
	for _, p := range f.publishers {
		p.Close()
	}
}
