package messaging

import (
	"github.com/hermanjons/OrderScout-sub000/internal/domain"
)

// Subscriber defines the interface for receiving orders-changed events in process
//
//go:generate mockgen -source=subscriber.go -destination=../mocks/subscriber.go -package=mocks -mock_names=Subscriber=MockSubscriber
type Subscriber interface {
	// Subscribe returns a channel of events buffered to buffer and a function that ends the subscription.
	// Events are dropped for a subscriber whose buffer is full.
	Subscribe(buffer int) (<-chan *domain.OrdersChangedEvent, func())
}
