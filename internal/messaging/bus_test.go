package messaging_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hermanjons/OrderScout-sub000/internal/domain"
	"github.com/hermanjons/OrderScout-sub000/internal/logger"
	"github.com/hermanjons/OrderScout-sub000/internal/messaging"
	"github.com/hermanjons/OrderScout-sub000/internal/mocks"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

func TestLocalBus_DeliversToEverySubscriber(t *testing.T) {
	bus := messaging.NewLocalBus()
	defer bus.Close()

	first, unsubscribeFirst := bus.Subscribe(1)
	defer unsubscribeFirst()
	second, unsubscribeSecond := bus.Subscribe(1)
	defer unsubscribeSecond()

	event := &domain.OrdersChangedEvent{ID: "evt-1", Platform: "trendyol", Snapshots: 2}
	require.NoError(t, bus.PublishOrdersChanged(context.Background(), event))

	assert.Same(t, event, <-first)
	assert.Same(t, event, <-second)
}

func TestLocalBus_DropsWhenSubscriberIsFull(t *testing.T) {
	bus := messaging.NewLocalBus()
	defer bus.Close()

	ch, unsubscribe := bus.Subscribe(1)
	defer unsubscribe()

	require.NoError(t, bus.PublishOrdersChanged(context.Background(), &domain.OrdersChangedEvent{ID: "evt-1"}))
	require.NoError(t, bus.PublishOrdersChanged(context.Background(), &domain.OrdersChangedEvent{ID: "evt-2"}))

	got := <-ch
	assert.Equal(t, "evt-1", got.ID)
	select {
	case evt := <-ch:
		t.Fatalf("unexpected event %s", evt.ID)
	default:
	}
}

func TestLocalBus_Unsubscribe(t *testing.T) {
	bus := messaging.NewLocalBus()
	defer bus.Close()

	ch, unsubscribe := bus.Subscribe(1)
	unsubscribe()
	unsubscribe()

	_, open := <-ch
	assert.False(t, open)

	require.NoError(t, bus.PublishOrdersChanged(context.Background(), &domain.OrdersChangedEvent{ID: "evt-1"}))
}

func TestLocalBus_Close(t *testing.T) {
	bus := messaging.NewLocalBus()

	ch, unsubscribe := bus.Subscribe(1)
	bus.Close()
	bus.Close()
	unsubscribe()

	_, open := <-ch
	assert.False(t, open)

	late, _ := bus.Subscribe(1)
	_, open = <-late
	assert.False(t, open)

	assert.NoError(t, bus.PublishOrdersChanged(context.Background(), &domain.OrdersChangedEvent{ID: "evt-1"}))
}

func TestFanout_PublishesToAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	failing := mocks.NewMockPublisher(ctrl)
	working := mocks.NewMockPublisher(ctrl)
	event := &domain.OrdersChangedEvent{ID: "evt-1"}

	publishErr := errors.New("nats: timeout")
	failing.EXPECT().PublishOrdersChanged(gomock.Any(), event).Return(publishErr)
	working.EXPECT().PublishOrdersChanged(gomock.Any(), event).Return(nil)

	pub := messaging.Fanout(failing, nil, working)
	err := pub.PublishOrdersChanged(context.Background(), event)
	assert.ErrorIs(t, err, publishErr)

	failing.EXPECT().Close()
	working.EXPECT().Close()
	pub.Close()
}

func TestFanout_Empty(t *testing.T) {
	pub := messaging.Fanout()
	assert.NoError(t, pub.PublishOrdersChanged(context.Background(), &domain.OrdersChangedEvent{}))
	pub.Close()
}
