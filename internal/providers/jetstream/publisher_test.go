package jetstream_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	natsjs "github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hermanjons/OrderScout-sub000/internal/adapter"
	"github.com/hermanjons/OrderScout-sub000/internal/domain"
	"github.com/hermanjons/OrderScout-sub000/internal/logger"
	"github.com/hermanjons/OrderScout-sub000/internal/mocks"
	"github.com/hermanjons/OrderScout-sub000/internal/providers/jetstream"
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

type testPublisherMocks struct {
	ctrl   *gomock.Controller
	natsJS *mocks.MockNatsJetStream
	conn   *mocks.MockNatsConn
	js     *mocks.MockJetStream
}

func setupTestPublisher(t *testing.T) *testPublisherMocks {
	ctrl := gomock.NewController(t)
	return &testPublisherMocks{
		ctrl:   ctrl,
		natsJS: mocks.NewMockNatsJetStream(ctrl),
		conn:   mocks.NewMockNatsConn(ctrl),
		js:     mocks.NewMockJetStream(ctrl),
	}
}

func testConfig() jetstream.Config {
	return jetstream.Config{
		URL:            "nats://localhost:4222",
		StreamName:     "ORDER_EVENTS",
		SubjectPrefix:  "orders.changed",
		MaxReconnects:  3,
		ReconnectWait:  time.Second,
		ConnectionName: "order-sync",
	}
}

func TestNewPublisher_CreatesStream(t *testing.T) {
	tm := setupTestPublisher(t)
	defer tm.ctrl.Finish()

	tm.natsJS.EXPECT().Connect("nats://localhost:4222", gomock.Any()).Return(tm.conn, tm.js, nil)
	tm.conn.EXPECT().ConnectedUrl().Return("nats://localhost:4222").AnyTimes()
	tm.js.EXPECT().
		CreateOrUpdateStream(gomock.Any(), natsjs.StreamConfig{Name: "ORDER_EVENTS", Subjects: []string{"orders.changed.>"}}).
		Return(nil)

	pub, err := jetstream.NewPublisher(context.Background(), testConfig(), tm.natsJS, adapter.NewJSON())
	require.NoError(t, err)
	require.NotNil(t, pub)

	tm.conn.EXPECT().Close()
	pub.Close()
}

func TestNewPublisher_ConnectFailure(t *testing.T) {
	tm := setupTestPublisher(t)
	defer tm.ctrl.Finish()

	tm.natsJS.EXPECT().Connect(gomock.Any(), gomock.Any()).Return(nil, nil, errors.New("no servers available"))

	_, err := jetstream.NewPublisher(context.Background(), testConfig(), tm.natsJS, adapter.NewJSON())
	assert.Error(t, err)
}

func TestNewPublisher_StreamFailureClosesConnection(t *testing.T) {
	tm := setupTestPublisher(t)
	defer tm.ctrl.Finish()

	tm.natsJS.EXPECT().Connect(gomock.Any(), gomock.Any()).Return(tm.conn, tm.js, nil)
	tm.js.EXPECT().CreateOrUpdateStream(gomock.Any(), gomock.Any()).Return(errors.New("insufficient resources"))
	tm.conn.EXPECT().Close()

	_, err := jetstream.NewPublisher(context.Background(), testConfig(), tm.natsJS, adapter.NewJSON())
	assert.Error(t, err)
}

func TestPublisher_PublishOrdersChanged(t *testing.T) {
	tm := setupTestPublisher(t)
	defer tm.ctrl.Finish()

	cfg := testConfig()
	cfg.StreamName = ""

	tm.natsJS.EXPECT().Connect(gomock.Any(), gomock.Any()).Return(tm.conn, tm.js, nil)
	tm.conn.EXPECT().ConnectedUrl().Return("nats://localhost:4222").AnyTimes()

	pub, err := jetstream.NewPublisher(context.Background(), cfg, tm.natsJS, adapter.NewJSON())
	require.NoError(t, err)

	event := &domain.OrdersChangedEvent{
		ID:        "01HZX3V0000000000000000000",
		RunID:     "01HZX3T0000000000000000000",
		Platform:  "Trendyol",
		Snapshots: 3,
		Orders:    []domain.OrderKey{{OrderNumber: "A", AccountID: 1}},
	}

	tm.js.EXPECT().
		Publish(gomock.Any(), "orders.changed.trendyol", gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, subject string, data []byte, opts ...natsjs.PublishOpt) (*natsjs.PubAck, error) {
			var decoded domain.OrdersChangedEvent
			require.NoError(t, json.Unmarshal(data, &decoded))
			assert.Equal(t, event.ID, decoded.ID)
			assert.Equal(t, int64(3), decoded.Snapshots)
			assert.Len(t, opts, 1)
			return &natsjs.PubAck{Stream: "ORDER_EVENTS", Sequence: 1}, nil
		})

	require.NoError(t, pub.PublishOrdersChanged(context.Background(), event))

	tm.js.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("nats: timeout"))
	assert.Error(t, pub.PublishOrdersChanged(context.Background(), event))
}
