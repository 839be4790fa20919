package syncer_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hermanjons/OrderScout-sub000/internal/fetcher"
	"github.com/hermanjons/OrderScout-sub000/internal/mocks"
	"github.com/hermanjons/OrderScout-sub000/internal/syncer"
)

func TestNewScheduler_InvalidSpec(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	_, err := syncer.NewScheduler(mocks.NewMockSyncer(ctrl), "every now and then")
	assert.Error(t, err)

	// five fields are rejected, the schedule has a seconds field
	_, err = syncer.NewScheduler(mocks.NewMockSyncer(ctrl), "*/5 * * * *")
	assert.Error(t, err)
}

func TestScheduler_RunsSyncOnSchedule(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s := mocks.NewMockSyncer(ctrl)
	ran := make(chan struct{}, 10)
	s.EXPECT().
		Run(gomock.Any(), gomock.Nil()).
		DoAndReturn(func(ctx context.Context, onProgress fetcher.ProgressFunc) (*syncer.RunOutcome, error) {
			ran <- struct{}{}
			return &syncer.RunOutcome{}, nil
		}).
		MinTimes(1)

	sch, err := syncer.NewScheduler(s, "* * * * * *")
	require.NoError(t, err)

	sch.Start(context.Background())

	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("sync did not run")
	}

	sch.Stop()
}

func TestScheduler_StopCancelsRunningSync(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s := mocks.NewMockSyncer(ctrl)
	started := make(chan struct{})
	var once sync.Once
	s.EXPECT().
		Run(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, onProgress fetcher.ProgressFunc) (*syncer.RunOutcome, error) {
			once.Do(func() { close(started) })
			<-ctx.Done()
			return nil, ctx.Err()
		}).
		MinTimes(1)

	sch, err := syncer.NewScheduler(s, "* * * * * *")
	require.NoError(t, err)
	sch.Start(context.Background())

	select {
	case <-started:
	case <-time.After(3 * time.Second):
		t.Fatal("sync did not run")
	}

	done := make(chan struct{})
	go func() {
		sch.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("stop did not return")
	}
}
