package writer_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hermanjons/OrderScout-sub000/internal/adapter"
	"github.com/hermanjons/OrderScout-sub000/internal/domain"
	"github.com/hermanjons/OrderScout-sub000/internal/logger"
	"github.com/hermanjons/OrderScout-sub000/internal/mocks"
	"github.com/hermanjons/OrderScout-sub000/internal/writer"
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

type testDelegate struct {
	ctrl     *gomock.Controller
	runner   *mocks.MockCommandRunner
	delegate writer.Delegate
}

func setupTestDelegate(t *testing.T, cfg writer.ProcessConfig) *testDelegate {
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockCommandRunner(ctrl)
	if cfg.Command == "" {
		cfg.Command = "order-writer"
	}
	return &testDelegate{
		ctrl:     ctrl,
		runner:   runner,
		delegate: writer.NewProcessDelegate(runner, adapter.NewJSON(), cfg),
	}
}

func buildTestRequest() *writer.Request {
	return &writer.Request{
		Orders: []domain.Order{
			{PackageID: 1, OrderNumber: "A", AccountID: 7, Status: domain.OrderStatusCreated, LastModifiedDate: 100},
		},
		LineItems: []domain.LineItem{
			{OrderNumber: "A", AccountID: 7, PackageID: 1, OrderLine: domain.OrderLine{LineID: 11, Quantity: 1}},
		},
	}
}

func TestProcessDelegate_Write_Success(t *testing.T) {
	td := setupTestDelegate(t, writer.ProcessConfig{Args: []string{"--config", "writer.yaml"}})

	td.runner.EXPECT().
		Run(gomock.Any(), "order-writer", []string{"--config", "writer.yaml"}, gomock.Any()).
		DoAndReturn(func(ctx context.Context, name string, args []string, stdin []byte) (*adapter.CommandResult, error) {
			var req map[string][]map[string]any
			require.NoError(t, json.Unmarshal(stdin, &req))
			require.Len(t, req["order_data_list"], 1)
			require.Len(t, req["order_item_list"], 1)
			assert.Equal(t, "A", req["order_data_list"][0]["orderNumber"])
			assert.EqualValues(t, 11, req["order_item_list"][0]["id"])

			stdout := "migrating schema\n" +
				`{"success":true,"message":"Orders saved.","data":{"changed":true,"snapshots":{"written":1,"skipped":0,"failed":0}}}` + "\n"
			return &adapter.CommandResult{Stdout: []byte(stdout)}, nil
		})

	result, err := td.delegate.Write(context.Background(), buildTestRequest())
	require.NoError(t, err)
	assert.True(t, result.Success)
	require.NotNil(t, result.Data)
	assert.True(t, result.Data.Changed)
	assert.Equal(t, int64(1), result.Data.Snapshots.Written)
}

func TestProcessDelegate_Write_Failures(t *testing.T) {
	tests := []struct {
		name        string
		result      *adapter.CommandResult
		runErr      error
		expectError error
		message     string
	}{
		{
			name:        "process does not start",
			runErr:      fmt.Errorf("%w: exec: \"order-writer\": executable file not found", adapter.ErrCommandStart),
			expectError: writer.ErrStartFailed,
			message:     "The order writer could not be started.",
		},
		{
			name:        "no output",
			result:      &adapter.CommandResult{Stdout: []byte("\n\n"), Stderr: []byte("killed"), ExitCode: 137},
			expectError: writer.ErrNoOutput,
			message:     "The order writer stopped without reporting a result.",
		},
		{
			name:        "malformed output",
			result:      &adapter.CommandResult{Stdout: []byte("panic: nil map\n"), ExitCode: 2},
			expectError: writer.ErrMalformedOutput,
			message:     "The order writer returned an unreadable result.",
		},
		{
			name:        "wait failure",
			result:      &adapter.CommandResult{ExitCode: -1},
			runErr:      errors.New("command wait failed: signal: killed"),
			expectError: writer.ErrNoOutput,
			message:     "The order writer stopped without reporting a result.",
		},
		{
			name:        "reported failure keeps its message",
			result:      &adapter.CommandResult{Stdout: []byte(`{"success":false,"message":"Orders could not be saved to the database.","data":{"changed":false}}`), ExitCode: 1},
			expectError: writer.ErrWriteFailed,
			message:     "Orders could not be saved to the database.",
		},
		{
			name:        "reported failure without message",
			result:      &adapter.CommandResult{Stdout: []byte(`{"success":false}`), ExitCode: 1},
			expectError: writer.ErrWriteFailed,
			message:     "Orders could not be saved to the database.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			td := setupTestDelegate(t, writer.ProcessConfig{Language: "en"})
			td.runner.EXPECT().Run(gomock.Any(), "order-writer", gomock.Any(), gomock.Any()).Return(tt.result, tt.runErr)

			result, err := td.delegate.Write(context.Background(), buildTestRequest())
			assert.ErrorIs(t, err, tt.expectError)
			require.NotNil(t, result)
			assert.False(t, result.Success)
			assert.Nil(t, result.Data)
			assert.Equal(t, tt.message, result.Message)
		})
	}
}

func TestProcessDelegate_Write_Timeout(t *testing.T) {
	td := setupTestDelegate(t, writer.ProcessConfig{Timeout: 20 * time.Millisecond, Language: "tr"})

	td.runner.EXPECT().
		Run(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, name string, args []string, stdin []byte) (*adapter.CommandResult, error) {
			<-ctx.Done()
			return &adapter.CommandResult{ExitCode: -1}, errors.New("command wait failed: signal: killed")
		})

	result, err := td.delegate.Write(context.Background(), buildTestRequest())
	assert.ErrorIs(t, err, writer.ErrNoOutput)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	require.NotNil(t, result)
	assert.False(t, result.Success)
	assert.Equal(t, "Siparişlerin kaydedilmesi çok uzun sürdü ve durduruldu.", result.Message)
}

func TestProcessDelegate_Write_EncodeFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockCommandRunner(ctrl)
	jsonAdapter := mocks.NewMockJSON(ctrl)
	jsonAdapter.EXPECT().Marshal(gomock.Any()).Return(nil, errors.New("unsupported value"))

	delegate := writer.NewProcessDelegate(runner, jsonAdapter, writer.ProcessConfig{Command: "order-writer"})

	result, err := delegate.Write(context.Background(), buildTestRequest())
	assert.Error(t, err)
	require.NotNil(t, result)
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Message)
}
