package writer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hermanjons/OrderScout-sub000/internal/adapter"
	"github.com/hermanjons/OrderScout-sub000/internal/logger"
)

const (
	DefaultTimeout = 5 * time.Minute

	// maxLoggedStderr bounds how much of the writer's stderr is attached to a failure log
	maxLoggedStderr = 2048
)

// Delegate defines the interface for persisting a batch outside the calling process
//
//go:generate mockgen -source=delegate.go -destination=../mocks/writer.go -package=mocks -mock_names=Delegate=MockWriteDelegate
type Delegate interface {
	// Write persists req. On failure the returned result is still non-nil and
	// carries a user-facing message; the error holds the detail.
	Write(ctx context.Context, req *Request) (*Result, error)
}

// ProcessConfig describes the writer process
type ProcessConfig struct {
	Command  string
	Args     []string
	Timeout  time.Duration
	Language string
}

type processDelegate struct {
	runner adapter.CommandRunner
	json   adapter.JSON
	cfg    ProcessConfig
}

// NewProcessDelegate creates a delegate that runs one writer process per call
func NewProcessDelegate(runner adapter.CommandRunner, json adapter.JSON, cfg ProcessConfig) Delegate {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &processDelegate{
		runner: runner,
		json:   json,
		cfg:    cfg,
	}
}

// Write sends req on the writer's stdin and reads the result from the last line of its stdout
func (d *processDelegate) Write(ctx context.Context, req *Request) (*Result, error) {
	payload, err := d.json.Marshal(req)
	if err != nil {
		return d.fail(ctx, fmt.Errorf("failed to encode write request: %w", err), nil)
	}

	runCtx, cancel := context.WithTimeout(ctx, d.cfg.Timeout)
	defer cancel()

	start := time.Now()
	out, err := d.runner.Run(runCtx, d.cfg.Command, d.cfg.Args, payload)
	if err != nil {
		switch {
		case errors.Is(err, adapter.ErrCommandStart):
			return d.fail(ctx, fmt.Errorf("%w: %w", ErrStartFailed, err), out)
		case runCtx.Err() != nil:
			return d.fail(ctx, fmt.Errorf("%w: %w", ErrNoOutput, runCtx.Err()), out)
		default:
			return d.fail(ctx, fmt.Errorf("%w: %w", ErrNoOutput, err), out)
		}
	}

	result, err := ParseResult(out.Stdout)
	if err != nil {
		return d.fail(ctx, err, out)
	}

	if !result.Success {
		err := fmt.Errorf("%w: %s", ErrWriteFailed, result.Message)
		logger.ErrorCtx(ctx, err,
			zap.Int("exit_code", out.ExitCode),
			zap.String("stderr", tail(out.Stderr, maxLoggedStderr)))
		if result.Message == "" {
			result.Message = UserMessage(err, d.cfg.Language)
		}
		result.Data = nil
		return result, err
	}

	logger.InfoCtx(ctx, "Order writer finished",
		zap.Int("orders", len(req.Orders)),
		zap.Int("line_items", len(req.LineItems)),
		zap.Duration("duration", time.Since(start)))

	return result, nil
}

func (d *processDelegate) fail(ctx context.Context, err error, out *adapter.CommandResult) (*Result, error) {
	fields := []zap.Field{zap.String("command", d.cfg.Command)}
	if out != nil {
		fields = append(fields,
			zap.Int("exit_code", out.ExitCode),
			zap.String("stderr", tail(out.Stderr, maxLoggedStderr)))
	}
	logger.ErrorCtx(ctx, err, fields...)

	return failure(err, d.cfg.Language), err
}

func tail(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return "..." + string(b[len(b)-n:])
}
