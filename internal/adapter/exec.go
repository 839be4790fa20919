package adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"

	"go.uber.org/zap"

	"github.com/hermanjons/OrderScout-sub000/internal/logger"
)

// ErrCommandStart is returned when the subprocess could not be started at all
var ErrCommandStart = errors.New("command failed to start")

// CommandResult holds everything a finished subprocess produced
type CommandResult struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// CommandRunner defines an interface for running a subprocess fed through stdin
//
//go:generate mockgen -source=exec.go -destination=../mocks/exec.go -package=mocks -mock_names=CommandRunner=MockCommandRunner
type CommandRunner interface {
	// Run starts name with args, writes stdin to it, closes its input and waits for it to exit.
	// A non-zero exit is reported in the result, not as an error.
	Run(ctx context.Context, name string, args []string, stdin []byte) (*CommandResult, error)
}

// RealCommandRunner implements CommandRunner using os/exec
type RealCommandRunner struct{}

// NewCommandRunner creates a new real command runner
func NewCommandRunner() CommandRunner {
	return &RealCommandRunner{}
}

func (r *RealCommandRunner) Run(ctx context.Context, name string, args []string, stdin []byte) (*CommandResult, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec,G204

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	in, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCommandStart, err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCommandStart, err)
	}

	writeErr := make(chan error, 1)
	go func() {
		_, err := in.Write(stdin)
		if cerr := in.Close(); err == nil {
			err = cerr
		}
		writeErr <- err
	}()

	waitErr := cmd.Wait()
	if err := <-writeErr; err != nil {
		// the child may exit without draining its input
		logger.Warn("failed to write subprocess input", zap.String("command", name), zap.Error(err))
	}

	result := &CommandResult{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		ExitCode: cmd.ProcessState.ExitCode(),
	}

	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) && ctx.Err() == nil {
			return result, nil
		}
		return result, fmt.Errorf("command wait failed: %w", waitErr)
	}

	return result, nil
}
