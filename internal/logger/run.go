package logger

import (
	"context"

	"go.uber.org/zap"
)

type runKey struct{}

// RunInfo identifies one sync cycle or API request so every log line of it can be correlated
type RunInfo struct {
	RunID     string
	RequestID string
	Platform  string
	AccountID int64
}

// WithRun returns a copy of ctx carrying run info
func WithRun(ctx context.Context, info RunInfo) context.Context {
	return context.WithValue(ctx, runKey{}, info)
}

// WithAccount narrows the run info in ctx to a single account
func WithAccount(ctx context.Context, accountID int64) context.Context {
	info, _ := RunFromContext(ctx)
	info.AccountID = accountID
	return WithRun(ctx, info)
}

// RunFromContext extracts run info previously attached with WithRun
func RunFromContext(ctx context.Context) (RunInfo, bool) {
	info, ok := ctx.Value(runKey{}).(RunInfo)
	return info, ok
}

func (r RunInfo) fields() []zap.Field {
	fields := make([]zap.Field, 0, 4)
	if r.RunID != "" {
		fields = append(fields, zap.String("run_id", r.RunID))
	}
	if r.RequestID != "" {
		fields = append(fields, zap.String("request_id", r.RequestID))
	}
	if r.Platform != "" {
		fields = append(fields, zap.String("platform", r.Platform))
	}
	if r.AccountID != 0 {
		fields = append(fields, zap.Int64("account_id", r.AccountID))
	}
	return fields
}
