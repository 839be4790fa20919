package writer

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/hermanjons/OrderScout-sub000/internal/adapter"
	"github.com/hermanjons/OrderScout-sub000/internal/logger"
	"github.com/hermanjons/OrderScout-sub000/internal/store"
	"github.com/hermanjons/OrderScout-sub000/internal/store/schema"
)

const (
	ExitSuccess = 0
	ExitFailure = 1
)

// ServeOptions configures the writer side of the protocol
type ServeOptions struct {
	// Language selects the language of the result message
	Language string
	JSON     adapter.JSON
}

// Serve reads one request from in, persists it through st and prints exactly
// one result line to out. It returns the process exit code.
func Serve(ctx context.Context, in io.Reader, out io.Writer, st store.Store, opts ServeOptions) (code int) {
	if opts.JSON == nil {
		opts.JSON = adapter.NewJSON()
	}

	var result *Result
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic while writing orders: %v", r)
			logger.ErrorCtx(ctx, err)
			result = failure(err, opts.Language)
			code = ExitFailure
		}
		if werr := writeResult(out, opts.JSON, result); werr != nil {
			logger.ErrorCtx(ctx, fmt.Errorf("failed to write result: %w", werr))
			code = ExitFailure
		}
	}()

	data, err := save(ctx, in, st, opts.JSON)
	if err != nil {
		logger.ErrorCtx(ctx, err)
		result = failure(err, opts.Language)
		return ExitFailure
	}

	msg := msgNothingChanged
	if data.Changed {
		msg = msgSaved
	}
	result = &Result{
		Success: true,
		Message: localize(msg, opts.Language),
		Data:    data,
	}
	return ExitSuccess
}

// Reject prints a failed result without reading a request, for a writer
// that could not reach its database
func Reject(ctx context.Context, out io.Writer, err error, opts ServeOptions) int {
	if opts.JSON == nil {
		opts.JSON = adapter.NewJSON()
	}

	err = fmt.Errorf("%w: %w", ErrWriteFailed, err)
	logger.ErrorCtx(ctx, err)
	if werr := writeResult(out, opts.JSON, failure(err, opts.Language)); werr != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to write result: %w", werr))
	}
	return ExitFailure
}

func save(ctx context.Context, in io.Reader, st store.Store, json adapter.JSON) (*ResultData, error) {
	payload, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read input: %w", ErrInvalidRequest, err)
	}

	var req rawRequest
	if err := json.UnmarshalNumber(payload, &req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	snapshots, snapshotReport := store.DecodeRecords[schema.OrderSnapshot](req.Orders, store.SnapshotRenames)
	lineItems, lineItemReport := store.DecodeRecords[schema.OrderLineItem](req.LineItems, store.LineItemRenames)

	undecodable := snapshotReport.Failed + lineItemReport.Failed
	dropped := mergeDropped(snapshotReport, lineItemReport)
	if undecodable > 0 {
		logger.WarnCtx(ctx, "Skipped undecodable records", zap.Int("undecodable", undecodable))
	}
	if len(dropped) > 0 {
		logger.DebugCtx(ctx, "Dropped fields without a column", zap.Strings("dropped_fields", dropped))
	}

	saved, err := st.SaveOrderBatch(ctx, store.SaveOrderBatchInput{
		Snapshots: snapshots,
		LineItems: lineItems,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}

	return &ResultData{
		Changed:       saved.Changed,
		Snapshots:     saved.Snapshots,
		LineItems:     saved.LineItems,
		Roots:         saved.Roots,
		DroppedFields: dropped,
		Undecodable:   undecodable,
		Orders:        saved.Orders,
	}, nil
}

// mergeDropped returns the sorted union of the dropped keys of reports
func mergeDropped(reports ...store.DecodeReport) []string {
	merged := store.DecodeReport{Dropped: map[string]int{}}
	for _, r := range reports {
		for k, n := range r.Dropped {
			merged.Dropped[k] += n
		}
	}
	return merged.DroppedFields()
}

// writeResult prints result as one compact JSON line
func writeResult(out io.Writer, json adapter.JSON, result *Result) error {
	line, err := json.Marshal(result)
	if err != nil {
		return err
	}
	line = append(line, '\n')
	_, err = out.Write(line)
	return err
}
